package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"smarticket-api/model"

	"github.com/google/uuid"
)

var NoRecordFound = errors.New("no record found")

type UserRepository interface {
	Create(user *model.User) error
	FindByEmail(email string) (*model.User, bool, error)
	FindByID(userID string) (*model.User, bool, error)
	AddClaim(userID, claimType, claimValue string) error
	Claims(userID string) ([]model.Claim, error)
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

type userRepository struct {
	db *sql.DB
}

// Create inserts the user. The unique index on email rejects duplicates.
func (r *userRepository) Create(user *model.User) error {
	if user.UserID == "" {
		user.UserID = uuid.NewString()
	}
	now := time.Now()
	user.CreatedDate = &now

	stmt, err := r.db.Prepare(`INSERT INTO Users (user_id, email, password_hash, wallet_address, created_date) VALUES (?, ?, ?, ?, ?);`)
	if err != nil {
		return fmt.Errorf("create: unable to prepare query: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(user.UserID, user.Email, user.PasswordHash, user.WalletAddress, user.CreatedDate)
	if err != nil {
		return fmt.Errorf("create: unable to insert user: %w", err)
	}

	return nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, bool, error) {
	return r.findOne(`SELECT user_id, email, password_hash, wallet_address, created_date FROM Users WHERE email = ?`, email)
}

func (r *userRepository) FindByID(userID string) (*model.User, bool, error) {
	return r.findOne(`SELECT user_id, email, password_hash, wallet_address, created_date FROM Users WHERE user_id = ?`, userID)
}

func (r *userRepository) findOne(query string, arg interface{}) (*model.User, bool, error) {
	stmt, err := r.db.Prepare(query)
	if err != nil {
		return nil, false, fmt.Errorf("findOne: unable to prepare query: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query(arg)
	if err != nil {
		return nil, false, fmt.Errorf("findOne: unable to execute query: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, false, nil
	}

	var u model.User
	err = rows.Scan(&u.UserID, &u.Email, &u.PasswordHash, &u.WalletAddress, &u.CreatedDate)
	if err != nil {
		return nil, false, fmt.Errorf("findOne: error while scanning row: %w", err)
	}

	claims, err := r.Claims(u.UserID)
	if err != nil {
		return nil, false, fmt.Errorf("findOne: error loading claims: %w", err)
	}
	u.Claims = claims

	return &u, true, nil
}

// AddClaim appends a claim. Claims are never removed in this system.
func (r *userRepository) AddClaim(userID, claimType, claimValue string) error {
	stmt, err := r.db.Prepare(`INSERT INTO User_Claims (user_id, claim_type, claim_value) VALUES (?, ?, ?);`)
	if err != nil {
		return fmt.Errorf("addClaim: unable to prepare query: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(userID, claimType, claimValue)
	if err != nil {
		return fmt.Errorf("addClaim: unable to insert claim: %w", err)
	}

	return nil
}

func (r *userRepository) Claims(userID string) ([]model.Claim, error) {
	stmt, err := r.db.Prepare(`SELECT claim_type, claim_value FROM User_Claims WHERE user_id = ?`)
	if err != nil {
		return nil, fmt.Errorf("claims: unable to prepare query: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query(userID)
	if err != nil {
		return nil, fmt.Errorf("claims: unable to execute query: %w", err)
	}
	defer rows.Close()

	var claims []model.Claim
	for rows.Next() {
		var c model.Claim
		err = rows.Scan(&c.Type, &c.Value)
		if err != nil {
			return nil, fmt.Errorf("claims: error while scanning row: %w", err)
		}
		claims = append(claims, c)
	}

	return claims, rows.Err()
}
