package repository

import (
	"database/sql"
	"fmt"
	"time"

	"smarticket-api/model"

	"github.com/google/uuid"
)

const saleColumns = "sale_id, creation_date, user_id, event_id, token"

type SaleRepository interface {
	Create(sale *model.Sale) error
	GetAll() ([]model.Sale, error)
	GetByID(saleID string) (*model.Sale, bool, error)
	GetByEvent(eventID string) ([]model.Sale, error)
}

func NewSaleRepository(db *sql.DB) SaleRepository {
	return &saleRepository{db: db}
}

type saleRepository struct {
	db *sql.DB
}

func (r *saleRepository) Create(sale *model.Sale) error {
	if sale.SaleID == "" {
		sale.SaleID = uuid.NewString()
	}
	if sale.CreationDate == nil {
		now := time.Now()
		sale.CreationDate = &now
	}

	stmt, err := r.db.Prepare(fmt.Sprintf(`INSERT INTO Sales (%s) VALUES (?, ?, ?, ?, ?);`, saleColumns))
	if err != nil {
		return fmt.Errorf("create: unable to prepare query: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(sale.SaleID, sale.CreationDate, sale.UserID, sale.EventID, sale.Token)
	if err != nil {
		return fmt.Errorf("create: unable to insert sale: %w", err)
	}

	return nil
}

func (r *saleRepository) GetAll() ([]model.Sale, error) {
	return r.list(fmt.Sprintf(`SELECT %s FROM Sales`, saleColumns))
}

func (r *saleRepository) GetByEvent(eventID string) ([]model.Sale, error) {
	return r.list(fmt.Sprintf(`SELECT %s FROM Sales WHERE event_id = ?`, saleColumns), eventID)
}

func (r *saleRepository) GetByID(saleID string) (*model.Sale, bool, error) {
	sales, err := r.list(fmt.Sprintf(`SELECT %s FROM Sales WHERE sale_id = ?`, saleColumns), saleID)
	if err != nil {
		return nil, false, err
	}
	if len(sales) == 0 {
		return nil, false, nil
	}

	return &sales[0], true, nil
}

func (r *saleRepository) list(query string, args ...interface{}) ([]model.Sale, error) {
	stmt, err := r.db.Prepare(query)
	if err != nil {
		return nil, fmt.Errorf("list: unable to prepare query: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query(args...)
	if err != nil {
		return nil, fmt.Errorf("list: unable to execute query: %w", err)
	}
	defer rows.Close()

	var sales []model.Sale
	for rows.Next() {
		var s model.Sale
		err = rows.Scan(&s.SaleID, &s.CreationDate, &s.UserID, &s.EventID, &s.Token)
		if err != nil {
			return nil, fmt.Errorf("list: error while scanning row: %w", err)
		}
		sales = append(sales, s)
	}

	return sales, rows.Err()
}
