package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	c "smarticket-api/context"
	"smarticket-api/logger"
	"smarticket-api/model"
	"smarticket-api/repository"
	"smarticket-api/response"
	"smarticket-api/token"

	"golang.org/x/crypto/bcrypt"
)

// Register creates a new user and hands back a signed token.
func Register(users repository.UserRepository, issuer *token.Issuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req model.UserCredentials
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			response.BadRequest("invalid request body", fmt.Sprintf("register: error unmarshalling request body: %+v", err)).Send(ctx, w)
			return
		}

		if err := validateCredentials(&req); err != nil {
			response.InvalidData(fmt.Sprintf("register: invalid request: %+v", err)).Send(ctx, w)
			return
		}

		_, found, err := users.FindByEmail(req.Email)
		if err != nil {
			logger.Errorf(ctx, "register: unable to check email: %+v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}
		if found {
			response.DuplicateEntry().Send(ctx, w)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			logger.Errorf(ctx, "register: unable to hash password: %+v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		user := &model.User{
			Email:         req.Email,
			PasswordHash:  string(hash),
			WalletAddress: req.WalletAddress,
		}
		err = users.Create(user)
		if err != nil {
			logger.Errorf(ctx, "register: unable to create user: %+v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		auth, err := issuer.Issue(req.Email)
		if err != nil {
			logger.Errorf(ctx, "register: unable to issue token: %+v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		response.SuccessResponse{
			Data:       &response.Data{Auth: auth},
			StatusCode: http.StatusCreated,
		}.Send(w)
	}
}

// Login verifies the credentials and issues a token carrying the claims the
// user holds at this moment.
func Login(users repository.UserRepository, issuer *token.Issuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req model.UserCredentials
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			response.BadRequest("invalid request body", fmt.Sprintf("login: error unmarshalling request body: %+v", err)).Send(ctx, w)
			return
		}

		user, found, err := users.FindByEmail(req.Email)
		if err != nil {
			logger.Errorf(ctx, "login: unable to fetch user: %+v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}
		if !found {
			response.CanNotLogin().Send(ctx, w)
			return
		}

		err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password))
		if err != nil {
			response.CanNotLogin().Send(ctx, w)
			return
		}

		auth, err := issuer.Issue(req.Email)
		if err != nil {
			logger.Errorf(ctx, "login: unable to issue token: %+v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		response.SuccessResponse{
			Data:       &response.Data{Auth: auth},
			StatusCode: http.StatusOK,
		}.Send(w)
	}
}

// ToPromoter grants the promoter role claim to the user with the given email.
func ToPromoter(users repository.UserRepository) http.HandlerFunc {
	return addClaim(users, model.ClaimPromoter)
}

// ToStaff grants the staff role claim to the user with the given email.
func ToStaff(users repository.UserRepository) http.HandlerFunc {
	return addClaim(users, model.ClaimStaff)
}

func addClaim(users repository.UserRepository, claimType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		email := r.URL.Query().Get("email")
		if strings.TrimSpace(email) == "" {
			response.InvalidData("addClaim: no email provided").Send(ctx, w)
			return
		}

		user, found, err := users.FindByEmail(email)
		if err != nil {
			logger.Errorf(ctx, "addClaim: unable to fetch user: %+v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}
		if !found {
			response.BadRequest(fmt.Sprintf("Email not found while converting %s to %s", email, claimType), "").Send(ctx, w)
			return
		}

		err = users.AddClaim(user.UserID, claimType, model.ClaimGranted)
		if err != nil {
			logger.Errorf(ctx, "addClaim: unable to add claim %s to %s: %+v", claimType, email, err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		response.NoContent(w)
	}
}

// RenewToken issues a fresh token for the authenticated caller. Claims are
// resnapshot from the store, so a promotion shows up here.
func RenewToken(issuer *token.Issuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		email := c.GetContextValue(ctx, c.ContextKeyEmail)
		if email == "" {
			response.Unauthorized().Send(ctx, w)
			return
		}

		auth, err := issuer.Issue(email)
		if err != nil {
			logger.Errorf(ctx, "renewToken: unable to issue token: %+v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		response.SuccessResponse{
			Data:       &response.Data{Auth: auth},
			StatusCode: http.StatusOK,
		}.Send(w)
	}
}

func validateCredentials(req *model.UserCredentials) error {
	if !validateEmail(req.Email) {
		return fmt.Errorf("validateCredentials: invalid email id")
	}
	if strings.TrimSpace(req.Password) == "" {
		return fmt.Errorf("validateCredentials: no password provided")
	}
	return nil
}

func validateEmail(email string) bool {
	var rxEmail = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+\\/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")
	if len(email) > 254 || !rxEmail.MatchString(email) {
		return false
	}

	return true
}
