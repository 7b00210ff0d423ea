package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"smarticket-api/model"
	"smarticket-api/response"
	"smarticket-api/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "handler-test-signing-key"

func mustHash(t *testing.T, password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.Nil(t, err)
	return string(hash)
}

func TestRegisterIssuesToken(t *testing.T) {
	users := newFakeUserRepo()
	issuer := token.NewIssuer(users, testSecret)

	body := `{"email":"new@example.com","password":"secret","wallet_address":"0xwallet"}`
	req := httptest.NewRequest(http.MethodPost, "/accounts/register", strings.NewReader(body))
	recorder := doRequest(Register(users, issuer), req)

	require.Equal(t, http.StatusCreated, recorder.Code)

	var resp response.SuccessResponse
	require.Nil(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data.Auth)
	assert.NotEmpty(t, resp.Data.Auth.Token)
	assert.NotNil(t, resp.Data.Auth.ExpirationDate)

	created, found, err := users.FindByEmail("new@example.com")
	require.Nil(t, err)
	require.True(t, found)
	assert.NotEqual(t, "secret", created.PasswordHash)
	assert.Equal(t, "0xwallet", created.WalletAddress)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newFakeUserRepo(&model.User{UserID: "u-1", Email: "taken@example.com"})
	issuer := token.NewIssuer(users, testSecret)

	body := `{"email":"taken@example.com","password":"secret"}`
	req := httptest.NewRequest(http.MethodPost, "/accounts/register", strings.NewReader(body))
	recorder := doRequest(Register(users, issuer), req)

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var resp response.ErrorResponse
	require.Nil(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "DUPLICATE_ENTRY", resp.Status)
	assert.NotContains(t, recorder.Body.String(), `"token"`)
}

func TestRegisterRejectsInvalidEmail(t *testing.T) {
	users := newFakeUserRepo()
	issuer := token.NewIssuer(users, testSecret)

	body := `{"email":"not-an-email","password":"secret"}`
	req := httptest.NewRequest(http.MethodPost, "/accounts/register", strings.NewReader(body))
	recorder := doRequest(Register(users, issuer), req)

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var resp response.ErrorResponse
	require.Nil(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_DATA", resp.Status)
}

func TestLoginReturnsStoredClaims(t *testing.T) {
	user := &model.User{
		UserID:       "u-1",
		Email:        "promoter@example.com",
		PasswordHash: mustHash(t, "secret"),
		Claims:       []model.Claim{{Type: model.ClaimPromoter, Value: model.ClaimGranted}},
	}
	users := newFakeUserRepo(user)
	issuer := token.NewIssuer(users, testSecret)

	body := `{"email":"promoter@example.com","password":"secret"}`
	req := httptest.NewRequest(http.MethodPost, "/accounts/login", strings.NewReader(body))
	recorder := doRequest(Login(users, issuer), req)

	require.Equal(t, http.StatusOK, recorder.Code)

	var resp response.SuccessResponse
	require.Nil(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data.Auth)

	_, claims, err := token.Verify(resp.Data.Auth.Token, testSecret)
	require.Nil(t, err)
	assert.Equal(t, model.ClaimGranted, claims[model.ClaimPromoter])
}

func TestLoginWrongPassword(t *testing.T) {
	user := &model.User{
		UserID:       "u-1",
		Email:        "user@example.com",
		PasswordHash: mustHash(t, "secret"),
	}
	users := newFakeUserRepo(user)
	issuer := token.NewIssuer(users, testSecret)

	body := `{"email":"user@example.com","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/accounts/login", strings.NewReader(body))
	recorder := doRequest(Login(users, issuer), req)

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var resp response.ErrorResponse
	require.Nil(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "CANT_LOGIN", resp.Status)
}

func TestLoginUnknownUser(t *testing.T) {
	users := newFakeUserRepo()
	issuer := token.NewIssuer(users, testSecret)

	body := `{"email":"ghost@example.com","password":"secret"}`
	req := httptest.NewRequest(http.MethodPost, "/accounts/login", strings.NewReader(body))
	recorder := doRequest(Login(users, issuer), req)

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var resp response.ErrorResponse
	require.Nil(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "CANT_LOGIN", resp.Status)
}

func TestToPromoterAddsClaim(t *testing.T) {
	user := &model.User{UserID: "u-1", Email: "user@example.com"}
	users := newFakeUserRepo(user)

	req := httptest.NewRequest(http.MethodPost, "/accounts/topromoter?email=user@example.com", nil)
	recorder := doRequest(ToPromoter(users), req)

	require.Equal(t, http.StatusNoContent, recorder.Code)

	promoted, _, err := users.FindByEmail("user@example.com")
	require.Nil(t, err)
	assert.True(t, promoted.HasClaim(model.ClaimPromoter))
}

func TestToStaffUnknownEmail(t *testing.T) {
	users := newFakeUserRepo()

	req := httptest.NewRequest(http.MethodPost, "/accounts/tostaff?email=ghost@example.com", nil)
	recorder := doRequest(ToStaff(users), req)

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Email not found")
}

func TestToPromoterMissingEmail(t *testing.T) {
	users := newFakeUserRepo()

	req := httptest.NewRequest(http.MethodPost, "/accounts/topromoter", nil)
	recorder := doRequest(ToPromoter(users), req)

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var resp response.ErrorResponse
	require.Nil(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_DATA", resp.Status)
}

func TestRenewTokenPicksUpPromotion(t *testing.T) {
	user := &model.User{UserID: "u-1", Email: "user@example.com"}
	users := newFakeUserRepo(user)
	issuer := token.NewIssuer(users, testSecret)

	require.Nil(t, users.AddClaim("u-1", model.ClaimPromoter, model.ClaimGranted))

	req := authenticated(httptest.NewRequest(http.MethodGet, "/accounts/renewtoken", nil), "user@example.com")
	recorder := doRequest(RenewToken(issuer), req)

	require.Equal(t, http.StatusOK, recorder.Code)

	var resp response.SuccessResponse
	require.Nil(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data.Auth)

	_, claims, err := token.Verify(resp.Data.Auth.Token, testSecret)
	require.Nil(t, err)
	assert.Equal(t, model.ClaimGranted, claims[model.ClaimPromoter])
}

func TestRenewTokenWithoutIdentity(t *testing.T) {
	users := newFakeUserRepo()
	issuer := token.NewIssuer(users, testSecret)

	req := httptest.NewRequest(http.MethodGet, "/accounts/renewtoken", nil)
	recorder := doRequest(RenewToken(issuer), req)

	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}
