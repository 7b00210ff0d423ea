package handler

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"

	c "smarticket-api/context"
	"smarticket-api/ethereum"
	"smarticket-api/model"
)

type fakeUserRepo struct {
	users   map[string]*model.User
	findErr error
	claims  map[string][]model.Claim
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[string]*model.User{}, claims: map[string][]model.Claim{}}
	for _, u := range users {
		repo.users[u.Email] = u
		repo.claims[u.UserID] = u.Claims
	}
	return repo
}

func (r *fakeUserRepo) Create(user *model.User) error {
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("u-%d", len(r.users)+1)
	}
	r.users[user.Email] = user
	return nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*model.User, bool, error) {
	if r.findErr != nil {
		return nil, false, r.findErr
	}
	user, ok := r.users[email]
	if !ok {
		return nil, false, nil
	}
	user.Claims = r.claims[user.UserID]
	return user, true, nil
}

func (r *fakeUserRepo) FindByID(userID string) (*model.User, bool, error) {
	for _, u := range r.users {
		if u.UserID == userID {
			return u, true, nil
		}
	}
	return nil, false, nil
}

func (r *fakeUserRepo) AddClaim(userID, claimType, claimValue string) error {
	r.claims[userID] = append(r.claims[userID], model.Claim{Type: claimType, Value: claimValue})
	return nil
}

func (r *fakeUserRepo) Claims(userID string) ([]model.Claim, error) {
	return r.claims[userID], nil
}

type fakeEventRepo struct {
	events  map[string]*model.Event
	created []*model.Event
	updated []*model.Event
}

func newFakeEventRepo(events ...*model.Event) *fakeEventRepo {
	repo := &fakeEventRepo{events: map[string]*model.Event{}}
	for _, e := range events {
		repo.events[e.EventID] = e
	}
	return repo
}

func (r *fakeEventRepo) Create(event *model.Event) error {
	if event.EventID == "" {
		event.EventID = fmt.Sprintf("e-%d", len(r.events)+1)
	}
	r.events[event.EventID] = event
	r.created = append(r.created, event)
	return nil
}

func (r *fakeEventRepo) GetAll() ([]model.Event, error) {
	var all []model.Event
	for _, e := range r.events {
		all = append(all, *e)
	}
	return all, nil
}

func (r *fakeEventRepo) GetByID(eventID string) (*model.Event, bool, error) {
	event, ok := r.events[eventID]
	if !ok {
		return nil, false, nil
	}
	copied := *event
	return &copied, true, nil
}

func (r *fakeEventRepo) Update(event *model.Event) error {
	r.updated = append(r.updated, event)
	return nil
}

func (r *fakeEventRepo) Delete(eventID string) error {
	delete(r.events, eventID)
	return nil
}

func (r *fakeEventRepo) NameExists(name string) (bool, error) {
	for _, e := range r.events {
		if e.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEventRepo) GetFutureEvents() ([]model.Event, error) {
	return r.GetAll()
}

func (r *fakeEventRepo) GetEventsOfType(eventType string) ([]model.Event, error) {
	var list []model.Event
	for _, e := range r.events {
		if e.Type == eventType {
			list = append(list, *e)
		}
	}
	return list, nil
}

type fakeSaleRepo struct {
	sales   map[string]*model.Sale
	created []*model.Sale
}

func newFakeSaleRepo(sales ...*model.Sale) *fakeSaleRepo {
	repo := &fakeSaleRepo{sales: map[string]*model.Sale{}}
	for _, s := range sales {
		repo.sales[s.SaleID] = s
	}
	return repo
}

func (r *fakeSaleRepo) Create(sale *model.Sale) error {
	if sale.SaleID == "" {
		sale.SaleID = fmt.Sprintf("s-%d", len(r.sales)+1)
	}
	r.sales[sale.SaleID] = sale
	r.created = append(r.created, sale)
	return nil
}

func (r *fakeSaleRepo) GetAll() ([]model.Sale, error) {
	var all []model.Sale
	for _, s := range r.sales {
		all = append(all, *s)
	}
	return all, nil
}

func (r *fakeSaleRepo) GetByID(saleID string) (*model.Sale, bool, error) {
	sale, ok := r.sales[saleID]
	if !ok {
		return nil, false, nil
	}
	return sale, true, nil
}

func (r *fakeSaleRepo) GetByEvent(eventID string) ([]model.Sale, error) {
	var list []model.Sale
	for _, s := range r.sales {
		if s.EventID == eventID {
			list = append(list, *s)
		}
	}
	return list, nil
}

// fakeChain records calls and serves canned answers. Errors short-circuit.
type fakeChain struct {
	deploys    int
	withdraws  int
	mints      int
	address    string
	balance    *big.Int
	mintResult string
	owner      string
	err        error
}

func (f *fakeChain) Deploy(_ context.Context, _ string, _ *big.Int) (string, *ethereum.Receipt, error) {
	f.deploys++
	if f.err != nil {
		return "", nil, f.err
	}
	return f.address, &ethereum.Receipt{TransactionHash: "0xdeploytx", ContractAddress: f.address, Status: 1}, nil
}

func (f *fakeChain) Withdraw(_ context.Context, _, _ string) (*ethereum.Receipt, error) {
	f.withdraws++
	if f.err != nil {
		return nil, f.err
	}
	return &ethereum.Receipt{TransactionHash: "0xwithdrawtx", Status: 1}, nil
}

func (f *fakeChain) Balance(_ context.Context, _, _ string) (*big.Int, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.balance, nil
}

func (f *fakeChain) Mint(_ context.Context, _, _ string, _ *big.Int) (string, error) {
	f.mints++
	if f.err != nil {
		return "", f.err
	}
	return f.mintResult, nil
}

func (f *fakeChain) OwnerOf(_ context.Context, _, _ string, _ int) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.owner, nil
}

func authenticated(req *http.Request, email string) *http.Request {
	return req.WithContext(c.SetContextWithValue(req.Context(), c.ContextKeyEmail, email))
}

func doRequest(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	h.ServeHTTP(recorder, req)
	return recorder
}
