package router

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"smarticket-api/config"
	"smarticket-api/ethereum"
	"smarticket-api/factory"
	"smarticket-api/handler"
	"smarticket-api/healthcheck"
	"smarticket-api/logger"
	"smarticket-api/middleware"
	"smarticket-api/model"
	"smarticket-api/repository"
	"smarticket-api/response"
	"smarticket-api/token"

	"github.com/gorilla/mux"
	"github.com/spf13/viper"
)

// Router returns the router for all the API handler.
func Router(ctx context.Context) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.SetCorrelationIDHeader)
	r.Use(middleware.PanicHandler)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		response.ResourceNotFound(fmt.Sprintf("The requested resource was not found: path: %s, method: %s", req.URL.Path, req.Method), "The requested resource was not found!").Send(req.Context(), w)
	})

	r.Use(middleware.ResponseTimeLogging)
	r.Use(middleware.RequestLogging)
	r.Use(middleware.SetContentTypeHeader)

	f := factory.NewFactory()
	db := f.DB(ctx)

	users := repository.NewUserRepository(db)
	events := repository.NewEventRepository(db)
	sales := repository.NewSaleRepository(db)

	secret := viper.GetString(config.Secret)
	issuer := token.NewIssuer(users, secret)

	bytecode, err := os.ReadFile(viper.GetString(config.EthereumContractBin))
	if err != nil {
		logger.Fatalf(ctx, "router: error reading contract bytecode: %+v", err)
	}

	chain := ethereum.New(
		viper.GetString(config.EthereumRPCURL),
		viper.GetInt64(config.EthereumChainID),
		hexBytecode(bytecode),
	)

	authenticated := middleware.Authenticate(secret)
	promoterOnly := middleware.RequireClaim(model.ClaimPromoter)
	staffOnly := middleware.RequireClaim(model.ClaimStaff)

	r.HandleFunc("/healthcheck", healthcheck.Self).Methods(http.MethodGet)

	accountRouter := r.PathPrefix("/accounts").Subrouter()
	accountRouter.HandleFunc("/register", handler.Register(users, issuer)).Methods(http.MethodPost)
	accountRouter.HandleFunc("/login", handler.Login(users, issuer)).Methods(http.MethodPost)
	accountRouter.Handle("/topromoter", authenticated(handler.ToPromoter(users))).Methods(http.MethodPost)
	accountRouter.Handle("/tostaff", authenticated(handler.ToStaff(users))).Methods(http.MethodPost)
	accountRouter.Handle("/renewtoken", authenticated(handler.RenewToken(issuer))).Methods(http.MethodGet)

	eventRouter := r.PathPrefix("/events").Subrouter()
	eventRouter.Use(authenticated)
	eventRouter.Handle("", promoterOnly(handler.CreateEvent(events, users, chain))).Methods(http.MethodPost)
	eventRouter.HandleFunc("", handler.GetEvents(events)).Methods(http.MethodGet)
	eventRouter.HandleFunc("/upcoming", handler.GetUpcomingEvents(events)).Methods(http.MethodGet)
	eventRouter.HandleFunc("/type/{type}", handler.GetEventsOfType(events)).Methods(http.MethodGet)
	eventRouter.Handle("/withdrawfounds/{id}", promoterOnly(handler.WithdrawFounds(events, users, chain))).Methods(http.MethodPost)
	eventRouter.HandleFunc("/geteventbalance/{id}", handler.GetEventBalance(events, chain)).Methods(http.MethodPost)
	eventRouter.HandleFunc("/{id}", handler.GetEvent(events, sales)).Methods(http.MethodGet)
	eventRouter.HandleFunc("/{id}", handler.UpdateEvent(events)).Methods(http.MethodPut)

	saleRouter := r.PathPrefix("/sales").Subrouter()
	saleRouter.Use(authenticated)
	saleRouter.HandleFunc("", handler.GetSales(sales)).Methods(http.MethodGet)
	saleRouter.HandleFunc("", handler.CreateSale(sales, events, users, chain)).Methods(http.MethodPost)
	saleRouter.Handle("/{id}/check/{eventId}", staffOnly(handler.CheckSale(sales, events, users, chain))).Methods(http.MethodPost)
	saleRouter.HandleFunc("/{id}", handler.GetSale(sales)).Methods(http.MethodGet)

	return r
}

func hexBytecode(raw []byte) []byte {
	return ethereum.DecodeBytecode(strings.TrimSpace(string(raw)))
}
