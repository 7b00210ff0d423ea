package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	c "smarticket-api/context"
	"smarticket-api/ethereum"
	"smarticket-api/logger"
	"smarticket-api/model"
	"smarticket-api/repository"
	"smarticket-api/response"

	"github.com/gorilla/mux"
)

func GetEvents(events repository.EventRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		all, err := events.GetAll()
		if err != nil {
			logger.Errorf(ctx, "getEvents: unable to list events: %+v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		response.SuccessResponse{
			Data:       &response.Data{Events: all},
			StatusCode: http.StatusOK,
		}.Send(w)
	}
}

func GetEvent(events repository.EventRepository, sales repository.SaleRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		eventID := mux.Vars(r)["id"]

		event, found, err := events.GetByID(eventID)
		if err != nil {
			logger.Errorf(ctx, "getEvent: unable to fetch event %s: %+v", eventID, err)
			response.SomethingWrong().Send(ctx, w)
			return
		}
		if !found {
			response.NotFound().Send(ctx, w)
			return
		}

		eventSales, err := sales.GetByEvent(eventID)
		if err != nil {
			logger.Errorf(ctx, "getEvent: unable to fetch sales of event %s: %+v", eventID, err)
			response.SomethingWrong().Send(ctx, w)
			return
		}
		for _, s := range eventSales {
			event.Sales = append(event.Sales, s.SaleID)
		}

		response.SuccessResponse{
			Data:       &response.Data{Event: event},
			StatusCode: http.StatusOK,
		}.Send(w)
	}
}

func GetUpcomingEvents(events repository.EventRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		upcoming, err := events.GetFutureEvents()
		if err != nil {
			logger.Errorf(ctx, "getUpcomingEvents: unable to list future events: %+v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		response.SuccessResponse{
			Data:       &response.Data{Events: upcoming},
			StatusCode: http.StatusOK,
		}.Send(w)
	}
}

func GetEventsOfType(events repository.EventRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		eventType := mux.Vars(r)["type"]

		list, err := events.GetEventsOfType(eventType)
		if err != nil {
			logger.Errorf(ctx, "getEventsOfType: unable to list events of type %s: %+v", eventType, err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		response.SuccessResponse{
			Data:       &response.Data{Events: list},
			StatusCode: http.StatusOK,
		}.Send(w)
	}
}

// CreateEvent deploys a ticket-sale contract and records the event. Nothing
// is persisted when the deployment fails.
func CreateEvent(events repository.EventRepository, users repository.UserRepository, chain ethereum.Chain) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req model.EventCreation
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			response.BadRequest("invalid request body", fmt.Sprintf("createEvent: error unmarshalling request body: %+v", err)).Send(ctx, w)
			return
		}

		if err := validateEventCreation(&req); err != nil {
			response.InvalidData(fmt.Sprintf("createEvent: invalid request: %+v", err)).Send(ctx, w)
			return
		}

		exists, err := events.NameExists(req.Name)
		if err != nil {
			logger.Errorf(ctx, "createEvent: unable to check event name: %+v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}
		if exists {
			response.BadRequest("A event with the same name already exists", "").Send(ctx, w)
			return
		}

		user, err := currentUser(r, users)
		if err != nil {
			logger.Errorf(ctx, "createEvent: unable to resolve acting user: %+v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		contractAddress, receipt, err := chain.Deploy(ctx, req.UserWalletPassword, ethereum.ToWei(req.TicketPrice))
		if err != nil {
			logger.Errorf(ctx, "createEvent: unable to deploy contract: %+v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}
		logger.Infof(ctx, "createEvent: deployed contract %s in tx %s", contractAddress, receipt.TransactionHash)

		event := &model.Event{
			Name:            req.Name,
			Description:     req.Description,
			Type:            req.Type,
			Date:            req.Date,
			TicketPrice:     req.TicketPrice,
			ContractAddress: contractAddress,
			PromoterID:      user.UserID,
		}
		err = events.Create(event)
		if err != nil {
			logger.Errorf(ctx, "createEvent: unable to persist event: %+v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		response.SuccessResponse{
			Data:       &response.Data{Event: event},
			StatusCode: http.StatusCreated,
		}.Send(w)
	}
}

// WithdrawFounds moves the contract balance to the promoter. Ownership is
// checked before any chain call.
func WithdrawFounds(events repository.EventRepository, users repository.UserRepository, chain ethereum.Chain) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		eventID := mux.Vars(r)["id"]

		var req model.WalletRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			response.BadRequest("invalid request body", fmt.Sprintf("withdrawFounds: error unmarshalling request body: %+v", err)).Send(ctx, w)
			return
		}

		event, found, err := events.GetByID(eventID)
		if err != nil {
			logger.Errorf(ctx, "withdrawFounds: unable to fetch event %s: %+v", eventID, err)
			response.SomethingWrong().Send(ctx, w)
			return
		}
		if !found {
			response.BadRequest(fmt.Sprintf("Event with id: %s does not exist", eventID), "").Send(ctx, w)
			return
		}

		user, err := currentUser(r, users)
		if err != nil {
			response.BadRequest("Current user or event could not be found", "").Send(ctx, w)
			return
		}
		if event.PromoterID != user.UserID {
			response.BadRequest("You are not the owner of the event", "").Send(ctx, w)
			return
		}

		receipt, err := chain.Withdraw(ctx, req.UserWalletPassword, event.ContractAddress)
		if err != nil {
			logger.Errorf(ctx, "withdrawFounds: withdrawal failed for event %s: %+v", eventID, err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		response.SuccessResponse{
			Data:       &response.Data{Receipt: receipt},
			StatusCode: http.StatusOK,
		}.Send(w)
	}
}

// GetEventBalance reads the contract balance and reports it in ether, gwei
// and mwei.
func GetEventBalance(events repository.EventRepository, chain ethereum.Chain) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		eventID := mux.Vars(r)["id"]

		var req model.WalletRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			response.BadRequest("invalid request body", fmt.Sprintf("getEventBalance: error unmarshalling request body: %+v", err)).Send(ctx, w)
			return
		}

		event, found, err := events.GetByID(eventID)
		if err != nil {
			logger.Errorf(ctx, "getEventBalance: unable to fetch event %s: %+v", eventID, err)
			response.SomethingWrong().Send(ctx, w)
			return
		}
		if !found {
			response.BadRequest(fmt.Sprintf("Event with id: %s does not exist", eventID), "").Send(ctx, w)
			return
		}

		balance, err := chain.Balance(ctx, req.UserWalletPassword, event.ContractAddress)
		if err != nil {
			logger.Errorf(ctx, "getEventBalance: balance query failed for event %s: %+v", eventID, err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		response.SuccessResponse{
			Data: &response.Data{Balance: &model.EventBalance{
				Ether: ethereum.FromWei(balance, ethereum.Ether).String(),
				Gwei:  ethereum.FromWei(balance, ethereum.Gwei).String(),
				Mwei:  ethereum.FromWei(balance, ethereum.Mwei).String(),
			}},
			StatusCode: http.StatusOK,
		}.Send(w)
	}
}

// UpdateEvent keeps the original surface: the path id is an integer while
// entity ids are strings, so the match below only succeeds for numeric ids.
func UpdateEvent(events repository.EventRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		idString := mux.Vars(r)["id"]

		id, err := strconv.Atoi(idString)
		if err != nil {
			response.InvalidData(fmt.Sprintf("updateEvent: invalid event id: %v", idString)).Send(ctx, w)
			return
		}

		var event model.Event
		err = json.NewDecoder(r.Body).Decode(&event)
		if err != nil {
			response.BadRequest("invalid request body", fmt.Sprintf("updateEvent: error unmarshalling request body: %+v", err)).Send(ctx, w)
			return
		}

		if strconv.Itoa(id) != event.EventID {
			response.BadRequest("The given Id does not match the event id", "").Send(ctx, w)
			return
		}

		err = events.Update(&event)
		if err != nil {
			logger.Errorf(ctx, "updateEvent: unable to update event %s: %+v", event.EventID, err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		response.NoContent(w)
	}
}

func validateEventCreation(req *model.EventCreation) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("validateEventCreation: event name is mandatory")
	}
	if strings.TrimSpace(req.Type) == "" {
		return fmt.Errorf("validateEventCreation: event type is mandatory")
	}
	if req.Date == nil {
		return fmt.Errorf("validateEventCreation: the event date is mandatory")
	}
	if strings.TrimSpace(req.UserWalletPassword) == "" {
		return fmt.Errorf("validateEventCreation: wallet password is mandatory")
	}
	if req.TicketPrice <= 0 {
		return fmt.Errorf("validateEventCreation: ticket price must be positive")
	}
	return nil
}

func currentUser(r *http.Request, users repository.UserRepository) (*model.User, error) {
	email := c.GetContextValue(r.Context(), c.ContextKeyEmail)
	if email == "" {
		return nil, fmt.Errorf("currentUser: no authenticated email in context")
	}

	user, found, err := users.FindByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("currentUser: error fetching user %s: %w", email, err)
	}
	if !found {
		return nil, fmt.Errorf("currentUser: could not retrieve current user %s", email)
	}

	return user, nil
}
