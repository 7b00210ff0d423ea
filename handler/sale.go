package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"smarticket-api/ethereum"
	"smarticket-api/logger"
	"smarticket-api/model"
	"smarticket-api/repository"
	"smarticket-api/response"

	"github.com/gorilla/mux"
)

func GetSales(sales repository.SaleRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		all, err := sales.GetAll()
		if err != nil {
			logger.Errorf(ctx, "getSales: unable to list sales: %+v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		response.SuccessResponse{
			Data:       &response.Data{Sales: all},
			StatusCode: http.StatusOK,
		}.Send(w)
	}
}

func GetSale(sales repository.SaleRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		saleID := mux.Vars(r)["id"]

		sale, found, err := sales.GetByID(saleID)
		if err != nil {
			logger.Errorf(ctx, "getSale: unable to fetch sale %s: %+v", saleID, err)
			response.SomethingWrong().Send(ctx, w)
			return
		}
		if !found {
			response.NotFound().Send(ctx, w)
			return
		}

		response.SuccessResponse{
			Data:       &response.Data{Sale: sale},
			StatusCode: http.StatusOK,
		}.Send(w)
	}
}

// CreateSale mints a ticket on the event contract and records the sale. The
// mint result is parsed as an integer token id; a value that does not parse
// is recorded as token 0, matching the historical behaviour of this API.
func CreateSale(sales repository.SaleRepository, events repository.EventRepository, users repository.UserRepository, chain ethereum.Chain) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req model.SaleCreation
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			response.BadRequest("invalid request body", fmt.Sprintf("createSale: error unmarshalling request body: %+v", err)).Send(ctx, w)
			return
		}

		user, err := currentUser(r, users)
		if err != nil {
			logger.Errorf(ctx, "createSale: unable to resolve acting user: %+v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		event, found, err := events.GetByID(req.EventID)
		if err != nil {
			logger.Errorf(ctx, "createSale: unable to fetch event %s: %+v", req.EventID, err)
			response.SomethingWrong().Send(ctx, w)
			return
		}
		if !found {
			response.BadRequest(fmt.Sprintf("Could not find event with id %s", req.EventID), "").Send(ctx, w)
			return
		}

		result, err := chain.Mint(ctx, req.CustomerWalletPassword, event.ContractAddress, ethereum.ToWei(event.TicketPrice))
		if err != nil {
			logger.Errorf(ctx, "createSale: mint failed for event %s: %+v", req.EventID, err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		tokenID, err := strconv.Atoi(result)
		if err != nil {
			logger.Warnf(ctx, "createSale: mint result %q is not an integer token id, recording 0", result)
			tokenID = 0
		}

		sale := &model.Sale{
			UserID:  user.UserID,
			EventID: event.EventID,
			Token:   tokenID,
		}
		err = sales.Create(sale)
		if err != nil {
			logger.Errorf(ctx, "createSale: unable to persist sale: %+v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		response.SuccessResponse{
			Data:       &response.Data{Sale: sale},
			StatusCode: http.StatusCreated,
		}.Send(w)
	}
}

// CheckSale compares the on-chain owner of the sale's token against the
// authenticated caller's stored wallet address.
func CheckSale(sales repository.SaleRepository, events repository.EventRepository, users repository.UserRepository, chain ethereum.Chain) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		saleID := vars["id"]
		eventID := vars["eventId"]

		var req model.WalletRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			response.BadRequest("invalid request body", fmt.Sprintf("checkSale: error unmarshalling request body: %+v", err)).Send(ctx, w)
			return
		}

		event, found, err := events.GetByID(eventID)
		if err != nil {
			logger.Errorf(ctx, "checkSale: unable to fetch event %s: %+v", eventID, err)
			response.SomethingWrong().Send(ctx, w)
			return
		}
		if !found {
			response.BadRequest(fmt.Sprintf("Event %s does not exist", eventID), "").Send(ctx, w)
			return
		}

		user, err := currentUser(r, users)
		if err != nil {
			response.BadRequest("Could not retrieve current user", "").Send(ctx, w)
			return
		}

		sale, found, err := sales.GetByID(saleID)
		if err != nil {
			logger.Errorf(ctx, "checkSale: unable to fetch sale %s: %+v", saleID, err)
			response.SomethingWrong().Send(ctx, w)
			return
		}
		if !found {
			response.BadRequest("Could not retrieve current sale", "").Send(ctx, w)
			return
		}

		owner, err := chain.OwnerOf(ctx, req.UserWalletPassword, event.ContractAddress, sale.Token)
		if err != nil {
			logger.Errorf(ctx, "checkSale: owner query failed for token %d: %+v", sale.Token, err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		response.SuccessResponse{
			Data: &response.Data{Ownership: &model.Ownership{
				SaleID: sale.SaleID,
				Owned:  owner == user.WalletAddress,
			}},
			StatusCode: http.StatusOK,
		}.Send(w)
	}
}
