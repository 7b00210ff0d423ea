package response

import (
	"encoding/json"
	"net/http"

	"smarticket-api/ethereum"
	"smarticket-api/model"
)

type SuccessResponse struct {
	Data       *Data `json:"data"`
	StatusCode int   `json:"-"`
}

type Data struct {
	User      *model.User         `json:"user,omitempty"`
	Auth      *model.Auth         `json:"auth,omitempty"`
	Event     *model.Event        `json:"event,omitempty"`
	Events    []model.Event       `json:"events,omitempty"`
	Sale      *model.Sale         `json:"sale,omitempty"`
	Sales     []model.Sale        `json:"sales,omitempty"`
	Balance   *model.EventBalance `json:"balance,omitempty"`
	Receipt   *ethereum.Receipt   `json:"receipt,omitempty"`
	Ownership *model.Ownership    `json:"ownership,omitempty"`
}

func (r SuccessResponse) Send(w http.ResponseWriter) {
	w.WriteHeader(r.StatusCode)
	json.NewEncoder(w).Encode(r)
}

// NoContent replies to a request that succeeded with nothing to return.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
