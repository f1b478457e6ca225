package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/tikitakatoe/internal/api/apierr"
	"github.com/mcoot/tikitakatoe/internal/model"
)

const maxBodyBytes = 64 << 10

// decodeBody reads a JSON request body into v. Unknown fields are accepted.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apierr.NewInvalidRequestError("invalid request body")
	}
	return nil
}

// gameIDVar returns the {game_id} path segment
func gameIDVar(r *http.Request) model.GameID {
	return model.GameID(mux.Vars(r)["game_id"])
}
