package api

import (
	"encoding/json"
	"net/http"
	"time"

	"civic-commons/townhall/internal/apperrors"
	"civic-commons/townhall/internal/constants"
	"civic-commons/townhall/internal/logging"
	"civic-commons/townhall/internal/models/dtos/responses"
)

func respondWithSuccess[T any](w http.ResponseWriter, statusCode int, data *T) {
	resp := responses.APIResponse[T]{
		Status:    string(constants.APIStatusOk),
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

// respondWithError maps any error onto the envelope. Non-domain errors become a generic 500.
func respondWithError(w http.ResponseWriter, err error) {
	kind := apperrors.KindOf(err)
	code := apperrors.CodeOf(err)
	if kind == apperrors.KindInternal {
		logging.Error("Request failed", "error", err)
	}

	resp := responses.APIResponse[any]{
		Status:    string(constants.APIStatusError),
		Timestamp: time.Now().UTC(),
		Error:     apperrors.MessageOf(err),
		Code:      string(kind),
	}
	if code != string(kind) {
		resp.Reason = code
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apperrors.HTTPStatus(kind))
	_ = json.NewEncoder(w).Encode(resp)
}
