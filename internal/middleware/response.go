package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"civic-commons/townhall/internal/apperrors"
	"civic-commons/townhall/internal/constants"
	"civic-commons/townhall/internal/models/dtos/responses"
)

func writeError(w http.ResponseWriter, err *apperrors.DomainError) {
	resp := responses.APIResponse[any]{
		Status:    string(constants.APIStatusError),
		Timestamp: time.Now().UTC(),
		Error:     apperrors.MessageOf(err),
		Code:      string(err.Kind),
	}
	if err.Code != string(err.Kind) {
		resp.Reason = err.Code
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apperrors.HTTPStatus(err.Kind))
	_ = json.NewEncoder(w).Encode(resp)
}
