package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sahayak-ai/sahayak/internal/classroom"
	"github.com/sahayak-ai/sahayak/internal/gateway"
	"github.com/sahayak-ai/sahayak/internal/i18n"
	"github.com/sahayak-ai/sahayak/internal/roomstore"
)

// apiError carries a stable machine code and the HTTP status to map an
// internal error onto the wire.
type apiError struct {
	status int
	code   string
	reason string
}

func (e *apiError) Error() string { return e.reason }

func badRequest(reason string) error {
	return &apiError{status: http.StatusBadRequest, code: "InvalidRequest", reason: reason}
}

// validationCodes maps classroom validation codes to message IDs.
var validationCodes = map[string]string{
	"prompt_too_short": "PromptTooShort",
	"topic_too_short":  "TopicTooShort",
	"name_too_short":   "NameTooShort",
	"bad_room_code":    "BadRoomCode",
}

// classify maps an internal error to its wire representation.
func classify(err error) (status int, code string) {
	var api *apiError
	if errors.As(err, &api) {
		return api.status, api.code
	}

	var validation *classroom.ValidationError
	if errors.As(err, &validation) {
		if id, ok := validationCodes[validation.Code]; ok {
			return http.StatusBadRequest, id
		}
		return http.StatusBadRequest, "InvalidRequest"
	}

	switch {
	case errors.Is(err, classroom.ErrRoomNotFound):
		return http.StatusNotFound, "RoomNotFound"
	case errors.Is(err, classroom.ErrAlreadySubmitted):
		return http.StatusConflict, "AlreadySubmitted"
	case errors.Is(err, gateway.ErrNoMediaBackend):
		return http.StatusNotImplemented, "SpeechUnavailable"
	case errors.Is(err, gateway.ErrEmptyResult):
		return http.StatusBadGateway, "EmptyResult"
	case errors.Is(err, roomstore.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, "StorageUnavailable"
	case roomstore.IsCorrupt(err):
		return http.StatusNotFound, "RoomNotFound"
	}

	var rateLimit *gateway.ErrRateLimit
	var invalid *gateway.ErrInvalidResponse
	var unavailable *gateway.ErrProviderUnavailable
	var maxTokens *gateway.ErrMaxTokensExceeded
	if errors.As(err, &rateLimit) || errors.As(err, &invalid) ||
		errors.As(err, &unavailable) || errors.As(err, &maxTokens) {
		return http.StatusBadGateway, "GatewayFailure"
	}

	return http.StatusInternalServerError, "InvalidRequest"
}

// writeError converts err to a JSON error body with a localized
// message. Server-side causes are logged, never leaked to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= 500 {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	} else {
		slog.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{
		"error": i18n.T(r.Context(), code),
		"code":  code,
	})
}
