// Package render writes JSON responses and maps ledger errors onto HTTP status codes.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/chris/golf-league-ledger/pkg/api"
	"github.com/chris/golf-league-ledger/pkg/ledger"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// StatusFor returns the HTTP status for an error returned by the ledger.
func StatusFor(err error) int {
	switch ledger.Kind(err) {
	case ledger.KindNone:
		return http.StatusOK
	case ledger.KindValidation:
		return http.StatusBadRequest
	case ledger.KindUnauthenticated:
		return http.StatusUnauthorized
	case ledger.KindForbidden:
		return http.StatusForbidden
	case ledger.KindNotFound:
		return http.StatusNotFound
	case ledger.KindConflict:
		return http.StatusConflict
	case ledger.KindInsufficientBalance:
		return http.StatusUnprocessableEntity
	case ledger.KindInternal:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// JSON writes body with the given status.
func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// Error writes the error body for err. Internal errors are logged and their detail is not exposed.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	kind := ledger.Kind(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		message = http.StatusText(status)
	}

	body := api.Error{Error: message, Kind: string(kind)}
	var verr *ledger.ValidationError
	if errors.As(err, &verr) {
		body.Details = map[string]string{verr.Field: verr.Reason}
	}
	JSON(w, status, body)
}

// BadRequest writes a 400 for a body or parameter that could not be read.
func BadRequest(w http.ResponseWriter, err error) {
	body := api.Error{Error: err.Error(), Kind: string(ledger.KindValidation)}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		body.Error = "Invalid request body"
		body.Details = make(map[string]string, len(verrs))
		for _, fe := range verrs {
			body.Details[fe.Field()] = fmt.Sprintf("failed on the '%s' tag", fe.Tag())
		}
	}
	JSON(w, http.StatusBadRequest, body)
}

// ParamError is the error handler for path and query parameters that fail to bind.
func ParamError(w http.ResponseWriter, _ *http.Request, err error) {
	BadRequest(w, err)
}

// Decode reads the JSON body into dest and validates it.
func Decode(r *http.Request, dest any) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return validate.Struct(dest)
}
