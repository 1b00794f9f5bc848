package apiutil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Rankeate/internal/apperr"
)

type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

type HandlerError struct {
	Status  int
	Message string
	Err     error
}

func (e HandlerError) Error() string {
	return e.Message
}

func (e HandlerError) Unwrap() error {
	return e.Err
}

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return fmt.Errorf("missing request body")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	if err := encoder.Encode(payload); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteError maps err to a status code and JSON body. Domain errors keep
// their code and message; anything unrecognised is logged and reported as a
// generic 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.Ctx(r.Context())
	status, body := errorResponse(err)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	} else {
		logger.Debug().Err(err).Int("status", status).Msg("Request rejected")
	}
	if writeErr := WriteJSON(w, status, body); writeErr != nil {
		logger.Error().Err(writeErr).Msg("Failed to write error response")
	}
}

func errorResponse(err error) (int, ErrorResponse) {
	var handlerErr HandlerError
	if errors.As(err, &handlerErr) {
		return handlerErr.Status, ErrorResponse{Code: http.StatusText(handlerErr.Status), Message: handlerErr.Message}
	}
	var fieldErr FieldError
	if errors.As(err, &fieldErr) {
		return http.StatusBadRequest, ErrorResponse{Code: "INVALID_INPUT", Message: fieldErr.Error()}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable, ErrorResponse{Code: "TIMEOUT", Message: "request timed out"}
	}

	appErr, ok := apperr.As(err)
	if !ok {
		return http.StatusInternalServerError, ErrorResponse{Code: "INTERNAL", Message: "Internal Server Error"}
	}
	body := ErrorResponse{Code: appErr.Code, Message: appErr.Message}
	switch appErr.Kind {
	case apperr.KindConflict:
		return http.StatusConflict, body
	case apperr.KindNotFound:
		return http.StatusNotFound, body
	case apperr.KindInvalid:
		return http.StatusBadRequest, body
	default:
		return http.StatusInternalServerError, ErrorResponse{Code: "INTERNAL", Message: "Internal Server Error"}
	}
}

// WriteBadRequest reports a malformed request that never reached the domain.
func WriteBadRequest(w http.ResponseWriter, r *http.Request, err error) {
	WriteError(w, r, apperr.Invalid(err.Error()))
}

// Respond writes payload as JSON and logs a failed write.
func Respond(w http.ResponseWriter, r *http.Request, status int, payload any) {
	if err := WriteJSON(w, status, payload); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write response")
	}
}
