package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"recipe-service/auth"
	"recipe-service/models"

	"github.com/gorilla/mux"
	"github.com/umakantv/go-utils/errs"
	logger "github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// logRequest logs with the route name, method, path, request id and, once
// the auth gate has run, the acting user.
func logRequest(r *http.Request, level string, message string, fields ...zap.Field) {
	routeName := ""
	if route := mux.CurrentRoute(r); route != nil {
		routeName = route.GetName()
	}
	method := r.Method
	path := r.URL.Path
	requestID := RequestIDFromContext(r.Context())

	logMsg := routeName + " - " + method + " - " + path
	if actor, ok := auth.ActorFromContext(r.Context()); ok {
		logMsg += " - user:" + actor.Username
	}
	if message != "" {
		logMsg += " - " + message
	}

	allFields := append([]zap.Field{
		zap.String("route", routeName),
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
	}, fields...)

	switch level {
	case "info":
		logger.Info(logMsg, allFields...)
	case "error":
		logger.Error(logMsg, allFields...)
	case "debug":
		logger.Debug(logMsg, allFields...)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// decodeJSON reads the request body into dst, answering 400 itself on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logRequest(r, "error", "Invalid request body", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errs.NewValidationError("Invalid JSON"))
		return false
	}
	return true
}

// writeError maps an error kind to its status and payload. persistenceStatus
// is the status the calling operation reports for storage faults.
func writeError(w http.ResponseWriter, r *http.Request, err error, persistenceStatus int) {
	var (
		validationErr  *models.ValidationError
		persistenceErr *models.PersistenceError
	)

	switch {
	case errors.As(err, &validationErr):
		logRequest(r, "info", "Validation failed", zap.String("field", validationErr.Field))
		writeJSON(w, http.StatusUnprocessableEntity, errs.NewValidationError(validationErr.Error()))
	case errors.Is(err, models.ErrDuplicateUsername):
		logRequest(r, "info", "Duplicate username")
		writeJSON(w, http.StatusUnprocessableEntity, errs.NewValidationError("Username already exists."))
	case errors.Is(err, models.ErrUnauthenticated):
		writeUnauthenticated(w, r)
	case errors.As(err, &persistenceErr):
		logRequest(r, "error", "Persistence failure", zap.String("op", persistenceErr.Op), zap.Error(persistenceErr.Err))
		if persistenceStatus == http.StatusInternalServerError {
			writeJSON(w, persistenceStatus, errs.NewInternalServerError(persistenceErr.Error()))
		} else {
			writeJSON(w, persistenceStatus, errs.NewValidationError("An error occurred: "+persistenceErr.Error()))
		}
	default:
		logRequest(r, "error", "Unexpected failure", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errs.NewInternalServerError("Internal server error"))
	}
}

func writeUnauthenticated(w http.ResponseWriter, r *http.Request) {
	logRequest(r, "info", "Unauthenticated")
	writeJSON(w, http.StatusUnauthorized, errs.NewAuthenticationError("401 Unauthorized"))
}
