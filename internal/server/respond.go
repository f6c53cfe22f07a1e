package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"chorepoints/internal/service"
)

// errBadRequest marks errors raised at the request-parsing boundary.
var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps named service faults to response codes. Consistency
// faults and anything unrecognized are logged and surfaced generically.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, service.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, service.ErrBadCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrTaskNotFound), errors.Is(err, service.ErrRewardNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrAlreadyComplete),
		errors.Is(err, service.ErrPastDue),
		errors.Is(err, service.ErrUsernameTaken):
		status = http.StatusConflict
	case errors.Is(err, service.ErrUserNotFound):
		s.log.Error("consistency fault", "path", r.URL.Path, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	default:
		s.log.Error("request failed", "path", r.URL.Path, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// decode unmarshals and validates a JSON request body.
func (s *Server) decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body", errBadRequest)
	}
	if err := s.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("%w: %s", errBadRequest, verrs.Error())
		}
		return err
	}
	return nil
}
