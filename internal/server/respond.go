package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"newsdesk/internal/model"
)

type errorBody struct {
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	body := errorBody{Kind: kindName(err), Title: err.Error()}
	var rej *model.Rejection
	if errors.As(err, &rej) {
		body.Title, body.Description = rej.Title, rej.Description
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", zap.Error(err))
	}
	s.writeJSON(w, status, map[string]errorBody{"error": body})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrCapacity),
		errors.Is(err, model.ErrConflict),
		errors.Is(err, model.ErrInvalidTransition),
		errors.Is(err, model.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, model.ErrValidation), errors.Is(err, model.ErrInsufficient):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func kindName(err error) string {
	for _, k := range []struct {
		err  error
		name string
	}{
		{model.ErrNotFound, "not_found"},
		{model.ErrCapacity, "capacity"},
		{model.ErrConflict, "conflict"},
		{model.ErrInvalidTransition, "invalid_transition"},
		{model.ErrDuplicate, "duplicate"},
		{model.ErrValidation, "validation"},
		{model.ErrInsufficient, "insufficient"},
		{errBadRequest, "bad_request"},
	} {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "internal"
}

var errBadRequest = errors.New("bad request")

// decode reads an optional JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return fmt.Errorf("%w: %v", errBadRequest, err)
}

// version reads the optional ?version= expected record version.
func version(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("version")
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: version must be a non-negative integer", errBadRequest)
	}
	return v, nil
}
