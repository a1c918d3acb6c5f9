package api

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/mindmap/pkg/errors"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidMapName, errors.ErrCodeInvalidLayout:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeNodeNotFound, errors.ErrCodeMapNotFound:
		return http.StatusNotFound
	case errors.ErrCodeMapExists, errors.ErrCodeUnsupported:
		return http.StatusConflict
	case errors.ErrCodeStorage:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (srv *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		srv.logger.Warn("write response", "err", err)
	}
}

func (srv *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		srv.logger.Error("request failed", "code", code, "err", err)
	}
	srv.writeJSON(w, status, errorResponse{Error: errorBody{Code: string(code), Message: errors.UserMessage(err)}})
}
