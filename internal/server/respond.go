package server

import (
	"encoding/json"
	"net/http"

	bgperrors "github.com/routeviz/bgpmap/pkg/errors"
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := bgperrors.GetCode(err)
	if code == "" {
		code = bgperrors.ErrCodeInternal
	}

	var resp errorResponse
	resp.Error.Code = string(code)
	resp.Error.Message = bgperrors.UserMessage(err)
	writeJSON(w, statusFor(code), resp)
}

func writeErrorCode(w http.ResponseWriter, code bgperrors.Code, format string, args ...any) {
	writeError(w, bgperrors.New(code, format, args...))
}

// statusFor maps error codes to HTTP status codes.
func statusFor(code bgperrors.Code) int {
	switch code {
	case bgperrors.ErrCodeInvalidInput,
		bgperrors.ErrCodeInvalidTopology,
		bgperrors.ErrCodeInvalidRouter,
		bgperrors.ErrCodeInvalidEdge,
		bgperrors.ErrCodeInvalidInterface,
		bgperrors.ErrCodeInvalidFormat,
		bgperrors.ErrCodeInvalidPath,
		bgperrors.ErrCodeMalformedTopology:
		return http.StatusBadRequest
	case bgperrors.ErrCodeNotFound,
		bgperrors.ErrCodeNodeNotFound,
		bgperrors.ErrCodeFileNotFound,
		bgperrors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case bgperrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
