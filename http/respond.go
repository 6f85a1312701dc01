package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"loan-engine/amortization"
	"loan-engine/service"
)

const maxBodyBytes = 1 << 20

// decodeRequest checks method and content type, then decodes the JSON body
// into v. It writes the error response itself and reports false on failure.
func decodeRequest(w http.ResponseWriter, r *http.Request, logger *zap.Logger, v any) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return false
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		logger.Debug("invalid request body", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// etag is a strong validator derived from the response body.
func etag(body []byte) string {
	return fmt.Sprintf(`"%016x"`, xxhash.Sum64(body))
}

// writeBody sends body with an ETag, or 304 when the client already has it.
func writeBody(w http.ResponseWriter, r *http.Request, logger *zap.Logger, contentType string, body []byte) {
	tag := etag(body)
	w.Header().Set("ETag", tag)
	if match := r.Header.Get("If-None-Match"); match != "" && match == tag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", contentType)
	if _, err := w.Write(body); err != nil {
		logger.Warn("failed to write response", zap.Error(err))
	}
}

// writeJSON encodes into a buffer first so an encoding failure never leaves
// a half-written 200 behind.
func writeJSON(w http.ResponseWriter, r *http.Request, logger *zap.Logger, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeBody(w, r, logger, "application/json", buf.Bytes())
}

func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	if errors.Is(err, service.ErrValidation) || errors.Is(err, amortization.ErrInvalidParameter) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	logger.Error("request failed", zap.Error(err))
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
