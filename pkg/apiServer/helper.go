package apiServer

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/veilbox/veilbox/pkg/blockCipher"
	"github.com/veilbox/veilbox/pkg/chaosCipher"
	"github.com/veilbox/veilbox/pkg/lsbStego"
	"github.com/veilbox/veilbox/pkg/pipeline"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Default().Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeMappedError translates the core error taxonomy into stable status
// codes and user-facing messages. ErrPadding deliberately reads as "wrong
// secret" — it is the only integrity signal the block ciphers have — while
// anything unclassified stays a generic 500 so a server fault is never
// mistaken for a bad password.
func (s *Server) writeMappedError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pipeline.ErrMissingSecret):
		writeError(w, http.StatusBadRequest, "passphrase is required for this algorithm")
	case errors.Is(err, pipeline.ErrUnsupportedAlgorithm):
		writeError(w, http.StatusBadRequest, "invalid algorithm")
	case errors.Is(err, chaosCipher.ErrInvalidKeyRange):
		writeError(w, http.StatusBadRequest, "chaos key must be a number in the interval (0, 4]")
	case errors.Is(err, blockCipher.ErrPadding):
		writeError(w, http.StatusBadRequest, "incorrect secret or corrupted data")
	case errors.Is(err, blockCipher.ErrMalformedBlob):
		writeError(w, http.StatusBadRequest, "invalid encrypted data")
	case errors.Is(err, lsbStego.ErrCapacity):
		writeError(w, http.StatusBadRequest, "message too long to embed in this image")
	case errors.Is(err, lsbStego.ErrCorruptData):
		writeError(w, http.StatusBadRequest, "corrupted data or wrong format")
	case errors.Is(err, lsbStego.ErrInvalidImage):
		writeError(w, http.StatusBadRequest, "invalid image data")
	default:
		s.log.Error("unclassified failure", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
