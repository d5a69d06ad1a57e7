package apiServer

import (
	"bufio"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/veilbox/veilbox/pkg/pipeline"
)

const maxBulkItems = 100

type bulkEncryptRequest struct {
	Algorithm string          `json:"algorithm"`
	Key       string          `json:"key"`
	Items     []bulkItemInput `json:"items"`
}

type bulkItemInput struct {
	ID    string `json:"id"`
	Image string `json:"image"`
}

type bulkItemRecord struct {
	ID             string `json:"id"`
	EncryptedImage string `json:"encrypted_image,omitempty"`
	Error          string `json:"error,omitempty"`
}

// handleBulkEncrypt encrypts a batch of payloads under one algorithm and
// secret, fanning the transforms out over the worker pool and streaming
// results back as NDJSON in submission order.
func (s *Server) handleBulkEncrypt(w http.ResponseWriter, r *http.Request) {
	var req bulkEncryptRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "items array is required")
		return
	}
	if len(req.Items) > maxBulkItems {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("too many items: max %d", maxBulkItems))
		return
	}

	alg, err := pipeline.ParseAlgorithm(req.Algorithm)
	if err != nil {
		s.writeMappedError(w, err)
		return
	}
	secret := s.effectiveSecret(alg, req.Key)

	batch := s.pool.NewBatch(len(req.Items))
	for _, item := range req.Items {
		image := item.Image
		batch.Submit(func() (any, error) {
			if strings.TrimSpace(image) == "" {
				return nil, fmt.Errorf("missing image data")
			}
			payload, err := base64.StdEncoding.DecodeString(image)
			if err != nil {
				return nil, fmt.Errorf("invalid base64 image data")
			}
			result, err := s.suite.Encrypt(alg, secret, payload)
			if err != nil {
				return nil, err
			}
			return result.Blob, nil
		})
	}
	results := batch.Wait()

	w.Header().Set("Content-Type", "application/x-ndjson")
	flusher, _ := w.(http.Flusher)
	writer := bufio.NewWriter(w)

	for i, res := range results {
		record := bulkItemRecord{ID: req.Items[i].ID}
		if res.Err != nil {
			record.Error = res.Err.Error()
		} else {
			record.EncryptedImage = base64.StdEncoding.EncodeToString(res.Value.([]byte))
		}
		if err := encodeNDJSON(writer, map[string]any{"type": "record", "record": record}); err != nil {
			s.log.Error("failed to encode bulk record", "error", err, "id", record.ID)
			return
		}
		if flusher != nil {
			writer.Flush()
			flusher.Flush()
		}
	}

	_ = encodeNDJSON(writer, map[string]any{"type": "eof"})
	writer.Flush()
}

func encodeNDJSON(w *bufio.Writer, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	return w.WriteByte('\n')
}
