package apiServer

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/veilbox/veilbox/internal/artifactStore"
	"github.com/veilbox/veilbox/pkg/pipeline"
)

// maxBodyBytes bounds request bodies; base64-encoded images get large.
const maxBodyBytes = 64 << 20

func (s *Server) handleEncrypt(w http.ResponseWriter, r *http.Request) {
	var req encryptRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	if req.Image == "" || req.Algorithm == "" {
		writeError(w, http.StatusBadRequest, "missing image data or algorithm")
		return
	}

	alg, err := pipeline.ParseAlgorithm(req.Algorithm)
	if err != nil {
		s.writeMappedError(w, err)
		return
	}

	payload, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid base64 image data")
		return
	}

	result, err := s.suite.Encrypt(alg, s.effectiveSecret(alg, req.Key), payload)
	if err != nil {
		s.writeMappedError(w, err)
		return
	}

	name := artifactName("encrypted")
	if err := s.store.Save("encrypted", name, result.Blob); err != nil {
		s.log.Error("failed to save encrypted artifact", "error", err, "name", name)
		writeError(w, http.StatusInternalServerError, "failed to persist artifact")
		return
	}
	s.log.Info("encryption successful", "algorithm", alg.String(), "artifact", name)

	writeJSON(w, http.StatusOK, encryptResponse{
		EncryptedImage:    base64.StdEncoding.EncodeToString(result.Blob),
		EncryptedFileURL:  "/artifacts/encrypted/" + name,
		EncryptedFilename: name,
	})
}

func (s *Server) handleDecrypt(w http.ResponseWriter, r *http.Request) {
	var req decryptRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	if req.EncryptedImage == "" || req.Algorithm == "" {
		writeError(w, http.StatusBadRequest, "missing encrypted image data or algorithm")
		return
	}

	alg, err := pipeline.ParseAlgorithm(req.Algorithm)
	if err != nil {
		s.writeMappedError(w, err)
		return
	}

	blob, err := base64.StdEncoding.DecodeString(req.EncryptedImage)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid base64 encrypted data")
		return
	}

	result, err := s.suite.Decrypt(alg, s.effectiveSecret(alg, req.Key), blob)
	if err != nil {
		s.writeMappedError(w, err)
		return
	}

	if result.IsMessage {
		s.log.Info("steganographic extraction successful")
		writeJSON(w, http.StatusOK, messageResponse{DecryptedMessage: result.Message})
		return
	}

	name := artifactName("decrypted")
	if err := s.store.Save("decrypted", name, result.Blob); err != nil {
		s.log.Error("failed to save decrypted artifact", "error", err, "name", name)
		writeError(w, http.StatusInternalServerError, "failed to persist artifact")
		return
	}
	s.log.Info("decryption successful", "algorithm", alg.String(), "artifact", name)

	writeJSON(w, http.StatusOK, decryptResponse{
		DecryptedImage:    base64.StdEncoding.EncodeToString(result.Blob),
		DecryptedFileURL:  "/artifacts/decrypted/" + name,
		DecryptedFilename: name,
	})
}

func (s *Server) handleDownloadArtifact(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")
	name := r.PathValue("name")
	if kind != "encrypted" && kind != "decrypted" {
		http.NotFound(w, r)
		return
	}

	blob, err := s.store.Load(kind, name)
	if errors.Is(err, artifactStore.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.log.Error("failed to load artifact", "error", err, "kind", kind, "name", name)
		writeError(w, http.StatusInternalServerError, "failed to load artifact")
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(len(blob)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if _, err := w.Write(blob); err != nil {
		s.log.Error("failed to write artifact body", "error", err, "name", name)
	}
}

func (s *Server) handleListArtifacts(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")
	if kind != "encrypted" && kind != "decrypted" {
		http.NotFound(w, r)
		return
	}

	names, err := s.store.List(kind)
	if err != nil {
		s.log.Error("failed to list artifacts", "error", err, "kind", kind)
		writeError(w, http.StatusInternalServerError, "failed to list artifacts")
		return
	}

	writeJSON(w, http.StatusOK, listArtifactsResponse{Names: names})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	reads, writes := s.store.Stats()
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Reads: reads, Writes: writes})
}

// effectiveSecret substitutes the configured default chaos key for an empty
// chaos-mode secret so the pipeline sees an explicit parameter.
func (s *Server) effectiveSecret(alg pipeline.Algorithm, key string) string {
	if alg == pipeline.Chaos && key == "" {
		return strconv.FormatFloat(s.defaultChaosKey, 'g', -1, 64)
	}
	return key
}

func artifactName(prefix string) string {
	return fmt.Sprintf("%s_%s.png", prefix, time.Now().Format("20060102150405.000000000"))
}
