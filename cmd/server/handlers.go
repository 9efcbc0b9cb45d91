package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/brunobiangulo/docuvision"
	"github.com/brunobiangulo/docuvision/llm"
)

type handler struct {
	conn docuvision.Connector
}

func newHandler(c docuvision.Connector) *handler {
	return &handler{conn: c}
}

// POST /v1/images/read
// Body: {"instruction": "...", "url": "https://..."} or
// {"instruction": "...", "data": "<base64>", "mime_type": "image/png"}.
func (h *handler) handleReadImage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Instruction string `json:"instruction"`
		URL         string `json:"url,omitempty"`
		Data        string `json:"data,omitempty"`
		MimeType    string `json:"mime_type,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Instruction == "" {
		writeError(w, http.StatusBadRequest, "instruction is required")
		return
	}

	var image llm.ImageRef
	switch {
	case req.URL != "" && req.Data != "":
		writeError(w, http.StatusBadRequest, "provide either url or data, not both")
		return
	case req.URL != "":
		image = llm.ImageFromURL(req.URL)
	case req.Data != "":
		mime := req.MimeType
		if mime == "" {
			mime = "image/png"
		}
		image = llm.ImageFromData(req.Data, mime)
	default:
		writeError(w, http.StatusBadRequest, "url or data is required")
		return
	}

	result, err := h.conn.ReadImage(r.Context(), req.Instruction, image)
	if err != nil {
		writeOperationError(w, err)
		return
	}
	writeResult(w, result)
}

// POST /v1/images/generate
// Body: {"prompt": "..."}.
func (h *handler) handleGenerateImage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	result, err := h.conn.GenerateImage(r.Context(), req.Prompt)
	if err != nil {
		writeOperationError(w, err)
		return
	}
	writeResult(w, result)
}

// POST /v1/documents/read
// Accepts multipart file upload (fields: file, instruction) or JSON with
// {"instruction": "...", "path": "..."}.
func (h *handler) handleReadDocument(w http.ResponseWriter, r *http.Request) {
	instruction, path, cleanup, ok := h.resolveDocument(w, r)
	if !ok {
		return
	}
	defer cleanup()

	if instruction == "" {
		writeError(w, http.StatusBadRequest, "instruction is required")
		return
	}

	result, err := h.conn.ReadScannedDocument(r.Context(), instruction, path)
	if err != nil {
		writeOperationError(w, err)
		return
	}
	writeResult(w, result)
}

// POST /v1/documents/inspect
// Same body forms as /v1/documents/read; instruction is ignored.
func (h *handler) handleInspectDocument(w http.ResponseWriter, r *http.Request) {
	_, path, cleanup, ok := h.resolveDocument(w, r)
	if !ok {
		return
	}
	defer cleanup()

	result, err := h.conn.InspectDocument(r.Context(), path)
	if err != nil {
		writeOperationError(w, err)
		return
	}
	writeResult(w, result)
}

// GET /health
func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// resolveDocument extracts the instruction and a local file path from either
// a multipart upload or a JSON body. The cleanup func removes any temp file
// and is always safe to call. Writes the error response itself when ok is
// false.
func (h *handler) resolveDocument(w http.ResponseWriter, r *http.Request) (instruction, path string, cleanup func(), ok bool) {
	cleanup = func() {}

	// Try multipart upload first.
	if err := r.ParseMultipartForm(100 << 20); err == nil { // 100MB max
		file, header, err := r.FormFile("file")
		if err == nil {
			defer file.Close()

			// Random prefix avoids collisions between concurrent uploads
			// with the same filename.
			safeName := uuid.NewString() + "-" + filepath.Base(header.Filename)
			tmpPath := filepath.Join(os.TempDir(), safeName)

			dst, err := os.Create(tmpPath)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "failed to process file")
				slog.Error("creating temp file", "error", err)
				return "", "", cleanup, false
			}
			if _, err := io.Copy(dst, file); err != nil {
				dst.Close()
				os.Remove(tmpPath)
				writeError(w, http.StatusInternalServerError, "failed to save file")
				slog.Error("saving uploaded file", "error", err)
				return "", "", cleanup, false
			}
			dst.Close()

			return r.FormValue("instruction"), tmpPath, func() { os.Remove(tmpPath) }, true
		}
	}

	// Try JSON body with path.
	var req struct {
		Instruction string `json:"instruction"`
		Path        string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: expected multipart file or JSON with 'path'")
		return "", "", cleanup, false
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return "", "", cleanup, false
	}

	// Validate that path is a real file (prevents directory traversal probing).
	absPath, err := filepath.Abs(req.Path)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid path")
		return "", "", cleanup, false
	}
	info, err := os.Stat(absPath)
	if err != nil || info.IsDir() {
		writeError(w, http.StatusBadRequest, "path must be an existing file")
		return "", "", cleanup, false
	}

	return req.Instruction, absPath, cleanup, true
}

// writeOperationError maps connector error kinds onto HTTP statuses.
func writeOperationError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, docuvision.ErrInvalidConfig):
		status = http.StatusBadRequest
	case errors.Is(err, docuvision.ErrFileHandling):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, docuvision.ErrImageAnalysis),
		errors.Is(err, docuvision.ErrImageGeneration):
		status = http.StatusBadGateway
	}
	slog.Error("operation failed", "error", err, "status", status)
	writeError(w, status, err.Error())
}

// writeResult emits a result type's canonical JSON payload.
func writeResult(w http.ResponseWriter, result interface{ JSON() (string, error) }) {
	body, err := result.JSON()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode result")
		slog.Error("encoding result", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, body)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": fmt.Sprintf("%s", msg)})
}
