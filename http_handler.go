package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/thorrak/json-dump/internal/classify"
	"github.com/thorrak/json-dump/internal/logging"
	"github.com/thorrak/json-dump/internal/metrics"
)

// HTTPHandler is the front door: it buffers the request into a
// classify.Request, enforces the size limit, and maps service results and
// errors to HTTP responses.
type HTTPHandler struct {
	service     DumpService
	formatter   ResponseFormatter
	maxBodySize int64
}

// NewHTTPHandler creates a new HTTP handler with dependencies.
func NewHTTPHandler(service DumpService, formatter ResponseFormatter, maxBodySize int64) *HTTPHandler {
	return &HTTPHandler{
		service:     service,
		formatter:   formatter,
		maxBodySize: maxBodySize,
	}
}

// DumpHandler handles dump endpoint requests.
func (h *HTTPHandler) DumpHandler(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxBodySize {
		h.writeTooLarge(w)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodySize))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.writeTooLarge(w)
			return
		}
		logging.Error("body_read_failed", "error", err)
		h.writeJSON(w, http.StatusBadRequest, h.formatter.FormatErrorResponse("Error reading request body"))
		return
	}
	defer r.Body.Close()

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	form, files := parseFormData(body, contentType)
	req := classify.Request{
		Method:      r.Method,
		ContentType: contentType,
		Body:        body,
		Form:        form,
		Files:       files,
		Query:       firstValues(r.URL.Query()),
	}

	result, err := h.service.Dump(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, classify.ErrContentType):
			h.writeJSON(w, http.StatusBadRequest, h.formatter.FormatErrorResponse("Content-Type must be application/json"))
		case errors.Is(err, classify.ErrEmptyPayload):
			h.writeJSON(w, http.StatusBadRequest, h.formatter.FormatErrorResponse("Empty or invalid payload"))
		default:
			// Keep the real error in the log, never in the response body.
			logging.Error("dump_failed", "method", r.Method, "error", err)
			h.writeJSON(w, http.StatusInternalServerError, h.formatter.FormatErrorResponse("Failed to store payload"))
		}
		return
	}

	metrics.PayloadsStored.WithLabelValues(result.Kind.String()).Inc()
	metrics.PayloadBytes.Add(float64(result.Size))
	logging.Info("payload_stored", "method", r.Method, "kind", result.Kind.String(), "file", result.Filename, "size", result.Size)

	h.writeJSON(w, http.StatusCreated, h.formatter.FormatDumpResponse(result))
}

// HealthHandler handles health check requests.
func (h *HTTPHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.formatter.FormatHealthResponse())
}

func (h *HTTPHandler) writeTooLarge(w http.ResponseWriter) {
	msg := fmt.Sprintf("Payload too large. Maximum size is %d bytes", h.maxBodySize)
	h.writeJSON(w, http.StatusRequestEntityTooLarge, h.formatter.FormatErrorResponse(msg))
}

func (h *HTTPHandler) writeJSON(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error("response_write_failed", "error", err)
	}
}

// parseFormData extracts form fields and uploaded-file metadata from the
// buffered body. File contents are measured for their size but never kept.
func parseFormData(body []byte, contentType string) (map[string]string, map[string]classify.FileMeta) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, nil
	}

	switch mediaType {
	case "application/x-www-form-urlencoded":
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return nil, nil
		}
		return firstValues(values), nil

	case "multipart/form-data":
		boundary := params["boundary"]
		if boundary == "" {
			return nil, nil
		}
		form := make(map[string]string)
		files := make(map[string]classify.FileMeta)
		mr := multipart.NewReader(bytes.NewReader(body), boundary)
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				break
			}
			name := part.FormName()
			if name == "" {
				continue
			}
			if filename := part.FileName(); filename != "" {
				size, _ := io.Copy(io.Discard, part)
				partType := part.Header.Get("Content-Type")
				if partType == "" {
					partType = "application/octet-stream"
				}
				files[name] = classify.FileMeta{
					Filename:    filename,
					ContentType: partType,
					Size:        size,
				}
				continue
			}
			if _, exists := form[name]; exists {
				continue
			}
			value, err := io.ReadAll(part)
			if err != nil {
				continue
			}
			form[name] = string(value)
		}
		if len(form) == 0 {
			form = nil
		}
		if len(files) == 0 {
			files = nil
		}
		return form, files
	}

	return nil, nil
}

// firstValues flattens multi-value params to their first value.
func firstValues(values url.Values) map[string]string {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}
