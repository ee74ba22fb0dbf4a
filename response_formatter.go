package main

import "github.com/thorrak/json-dump/internal/classify"

// DefaultResponseFormatter handles formatting HTTP response bodies.
type DefaultResponseFormatter struct{}

// NewDefaultResponseFormatter creates a new response formatter.
func NewDefaultResponseFormatter() *DefaultResponseFormatter {
	return &DefaultResponseFormatter{}
}

// FormatDumpResponse formats the success response for the dump endpoint.
func (f *DefaultResponseFormatter) FormatDumpResponse(result *DumpResult) map[string]any {
	return map[string]any{
		"success":        true,
		"filename":       result.Filename,
		"size":           result.Size,
		"content_type":   result.ContentType,
		"method":         result.Method,
		"parsed_as_json": result.Kind == classify.KindJSON,
		"was_form_data":  result.Kind == classify.KindForm,
	}
}

// FormatHealthResponse formats the health check response.
func (f *DefaultResponseFormatter) FormatHealthResponse() map[string]any {
	return map[string]any{
		"status": "healthy",
	}
}

// FormatErrorResponse formats an error response body.
func (f *DefaultResponseFormatter) FormatErrorResponse(message string) map[string]any {
	return map[string]any{
		"error": message,
	}
}
