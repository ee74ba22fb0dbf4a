package main

import (
	"context"

	"github.com/thorrak/json-dump/internal/classify"
)

// DumpResult describes a stored payload for response assembly.
type DumpResult struct {
	Filename    string
	Size        int64
	ContentType string
	Method      string
	Kind        classify.Kind
}

// DumpService classifies a request and persists the resulting payload.
type DumpService interface {
	Dump(ctx context.Context, req classify.Request) (*DumpResult, error)
}

// ResponseFormatter formats HTTP response bodies.
type ResponseFormatter interface {
	FormatDumpResponse(result *DumpResult) map[string]any
	FormatHealthResponse() map[string]any
	FormatErrorResponse(message string) map[string]any
}
