package main

import (
	"context"
	"fmt"

	"github.com/thorrak/json-dump/internal/classify"
	"github.com/thorrak/json-dump/internal/storage"
)

// DefaultDumpService runs the classify-and-persist sequence: classify the
// request, serialize the payload, generate an object name, and save it.
// Each call is self-contained; there is no shared mutable state between
// concurrent requests.
type DefaultDumpService struct {
	store  storage.Store
	names  storage.NameGenerator
	strict bool
}

// NewDefaultDumpService creates a dump service with its dependencies.
func NewDefaultDumpService(store storage.Store, names storage.NameGenerator, strict bool) *DefaultDumpService {
	return &DefaultDumpService{
		store:  store,
		names:  names,
		strict: strict,
	}
}

// Dump classifies the request and writes the payload to storage. It returns
// classify errors unchanged so the handler can map them to status codes, and
// wraps storage errors.
func (s *DefaultDumpService) Dump(ctx context.Context, req classify.Request) (*DumpResult, error) {
	var payload *classify.Payload
	var err error
	if s.strict {
		payload, err = classify.ClassifyStrict(req)
	} else {
		payload, err = classify.Classify(req)
	}
	if err != nil {
		return nil, err
	}

	data, err := payload.Serialize()
	if err != nil {
		return nil, fmt.Errorf("error serializing payload: %w", err)
	}

	objectName := s.names.Generate(payload.Extension())

	storedType := "application/json"
	if payload.Kind == classify.KindRaw {
		storedType = req.ContentType
	}

	size, err := s.store.SavePayload(ctx, objectName, data, storedType)
	if err != nil {
		return nil, fmt.Errorf("error saving payload: %w", err)
	}

	return &DumpResult{
		Filename:    objectName,
		Size:        size,
		ContentType: req.ContentType,
		Method:      req.Method,
		Kind:        payload.Kind,
	}, nil
}
