package storage

import "context"

// Store persists a classified payload under an object name and reports the
// stored size as the backend sees it, not the in-memory length.
type Store interface {
	SavePayload(ctx context.Context, objectName string, data []byte, contentType string) (int64, error)
}

// NameGenerator produces object names for stored payloads.
type NameGenerator interface {
	Generate(extension string) string
}
