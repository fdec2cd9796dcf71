// Package backend builds the data store, the change-event client and the
// sheet mirror from application configuration.
package backend

import (
	"context"
	"errors"

	"finances/internal/amqp"
	"finances/internal/cache"
	"finances/internal/sheets"
	"finances/internal/storage"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult holds what the API process needs.
type BackendResult struct {
	Store *storage.Store
	// AMQP is nil when change events are disabled.
	AMQP    *amqp.Client
	Cleanup CleanupFunc
}

// ErrBrokerUnavailable is returned by RequireAMQP when no broker connection
// was established.
var ErrBrokerUnavailable = errors.New("AMQP broker unreachable")

// RequireAMQP returns the change-event client for processes that cannot run
// without one.
func (r *BackendResult) RequireAMQP() (*amqp.Client, error) {
	if r == nil || r.AMQP == nil {
		return nil, ErrBrokerUnavailable
	}
	return r.AMQP, nil
}

// MirrorResult holds the sheet mirror used by the worker. RowIndex is set
// when the mirror keeps an expiring cache that should be swept.
type MirrorResult struct {
	Mirror   sheets.MonthlyRecordMirror
	RowIndex cache.Cleaner
	Kind     MirrorKind
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
	CreateMirror(ctx context.Context, config Config) (*MirrorResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	SQLiteDBPath string
	DatabaseURL  string

	// Empty AMQPURL disables change events.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Empty GoogleSpreadsheetID selects the in-memory mirror.
	GoogleSpreadsheetID string
	GoogleSheetName     string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, PostgresBackend:
		return true
	default:
		return false
	}
}

// MirrorKind names the sheet mirror implementation in use.
type MirrorKind string

const (
	GoogleMirror MirrorKind = "google"
	MemoryMirror MirrorKind = "memory"
)
