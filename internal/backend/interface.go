package backend

import (
	"context"

	"wealthwatcher/internal/amqp"
	"wealthwatcher/internal/export"
	"wealthwatcher/internal/services"
	"wealthwatcher/internal/store"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the record store, the optional event client and
// the cleanup releasing both.
type BackendResult struct {
	Store store.Store
	// Events is nil when AMQP is disabled or unreachable.
	Events  *amqp.Client
	Cleanup CleanupFunc
}

// Publisher returns the event publisher for the record service, or a nil
// interface when events are off.
func (r *BackendResult) Publisher() services.EventPublisher {
	if r.Events == nil {
		return nil
	}
	return r.Events
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend opens the record store and, when configured, the AMQP client.
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
	// CreateExporter returns the sheets exporter, or a no-op one when no
	// spreadsheet is configured.
	CreateExporter(ctx context.Context, config Config) (export.Exporter, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Backend type
	Type BackendType

	// Memory backend specific
	DataDirectory string

	// SQLite specific
	SQLiteDBPath string

	// Postgres specific
	PostgresDSN string

	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
	// RequireEvents turns an unreachable broker into an error instead of a
	// warning.
	RequireEvents bool

	// Google Sheets export
	GoogleSpreadsheetID      string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
	ReportSheetPrefix        string
}

// BackendType represents the type of backend
type BackendType string

const (
	MemoryBackend   BackendType = "memory"
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
	case MemoryBackend, SQLiteBackend, PostgresBackend:
		return true
	default:
		return false
	}
}
