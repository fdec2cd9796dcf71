package backend

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"finances/internal/config"
	"finances/internal/sheets/memory"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "mongo"}); err == nil {
		t.Error("expected error for unknown backend")
	}

	cfg, err := FromAppConfig(&config.Config{
		DataBackend:     "postgres",
		DatabaseURL:     "postgres://u:p@localhost/db",
		AMQPURL:         "amqp://localhost",
		AMQPExchange:    "finances",
		AMQPQueue:       "q",
		GoogleSheetName: "MonthlyRecords",
	})
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if cfg.Type != PostgresBackend || cfg.DatabaseURL == "" || cfg.AMQPQueue != "q" {
		t.Errorf("FromAppConfig() = %+v", cfg)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"sqlite ok", Config{Type: SQLiteBackend, SQLiteDBPath: "x.db"}, ""},
		{"postgres ok", Config{Type: PostgresBackend, DatabaseURL: "postgres://x"}, ""},
		{"bad type", Config{Type: "sheets"}, "invalid backend type"},
		{"sqlite no path", Config{Type: SQLiteBackend}, "SQLite database path"},
		{"postgres no url", Config{Type: PostgresBackend}, "database URL"},
		{"amqp no queue", Config{Type: SQLiteBackend, SQLiteDBPath: "x.db", AMQPURL: "amqp://x", AMQPExchange: "e"}, "AMQP"},
		{"sheet no name", Config{Type: SQLiteBackend, SQLiteDBPath: "x.db", GoogleSpreadsheetID: "id"}, "Sheet name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestGetBackendTypeStrings(t *testing.T) {
	got := GetBackendTypeStrings()
	if len(got) != 2 || got[0] != "sqlite" || got[1] != "postgres" {
		t.Errorf("GetBackendTypeStrings() = %v", got)
	}
}

func TestFactory_CreateBackendSQLite(t *testing.T) {
	f := NewFactory(nil)
	ctx := context.Background()

	res, err := f.CreateBackend(ctx, Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(t.TempDir(), "finances.db"),
	})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	if res.AMQP != nil {
		t.Error("AMQP client created without URL")
	}
	if _, err := res.RequireAMQP(); !errors.Is(err, ErrBrokerUnavailable) {
		t.Errorf("RequireAMQP() error = %v, want ErrBrokerUnavailable", err)
	}
	if err := res.Store.Ping(ctx); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
	if err := res.Cleanup(); err != nil {
		t.Errorf("Cleanup() error = %v", err)
	}
}

func TestFactory_CreateBackendInvalid(t *testing.T) {
	if _, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: SQLiteBackend}); err == nil {
		t.Error("expected validation error")
	}
}

func TestFactory_CreateMirror(t *testing.T) {
	f := NewFactory(nil)

	res, err := f.CreateMirror(context.Background(), Config{})
	if err != nil {
		t.Fatalf("CreateMirror() error = %v", err)
	}
	if _, ok := res.Mirror.(*memory.Store); !ok || res.Kind != MemoryMirror || res.RowIndex != nil {
		t.Errorf("CreateMirror() = %+v, want memory mirror", res)
	}

	for _, k := range []string{"GOOGLE_SERVICE_ACCOUNT_JSON", "GOOGLE_SERVICE_ACCOUNT_FILE", "GOOGLE_APPLICATION_CREDENTIALS"} {
		t.Setenv(k, "")
	}
	if _, err := f.CreateMirror(context.Background(), Config{GoogleSpreadsheetID: "id", GoogleSheetName: "S"}); err == nil {
		t.Error("expected error without credentials")
	}
}
