package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/brianvoe/gofakeit/v6"

	"finances/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "finances.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestUser(t *testing.T, store *Store) core.User {
	t.Helper()
	u, err := NewUserRepository(store).Register(context.Background(), gofakeit.Email(), "$2a$10$placeholderplaceholderplaceholderplaceholderplacehold")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return u
}

func TestRebind(t *testing.T) {
	tests := []struct {
		dialect Dialect
		in      string
		want    string
	}{
		{DialectSQLite, "SELECT 1 WHERE a = ? AND b = ?", "SELECT 1 WHERE a = ? AND b = ?"},
		{DialectPostgres, "SELECT 1 WHERE a = ? AND b = ?", "SELECT 1 WHERE a = $1 AND b = $2"},
		{DialectPostgres, "SELECT 1", "SELECT 1"},
	}
	for _, tt := range tests {
		if got := rebind(tt.dialect, tt.in); got != tt.want {
			t.Errorf("rebind(%s, %q) = %q, want %q", tt.dialect, tt.in, got, tt.want)
		}
	}
}

func TestOpenSQLite_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finances.db")
	first, err := OpenSQLite(context.Background(), path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	first.Close()

	second, err := OpenSQLite(context.Background(), path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer second.Close()

	if err := second.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	if second.Dialect() != DialectSQLite {
		t.Errorf("Dialect() = %q", second.Dialect())
	}
}

func TestUserRepository_RegisterAndFind(t *testing.T) {
	store := newTestStore(t)
	users := NewUserRepository(store)
	ctx := context.Background()

	u, err := users.Register(ctx, "a@x.com", "hash")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if u.ID == 0 || u.Email != "a@x.com" {
		t.Fatalf("unexpected user %+v", u)
	}
	if u.PasswordHash != "" {
		t.Error("Register() should not return the hash")
	}
	if !u.CreatedAt.Equal(u.UpdatedAt) {
		t.Errorf("createdAt %v != updatedAt %v", u.CreatedAt, u.UpdatedAt)
	}

	found, err := users.FindByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("FindByEmail() error = %v", err)
	}
	if found.ID != u.ID || found.PasswordHash != "hash" {
		t.Fatalf("FindByEmail() = %+v", found)
	}

	if _, err := users.FindByEmail(ctx, "missing@x.com"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("FindByEmail(missing) error = %v, want ErrNotFound", err)
	}

	if _, err := users.Register(ctx, "a@x.com", "other"); !errors.Is(err, core.ErrConflict) {
		t.Errorf("duplicate Register() error = %v, want ErrConflict", err)
	}
}

func TestUserRepository_SelfScoped(t *testing.T) {
	store := newTestStore(t)
	users := NewUserRepository(store)
	ctx := context.Background()
	a := newTestUser(t, store)
	b := newTestUser(t, store)

	list, err := users.List(ctx, a.ID)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 || list[0].ID != a.ID {
		t.Fatalf("List() = %+v, want only caller", list)
	}

	if _, err := users.Get(ctx, a.ID, b.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Get(other) error = %v, want ErrNotFound", err)
	}
	if err := users.Delete(ctx, a.ID, b.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Delete(other) error = %v, want ErrNotFound", err)
	}

	updated, err := users.Update(ctx, a.ID, a.ID, Values{"email": "new@x.com"})
	if err != nil {
		t.Fatalf("Update(self) error = %v", err)
	}
	if updated.Email != "new@x.com" {
		t.Errorf("email = %q", updated.Email)
	}

	if err := users.Delete(ctx, a.ID, a.ID); err != nil {
		t.Fatalf("Delete(self) error = %v", err)
	}
	if _, err := users.Create(ctx, b.ID, Values{"email": "c@x.com", "password": "x"}); err == nil {
		t.Error("generic Create on users should be rejected")
	}
}
