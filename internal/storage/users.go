package storage

import (
	"context"
	"errors"
	"fmt"

	"finances/internal/core"
)

// UserRepository adds credential lookups to the self-scoped user resource.
// Ownership of a user row is identity: a caller only ever sees itself.
type UserRepository struct {
	*Repository[core.User]
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{Repository: NewRepository(store, Users)}
}

// Register inserts a user with an already hashed password.
func (r *UserRepository) Register(ctx context.Context, email, passwordHash string) (core.User, error) {
	now := r.store.timestamp()
	var id int64
	err := r.store.queryRow(ctx,
		"INSERT INTO users (email, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?) RETURNING id",
		email, passwordHash, now, now,
	).Scan(&id)
	if err != nil {
		return core.User{}, fmt.Errorf("insert user: %w", classify(err))
	}
	return r.get(ctx, id)
}

// FindByEmail returns the user including its password hash.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (core.User, error) {
	var u core.User
	err := r.store.queryRow(ctx,
		"SELECT id, email, password_hash, created_at, updated_at FROM users WHERE email = ?",
		email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, scanTime(&u.CreatedAt), scanTime(&u.UpdatedAt))
	if err != nil {
		if err = classify(err); errors.Is(err, core.ErrNotFound) {
			return core.User{}, err
		}
		return core.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}
