package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"finances/internal/core"
)

// Repository implements list/get/create/update/delete for one descriptor,
// scoped to the calling user.
type Repository[T any] struct {
	store    *Store
	desc     Descriptor[T]
	resolver *Resolver
}

func NewRepository[T any](store *Store, desc Descriptor[T]) *Repository[T] {
	return &Repository[T]{
		store:    store,
		desc:     desc,
		resolver: NewResolver(store),
	}
}

func (r *Repository[T]) Descriptor() Descriptor[T] {
	return r.desc
}

func (r *Repository[T]) selectSQL() string {
	cols := r.desc.Columns()
	for i, c := range cols {
		cols[i] = "t." + c
	}
	return fmt.Sprintf("SELECT %s FROM %s t", strings.Join(cols, ", "), r.desc.Table)
}

// List returns every row owned by userID, oldest first.
func (r *Repository[T]) List(ctx context.Context, userID int64) ([]T, error) {
	cond, args := r.desc.Ownership().predicate(userID)
	rows, err := r.store.query(ctx, r.selectSQL()+" WHERE "+cond+" ORDER BY t.id", args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.desc.Resource, err)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		item, err := r.desc.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.desc.Resource, err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.desc.Resource, err)
	}
	return out, nil
}

// Get returns core.ErrNotFound both for missing rows and for rows owned by
// another user.
func (r *Repository[T]) Get(ctx context.Context, userID, id int64) (T, error) {
	var zero T
	if err := r.requireOwned(ctx, userID, id); err != nil {
		return zero, err
	}
	return r.get(ctx, id)
}

func (r *Repository[T]) get(ctx context.Context, id int64) (T, error) {
	item, err := r.desc.Scan(r.store.queryRow(ctx, r.selectSQL()+" WHERE t.id = ?", id))
	if err != nil {
		var zero T
		if err = classify(err); errors.Is(err, core.ErrNotFound) {
			return zero, err
		}
		return zero, fmt.Errorf("get %s %d: %w", r.desc.Resource, id, err)
	}
	return item, nil
}

// Create validates required fields and parent ownership, fills defaults and
// inserts the row. Direct rows are stamped with userID.
func (r *Repository[T]) Create(ctx context.Context, userID int64, values Values) (T, error) {
	var zero T
	if r.desc.OwnerColumn == "id" {
		return zero, fmt.Errorf("%s: create is not supported", r.desc.Resource)
	}
	if err := r.desc.CheckRequired(values); err != nil {
		return zero, err
	}
	if err := r.checkReferences(ctx, userID, values); err != nil {
		return zero, err
	}
	values = r.desc.WithDefaults(values)

	var (
		cols []string
		args []any
	)
	if r.desc.Direct() {
		cols = append(cols, r.desc.OwnerColumn)
		args = append(args, userID)
	}
	for _, f := range r.desc.Fields {
		cols = append(cols, f.Column)
		args = append(args, values[f.Name])
	}
	now := r.store.timestamp()
	cols = append(cols, "created_at", "updated_at")
	args = append(args, now, now)

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		r.desc.Table, strings.Join(cols, ", "), placeholders(len(cols)))

	var id int64
	if err := r.store.queryRow(ctx, query, args...).Scan(&id); err != nil {
		return zero, fmt.Errorf("insert %s: %w", r.desc.Resource, classify(err))
	}
	return r.get(ctx, id)
}

// Update applies the present values to an owned row. Ownership is checked
// before anything else so foreign rows look exactly like missing ones.
func (r *Repository[T]) Update(ctx context.Context, userID, id int64, values Values) (T, error) {
	var zero T
	if err := r.requireOwned(ctx, userID, id); err != nil {
		return zero, err
	}
	if err := r.desc.CheckNotBlank(values); err != nil {
		return zero, err
	}
	patch := PatchFrom(r.desc, values)
	if patch.Empty() {
		return zero, core.ErrNothingToUpdate
	}
	if err := r.checkReferences(ctx, userID, values); err != nil {
		return zero, err
	}

	query, args, err := patch.Build(r.desc.Table, id, r.store.timestamp())
	if err != nil {
		return zero, err
	}
	res, err := r.store.exec(ctx, query, args...)
	if err != nil {
		return zero, fmt.Errorf("update %s %d: %w", r.desc.Resource, id, classify(err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return zero, core.ErrNotFound
	}
	return r.get(ctx, id)
}

// Delete hard-deletes an owned row. Rows still referenced by children fail
// with core.ErrConflict.
func (r *Repository[T]) Delete(ctx context.Context, userID, id int64) error {
	if err := r.requireOwned(ctx, userID, id); err != nil {
		return err
	}
	res, err := r.store.exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", r.desc.Table), id)
	if err != nil {
		return fmt.Errorf("delete %s %d: %w", r.desc.Resource, id, classify(err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *Repository[T]) requireOwned(ctx context.Context, userID, id int64) error {
	owned, err := r.resolver.OwnsRow(ctx, userID, r.desc.Ownership(), id)
	if err != nil {
		return err
	}
	if !owned {
		return core.ErrNotFound
	}
	return nil
}

// checkReferences verifies every supplied parent id belongs to userID.
func (r *Repository[T]) checkReferences(ctx context.Context, userID int64, values Values) error {
	for _, f := range r.desc.refs() {
		v, ok := values[f.Name]
		if !ok {
			continue
		}
		parentID, _ := v.(int64)
		owned, err := r.resolver.OwnsTransitive(ctx, userID, f.Ref, parentID)
		if err != nil {
			return err
		}
		if !owned {
			return &core.ReferenceError{Field: f.Name, ID: parentID}
		}
	}
	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
