package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Ownership is the non-generic view of a descriptor that the resolver needs.
type Ownership struct {
	Table       string
	OwnerColumn string
	Parents     []Field
}

func (d Descriptor[T]) Ownership() Ownership {
	return Ownership{Table: d.Table, OwnerColumn: d.OwnerColumn, Parents: d.Parents()}
}

// predicate returns a condition over rows aliased as t that holds only for
// rows owned by userID. Rows with several parents need every parent owned.
func (o Ownership) predicate(userID int64) (string, []any) {
	if o.OwnerColumn != "" {
		return "t." + o.OwnerColumn + " = ?", []any{userID}
	}
	if len(o.Parents) == 0 {
		return "1 = 0", nil
	}
	conds := make([]string, 0, len(o.Parents))
	args := make([]any, 0, len(o.Parents))
	for _, p := range o.Parents {
		conds = append(conds, fmt.Sprintf("(SELECT p.user_id FROM %s p WHERE p.id = t.%s) = ?", p.Ref, p.Column))
		args = append(args, userID)
	}
	return strings.Join(conds, " AND "), args
}

// Resolver answers "does this user own that row" for direct and transitive
// ownership. Every single-row read, update, delete and every write that
// references a parent goes through it.
type Resolver struct {
	store *Store
}

func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store}
}

// OwnsDirect reports whether table has a row rowID whose user_id is userID.
func (r *Resolver) OwnsDirect(ctx context.Context, userID int64, table string, rowID int64) (bool, error) {
	return r.exists(ctx, fmt.Sprintf("SELECT 1 FROM %s WHERE id = ? AND user_id = ?", table), rowID, userID)
}

// OwnsTransitive checks the parent a child row points at. Parents always
// carry user_id, so this is a direct check on the parent table.
func (r *Resolver) OwnsTransitive(ctx context.Context, userID int64, parentTable string, parentID int64) (bool, error) {
	return r.OwnsDirect(ctx, userID, parentTable, parentID)
}

// OwnsRow reports whether rowID of the described table is visible to userID.
func (r *Resolver) OwnsRow(ctx context.Context, userID int64, o Ownership, rowID int64) (bool, error) {
	cond, args := o.predicate(userID)
	query := fmt.Sprintf("SELECT 1 FROM %s t WHERE t.id = ? AND %s", o.Table, cond)
	return r.exists(ctx, query, append([]any{rowID}, args...)...)
}

func (r *Resolver) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var one int
	err := r.store.queryRow(ctx, query+" LIMIT 1", args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check ownership: %w", err)
	}
	return true, nil
}
