package storage

import (
	"fmt"
	"strings"
	"time"

	"finances/internal/core"
)

// Patch collects the columns a partial update will set. Only columns passed
// to Set are written; updated_at is always refreshed.
type Patch struct {
	columns []string
	args    []any
}

func NewPatch() *Patch {
	return &Patch{}
}

// Set records column = value. Setting the same column twice keeps the last
// value.
func (p *Patch) Set(column string, value any) *Patch {
	for i, c := range p.columns {
		if c == column {
			p.args[i] = value
			return p
		}
	}
	p.columns = append(p.columns, column)
	p.args = append(p.args, value)
	return p
}

func (p *Patch) Empty() bool {
	return len(p.columns) == 0
}

func (p *Patch) Columns() []string {
	return append([]string(nil), p.columns...)
}

// Build renders the UPDATE statement with ? placeholders. An empty patch is
// core.ErrNothingToUpdate.
func (p *Patch) Build(table string, id int64, now time.Time) (string, []any, error) {
	if p.Empty() {
		return "", nil, core.ErrNothingToUpdate
	}
	sets := make([]string, 0, len(p.columns)+1)
	for _, c := range p.columns {
		sets = append(sets, c+" = ?")
	}
	sets = append(sets, "updated_at = ?")

	args := make([]any, 0, len(p.args)+2)
	args = append(args, p.args...)
	args = append(args, now, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(sets, ", "))
	return query, args, nil
}

// PatchFrom builds a patch from decoded values in descriptor field order.
func PatchFrom[T any](d Descriptor[T], values Values) *Patch {
	p := NewPatch()
	for _, f := range d.Fields {
		if v, ok := values[f.Name]; ok {
			p.Set(f.Column, v)
		}
	}
	return p
}
