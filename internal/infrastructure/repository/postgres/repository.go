// Package postgres implements the storage contracts against PostgreSQL using
// sqlx and the querybuilder.
package postgres

import (
	"context"
	"fmt"
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"
	"github.com/sourcegraph/conc/pool"

	"github.com/leaguehq/league-server/internal/domain/storage"
	"github.com/leaguehq/league-server/internal/platform/id"
	"github.com/leaguehq/league-server/internal/platform/logging"
	qb "github.com/leaguehq/league-server/internal/platform/querybuilder"
)

type entityPtr[T any] interface {
	*T
	storage.Entity
}

// Table maps a record type onto its relational table. Columns lists the data
// columns in insert order; the identity column is implied.
type Table struct {
	Name    string
	Columns []string
}

// RelationLoader fetches one named child relation for a batch of parents and
// attaches the children in place.
type RelationLoader[T any] func(ctx context.Context, parents []*T, includeDeleted bool) error

// Repository is the generic engine behind every entity repository. One
// instance serves exactly one record type; whether that type soft-deletes is
// resolved once here, not per call.
type Repository[T any, PT entityPtr[T]] struct {
	db        *sqlx.DB
	log       *logging.Logger
	clock     clockwork.Clock
	ids       id.Generator
	table     string
	columns   []string
	selectCol []string
	kind      string
	soft      bool
	relations map[string]RelationLoader[T]
}

func NewRepository[T any, PT entityPtr[T]](db *sqlx.DB, log *logging.Logger, clock clockwork.Clock, ids id.Generator, table Table) *Repository[T, PT] {
	var zero T
	_, soft := any(PT(&zero)).(storage.SoftDeletable)

	return &Repository[T, PT]{
		db:        db,
		log:       log,
		clock:     clock,
		ids:       ids,
		table:     table.Name,
		columns:   append([]string(nil), table.Columns...),
		selectCol: append([]string{"id"}, table.Columns...),
		kind:      reflect.TypeOf(zero).Name(),
		soft:      soft,
		relations: map[string]RelationLoader[T]{},
	}
}

// RegisterRelation wires a named eager-load. Called by entity repository
// constructors before the repository is handed out.
func (r *Repository[T, PT]) RegisterRelation(name string, load RelationLoader[T]) {
	r.relations[name] = load
}

func (r *Repository[T, PT]) GetAll(ctx context.Context) ([]T, error) {
	return r.Query(ctx, storage.Query{})
}

func (r *Repository[T, PT]) GetByID(ctx context.Context, entityID int64) (T, bool, error) {
	var zero T

	sel := qb.Select(r.selectCol...).From(r.table).Where(qb.Eq("id", entityID))
	if r.soft {
		sel.Where(qb.IsNull("deleted_at"))
	}
	query, args, err := sel.ToSQL()
	if err != nil {
		return zero, false, errors.Wrapf(err, "build select %s by id", r.kind)
	}

	var row T
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNoRows(err) {
			return zero, false, nil
		}
		return zero, false, errors.Wrapf(err, "select %s by id %d", r.kind, entityID)
	}

	return row, true, nil
}

func (r *Repository[T, PT]) Find(ctx context.Context, filters ...storage.Filter) ([]T, error) {
	return r.Query(ctx, storage.Query{Filters: filters})
}

// Query applies the composition pipeline in its fixed order: base set, row
// locking, soft-delete policy, eager loads, filters, ordering, pagination.
func (r *Repository[T, PT]) Query(ctx context.Context, q storage.Query) ([]T, error) {
	query, args, err := r.buildQuery(q)
	if err != nil {
		return nil, err
	}

	r.log.DebugContext(ctx, "querying records", "entity", r.kind, "filters", len(q.Filters), "include_deleted", q.IncludeDeleted)

	rows := []T{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrapf(err, "select %s records", r.kind)
	}

	if len(q.Include) > 0 && len(rows) > 0 {
		if err := r.loadRelations(ctx, q, rows); err != nil {
			return nil, err
		}
	}

	return rows, nil
}

func (r *Repository[T, PT]) buildQuery(q storage.Query) (string, []any, error) {
	sel := qb.Select(r.selectCol...).From(r.table)
	if q.ForUpdate {
		sel.Suffix("FOR UPDATE")
	}
	if r.soft && !q.IncludeDeleted {
		sel.Where(qb.IsNull("deleted_at"))
	}

	for _, f := range q.Filters {
		cond, err := toCondition(f)
		if err != nil {
			return "", nil, err
		}
		sel.Where(cond)
	}

	if len(q.OrderBy) == 0 {
		sel.OrderBy("id")
	}
	for _, o := range q.OrderBy {
		if o.Desc {
			sel.OrderBy(o.Column + " DESC")
			continue
		}
		sel.OrderBy(o.Column)
	}

	sel.Offset(q.Skip).Limit(q.Take)

	query, args, err := sel.ToSQL()
	if err != nil {
		return "", nil, errors.Wrapf(err, "build select %s query", r.kind)
	}

	return query, args, nil
}

func (r *Repository[T, PT]) loadRelations(ctx context.Context, q storage.Query, rows []T) error {
	loaders := make([]RelationLoader[T], 0, len(q.Include))
	for _, name := range q.Include {
		load, ok := r.relations[name]
		if !ok {
			return errors.Wrapf(storage.ErrInvalidArgument, "unknown %s relation %q", r.kind, name)
		}
		loaders = append(loaders, load)
	}

	parents := make([]*T, len(rows))
	for i := range rows {
		parents[i] = &rows[i]
	}

	p := pool.New().WithErrors().WithContext(ctx)
	for _, load := range loaders {
		load := load
		p.Go(func(ctx context.Context) error {
			return load(ctx, parents, q.IncludeDeleted)
		})
	}

	return p.Wait()
}

func (r *Repository[T, PT]) Add(ctx context.Context, entity *T) error {
	if entity == nil {
		return errors.Wrapf(storage.ErrInvalidArgument, "add %s: nil entity", r.kind)
	}

	if err := validateEntity(entity); err != nil {
		return errors.Wrapf(err, "add %s", r.kind)
	}

	pe := PT(entity)
	if pe.EntityPublicID() == "" {
		publicID, err := r.ids.NewID()
		if err != nil {
			return errors.Wrapf(err, "generate %s public id", r.kind)
		}
		pe.SetEntityPublicID(publicID)
	}

	values, err := r.fieldValues(entity)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertInto(r.table).
		Columns(r.columns...).
		Values(values...).
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		return errors.Wrapf(err, "build insert %s", r.kind)
	}

	var entityID int64
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&entityID); err != nil {
		return errors.Wrapf(err, "insert %s", r.kind)
	}
	pe.SetEntityID(entityID)

	r.log.InfoContext(ctx, "record added", "entity", r.kind, "id", entityID)
	return nil
}

func (r *Repository[T, PT]) Update(ctx context.Context, entity *T) error {
	if entity == nil {
		return errors.Wrapf(storage.ErrInvalidArgument, "update %s: nil entity", r.kind)
	}

	if err := validateEntity(entity); err != nil {
		return errors.Wrapf(err, "update %s", r.kind)
	}

	pe := PT(entity)
	if pe.EntityID() == 0 {
		return errors.Wrapf(storage.ErrInvalidArgument, "update %s: entity has no identity", r.kind)
	}

	values, err := r.fieldValues(entity)
	if err != nil {
		return err
	}

	upd := qb.Update(r.table)
	for i, column := range r.columns {
		upd.Set(column, values[i])
	}
	query, args, err := upd.Where(qb.Eq("id", pe.EntityID())).ToSQL()
	if err != nil {
		return errors.Wrapf(err, "build update %s", r.kind)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "update %s %d", r.kind, pe.EntityID())
	}

	r.log.InfoContext(ctx, "record updated", "entity", r.kind, "id", pe.EntityID())
	return nil
}

func (r *Repository[T, PT]) Delete(ctx context.Context, entity *T) error {
	if entity == nil {
		return errors.Wrapf(storage.ErrInvalidArgument, "delete %s: nil entity", r.kind)
	}

	pe := PT(entity)
	if pe.EntityID() == 0 {
		return errors.Wrapf(storage.ErrInvalidArgument, "delete %s: entity has no identity", r.kind)
	}

	if r.soft {
		return r.softDelete(ctx, pe)
	}
	return r.hardDelete(ctx, pe)
}

func (r *Repository[T, PT]) softDelete(ctx context.Context, pe PT) error {
	sd := any(pe).(storage.SoftDeletable)
	sd.MarkDeleted(r.clock.Now().UTC())

	values, err := r.fieldValues((*T)(pe))
	if err != nil {
		return err
	}

	upd := qb.Update(r.table)
	for i, column := range r.columns {
		upd.Set(column, values[i])
	}
	query, args, err := upd.Where(qb.Eq("id", pe.EntityID())).ToSQL()
	if err != nil {
		return errors.Wrapf(err, "build soft delete %s", r.kind)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "soft delete %s %d", r.kind, pe.EntityID())
	}

	r.log.InfoContext(ctx, "record soft deleted", "entity", r.kind, "id", pe.EntityID())
	return nil
}

func (r *Repository[T, PT]) hardDelete(ctx context.Context, pe PT) error {
	query, args, err := qb.DeleteFrom(r.table).Where(qb.Eq("id", pe.EntityID())).ToSQL()
	if err != nil {
		return errors.Wrapf(err, "build delete %s", r.kind)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "delete %s %d", r.kind, pe.EntityID())
	}

	r.log.InfoContext(ctx, "record deleted", "entity", r.kind, "id", pe.EntityID())
	return nil
}

func (r *Repository[T, PT]) DeleteByID(ctx context.Context, entityID int64) error {
	row, ok, err := r.GetByID(ctx, entityID)
	if err != nil {
		return err
	}
	if !ok {
		r.log.WarnContext(ctx, "record missing for deletion", "entity", r.kind, "id", entityID)
		return nil
	}

	return r.Delete(ctx, &row)
}

// fieldValues extracts the entity's data columns in table order through the
// sqlx db-tag mapper.
func (r *Repository[T, PT]) fieldValues(entity *T) ([]any, error) {
	fields := r.db.Mapper.FieldMap(reflect.ValueOf(entity).Elem())

	values := make([]any, 0, len(r.columns))
	for _, column := range r.columns {
		field, ok := fields[column]
		if !ok {
			return nil, errors.Wrapf(storage.ErrInvalidArgument, "%s has no column %q", r.kind, column)
		}
		values = append(values, field.Interface())
	}

	return values, nil
}

func validateEntity(entity any) error {
	v, ok := entity.(interface{ Validate() error })
	if !ok {
		return nil
	}
	return v.Validate()
}

func toCondition(f storage.Filter) (qb.Condition, error) {
	switch f.Op {
	case storage.OpEq:
		return qb.Eq(f.Column, f.Value), nil
	case storage.OpIn:
		return qb.In(f.Column, f.Values), nil
	case storage.OpIsNull:
		return qb.IsNull(f.Column), nil
	case storage.OpContains:
		return qb.Contains(f.Column, fmt.Sprint(f.Value)), nil
	default:
		return nil, errors.Wrapf(storage.ErrInvalidArgument, "unsupported filter op %q", f.Op)
	}
}
