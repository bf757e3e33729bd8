// Package memory implements the storage contracts against an in-process
// store. It mirrors the postgres backend's semantics, including soft delete
// and relationship cascade, and backs local development and behavior tests.
package memory

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx/reflectx"
	"github.com/jonboulle/clockwork"

	"github.com/leaguehq/league-server/internal/domain/storage"
	"github.com/leaguehq/league-server/internal/platform/id"
	"github.com/leaguehq/league-server/internal/platform/logging"
)

type entityPtr[T any] interface {
	*T
	storage.Entity
}

// RelationLoader fetches one named child relation for a batch of parents.
type RelationLoader[T any] func(ctx context.Context, parents []*T, includeDeleted bool) error

// Collection is the in-memory generic engine for one record type. Columns are
// addressed through the same db tags the postgres backend scans with.
type Collection[T any, PT entityPtr[T]] struct {
	mu     sync.RWMutex
	items  map[int64]T
	order  []int64
	nextID int64

	log    *logging.Logger
	clock  clockwork.Clock
	ids    id.Generator
	mapper *reflectx.Mapper
	kind   string
	soft   bool

	relations map[string]RelationLoader[T]
	cascades  []func(ctx context.Context, parentID int64) error
}

func NewCollection[T any, PT entityPtr[T]](log *logging.Logger, clock clockwork.Clock, ids id.Generator) *Collection[T, PT] {
	var zero T
	_, soft := any(PT(&zero)).(storage.SoftDeletable)

	return &Collection[T, PT]{
		items:     map[int64]T{},
		log:       log,
		clock:     clock,
		ids:       ids,
		mapper:    reflectx.NewMapperFunc("db", strings.ToLower),
		kind:      reflect.TypeOf(zero).Name(),
		soft:      soft,
		relations: map[string]RelationLoader[T]{},
	}
}

// RegisterRelation wires a named eager-load.
func (c *Collection[T, PT]) RegisterRelation(name string, load RelationLoader[T]) {
	c.relations[name] = load
}

// OnDelete registers a cascade hook run after a row is physically removed,
// standing in for the schema's ON DELETE CASCADE foreign keys.
func (c *Collection[T, PT]) OnDelete(cascade func(ctx context.Context, parentID int64) error) {
	c.cascades = append(c.cascades, cascade)
}

func (c *Collection[T, PT]) GetAll(ctx context.Context) ([]T, error) {
	return c.Query(ctx, storage.Query{})
}

func (c *Collection[T, PT]) GetByID(_ context.Context, entityID int64) (T, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var zero T
	item, ok := c.items[entityID]
	if !ok {
		return zero, false, nil
	}
	if c.soft && any(PT(&item)).(storage.SoftDeletable).Deleted() {
		return zero, false, nil
	}

	return item, true, nil
}

func (c *Collection[T, PT]) Find(ctx context.Context, filters ...storage.Filter) ([]T, error) {
	return c.Query(ctx, storage.Query{Filters: filters})
}

// Query applies the composition pipeline in the same fixed order as the
// postgres backend: base set, soft-delete policy, eager loads, filters,
// ordering, pagination. ForUpdate has no in-memory meaning and is ignored.
func (c *Collection[T, PT]) Query(ctx context.Context, q storage.Query) ([]T, error) {
	c.mu.RLock()
	snapshot := make([]T, 0, len(c.order))
	for _, entityID := range c.order {
		snapshot = append(snapshot, c.items[entityID])
	}
	c.mu.RUnlock()

	result := []T{}
	for i := range snapshot {
		item := snapshot[i]
		if c.soft && !q.IncludeDeleted && any(PT(&item)).(storage.SoftDeletable).Deleted() {
			continue
		}
		match, err := c.matchesAll(&item, q.Filters)
		if err != nil {
			return nil, err
		}
		if match {
			result = append(result, item)
		}
	}

	if err := c.sortResult(result, q.OrderBy); err != nil {
		return nil, err
	}

	result = paginate(result, q.Skip, q.Take)

	if len(q.Include) > 0 && len(result) > 0 {
		if err := c.loadRelations(ctx, q, result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (c *Collection[T, PT]) loadRelations(ctx context.Context, q storage.Query, rows []T) error {
	parents := make([]*T, len(rows))
	for i := range rows {
		parents[i] = &rows[i]
	}

	for _, name := range q.Include {
		load, ok := c.relations[name]
		if !ok {
			return errors.Wrapf(storage.ErrInvalidArgument, "unknown %s relation %q", c.kind, name)
		}
		if err := load(ctx, parents, q.IncludeDeleted); err != nil {
			return err
		}
	}

	return nil
}

func (c *Collection[T, PT]) Add(ctx context.Context, entity *T) error {
	if entity == nil {
		return errors.Wrapf(storage.ErrInvalidArgument, "add %s: nil entity", c.kind)
	}

	if err := validateEntity(entity); err != nil {
		return errors.Wrapf(err, "add %s", c.kind)
	}

	pe := PT(entity)
	if pe.EntityPublicID() == "" {
		publicID, err := c.ids.NewID()
		if err != nil {
			return errors.Wrapf(err, "generate %s public id", c.kind)
		}
		pe.SetEntityPublicID(publicID)
	}

	c.mu.Lock()
	c.nextID++
	pe.SetEntityID(c.nextID)
	c.items[c.nextID] = *entity
	c.order = append(c.order, c.nextID)
	c.mu.Unlock()

	c.log.InfoContext(ctx, "record added", "entity", c.kind, "id", pe.EntityID())
	return nil
}

func (c *Collection[T, PT]) Update(ctx context.Context, entity *T) error {
	if entity == nil {
		return errors.Wrapf(storage.ErrInvalidArgument, "update %s: nil entity", c.kind)
	}

	if err := validateEntity(entity); err != nil {
		return errors.Wrapf(err, "update %s", c.kind)
	}

	pe := PT(entity)
	if pe.EntityID() == 0 {
		return errors.Wrapf(storage.ErrInvalidArgument, "update %s: entity has no identity", c.kind)
	}

	c.mu.Lock()
	if _, ok := c.items[pe.EntityID()]; ok {
		c.items[pe.EntityID()] = *entity
	}
	c.mu.Unlock()

	c.log.InfoContext(ctx, "record updated", "entity", c.kind, "id", pe.EntityID())
	return nil
}

func (c *Collection[T, PT]) Delete(ctx context.Context, entity *T) error {
	if entity == nil {
		return errors.Wrapf(storage.ErrInvalidArgument, "delete %s: nil entity", c.kind)
	}

	pe := PT(entity)
	if pe.EntityID() == 0 {
		return errors.Wrapf(storage.ErrInvalidArgument, "delete %s: entity has no identity", c.kind)
	}

	if c.soft {
		any(pe).(storage.SoftDeletable).MarkDeleted(c.clock.Now().UTC())

		c.mu.Lock()
		if _, ok := c.items[pe.EntityID()]; ok {
			c.items[pe.EntityID()] = *entity
		}
		c.mu.Unlock()

		c.log.InfoContext(ctx, "record soft deleted", "entity", c.kind, "id", pe.EntityID())
		return nil
	}

	return c.Purge(ctx, pe.EntityID())
}

func (c *Collection[T, PT]) DeleteByID(ctx context.Context, entityID int64) error {
	row, ok, err := c.GetByID(ctx, entityID)
	if err != nil {
		return err
	}
	if !ok {
		c.log.WarnContext(ctx, "record missing for deletion", "entity", c.kind, "id", entityID)
		return nil
	}

	return c.Delete(ctx, &row)
}

// Purge removes a row physically regardless of the soft-delete capability and
// runs the cascade hooks, the way a foreign-key cascade removes descendants.
func (c *Collection[T, PT]) Purge(ctx context.Context, entityID int64) error {
	c.mu.Lock()
	_, existed := c.items[entityID]
	if existed {
		delete(c.items, entityID)
		for i, ordered := range c.order {
			if ordered == entityID {
				c.order = append(c.order[:i], c.order[i+1:]...)
				break
			}
		}
	}
	c.mu.Unlock()

	if !existed {
		return nil
	}

	for _, cascade := range c.cascades {
		if err := cascade(ctx, entityID); err != nil {
			return err
		}
	}

	c.log.InfoContext(ctx, "record deleted", "entity", c.kind, "id", entityID)
	return nil
}

func validateEntity(entity any) error {
	v, ok := entity.(interface{ Validate() error })
	if !ok {
		return nil
	}
	return v.Validate()
}

func (c *Collection[T, PT]) matchesAll(item *T, filters []storage.Filter) (bool, error) {
	for _, f := range filters {
		match, err := c.matches(item, f)
		if err != nil {
			return false, err
		}
		if !match {
			return false, nil
		}
	}
	return true, nil
}

func (c *Collection[T, PT]) matches(item *T, f storage.Filter) (bool, error) {
	field, err := c.fieldValue(item, f.Column)
	if err != nil {
		return false, err
	}

	switch f.Op {
	case storage.OpEq:
		return equalValues(field, f.Value), nil
	case storage.OpIn:
		for _, v := range f.Values {
			if equalValues(field, v) {
				return true, nil
			}
		}
		return false, nil
	case storage.OpIsNull:
		return field.Kind() == reflect.Pointer && field.IsNil(), nil
	case storage.OpContains:
		deref := reflect.Indirect(field)
		if deref.Kind() != reflect.String {
			return false, nil
		}
		return strings.Contains(deref.String(), fmt.Sprint(f.Value)), nil
	default:
		return false, errors.Wrapf(storage.ErrInvalidArgument, "unsupported filter op %q", f.Op)
	}
}

func (c *Collection[T, PT]) fieldValue(item *T, column string) (reflect.Value, error) {
	fields := c.mapper.FieldMap(reflect.ValueOf(item).Elem())
	field, ok := fields[column]
	if !ok {
		return reflect.Value{}, errors.Wrapf(storage.ErrInvalidArgument, "%s has no column %q", c.kind, column)
	}
	return field, nil
}

func (c *Collection[T, PT]) sortResult(rows []T, orderBy []storage.Order) error {
	if len(orderBy) == 0 {
		orderBy = []storage.Order{{Column: "id"}}
	}

	// Validate order columns before sorting; sort.SliceStable cannot fail.
	for _, o := range orderBy {
		if len(rows) > 0 {
			if _, err := c.fieldValue(&rows[0], o.Column); err != nil {
				return err
			}
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		for _, o := range orderBy {
			left, _ := c.fieldValue(&rows[i], o.Column)
			right, _ := c.fieldValue(&rows[j], o.Column)
			cmp := compareValues(left, right)
			if cmp == 0 {
				continue
			}
			if o.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})

	return nil
}

func paginate[T any](rows []T, skip, take int) []T {
	if skip > 0 {
		if skip >= len(rows) {
			return []T{}
		}
		rows = rows[skip:]
	}
	if take > 0 && take < len(rows) {
		rows = rows[:take]
	}
	return rows
}

func equalValues(field reflect.Value, want any) bool {
	field = reflect.Indirect(field)
	if !field.IsValid() {
		return false
	}

	if ft, ok := field.Interface().(time.Time); ok {
		wt, ok := want.(time.Time)
		return ok && ft.Equal(wt)
	}

	wantValue := reflect.Indirect(reflect.ValueOf(want))
	if !wantValue.IsValid() {
		return false
	}

	left, lok := canonical(field)
	right, rok := canonical(wantValue)
	if !lok || !rok {
		return false
	}
	return left == right
}

func compareValues(left, right reflect.Value) int {
	l, lok := canonical(reflect.Indirect(left))
	r, rok := canonical(reflect.Indirect(right))
	if !lok || !rok {
		return 0
	}

	switch lv := l.(type) {
	case int64:
		rv, ok := r.(int64)
		if !ok {
			return 0
		}
		switch {
		case lv < rv:
			return -1
		case lv > rv:
			return 1
		}
	case float64:
		rv, ok := r.(float64)
		if !ok {
			return 0
		}
		switch {
		case lv < rv:
			return -1
		case lv > rv:
			return 1
		}
	case string:
		rv, ok := r.(string)
		if !ok {
			return 0
		}
		return strings.Compare(lv, rv)
	}
	return 0
}

// canonical folds numeric kinds together so an untyped int filter value
// matches an int64 column.
func canonical(v reflect.Value) (any, bool) {
	if !v.IsValid() {
		return nil, false
	}

	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.String:
		return v.String(), true
	case reflect.Bool:
		return v.Bool(), true
	default:
		return nil, false
	}
}
