// Package storage defines the store-agnostic repository contracts shared by the
// postgres and memory backends: identity, the soft-delete capability, and the
// generic read/write operations every entity repository builds on.
package storage

import (
	"context"
	"time"
)

// Model carries the synthetic identity key plus the opaque public reference
// every persisted record has. Embed it in entity structs.
type Model struct {
	ID       int64  `db:"id"`
	PublicID string `db:"public_id"`
}

func (m *Model) EntityID() int64 {
	return m.ID
}

func (m *Model) SetEntityID(id int64) {
	m.ID = id
}

func (m *Model) EntityPublicID() string {
	return m.PublicID
}

func (m *Model) SetEntityPublicID(publicID string) {
	m.PublicID = publicID
}

// Entity is satisfied by pointers to structs embedding Model.
type Entity interface {
	EntityID() int64
	SetEntityID(id int64)
	EntityPublicID() string
	SetEntityPublicID(publicID string)
}

// SoftDelete is the optional deletion-state block a record type may embed.
// Types embedding it are deleted logically: Delete sets the flag and timestamp
// instead of removing the row, and default reads skip flagged records.
type SoftDelete struct {
	IsDeleted     bool       `db:"is_deleted"`
	DeletedAt     *time.Time `db:"deleted_at"`
	DeletedReason *string    `db:"deleted_reason"`
	DeletedBy     *string    `db:"deleted_by"`
}

func (s *SoftDelete) MarkDeleted(at time.Time) {
	s.IsDeleted = true
	s.DeletedAt = &at
}

func (s *SoftDelete) Deleted() bool {
	return s.IsDeleted
}

// SoftDeletable is the capability a record type advertises by embedding
// SoftDelete. Backends resolve it once per record type at construction, never
// per call.
type SoftDeletable interface {
	MarkDeleted(at time.Time)
	Deleted() bool
}

// Reader is the read-only view of a repository.
type Reader[T any] interface {
	// GetAll returns every non-deleted record.
	GetAll(ctx context.Context) ([]T, error)
	// GetByID reports absence with false, never with an error.
	GetByID(ctx context.Context, id int64) (T, bool, error)
	// Find is Query with only filters applied.
	Find(ctx context.Context, filters ...Filter) ([]T, error)
	// Query runs the full composition pipeline described by q.
	Query(ctx context.Context, q Query) ([]T, error)
}

// Writer is the mutating view of a repository. Each call is its own unit of
// work: the change is committed before the call returns.
type Writer[T any] interface {
	Add(ctx context.Context, entity *T) error
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, entity *T) error
	// DeleteByID is a no-op when no record has the given id.
	DeleteByID(ctx context.Context, id int64) error
}

// Repository combines the read and write capability sets.
type Repository[T any] interface {
	Reader[T]
	Writer[T]
}
