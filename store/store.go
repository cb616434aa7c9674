// Package store defines the contracts between the services and the document
// database. Services depend only on these interfaces; concrete backends live
// in the mongostore, pgstore and memstore sub-packages and are selected at
// startup by the db package.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/user/reliefhub-go/record"
)

// Collection names. They match the collections of the existing MongoDB
// deployment so the service can run against it unchanged.
const (
	CollectionUsers       = "user"
	CollectionReliefGoods = "reliefgoods"
	CollectionRecentWorks = "ourRecentlyWorks"
)

var (
	// ErrNotFound is returned by lookups that match nothing.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicateKey is returned when an insert violates a unique index.
	ErrDuplicateKey = errors.New("store: duplicate key")
	// ErrUnknownCollection is returned by Collection for names the backend has no storage for.
	ErrUnknownCollection = errors.New("store: unknown collection")
)

// User is a registered account as persisted. Password holds the hash.
type User struct {
	ID       primitive.ObjectID
	Name     string
	Email    string
	Password string
}

// UserStore persists accounts. Email is a unique key enforced by the backend.
type UserStore interface {
	// FindByEmail returns ErrNotFound when no account has exactly this email.
	FindByEmail(ctx context.Context, email string) (*User, error)
	// Insert assigns u.ID when it is zero and returns ErrDuplicateKey when
	// the email is already taken.
	Insert(ctx context.Context, u *User) error
}

// DocumentStore persists open field-bag documents in one collection.
type DocumentStore interface {
	// FindAll returns a snapshot of every document, in insertion order where
	// the backend can provide it.
	FindAll(ctx context.Context) ([]record.Document, error)
	// FindByID returns ErrNotFound when no document has the id.
	FindByID(ctx context.Context, id primitive.ObjectID) (*record.Document, error)
	// Insert stores fields under a freshly assigned id.
	Insert(ctx context.Context, fields record.Fields) (InsertResult, error)
	// DeleteByID removes at most one document. Deleting a missing id is not
	// an error; the result reports zero deletions.
	DeleteByID(ctx context.Context, id primitive.ObjectID) (DeleteResult, error)
	// UpsertByID writes every key of set onto the document with the id,
	// leaving its other fields alone, or creates the document if absent.
	UpsertByID(ctx context.Context, id primitive.ObjectID, set record.Fields) (UpdateResult, error)
}

// Store is an open connection to one backend.
type Store interface {
	Users() UserStore
	Collection(name string) (DocumentStore, error)
	// Migrate creates whatever indexes or tables the backend needs. It is idempotent.
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// InsertResult acknowledges an insert. The JSON form matches what MongoDB
// drivers report so existing clients can keep reading insertedId.
type InsertResult struct {
	Acknowledged bool               `json:"acknowledged"`
	InsertedID   primitive.ObjectID `json:"insertedId"`
}

// DeleteResult acknowledges a delete. Callers tell success from a no-op by
// DeletedCount, never by an error.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// UpdateResult acknowledges an upsert. UpsertedID is nil unless a new
// document was created.
type UpdateResult struct {
	Acknowledged  bool                `json:"acknowledged"`
	MatchedCount  int64               `json:"matchedCount"`
	ModifiedCount int64               `json:"modifiedCount"`
	UpsertedCount int64               `json:"upsertedCount"`
	UpsertedID    *primitive.ObjectID `json:"upsertedId"`
}
