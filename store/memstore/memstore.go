// Package memstore is an in-process store.Store. It backs the test suites and
// `STORE_DRIVER=memory` for running the API without a database. Data lives
// only as long as the process.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/user/reliefhub-go/record"
	"github.com/user/reliefhub-go/store"
)

// Store holds one user table and a fixed set of document collections.
type Store struct {
	users       *userStore
	collections map[string]*collection
}

// New returns an empty store with the application's collections.
func New() *Store {
	return &Store{
		users: &userStore{byEmail: make(map[string]*store.User)},
		collections: map[string]*collection{
			store.CollectionReliefGoods: newCollection(),
			store.CollectionRecentWorks: newCollection(),
		},
	}
}

func (s *Store) Users() store.UserStore { return s.users }

func (s *Store) Collection(name string) (store.DocumentStore, error) {
	c, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrUnknownCollection, name)
	}
	return c, nil
}

func (s *Store) Migrate(context.Context) error { return nil }
func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close(context.Context) error { return nil }

type userStore struct {
	mu      sync.RWMutex
	byEmail map[string]*store.User
}

func (u *userStore) FindByEmail(_ context.Context, email string) (*store.User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	found, ok := u.byEmail[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *found
	return &cp, nil
}

func (u *userStore) Insert(_ context.Context, user *store.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, taken := u.byEmail[user.Email]; taken {
		return store.ErrDuplicateKey
	}
	if user.ID.IsZero() {
		user.ID = record.NewID()
	}
	cp := *user
	u.byEmail[user.Email] = &cp
	return nil
}

type collection struct {
	mu    sync.RWMutex
	order []primitive.ObjectID
	docs  map[primitive.ObjectID]record.Fields
}

func newCollection() *collection {
	return &collection{docs: make(map[primitive.ObjectID]record.Fields)}
}

func (c *collection) FindAll(context.Context) ([]record.Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]record.Document, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, record.Document{ID: id, Fields: c.docs[id].Clone()})
	}
	return out, nil
}

func (c *collection) FindByID(_ context.Context, id primitive.ObjectID) (*record.Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &record.Document{ID: id, Fields: f.Clone()}, nil
}

func (c *collection) Insert(_ context.Context, fields record.Fields) (store.InsertResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := record.NewID()
	c.put(id, fields.Without(record.IDField))
	return store.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (c *collection) DeleteByID(_ context.Context, id primitive.ObjectID) (store.DeleteResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[id]; !ok {
		return store.DeleteResult{Acknowledged: true}, nil
	}
	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return store.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

func (c *collection) UpsertByID(_ context.Context, id primitive.ObjectID, set record.Fields) (store.UpdateResult, error) {
	set = set.Without(record.IDField)
	c.mu.Lock()
	defer c.mu.Unlock()
	current, ok := c.docs[id]
	if !ok {
		c.put(id, set.Clone())
		upserted := id
		return store.UpdateResult{Acknowledged: true, UpsertedCount: 1, UpsertedID: &upserted}, nil
	}
	merged := current.Merge(set)
	res := store.UpdateResult{Acknowledged: true, MatchedCount: 1}
	if !merged.Equal(current) {
		c.docs[id] = merged
		res.ModifiedCount = 1
	}
	return res, nil
}

// put must be called with mu held.
func (c *collection) put(id primitive.ObjectID, f record.Fields) {
	c.docs[id] = f
	c.order = append(c.order, id)
}

var _ store.Store = (*Store)(nil)
