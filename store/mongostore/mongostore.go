// Package mongostore implements store.Store on MongoDB with the official Go
// driver. Documents are kept exactly as the API receives them plus their
// ObjectID `_id`, so the collections stay readable by other MongoDB clients.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/user/reliefhub-go/record"
	"github.com/user/reliefhub-go/store"
)

const emailIndexName = "email_unique"

// Store wraps a connected client and the application database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// New wraps an already connected client. Close disconnects it.
func New(client *mongo.Client, database string) *Store {
	return &Store{client: client, db: client.Database(database)}
}

func (s *Store) Users() store.UserStore {
	return &userStore{coll: s.db.Collection(store.CollectionUsers)}
}

func (s *Store) Collection(name string) (store.DocumentStore, error) {
	switch name {
	case store.CollectionReliefGoods, store.CollectionRecentWorks:
		return &collection{coll: s.db.Collection(name)}, nil
	}
	return nil, fmt.Errorf("%w: %s", store.ErrUnknownCollection, name)
}

// Migrate creates the unique email index. Registration relies on it to
// reject concurrent sign-ups for the same address.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.Collection(store.CollectionUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(emailIndexName),
	})
	if err != nil {
		return fmt.Errorf("create %s index: %w", emailIndexName, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type userDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Email    string             `bson:"email"`
	Password string             `bson:"password"`
}

type userStore struct {
	coll *mongo.Collection
}

func (u *userStore) FindByEmail(ctx context.Context, email string) (*store.User, error) {
	var doc userDoc
	err := u.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &store.User{ID: doc.ID, Name: doc.Name, Email: doc.Email, Password: doc.Password}, nil
}

func (u *userStore) Insert(ctx context.Context, user *store.User) error {
	if user.ID.IsZero() {
		user.ID = record.NewID()
	}
	_, err := u.coll.InsertOne(ctx, userDoc{ID: user.ID, Name: user.Name, Email: user.Email, Password: user.Password})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrDuplicateKey
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

type collection struct {
	coll *mongo.Collection
}

func (c *collection) FindAll(ctx context.Context) ([]record.Document, error) {
	cur, err := c.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c.coll.Name(), err)
	}
	var raw []bson.M
	if err := cur.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("read %s cursor: %w", c.coll.Name(), err)
	}
	docs := make([]record.Document, 0, len(raw))
	for _, m := range raw {
		doc, err := documentFromBSON(m)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (c *collection) FindByID(ctx context.Context, id primitive.ObjectID) (*record.Document, error) {
	var m bson.M
	err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("find %s %s: %w", c.coll.Name(), id.Hex(), err)
	}
	doc, err := documentFromBSON(m)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *collection) Insert(ctx context.Context, fields record.Fields) (store.InsertResult, error) {
	id := record.NewID()
	body := fields.Without(record.IDField).Map()
	body[record.IDField] = id
	if _, err := c.coll.InsertOne(ctx, bson.M(body)); err != nil {
		return store.InsertResult{}, fmt.Errorf("insert into %s: %w", c.coll.Name(), err)
	}
	return store.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (c *collection) DeleteByID(ctx context.Context, id primitive.ObjectID) (store.DeleteResult, error) {
	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return store.DeleteResult{}, fmt.Errorf("delete from %s: %w", c.coll.Name(), err)
	}
	return store.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

func (c *collection) UpsertByID(ctx context.Context, id primitive.ObjectID, set record.Fields) (store.UpdateResult, error) {
	body := set.Without(record.IDField)
	if len(body) == 0 {
		// MongoDB rejects an empty $set.
		return store.UpdateResult{}, fmt.Errorf("upsert into %s: no fields to set", c.coll.Name())
	}
	res, err := c.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M(body.Map())},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return store.UpdateResult{}, fmt.Errorf("upsert into %s: %w", c.coll.Name(), err)
	}
	return updateResultFrom(res)
}

// documentFromBSON splits a decoded document into its ObjectID and fields.
func documentFromBSON(m bson.M) (record.Document, error) {
	id, ok := m[record.IDField].(primitive.ObjectID)
	if !ok {
		return record.Document{}, fmt.Errorf("document has non-ObjectID _id of type %T", m[record.IDField])
	}
	rest := make(map[string]any, len(m))
	for k, v := range m {
		if k != record.IDField {
			rest[k] = v
		}
	}
	fields, err := record.FieldsFromMap(rest)
	if err != nil {
		return record.Document{}, fmt.Errorf("document %s: %w", id.Hex(), err)
	}
	return record.Document{ID: id, Fields: fields}, nil
}

func updateResultFrom(res *mongo.UpdateResult) (store.UpdateResult, error) {
	out := store.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
	}
	if res.UpsertedID != nil {
		id, ok := res.UpsertedID.(primitive.ObjectID)
		if !ok {
			return store.UpdateResult{}, fmt.Errorf("upserted id has type %T", res.UpsertedID)
		}
		out.UpsertedID = &id
	}
	return out, nil
}

var _ store.Store = (*Store)(nil)
