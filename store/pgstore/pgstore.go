// Package pgstore implements store.Store on PostgreSQL through pgx. Each
// document collection is a table of (id, doc JSONB) rows; ids keep the
// ObjectID hex format so URLs are interchangeable with the MongoDB backend.
// The schema itself is created by the migrations in the db package.
package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/user/reliefhub-go/record"
	"github.com/user/reliefhub-go/store"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// tables maps collection names to table names.
var tables = map[string]string{
	store.CollectionReliefGoods: "relief_goods",
	store.CollectionRecentWorks: "recent_works",
}

// querier is the subset of pgxpool.Pool the repositories use.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// MigrateFunc applies the schema. It is supplied by the caller because
// migrations run over their own connection rather than the pool.
type MigrateFunc func(ctx context.Context) error

// Store is a pgx pool plus the function that migrates its database.
type Store struct {
	pool    *pgxpool.Pool
	migrate MigrateFunc
}

// New wraps an open pool. Close closes it.
func New(pool *pgxpool.Pool, migrate MigrateFunc) *Store {
	return &Store{pool: pool, migrate: migrate}
}

func (s *Store) Users() store.UserStore { return &userStore{db: s.pool} }

func (s *Store) Collection(name string) (store.DocumentStore, error) {
	table, ok := tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrUnknownCollection, name)
	}
	return newCollection(s.pool, table), nil
}

func (s *Store) Migrate(ctx context.Context) error {
	if s.migrate == nil {
		return nil
	}
	return s.migrate(ctx)
}

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) Close(context.Context) error {
	s.pool.Close()
	return nil
}

type userStore struct {
	db querier
}

func (u *userStore) FindByEmail(ctx context.Context, email string) (*store.User, error) {
	const query = `SELECT id, name, email, password FROM users WHERE email = $1`
	var (
		user store.User
		id   string
	)
	err := u.db.QueryRow(ctx, query, email).Scan(&id, &user.Name, &user.Email, &user.Password)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if user.ID, err = record.ParseID(id); err != nil {
		return nil, fmt.Errorf("user row: %w", err)
	}
	return &user, nil
}

func (u *userStore) Insert(ctx context.Context, user *store.User) error {
	const query = `INSERT INTO users (id, name, email, password) VALUES ($1, $2, $3, $4)`
	if user.ID.IsZero() {
		user.ID = record.NewID()
	}
	_, err := u.db.Exec(ctx, query, user.ID.Hex(), user.Name, user.Email, user.Password)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return store.ErrDuplicateKey
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

type collection struct {
	db    querier
	table string

	selectAll     string
	selectOne     string
	selectLocked  string
	insert        string
	insertMissing string
	update        string
	remove        string
}

func newCollection(db querier, table string) *collection {
	t := pgx.Identifier{table}.Sanitize()
	return &collection{
		db:            db,
		table:         table,
		selectAll:     `SELECT id, doc FROM ` + t + ` ORDER BY created_at, id`,
		selectOne:     `SELECT doc FROM ` + t + ` WHERE id = $1`,
		selectLocked:  `SELECT doc FROM ` + t + ` WHERE id = $1 FOR UPDATE`,
		insert:        `INSERT INTO ` + t + ` (id, doc) VALUES ($1, $2::jsonb)`,
		insertMissing: `INSERT INTO ` + t + ` (id, doc) VALUES ($1, $2::jsonb) ON CONFLICT (id) DO NOTHING`,
		update:        `UPDATE ` + t + ` SET doc = $2::jsonb WHERE id = $1`,
		remove:        `DELETE FROM ` + t + ` WHERE id = $1`,
	}
}

func (c *collection) FindAll(ctx context.Context) ([]record.Document, error) {
	rows, err := c.db.Query(ctx, c.selectAll)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", c.table, err)
	}
	defer rows.Close()

	var docs []record.Document
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan %s: %w", c.table, err)
		}
		doc, err := decodeRow(id, raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", c.table, err)
	}
	if docs == nil {
		docs = []record.Document{}
	}
	return docs, nil
}

func (c *collection) FindByID(ctx context.Context, id primitive.ObjectID) (*record.Document, error) {
	var raw []byte
	if err := c.db.QueryRow(ctx, c.selectOne, id.Hex()).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("select %s %s: %w", c.table, id.Hex(), err)
	}
	doc, err := decodeRow(id.Hex(), raw)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *collection) Insert(ctx context.Context, fields record.Fields) (store.InsertResult, error) {
	body, err := json.Marshal(fields.Without(record.IDField))
	if err != nil {
		return store.InsertResult{}, fmt.Errorf("encode document: %w", err)
	}
	id := record.NewID()
	if _, err := c.db.Exec(ctx, c.insert, id.Hex(), string(body)); err != nil {
		return store.InsertResult{}, fmt.Errorf("insert into %s: %w", c.table, err)
	}
	return store.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (c *collection) DeleteByID(ctx context.Context, id primitive.ObjectID) (store.DeleteResult, error) {
	tag, err := c.db.Exec(ctx, c.remove, id.Hex())
	if err != nil {
		return store.DeleteResult{}, fmt.Errorf("delete from %s: %w", c.table, err)
	}
	return store.DeleteResult{Acknowledged: true, DeletedCount: tag.RowsAffected()}, nil
}

// UpsertByID inserts the document if the id is free; otherwise it locks the
// row, merges set over the stored fields and writes back only on change, so
// the counts mean the same thing as MongoDB's.
func (c *collection) UpsertByID(ctx context.Context, id primitive.ObjectID, set record.Fields) (store.UpdateResult, error) {
	set = set.Without(record.IDField)
	body, err := json.Marshal(set)
	if err != nil {
		return store.UpdateResult{}, fmt.Errorf("encode document: %w", err)
	}

	res := store.UpdateResult{Acknowledged: true}
	err = pgx.BeginFunc(ctx, c.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, c.insertMissing, id.Hex(), string(body))
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 1 {
			upserted := id
			res.UpsertedCount = 1
			res.UpsertedID = &upserted
			return nil
		}

		var raw []byte
		if err := tx.QueryRow(ctx, c.selectLocked, id.Hex()).Scan(&raw); err != nil {
			return err
		}
		var current record.Fields
		if err := json.Unmarshal(raw, &current); err != nil {
			return fmt.Errorf("decode stored document: %w", err)
		}
		res.MatchedCount = 1

		merged := current.Merge(set)
		if merged.Equal(current) {
			return nil
		}
		mergedBody, err := json.Marshal(merged)
		if err != nil {
			return fmt.Errorf("encode merged document: %w", err)
		}
		if _, err := tx.Exec(ctx, c.update, id.Hex(), string(mergedBody)); err != nil {
			return err
		}
		res.ModifiedCount = 1
		return nil
	})
	if err != nil {
		return store.UpdateResult{}, fmt.Errorf("upsert into %s: %w", c.table, err)
	}
	return res, nil
}

func decodeRow(id string, raw []byte) (record.Document, error) {
	oid, err := record.ParseID(id)
	if err != nil {
		return record.Document{}, err
	}
	var fields record.Fields
	if err := json.Unmarshal(raw, &fields); err != nil {
		return record.Document{}, fmt.Errorf("decode document %s: %w", id, err)
	}
	return record.Document{ID: oid, Fields: fields}, nil
}

var _ store.Store = (*Store)(nil)
