// Package reliefgoods exposes CRUD over the relief goods collection. Records
// are open field bags; only upserts restrict which fields they write.
package reliefgoods

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/user/reliefhub-go/apperror"
	"github.com/user/reliefhub-go/record"
	"github.com/user/reliefhub-go/store"
)

// UpsertFields is the fixed set of fields a PUT writes. Keys missing from the
// request body are written as null; any other key is ignored.
var UpsertFields = []string{"title", "category", "item", "reason", "amount", "description", "priority"}

const msgUpdateFailed = "Error updating relief goods"

// Service implements the relief goods operations on a document store.
type Service struct {
	docs store.DocumentStore
	l    *zap.Logger
}

// NewService creates a new Service.
func NewService(docs store.DocumentStore, l *zap.Logger) *Service {
	return &Service{docs: docs, l: l}
}

// ListAll returns every record.
func (s *Service) ListAll(ctx context.Context) ([]record.Document, error) {
	docs, err := s.docs.FindAll(ctx)
	if err != nil {
		return nil, apperror.NewStoreUnavailableError("failed to list relief goods", err)
	}
	if docs == nil {
		docs = []record.Document{}
	}
	return docs, nil
}

// Insert stores fields as a new record. No field is required.
func (s *Service) Insert(ctx context.Context, fields record.Fields) (store.InsertResult, error) {
	res, err := s.docs.Insert(ctx, fields)
	if err != nil {
		return store.InsertResult{}, apperror.NewStoreUnavailableError("failed to insert relief goods", err)
	}
	s.l.Debug("relief goods inserted",
		zap.String("id", res.InsertedID.Hex()),
		zap.Strings("fields", fields.Keys()),
	)
	return res, nil
}

// GetByID returns the record with the given id, or nil when there is none.
func (s *Service) GetByID(ctx context.Context, rawID string) (*record.Document, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, apperror.NewStoreUnavailableError("failed to get relief goods", err)
	}
	return doc, nil
}

// DeleteByID removes the record if present. A missing record is reported
// through a zero DeletedCount.
func (s *Service) DeleteByID(ctx context.Context, rawID string) (store.DeleteResult, error) {
	id, err := parseID(rawID)
	if err != nil {
		return store.DeleteResult{}, err
	}
	res, err := s.docs.DeleteByID(ctx, id)
	if err != nil {
		return store.DeleteResult{}, apperror.NewStoreUnavailableError("failed to delete relief goods", err)
	}
	return res, nil
}

// UpsertByID writes exactly UpsertFields from fields onto the record, creating
// it under id when absent. Stored fields outside UpsertFields are untouched.
func (s *Service) UpsertByID(ctx context.Context, rawID string, fields record.Fields) (store.UpdateResult, error) {
	id, err := parseID(rawID)
	if err != nil {
		return store.UpdateResult{}, err
	}
	res, err := s.docs.UpsertByID(ctx, id, fields.Pick(UpsertFields...))
	if err != nil {
		return store.UpdateResult{}, apperror.NewInternalError(msgUpdateFailed, err)
	}
	if ignored := fields.Without(UpsertFields...); len(ignored) > 0 {
		// Extra keys are legal but never written; log them so a client
		// wondering where its field went can find out.
		s.l.Debug("relief goods upsert ignored fields",
			zap.String("id", id.Hex()),
			zap.Strings("fields", ignored.Keys()),
		)
	}
	return res, nil
}

func parseID(raw string) (primitive.ObjectID, error) {
	id, err := record.ParseID(raw)
	if err != nil {
		return primitive.NilObjectID, apperror.NewInvalidIdentifierError(fmt.Sprintf("invalid id %q", raw), err)
	}
	return id, nil
}
