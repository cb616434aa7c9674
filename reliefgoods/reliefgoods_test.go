package reliefgoods

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/user/reliefhub-go/apperror"
	"github.com/user/reliefhub-go/record"
	"github.com/user/reliefhub-go/store"
	"github.com/user/reliefhub-go/store/memstore"
)

func newService(t *testing.T) (*Service, store.DocumentStore) {
	t.Helper()
	docs, err := memstore.New().Collection(store.CollectionReliefGoods)
	require.NoError(t, err)
	return NewService(docs, zap.NewNop()), docs
}

func TestInsertGetDeleteScenario(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	ins, err := svc.Insert(ctx, record.Fields{"title": record.String("Water"), "amount": record.Number(50)})
	require.NoError(t, err)
	assert.True(t, ins.Acknowledged)
	id := ins.InsertedID.Hex()

	doc, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, record.String("Water"), doc.Fields["title"])
	assert.Equal(t, record.Number(50), doc.Fields["amount"])

	del, err := svc.DeleteByID(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, del.DeletedCount)

	doc, err = svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestDeleteAbsentIsNotAnError(t *testing.T) {
	svc, _ := newService(t)

	res, err := svc.DeleteByID(context.Background(), primitive.NewObjectID().Hex())
	require.NoError(t, err)
	assert.True(t, res.Acknowledged)
	assert.Zero(t, res.DeletedCount)
}

func TestMalformedIdentifiers(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	for _, bad := range []string{"", "123", "zzzzzzzzzzzzzzzzzzzzzzzz", "507f1f77bcf86cd79943901"} {
		_, err := svc.GetByID(ctx, bad)
		assert.True(t, apperror.IsInvalidIdentifier(err), bad)
		_, err = svc.DeleteByID(ctx, bad)
		assert.True(t, apperror.IsInvalidIdentifier(err), bad)
		_, err = svc.UpsertByID(ctx, bad, record.Fields{})
		assert.True(t, apperror.IsInvalidIdentifier(err), bad)
	}
}

func TestUpsertCreatesAbsentRecord(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	id := primitive.NewObjectID()

	res, err := svc.UpsertByID(ctx, id.Hex(), record.Fields{"title": record.String("Rice"), "amount": record.Number(20)})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.UpsertedCount)
	require.NotNil(t, res.UpsertedID)
	assert.Equal(t, id, *res.UpsertedID)

	doc, err := svc.GetByID(ctx, id.Hex())
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, record.String("Rice"), doc.Fields["title"])
	assert.Equal(t, record.Number(20), doc.Fields["amount"])
	assert.True(t, doc.Fields["priority"].IsNull(), "fixed fields missing from the body are written as null")
}

func TestUpsertKeepsFieldsOutsideFixedSet(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	ins, err := svc.Insert(ctx, record.Fields{
		"title":    record.String("Water"),
		"amount":   record.Number(50),
		"location": record.String("Sylhet"),
		"tags":     record.Array(record.String("urgent")),
	})
	require.NoError(t, err)
	id := ins.InsertedID.Hex()

	res, err := svc.UpsertByID(ctx, id, record.Fields{
		"title":    record.String("Clean water"),
		"amount":   record.Number(75),
		"location": record.String("ignored"),
		"extra":    record.Bool(true),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.MatchedCount)
	assert.EqualValues(t, 1, res.ModifiedCount)
	assert.Nil(t, res.UpsertedID)

	doc, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, record.String("Clean water"), doc.Fields["title"])
	assert.Equal(t, record.Number(75), doc.Fields["amount"])
	assert.Equal(t, record.String("Sylhet"), doc.Fields["location"])
	assert.Equal(t, record.Array(record.String("urgent")), doc.Fields["tags"])
	_, hasExtra := doc.Fields["extra"]
	assert.False(t, hasExtra)
	for _, k := range UpsertFields {
		assert.Contains(t, doc.Fields, k)
	}
}

func TestUpsertUnchangedRecord(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	id := primitive.NewObjectID().Hex()
	body := record.Fields{"title": record.String("Tents")}

	_, err := svc.UpsertByID(ctx, id, body)
	require.NoError(t, err)
	res, err := svc.UpsertByID(ctx, id, body)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.MatchedCount)
	assert.Zero(t, res.ModifiedCount)
}

func TestListAll(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	docs, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)

	for _, title := range []string{"a", "b", "c"} {
		_, err := svc.Insert(ctx, record.Fields{"title": record.String(title)})
		require.NoError(t, err)
	}
	docs, err = svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, record.String("a"), docs[0].Fields["title"])
	assert.Equal(t, record.String("c"), docs[2].Fields["title"])
}

func TestServiceLogsFieldNames(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	docs, err := memstore.New().Collection(store.CollectionReliefGoods)
	require.NoError(t, err)
	svc := NewService(docs, zap.New(core))
	ctx := context.Background()

	ins, err := svc.Insert(ctx, record.Fields{"title": record.String("Water"), "amount": record.Number(5)})
	require.NoError(t, err)
	_, err = svc.UpsertByID(ctx, ins.InsertedID.Hex(), record.Fields{"title": record.String("Rice"), "zone": record.String("B"), "extra": record.Bool(true)})
	require.NoError(t, err)

	inserted := logs.FilterMessage("relief goods inserted").All()
	require.Len(t, inserted, 1)
	assert.Equal(t, []any{"amount", "title"}, fieldStrings(inserted[0], "fields"))

	ignored := logs.FilterMessage("relief goods upsert ignored fields").All()
	require.Len(t, ignored, 1)
	assert.Equal(t, []any{"extra", "zone"}, fieldStrings(ignored[0], "fields"))
}

func fieldStrings(e observer.LoggedEntry, key string) []any {
	v, _ := e.ContextMap()[key].([]any)
	return v
}

// failingDocs fails every call.
type failingDocs struct{ store.DocumentStore }

var errDown = errors.New("connection reset")

func (failingDocs) FindAll(context.Context) ([]record.Document, error) { return nil, errDown }

func (failingDocs) UpsertByID(context.Context, primitive.ObjectID, record.Fields) (store.UpdateResult, error) {
	return store.UpdateResult{}, errDown
}

func TestStoreFailures(t *testing.T) {
	svc := NewService(failingDocs{}, zap.NewNop())
	ctx := context.Background()

	_, err := svc.ListAll(ctx)
	assert.True(t, apperror.Is(err, apperror.StoreUnavailableError))
	assert.ErrorIs(t, err, errDown)

	_, err = svc.UpsertByID(ctx, primitive.NewObjectID().Hex(), record.Fields{})
	ae, ok := apperror.FromError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, ae.StatusCode())
	assert.Equal(t, "Error updating relief goods", ae.Message)
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	svc, _ := newService(t)
	r := chi.NewRouter()
	r.Route("/relief-goods", NewHandler(svc, zap.NewNop()).RegisterRoutes)
	return r
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlers(t *testing.T) {
	h := newRouter(t)

	rec := do(h, http.MethodPost, "/relief-goods", `{"title":"Water","amount":50,"_id":"ignored"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var ins struct {
		Acknowledged bool   `json:"acknowledged"`
		InsertedID   string `json:"insertedId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ins))
	assert.True(t, ins.Acknowledged)
	assert.Len(t, ins.InsertedID, 24)

	rec = do(h, http.MethodGet, "/relief-goods/"+ins.InsertedID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"_id":"`+ins.InsertedID+`","title":"Water","amount":50}`, rec.Body.String())

	rec = do(h, http.MethodGet, "/relief-goods", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":true,"data":[{"_id":"`+ins.InsertedID+`","title":"Water","amount":50}]}`, rec.Body.String())

	rec = do(h, http.MethodPut, "/relief-goods/"+ins.InsertedID, `{"amount":60}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"acknowledged":true,"matchedCount":1,"modifiedCount":1,"upsertedCount":0,"upsertedId":null}`, rec.Body.String())

	rec = do(h, http.MethodDelete, "/relief-goods/"+ins.InsertedID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"acknowledged":true,"deletedCount":1}`, rec.Body.String())

	rec = do(h, http.MethodGet, "/relief-goods/"+ins.InsertedID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))
}

func TestHandlersAcceptEmptyBody(t *testing.T) {
	h := newRouter(t)

	rec := do(h, http.MethodPost, "/relief-goods", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var ins struct {
		InsertedID string `json:"insertedId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ins))

	rec = do(h, http.MethodGet, "/relief-goods/"+ins.InsertedID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"_id":"`+ins.InsertedID+`"}`, rec.Body.String())

	id := primitive.NewObjectID().Hex()
	rec = do(h, http.MethodPut, "/relief-goods/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"upsertedCount":1`)

	rec = do(h, http.MethodGet, "/relief-goods/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"_id":"`+id+`","title":null,"category":null,"item":null,"reason":null,"amount":null,"description":null,"priority":null}`, rec.Body.String())

	rec = do(h, http.MethodPost, "/relief-goods", "42")
	assert.Equal(t, http.StatusBadRequest, rec.Code, "a present body must still be an object")
}

func TestHandlerErrors(t *testing.T) {
	h := newRouter(t)

	rec := do(h, http.MethodGet, "/relief-goods/not-an-id", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"invalid_identifier"`)

	rec = do(h, http.MethodPost, "/relief-goods", `[1,2,3]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"bad_request"`)

	rec = do(h, http.MethodPut, "/relief-goods/"+primitive.NewObjectID().Hex(), `"text"`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
