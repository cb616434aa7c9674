package mongostore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/user/reliefhub-go/record"
)

func TestDocumentFromBSON(t *testing.T) {
	id := primitive.NewObjectID()
	doc, err := documentFromBSON(bson.M{
		"_id":    id,
		"title":  "Water",
		"amount": int32(50),
	})
	require.NoError(t, err)

	assert.Equal(t, id, doc.ID)
	assert.Len(t, doc.Fields, 2)
	assert.Equal(t, record.String("Water"), doc.Fields["title"])
	assert.Equal(t, record.Number(50), doc.Fields["amount"])
}

func TestDocumentFromBSONRejectsForeignIDs(t *testing.T) {
	_, err := documentFromBSON(bson.M{"_id": "legacy-string-id", "title": "x"})
	assert.Error(t, err)
}

func TestUpdateResultFrom(t *testing.T) {
	id := primitive.NewObjectID()

	res, err := updateResultFrom(&mongo.UpdateResult{UpsertedCount: 1, UpsertedID: id})
	require.NoError(t, err)
	assert.True(t, res.Acknowledged)
	require.NotNil(t, res.UpsertedID)
	assert.Equal(t, id, *res.UpsertedID)

	res, err = updateResultFrom(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1})
	require.NoError(t, err)
	assert.Nil(t, res.UpsertedID)
	assert.EqualValues(t, 1, res.MatchedCount)
	assert.EqualValues(t, 1, res.ModifiedCount)
}
