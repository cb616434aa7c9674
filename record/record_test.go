package record

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFieldsUnmarshalKeepsKinds(t *testing.T) {
	var f Fields
	err := json.Unmarshal([]byte(`{"title":"Water","amount":50,"urgent":true,"note":null,"tags":["a",1],"meta":{"k":"v"}}`), &f)
	require.NoError(t, err)

	title, ok := f["title"].AsString()
	assert.True(t, ok)
	assert.Equal(t, "Water", title)

	amount, ok := f["amount"].AsNumber()
	assert.True(t, ok)
	assert.Equal(t, 50.0, amount)

	urgent, ok := f["urgent"].AsBool()
	assert.True(t, ok)
	assert.True(t, urgent)

	assert.True(t, f["note"].IsNull())

	tags, ok := f["tags"].AsArray()
	require.True(t, ok)
	assert.Len(t, tags, 2)
	assert.Equal(t, KindNumber, tags[1].Kind())

	meta, ok := f["meta"].AsObject()
	require.True(t, ok)
	assert.Equal(t, String("v"), meta["k"])
}

func TestFieldsUnmarshalRejectsNonObjects(t *testing.T) {
	for _, body := range []string{`[]`, `"x"`, `1`, `null`} {
		var f Fields
		err := json.Unmarshal([]byte(body), &f)
		assert.ErrorIs(t, err, ErrNotObject, "body %s", body)
	}
}

func TestValueMarshalRoundTrip(t *testing.T) {
	in := `{"amount":50,"meta":{"k":[true,null,"s",1.5]},"title":"Water"}`
	var f Fields
	require.NoError(t, json.Unmarshal([]byte(in), &f))

	out, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestFieldsPickFillsMissingWithNull(t *testing.T) {
	f := Fields{"title": String("Water"), "extra": Bool(true)}
	picked := f.Pick("title", "amount")

	assert.Len(t, picked, 2)
	assert.Equal(t, String("Water"), picked["title"])
	assert.True(t, picked["amount"].IsNull())
	_, hasExtra := picked["extra"]
	assert.False(t, hasExtra)
}

func TestFieldsKeysAreSorted(t *testing.T) {
	f := Fields{"title": String("x"), "amount": Number(1), "priority": Null()}
	assert.Equal(t, []string{"amount", "priority", "title"}, f.Keys())
	assert.Empty(t, Fields{}.Keys())
}

func TestFieldsMergeAndEqual(t *testing.T) {
	base := Fields{"a": Number(1), "b": String("x")}
	merged := base.Merge(Fields{"b": String("y"), "c": Null()})

	assert.True(t, base.Equal(Fields{"a": Number(1), "b": String("x")}), "merge must not mutate the receiver")
	assert.True(t, merged.Equal(Fields{"a": Number(1), "b": String("y"), "c": Null()}))
	assert.False(t, merged.Equal(base))
}

func TestFromInterfaceBSON(t *testing.T) {
	id := primitive.NewObjectID()
	v, err := FromInterface(bson.M{
		"_id":    id,
		"count":  int32(3),
		"big":    int64(1 << 40),
		"list":   bson.A{"x", bson.D{{Key: "n", Value: 1.0}}},
		"nested": bson.M{"ok": true},
	})
	require.NoError(t, err)

	obj, ok := v.AsObject()
	require.True(t, ok)
	assert.Equal(t, String(id.Hex()), obj["_id"])
	assert.Equal(t, Number(3), obj["count"])
	assert.Equal(t, Number(float64(int64(1)<<40)), obj["big"])

	list, ok := obj["list"].AsArray()
	require.True(t, ok)
	inner, ok := list[1].AsObject()
	require.True(t, ok)
	assert.Equal(t, Number(1), inner["n"])
}

func TestFromInterfaceUnsupported(t *testing.T) {
	_, err := FromInterface(make(chan int))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestInterfaceProducesPlainTypes(t *testing.T) {
	f := Fields{"a": Array(Number(1), String("x")), "o": Object(Fields{"k": Bool(false)}), "n": Null()}
	m := f.Map()

	assert.Equal(t, []any{1.0, "x"}, m["a"])
	assert.Equal(t, map[string]any{"k": false}, m["o"])
	assert.Nil(t, m["n"])
}

func TestDocumentJSON(t *testing.T) {
	id := NewID()
	doc := Document{ID: id, Fields: Fields{"title": String("Water")}}

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"`+id.Hex()+`","title":"Water"}`, string(data))

	var back Document
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, id, back.ID)
	assert.True(t, back.Fields.Equal(doc.Fields))
}

func TestParseID(t *testing.T) {
	id := NewID()
	parsed, err := ParseID(id.Hex())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	for _, bad := range []string{"", "123", "zzzzzzzzzzzzzzzzzzzzzzzz", id.Hex() + "0"} {
		_, err := ParseID(bad)
		assert.ErrorIs(t, err, ErrInvalidID, "input %q", bad)
	}
}
