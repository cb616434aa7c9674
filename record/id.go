package record

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidID marks identifiers that are not 24 hex characters.
var ErrInvalidID = errors.New("invalid identifier")

// ParseID parses the hex form of an ObjectID. Every store backend uses this
// identifier format, including the ones that are not MongoDB.
func ParseID(s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w %q: %v", ErrInvalidID, s, err)
	}
	return id, nil
}

// NewID allocates a fresh identifier.
func NewID() primitive.ObjectID {
	return primitive.NewObjectID()
}
