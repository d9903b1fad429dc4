package store

import (
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
)

func TestToFirestore_SwapsSentinel(t *testing.T) {
	got := toFirestore(Fields{"name": "egg", "updatedAt": ServerTimestamp})
	assert.Equal(t, "egg", got["name"])
	assert.Equal(t, firestore.ServerTimestamp, got["updatedAt"])
}

func TestFirestoreUpdates(t *testing.T) {
	ups := firestoreUpdates(Fields{"addedToCart": true})
	assert.Equal(t, []firestore.Update{{FieldPath: firestore.FieldPath{"addedToCart"}, Value: true}}, ups)
}
