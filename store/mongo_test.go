package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMongoCollectionName(t *testing.T) {
	assert.Equal(t, "meals", mongoCollectionName(Root("meals")))
	assert.Equal(t, "users_foods", mongoCollectionName(Root("users").Doc("u1").Sub("foods")))
}

func TestMongoFilter_ScopesNestedCollection(t *testing.T) {
	q := From(Root("users").Doc("u1").Sub("foods")).
		Where(Eq("addedToCart", true)).
		OrderBy("lastUsed", Desc)

	want := bson.D{{Key: "$and", Value: bson.A{
		bson.D{{Key: parentKey, Value: "users/u1"}},
		bson.D{{Key: "addedToCart", Value: true}},
		bson.D{{Key: "lastUsed", Value: bson.D{{Key: "$exists", Value: true}}}},
	}}}
	assert.Equal(t, want, mongoFilter(q))
	assert.Equal(t, bson.D{{Key: "lastUsed", Value: -1}, {Key: "_id", Value: 1}}, mongoSort(q))
}

func TestMongoFilter_Range(t *testing.T) {
	q := From(Root("meals")).Where(Gte("date", "2024-01-01"), Lte("date", "2024-01-31"))
	want := bson.D{{Key: "$and", Value: bson.A{
		bson.D{{Key: "date", Value: bson.D{{Key: "$gte", Value: "2024-01-01"}}}},
		bson.D{{Key: "date", Value: bson.D{{Key: "$lte", Value: "2024-01-31"}}}},
	}}}
	assert.Equal(t, want, mongoFilter(q))
	assert.Equal(t, bson.D{}, mongoFilter(From(Root("meals"))))
}

func TestMongoUpdate_UsesCurrentDateForSentinels(t *testing.T) {
	up := mongoUpdate(Fields{"isFavorite": true, "updatedAt": ServerTimestamp}, nil)
	assert.Equal(t, bson.M{
		"$set":         bson.M{"isFavorite": true},
		"$currentDate": bson.M{"updatedAt": true},
	}, up)
}

func TestFromBSON(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	raw := bson.M{
		"_id":     "m1",
		parentKey: "users/u1",
		"when":    primitive.NewDateTimeFromTime(ts),
		"age":     int32(30),
		"foods":   bson.A{bson.M{"name": "egg"}},
	}
	got := fromBSON(raw)
	assert.Equal(t, Fields{
		"when":  ts,
		"age":   int64(30),
		"foods": []any{map[string]any{"name": "egg"}},
	}, got)
}
