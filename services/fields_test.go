package services

import (
	"testing"

	"nutrilog/models"
	"nutrilog/store"

	"github.com/stretchr/testify/assert"
)

func TestMealPatchFields(t *testing.T) {
	f := mealPatchFields(models.MealPatch{Date: ptr("2024-01-15"), Fat: ptr(3.0)})
	assert.Equal(t, store.Fields{
		"date":      "2024-01-15",
		"fat":       3.0,
		"isLogged":  true,
		"updatedAt": store.ServerTimestamp,
		"lastUsed":  store.ServerTimestamp,
	}, f)
	assert.NotContains(t, f, "createdAt")
}

func TestMealFrom_AcceptsIntegerNumbers(t *testing.T) {
	snap := &store.Snapshot{
		Ref: store.Root("meals").Doc("m1"),
		Data: store.Fields{
			"protein":  int64(20),
			"calories": float64(350),
			"foods":    []any{map[string]any{"name": "rice", "amount": int64(150), "unit": "g"}},
		},
	}
	m := mealFrom(snap)
	assert.Equal(t, "m1", m.ID)
	assert.Equal(t, 20.0, m.Protein)
	assert.Equal(t, 350.0, m.Calories)
	assert.Equal(t, 150.0, m.Foods[0].Amount)
}

func TestProfileFields_OmitsUnsetOptionals(t *testing.T) {
	f := profileFields(models.UserProfile{UID: "u1", Email: "a@b.c", Age: ptr(40)})
	assert.Equal(t, store.Fields{"uid": "u1", "email": "a@b.c", "age": int64(40)}, f)
}

func TestProfileFields_OmitsEmptyEmail(t *testing.T) {
	f := profileFields(models.UserProfile{UID: "u1", Goal: "gain"})
	assert.Equal(t, store.Fields{"uid": "u1", "goal": "gain"}, f)
}

func TestFoodPatchFields_OnlySupplied(t *testing.T) {
	f := foodPatchFields(models.FoodData{ID: "f1", Protein: 7, Extra: map[string]any{"brand": "Farm"}})
	assert.Equal(t, store.Fields{"protein": 7.0, "brand": "Farm"}, f)

	full := foodContentFields(models.FoodData{Protein: 7})
	assert.Equal(t, store.Fields{"name": "", "protein": 7.0, "carbs": 0.0, "fat": 0.0, "calories": 0.0}, full)
}
