package services

import (
	"context"
	"fmt"

	"nutrilog/models"
	"nutrilog/store"

	"go.uber.org/zap"
)

const (
	usersCollection = "users"
	foodsCollection = "foods"
	recentFoodLimit = 10
)

// FoodService manages the per-user food catalog under users/{uid}/foods.
type FoodService struct {
	db  store.Store
	log *zap.Logger
}

func NewFoodService(db store.Store, log *zap.Logger) *FoodService {
	return &FoodService{db: db, log: log}
}

func userFoods(userID string) store.Collection {
	return store.Root(usersCollection).Doc(userID).Sub(foodsCollection)
}

// itemRef resolves where a favorite/delete call lands for each kind.
func itemRef(userID, itemID string, kind models.ItemKind) (store.DocRef, error) {
	switch kind {
	case models.ItemKindFood:
		return userFoods(userID).Doc(itemID), nil
	case models.ItemKindMeal:
		return store.Root(mealsCollection).Doc(itemID), nil
	}
	return store.DocRef{}, fmt.Errorf("unsupported item kind %s", kind)
}

func (s *FoodService) fail(op string, err error, fields ...zap.Field) error {
	s.log.Error("error "+op, append(fields, zap.Error(err))...)
	return err
}

// ListByType returns one of the catalog views. Entries with missing name or
// macros come back as empty/zero.
func (s *FoodService) ListByType(ctx context.Context, userID string, typ models.FoodListType) ([]models.FoodData, error) {
	q := store.From(userFoods(userID))
	switch typ {
	case models.FoodListRecent:
		q = q.Where(store.Eq("addedToCart", true)).
			OrderBy("lastUsed", store.Desc).
			Take(recentFoodLimit)
	case models.FoodListCreated:
		q = q.Where(store.Eq("isUserCreated", true))
	case models.FoodListFavorite:
		q = q.Where(store.Eq("isFavorite", true))
	}

	snaps, err := s.db.Query(ctx, q)
	if err != nil {
		return nil, s.fail("getting user foods", err, zap.String("userId", userID), zap.String("type", string(typ)))
	}
	foods := make([]models.FoodData, 0, len(snaps))
	for _, snap := range snaps {
		foods = append(foods, foodFrom(snap))
	}
	return foods, nil
}

// SetFavorite flags a food or a meal as favorite.
func (s *FoodService) SetFavorite(ctx context.Context, userID, itemID string, isFavorite bool, kind models.ItemKind) error {
	ref, err := itemRef(userID, itemID, kind)
	if err != nil {
		return s.fail(fmt.Sprintf("updating %s favorite status", kind), err)
	}
	err = s.db.Update(ctx, ref, store.Fields{
		"isFavorite": isFavorite,
		"updatedAt":  store.ServerTimestamp,
	})
	if err != nil {
		return s.fail(fmt.Sprintf("updating %s favorite status", kind), err, zap.String("itemId", itemID))
	}
	return nil
}

// Delete removes a food or a meal.
func (s *FoodService) Delete(ctx context.Context, userID, itemID string, kind models.ItemKind) error {
	ref, err := itemRef(userID, itemID, kind)
	if err != nil {
		return s.fail(fmt.Sprintf("deleting %s", kind), err)
	}
	if err := s.db.Delete(ctx, ref); err != nil {
		return s.fail(fmt.Sprintf("deleting %s", kind), err, zap.String("itemId", itemID))
	}
	return nil
}

// UpsertCustomFood updates the entry when food.ID is set, writing only the
// supplied fields, otherwise creates one marked as user created. It returns
// the entry id either way.
func (s *FoodService) UpsertCustomFood(ctx context.Context, userID string, food models.FoodData) (string, error) {
	if food.ID != "" {
		data := foodPatchFields(food)
		data["updatedAt"] = store.ServerTimestamp
		if err := s.db.Update(ctx, userFoods(userID).Doc(food.ID), data); err != nil {
			return "", s.fail("saving custom food", err, zap.String("foodId", food.ID))
		}
		return food.ID, nil
	}

	data := foodContentFields(food)
	data["isUserCreated"] = true
	data["addedToCart"] = boolOr(food.AddedToCart, false)
	data["createdAt"] = store.ServerTimestamp
	data["updatedAt"] = store.ServerTimestamp
	data["lastUsed"] = store.ServerTimestamp
	id, err := s.db.Add(ctx, userFoods(userID), data)
	if err != nil {
		return "", s.fail("saving custom food", err, zap.String("userId", userID))
	}
	return id, nil
}

// SetCartStatus counts as usage, not an edit: it refreshes lastUsed and
// leaves updatedAt alone.
func (s *FoodService) SetCartStatus(ctx context.Context, userID, foodID string, addedToCart bool) error {
	err := s.db.Update(ctx, userFoods(userID).Doc(foodID), store.Fields{
		"addedToCart": addedToCart,
		"lastUsed":    store.ServerTimestamp,
	})
	if err != nil {
		return s.fail("updating food cart status", err, zap.String("foodId", foodID))
	}
	return nil
}
