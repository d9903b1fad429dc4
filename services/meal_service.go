// services/meal_service.go
package services

import (
	"context"
	"time"

	"nutrilog/models"
	"nutrilog/store"

	"go.uber.org/zap"
)

const (
	mealsCollection   = "meals"
	defaultRecentMeal = 10
)

type MealService struct {
	db  store.Store
	log *zap.Logger
	now func() time.Time
}

func NewMealService(db store.Store, log *zap.Logger) *MealService {
	return &MealService{db: db, log: log, now: time.Now}
}

func (s *MealService) meals() store.Collection {
	return store.Root(mealsCollection)
}

// fail logs which operation broke and hands the error back untouched.
func (s *MealService) fail(op string, err error, fields ...zap.Field) error {
	s.log.Error("error "+op, append(fields, zap.Error(err))...)
	return err
}

// Add stores a new meal. The returned timestamps are the local clock; the
// stored ones are assigned by the store.
func (s *MealService) Add(ctx context.Context, in models.NewMeal) (*models.Meal, error) {
	data := newMealFields(in)
	id, err := s.db.Add(ctx, s.meals(), data)
	if err != nil {
		return nil, s.fail("adding meal", err, zap.String("userId", in.UserID))
	}

	now := s.now()
	meal := mealFrom(&store.Snapshot{Ref: s.meals().Doc(id), Data: data})
	meal.CreatedAt, meal.UpdatedAt, meal.LastUsed = now, now, now
	return meal, nil
}

// Update merges the patch and returns the meal as stored afterwards.
func (s *MealService) Update(ctx context.Context, mealID string, patch models.MealPatch) (*models.Meal, error) {
	ref := s.meals().Doc(mealID)
	if err := s.db.Update(ctx, ref, mealPatchFields(patch)); err != nil {
		return nil, s.fail("updating meal", err, zap.String("mealId", mealID))
	}

	snap, err := s.db.Get(ctx, ref)
	if err != nil {
		return nil, s.fail("updating meal", err, zap.String("mealId", mealID))
	}
	return mealFrom(snap), nil
}

// GetByID returns nil, nil when the meal does not exist.
func (s *MealService) GetByID(ctx context.Context, mealID string) (*models.Meal, error) {
	snap, err := s.db.Get(ctx, s.meals().Doc(mealID))
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("getting meal", err, zap.String("mealId", mealID))
	}
	return mealFrom(snap), nil
}

func (s *MealService) list(ctx context.Context, op string, q store.Query) ([]models.Meal, error) {
	snaps, err := s.db.Query(ctx, q)
	if err != nil {
		return nil, s.fail(op, err)
	}
	meals := make([]models.Meal, 0, len(snaps))
	for _, snap := range snaps {
		meals = append(meals, *mealFrom(snap))
	}
	return meals, nil
}

func (s *MealService) byUser(userID string) store.Query {
	return store.From(s.meals()).Where(store.Eq("userId", userID))
}

// ListByUser returns every meal of the user in store order.
func (s *MealService) ListByUser(ctx context.Context, userID string) ([]models.Meal, error) {
	return s.list(ctx, "getting meals", s.byUser(userID))
}

// ListSaved returns custom meals, most recently used first.
func (s *MealService) ListSaved(ctx context.Context, userID string) ([]models.Meal, error) {
	q := s.byUser(userID).
		Where(store.Eq("isCustom", true)).
		OrderBy("lastUsed", store.Desc)
	return s.list(ctx, "getting saved meals", q)
}

func (s *MealService) ListFavorites(ctx context.Context, userID string) ([]models.Meal, error) {
	q := s.byUser(userID).Where(store.Eq("isFavorite", true))
	return s.list(ctx, "getting favorite meals", q)
}

// ListRecent returns at most limit logged meals, most recently used first.
// limit <= 0 means 10.
func (s *MealService) ListRecent(ctx context.Context, userID string, limit int) ([]models.Meal, error) {
	if limit <= 0 {
		limit = defaultRecentMeal
	}
	q := s.byUser(userID).
		Where(store.Eq("isLogged", true)).
		OrderBy("lastUsed", store.Desc).
		Take(limit)
	return s.list(ctx, "getting recent meals", q)
}

// ListByDateRange returns meals dated within [start, end], compared as
// strings, newest day first and latest time first within a day.
func (s *MealService) ListByDateRange(ctx context.Context, userID, start, end string) ([]models.Meal, error) {
	q := s.byUser(userID).
		Where(store.Gte("date", start), store.Lte("date", end)).
		OrderBy("date", store.Desc).
		OrderBy("loggedTime", store.Desc)
	return s.list(ctx, "getting meals by date range", q)
}

// ListByDate returns the day's logged meals. Custom templates never show up
// in a day view.
func (s *MealService) ListByDate(ctx context.Context, userID, date string) ([]models.Meal, error) {
	q := s.byUser(userID).
		Where(store.Eq("date", date), store.Eq("isCustom", false)).
		OrderBy("loggedTime", store.Desc)
	return s.list(ctx, "getting meals by date", q)
}

func (s *MealService) Delete(ctx context.Context, mealID string) error {
	if err := s.db.Delete(ctx, s.meals().Doc(mealID)); err != nil {
		return s.fail("deleting meal", err, zap.String("mealId", mealID))
	}
	return nil
}

func (s *MealService) SetFavorite(ctx context.Context, mealID string, isFavorite bool) error {
	err := s.db.Update(ctx, s.meals().Doc(mealID), store.Fields{
		"isFavorite": isFavorite,
		"updatedAt":  store.ServerTimestamp,
	})
	if err != nil {
		return s.fail("toggling meal favorite status", err, zap.String("mealId", mealID))
	}
	return nil
}
