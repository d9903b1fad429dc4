package services

import (
	"time"

	"nutrilog/models"
	"nutrilog/store"
)

// Readers below tolerate the number types each backend hands back
// (float64 from JSON, int64 from Firestore and Mongo).

func str(f store.Fields, k string) string {
	s, _ := f[k].(string)
	return s
}

func num(f store.Fields, k string) float64 {
	switch n := f[k].(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}

func optNum(f store.Fields, k string) *float64 {
	if _, ok := f[k]; !ok || f[k] == nil {
		return nil
	}
	v := num(f, k)
	return &v
}

func optInt(f store.Fields, k string) *int {
	p := optNum(f, k)
	if p == nil {
		return nil
	}
	v := int(*p)
	return &v
}

func flag(f store.Fields, k string) bool {
	b, _ := f[k].(bool)
	return b
}

func optFlag(f store.Fields, k string) *bool {
	b, ok := f[k].(bool)
	if !ok {
		return nil
	}
	return &b
}

func stamp(f store.Fields, k string) time.Time {
	t, _ := f[k].(time.Time)
	return t
}

func optStamp(f store.Fields, k string) *time.Time {
	t, ok := f[k].(time.Time)
	if !ok {
		return nil
	}
	return &t
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func putOpt[T any](f store.Fields, k string, p *T) {
	if p != nil {
		f[k] = *p
	}
}

func putStr(f store.Fields, k, v string) {
	if v != "" {
		f[k] = v
	}
}

func foodItemFields(it models.FoodItem) map[string]any {
	f := store.Fields{
		"id":       it.ID,
		"name":     it.Name,
		"protein":  it.Protein,
		"carbs":    it.Carbs,
		"fat":      it.Fat,
		"calories": it.Calories,
		"amount":   it.Amount,
		"unit":     it.Unit,
	}
	putOpt(f, "sodium", it.Sodium)
	putOpt(f, "sugar", it.Sugar)
	putOpt(f, "fibers", it.Fibers)
	return f
}

func foodItemsValue(items []models.FoodItem) []any {
	out := make([]any, len(items))
	for i, it := range items {
		out[i] = foodItemFields(it)
	}
	return out
}

func foodItemFrom(v any) models.FoodItem {
	m, _ := v.(map[string]any)
	f := store.Fields(m)
	return models.FoodItem{
		ID:       str(f, "id"),
		Name:     str(f, "name"),
		Protein:  num(f, "protein"),
		Carbs:    num(f, "carbs"),
		Fat:      num(f, "fat"),
		Calories: num(f, "calories"),
		Sodium:   optNum(f, "sodium"),
		Sugar:    optNum(f, "sugar"),
		Fibers:   optNum(f, "fibers"),
		Amount:   num(f, "amount"),
		Unit:     str(f, "unit"),
	}
}

func newMealFields(in models.NewMeal) store.Fields {
	f := store.Fields{
		"userId":     in.UserID,
		"mealName":   in.MealName,
		"protein":    in.Protein,
		"carbs":      in.Carbs,
		"fat":        in.Fat,
		"calories":   in.Calories,
		"sugar":      in.Sugar,
		"fibers":     in.Fibers,
		"sodium":     in.Sodium,
		"isCustom":   boolOr(in.IsCustom, false),
		"isFavorite": boolOr(in.IsFavorite, false),
		"isLogged":   boolOr(in.IsLogged, true),
		"createdAt":  store.ServerTimestamp,
		"updatedAt":  store.ServerTimestamp,
		"lastUsed":   store.ServerTimestamp,
	}
	putStr(f, "loggedTime", in.LoggedTime)
	putStr(f, "date", in.Date)
	putStr(f, "imageUrl", in.ImageURL)
	if in.Foods != nil {
		f["foods"] = foodItemsValue(in.Foods)
	}
	return f
}

func mealPatchFields(p models.MealPatch) store.Fields {
	f := store.Fields{}
	putOpt(f, "mealName", p.MealName)
	putOpt(f, "protein", p.Protein)
	putOpt(f, "carbs", p.Carbs)
	putOpt(f, "fat", p.Fat)
	putOpt(f, "calories", p.Calories)
	putOpt(f, "sugar", p.Sugar)
	putOpt(f, "fibers", p.Fibers)
	putOpt(f, "sodium", p.Sodium)
	putOpt(f, "loggedTime", p.LoggedTime)
	putOpt(f, "date", p.Date)
	putOpt(f, "imageUrl", p.ImageURL)
	if p.Foods != nil {
		f["foods"] = foodItemsValue(*p.Foods)
	}
	putOpt(f, "isFavorite", p.IsFavorite)
	putOpt(f, "isCustom", p.IsCustom)
	putOpt(f, "isLogged", p.IsLogged)
	if p.LogsMeal() {
		f["isLogged"] = true
	}
	f["updatedAt"] = store.ServerTimestamp
	f["lastUsed"] = store.ServerTimestamp
	return f
}

func mealFrom(snap *store.Snapshot) *models.Meal {
	f := snap.Data
	m := &models.Meal{
		ID:         snap.ID(),
		UserID:     str(f, "userId"),
		MealName:   str(f, "mealName"),
		Protein:    num(f, "protein"),
		Carbs:      num(f, "carbs"),
		Fat:        num(f, "fat"),
		Calories:   num(f, "calories"),
		Sugar:      num(f, "sugar"),
		Fibers:     num(f, "fibers"),
		Sodium:     num(f, "sodium"),
		LoggedTime: str(f, "loggedTime"),
		Date:       str(f, "date"),
		ImageURL:   str(f, "imageUrl"),
		IsFavorite: flag(f, "isFavorite"),
		IsCustom:   flag(f, "isCustom"),
		IsLogged:   flag(f, "isLogged"),
		CreatedAt:  stamp(f, "createdAt"),
		UpdatedAt:  stamp(f, "updatedAt"),
		LastUsed:   stamp(f, "lastUsed"),
	}
	if items, ok := f["foods"].([]any); ok {
		m.Foods = make([]models.FoodItem, len(items))
		for i, it := range items {
			m.Foods[i] = foodItemFrom(it)
		}
	}
	return m
}

// foodContentFields is the part of a FoodData written on create. Extra keys
// go first so typed fields always win.
func foodContentFields(food models.FoodData) store.Fields {
	return foodFields(food, true)
}

// foodPatchFields writes only what the caller supplied, so an update never
// blanks a name or macro it was not given.
func foodPatchFields(food models.FoodData) store.Fields {
	return foodFields(food, false)
}

var foodBasics = []string{"name", "protein", "carbs", "fat", "calories"}

func foodFields(food models.FoodData, all bool) store.Fields {
	f := store.Fields{}
	for k, v := range food.Extra {
		f[k] = v
	}
	basics := map[string]any{
		"name":     food.Name,
		"protein":  food.Protein,
		"carbs":    food.Carbs,
		"fat":      food.Fat,
		"calories": food.Calories,
	}
	for _, k := range foodBasics {
		if all || food.Supplied(k) {
			f[k] = basics[k]
		}
	}
	putOpt(f, "sodium", food.Sodium)
	putOpt(f, "sugar", food.Sugar)
	putOpt(f, "fibers", food.Fibers)
	putOpt(f, "isFavorite", food.IsFavorite)
	putOpt(f, "isUserCreated", food.IsUserCreated)
	putOpt(f, "addedToCart", food.AddedToCart)
	for _, k := range []string{"id", "createdAt", "updatedAt", "lastUsed"} {
		delete(f, k)
	}
	return f
}

// foodFrom decodes a catalog entry. Missing name and macros read as
// empty/zero; unknown fields land in Extra.
func foodFrom(snap *store.Snapshot) models.FoodData {
	f := snap.Data
	food := models.FoodData{
		ID:            snap.ID(),
		Name:          str(f, "name"),
		Protein:       num(f, "protein"),
		Carbs:         num(f, "carbs"),
		Fat:           num(f, "fat"),
		Calories:      num(f, "calories"),
		Sodium:        optNum(f, "sodium"),
		Sugar:         optNum(f, "sugar"),
		Fibers:        optNum(f, "fibers"),
		IsFavorite:    optFlag(f, "isFavorite"),
		IsUserCreated: optFlag(f, "isUserCreated"),
		AddedToCart:   optFlag(f, "addedToCart"),
		CreatedAt:     stamp(f, "createdAt"),
		UpdatedAt:     stamp(f, "updatedAt"),
		LastUsed:      stamp(f, "lastUsed"),
	}
	for k, v := range f {
		if models.IsFoodField(k) {
			continue
		}
		if food.Extra == nil {
			food.Extra = map[string]any{}
		}
		food.Extra[k] = v
	}
	return food
}

func profileFields(p models.UserProfile) store.Fields {
	f := store.Fields{"uid": p.UID}
	putStr(f, "email", p.Email)
	putStr(f, "gender", p.Gender)
	if p.Age != nil {
		f["age"] = int64(*p.Age)
	}
	putOpt(f, "currentWeight", p.CurrentWeight)
	putOpt(f, "height", p.Height)
	putOpt(f, "goalWeight", p.GoalWeight)
	putStr(f, "goal", p.Goal)
	if p.Timeframe != nil {
		f["timeframe"] = int64(*p.Timeframe)
	}
	putStr(f, "activityLevel", p.ActivityLevel)
	putStr(f, "trackingPreference", p.TrackingPreference)
	putOpt(f, "premium", p.Premium)
	return f
}

func profileFrom(snap *store.Snapshot) *models.UserProfile {
	f := snap.Data
	return &models.UserProfile{
		UID:                snap.ID(),
		Email:              str(f, "email"),
		Gender:             str(f, "gender"),
		Age:                optInt(f, "age"),
		CurrentWeight:      optNum(f, "currentWeight"),
		Height:             optNum(f, "height"),
		GoalWeight:         optNum(f, "goalWeight"),
		Goal:               str(f, "goal"),
		Timeframe:          optInt(f, "timeframe"),
		ActivityLevel:      str(f, "activityLevel"),
		TrackingPreference: str(f, "trackingPreference"),
		Premium:            optFlag(f, "premium"),
		CreatedAt:          optStamp(f, "createdAt"),
		UpdatedAt:          optStamp(f, "updatedAt"),
	}
}
