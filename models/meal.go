package models

import (
	"fmt"
	"time"
)

// DateLayout is the canonical meal date. Range queries compare dates as
// strings, so only this zero-padded form sorts correctly.
const DateLayout = "2006-01-02"

// One Meal: either a logged eating event or a saved/custom template
type Meal struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	MealName   string     `json:"mealName"`
	Protein    float64    `json:"protein"`
	Carbs      float64    `json:"carbs"`
	Fat        float64    `json:"fat"`
	Calories   float64    `json:"calories"`
	Sugar      float64    `json:"sugar"`
	Fibers     float64    `json:"fibers"`
	Sodium     float64    `json:"sodium"`
	LoggedTime string     `json:"loggedTime,omitempty"` // e.g. "08:30"
	Date       string     `json:"date,omitempty"`       // YYYY-MM-DD
	ImageURL   string     `json:"imageUrl,omitempty"`
	Foods      []FoodItem `json:"foods,omitempty"`
	IsFavorite bool       `json:"isFavorite"`
	IsCustom   bool       `json:"isCustom"`
	IsLogged   bool       `json:"isLogged"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	LastUsed   time.Time  `json:"lastUsed"`
}

// Each FoodItem is a line inside a meal's food list
type FoodItem struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Protein  float64  `json:"protein"`
	Carbs    float64  `json:"carbs"`
	Fat      float64  `json:"fat"`
	Calories float64  `json:"calories"`
	Sodium   *float64 `json:"sodium,omitempty"`
	Sugar    *float64 `json:"sugar,omitempty"`
	Fibers   *float64 `json:"fibers,omitempty"`
	Amount   float64  `json:"amount"`
	Unit     string   `json:"unit"` // "g", "ml", "piece"…
}

// NewMeal is the input of an add. Nil flags take their defaults:
// isCustom=false, isFavorite=false, isLogged=true.
type NewMeal struct {
	UserID     string     `json:"userId"`
	MealName   string     `json:"mealName" binding:"required"`
	Protein    float64    `json:"protein"`
	Carbs      float64    `json:"carbs"`
	Fat        float64    `json:"fat"`
	Calories   float64    `json:"calories"`
	Sugar      float64    `json:"sugar"`
	Fibers     float64    `json:"fibers"`
	Sodium     float64    `json:"sodium"`
	LoggedTime string     `json:"loggedTime,omitempty"`
	Date       string     `json:"date,omitempty"`
	ImageURL   string     `json:"imageUrl,omitempty"`
	Foods      []FoodItem `json:"foods,omitempty"`
	IsFavorite *bool      `json:"isFavorite,omitempty"`
	IsCustom   *bool      `json:"isCustom,omitempty"`
	IsLogged   *bool      `json:"isLogged,omitempty"`
}

// MealPatch carries the fields of a partial update; nil means untouched.
type MealPatch struct {
	MealName   *string     `json:"mealName,omitempty"`
	Protein    *float64    `json:"protein,omitempty"`
	Carbs      *float64    `json:"carbs,omitempty"`
	Fat        *float64    `json:"fat,omitempty"`
	Calories   *float64    `json:"calories,omitempty"`
	Sugar      *float64    `json:"sugar,omitempty"`
	Fibers     *float64    `json:"fibers,omitempty"`
	Sodium     *float64    `json:"sodium,omitempty"`
	LoggedTime *string     `json:"loggedTime,omitempty"`
	Date       *string     `json:"date,omitempty"`
	ImageURL   *string     `json:"imageUrl,omitempty"`
	Foods      *[]FoodItem `json:"foods,omitempty"`
	IsFavorite *bool       `json:"isFavorite,omitempty"`
	IsCustom   *bool       `json:"isCustom,omitempty"`
	IsLogged   *bool       `json:"isLogged,omitempty"`
}

// LogsMeal reports whether applying the patch attaches the meal to a day,
// which always marks it as logged.
func (p MealPatch) LogsMeal() bool {
	return (p.Date != nil && *p.Date != "") || (p.LoggedTime != nil && *p.LoggedTime != "")
}

// ValidateDate rejects anything that is not a real YYYY-MM-DD date.
func ValidateDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("invalid date %q: want YYYY-MM-DD", date)
	}
	return nil
}
