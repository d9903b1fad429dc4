package models

import (
	"encoding/json"
	"time"
)

// A user's own catalog entry, stored under users/{uid}/foods
type FoodData struct {
	ID            string    `json:"id,omitempty"`
	Name          string    `json:"name"`
	Protein       float64   `json:"protein"`
	Carbs         float64   `json:"carbs"`
	Fat           float64   `json:"fat"`
	Calories      float64   `json:"calories"`
	Sodium        *float64  `json:"sodium,omitempty"`
	Sugar         *float64  `json:"sugar,omitempty"`
	Fibers        *float64  `json:"fibers,omitempty"`
	IsFavorite    *bool     `json:"isFavorite,omitempty"`
	IsUserCreated *bool     `json:"isUserCreated,omitempty"`
	AddedToCart   *bool     `json:"addedToCart,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	LastUsed      time.Time `json:"lastUsed"`

	// Extra holds fields the app stored that have no typed counterpart.
	// They are written back verbatim.
	Extra map[string]any `json:"-"`

	// sent holds the keys present in the decoded JSON; nil when the value
	// was built in code.
	sent map[string]bool
}

// FoodFields are the stored names FoodData maps onto typed fields.
var FoodFields = []string{
	"id", "name", "protein", "carbs", "fat", "calories", "sodium", "sugar", "fibers",
	"isFavorite", "isUserCreated", "addedToCart", "createdAt", "updatedAt", "lastUsed",
}

// IsFoodField reports whether k is one of FoodFields.
func IsFoodField(k string) bool {
	for _, f := range FoodFields {
		if f == k {
			return true
		}
	}
	return false
}

// Supplied reports whether the caller set the name or macro field k. A
// decoded request counts the keys it carried, even zero ones. A value
// built in code counts only non-zero fields.
func (f FoodData) Supplied(k string) bool {
	if f.sent != nil {
		return f.sent[k]
	}
	switch k {
	case "name":
		return f.Name != ""
	case "protein":
		return f.Protein != 0
	case "carbs":
		return f.Carbs != 0
	case "fat":
		return f.Fat != 0
	case "calories":
		return f.Calories != 0
	}
	return false
}

type foodAlias FoodData

// MarshalJSON flattens Extra next to the typed fields.
func (f FoodData) MarshalJSON() ([]byte, error) {
	typed, err := json.Marshal(foodAlias(f))
	if err != nil || len(f.Extra) == 0 {
		return typed, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(typed, &out); err != nil {
		return nil, err
	}
	for k, v := range f.Extra {
		if !IsFoodField(k) {
			out[k] = v
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON keeps unknown keys in Extra.
func (f *FoodData) UnmarshalJSON(b []byte) error {
	var typed foodAlias
	if err := json.Unmarshal(b, &typed); err != nil {
		return err
	}
	var all map[string]any
	if err := json.Unmarshal(b, &all); err != nil {
		return err
	}
	typed.Extra = nil
	typed.sent = make(map[string]bool, len(all))
	for k, v := range all {
		typed.sent[k] = true
		if IsFoodField(k) {
			continue
		}
		if typed.Extra == nil {
			typed.Extra = map[string]any{}
		}
		typed.Extra[k] = v
	}
	*f = FoodData(typed)
	return nil
}
