package models

import "fmt"

// ItemKind says which address space a favorite/delete call targets.
type ItemKind int

const (
	ItemKindFood ItemKind = iota + 1 // users/{uid}/foods/{id}
	ItemKindMeal                     // meals/{id}
)

func ParseItemKind(s string) (ItemKind, error) {
	switch s {
	case "food":
		return ItemKindFood, nil
	case "meal":
		return ItemKindMeal, nil
	}
	return 0, fmt.Errorf("unknown item type %q", s)
}

func (k ItemKind) String() string {
	switch k {
	case ItemKindFood:
		return "food"
	case ItemKindMeal:
		return "meal"
	}
	return fmt.Sprintf("ItemKind(%d)", int(k))
}

// FoodListType selects one of the catalog views.
type FoodListType string

const (
	FoodListRecent   FoodListType = "recent"
	FoodListCreated  FoodListType = "created"
	FoodListFavorite FoodListType = "favorite"
	FoodListAll      FoodListType = "all"
)

// ParseFoodListType never fails: anything unrecognised lists everything.
func ParseFoodListType(s string) FoodListType {
	switch t := FoodListType(s); t {
	case FoodListRecent, FoodListCreated, FoodListFavorite:
		return t
	}
	return FoodListAll
}
