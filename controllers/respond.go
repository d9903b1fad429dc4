package controllers

import (
	"errors"
	"net/http"

	"nutrilog/models"
	"nutrilog/services"
	"nutrilog/store"

	"github.com/gin-gonic/gin"
)

type badRequest struct{ err error }

func (e badRequest) Error() string { return e.err.Error() }
func (e badRequest) Unwrap() error { return e.err }

func invalid(err error) error { return badRequest{err} }

// fail writes the error with the status its kind maps to.
func fail(c *gin.Context, err error) {
	var br badRequest
	switch {
	case errors.As(err, &br):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func validDate(date string) error {
	if err := models.ValidateDate(date); err != nil {
		return invalid(err)
	}
	return nil
}

// ownedMeal loads the meal and hides it when it belongs to someone else.
func ownedMeal(c *gin.Context, meals *services.MealService, id string) (*models.Meal, error) {
	meal, err := meals.GetByID(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}
	if meal == nil || meal.UserID != c.GetString("uid") {
		return nil, store.ErrNotFound
	}
	return meal, nil
}
