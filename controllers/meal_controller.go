package controllers

import (
	"context"
	"net/http"
	"strconv"

	"nutrilog/models"
	"nutrilog/services"

	"github.com/gin-gonic/gin"
)

// ImageUploader turns a base64 data URI into a public URL.
type ImageUploader interface {
	Upload(ctx context.Context, base64Data, prefix string) (string, error)
}

type MealController struct {
	Meals  *services.MealService
	RT     *services.RealtimeHub
	Images ImageUploader
}

func NewMealController(meals *services.MealService, rt *services.RealtimeHub, images ImageUploader) *MealController {
	return &MealController{Meals: meals, RT: rt, Images: images}
}

func (mc *MealController) Add(c *gin.Context) {
	var in models.NewMeal
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if in.Date != "" {
		if err := validDate(in.Date); err != nil {
			fail(c, err)
			return
		}
	}
	in.UserID = c.GetString("uid")

	meal, err := mc.Meals.Add(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	mc.RT.Publish(in.UserID, services.Event{Kind: "meal.created", ID: meal.ID, Data: meal})
	c.JSON(http.StatusCreated, meal)
}

func (mc *MealController) List(c *gin.Context) {
	mc.respondList(c)(mc.Meals.ListByUser(c.Request.Context(), c.GetString("uid")))
}

func (mc *MealController) Saved(c *gin.Context) {
	mc.respondList(c)(mc.Meals.ListSaved(c.Request.Context(), c.GetString("uid")))
}

func (mc *MealController) Favorites(c *gin.Context) {
	mc.respondList(c)(mc.Meals.ListFavorites(c.Request.Context(), c.GetString("uid")))
}

// Recent takes an optional ?limit=; absent means the service default.
func (mc *MealController) Recent(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	mc.respondList(c)(mc.Meals.ListRecent(c.Request.Context(), c.GetString("uid"), limit))
}

func (mc *MealController) Range(c *gin.Context) {
	start, end := c.Query("start"), c.Query("end")
	for _, d := range []string{start, end} {
		if err := validDate(d); err != nil {
			fail(c, err)
			return
		}
	}
	mc.respondList(c)(mc.Meals.ListByDateRange(c.Request.Context(), c.GetString("uid"), start, end))
}

func (mc *MealController) ByDate(c *gin.Context) {
	date := c.Param("date")
	if err := validDate(date); err != nil {
		fail(c, err)
		return
	}
	mc.respondList(c)(mc.Meals.ListByDate(c.Request.Context(), c.GetString("uid"), date))
}

func (mc *MealController) respondList(c *gin.Context) func([]models.Meal, error) {
	return func(meals []models.Meal, err error) {
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, meals)
	}
}

func (mc *MealController) Get(c *gin.Context) {
	meal, err := ownedMeal(c, mc.Meals, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (mc *MealController) Update(c *gin.Context) {
	var patch models.MealPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if patch.Date != nil && *patch.Date != "" {
		if err := validDate(*patch.Date); err != nil {
			fail(c, err)
			return
		}
	}
	mc.update(c, c.Param("id"), patch)
}

func (mc *MealController) update(c *gin.Context, id string, patch models.MealPatch) {
	if _, err := ownedMeal(c, mc.Meals, id); err != nil {
		fail(c, err)
		return
	}
	meal, err := mc.Meals.Update(c.Request.Context(), id, patch)
	if err != nil {
		fail(c, err)
		return
	}
	mc.RT.Publish(meal.UserID, services.Event{Kind: "meal.updated", ID: meal.ID, Data: meal})
	c.JSON(http.StatusOK, meal)
}

func (mc *MealController) SetFavorite(c *gin.Context) {
	var body struct {
		IsFavorite *bool `json:"isFavorite" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := c.Param("id")
	if _, err := ownedMeal(c, mc.Meals, id); err != nil {
		fail(c, err)
		return
	}
	if err := mc.Meals.SetFavorite(c.Request.Context(), id, *body.IsFavorite); err != nil {
		fail(c, err)
		return
	}
	mc.RT.Publish(c.GetString("uid"), services.Event{Kind: "meal.updated", ID: id})
	c.JSON(http.StatusOK, gin.H{"id": id, "isFavorite": *body.IsFavorite})
}

func (mc *MealController) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := ownedMeal(c, mc.Meals, id); err != nil {
		fail(c, err)
		return
	}
	if err := mc.Meals.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	mc.RT.Publish(c.GetString("uid"), services.Event{Kind: "meal.deleted", ID: id})
	c.Status(http.StatusNoContent)
}
