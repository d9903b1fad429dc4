package controllers

import (
	"net/http"

	"nutrilog/models"
	"nutrilog/services"

	"github.com/gin-gonic/gin"
)

type FoodController struct {
	Foods *services.FoodService
	Meals *services.MealService
	RT    *services.RealtimeHub
}

func NewFoodController(foods *services.FoodService, meals *services.MealService, rt *services.RealtimeHub) *FoodController {
	return &FoodController{Foods: foods, Meals: meals, RT: rt}
}

// List serves ?type=recent|created|favorite|all; anything else lists all.
func (fc *FoodController) List(c *gin.Context) {
	foods, err := fc.Foods.ListByType(c.Request.Context(), c.GetString("uid"), models.ParseFoodListType(c.Query("type")))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, foods)
}

func (fc *FoodController) Upsert(c *gin.Context) {
	var food models.FoodData
	if err := c.ShouldBindJSON(&food); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	uid := c.GetString("uid")
	id, err := fc.Foods.UpsertCustomFood(c.Request.Context(), uid, food)
	if err != nil {
		fail(c, err)
		return
	}
	fc.RT.Publish(uid, services.Event{Kind: "food.saved", ID: id})
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (fc *FoodController) SetCart(c *gin.Context) {
	var body struct {
		AddedToCart *bool `json:"addedToCart" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	uid, id := c.GetString("uid"), c.Param("id")
	if err := fc.Foods.SetCartStatus(c.Request.Context(), uid, id, *body.AddedToCart); err != nil {
		fail(c, err)
		return
	}
	fc.RT.Publish(uid, services.Event{Kind: "food.updated", ID: id})
	c.JSON(http.StatusOK, gin.H{"id": id, "addedToCart": *body.AddedToCart})
}

// item resolves :kind and, for meals, checks the caller owns the meal.
// Foods live under the caller's own path and need no check.
func (fc *FoodController) item(c *gin.Context) (models.ItemKind, string, error) {
	kind, err := models.ParseItemKind(c.Param("kind"))
	if err != nil {
		return 0, "", invalid(err)
	}
	id := c.Param("id")
	if kind == models.ItemKindMeal {
		if _, err := ownedMeal(c, fc.Meals, id); err != nil {
			return 0, "", err
		}
	}
	return kind, id, nil
}

func (fc *FoodController) SetItemFavorite(c *gin.Context) {
	var body struct {
		IsFavorite *bool `json:"isFavorite" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	kind, id, err := fc.item(c)
	if err != nil {
		fail(c, err)
		return
	}
	uid := c.GetString("uid")
	if err := fc.Foods.SetFavorite(c.Request.Context(), uid, id, *body.IsFavorite, kind); err != nil {
		fail(c, err)
		return
	}
	fc.RT.Publish(uid, services.Event{Kind: kind.String() + ".updated", ID: id})
	c.JSON(http.StatusOK, gin.H{"id": id, "isFavorite": *body.IsFavorite})
}

func (fc *FoodController) DeleteItem(c *gin.Context) {
	kind, id, err := fc.item(c)
	if err != nil {
		fail(c, err)
		return
	}
	uid := c.GetString("uid")
	if err := fc.Foods.Delete(c.Request.Context(), uid, id, kind); err != nil {
		fail(c, err)
		return
	}
	fc.RT.Publish(uid, services.Event{Kind: kind.String() + ".deleted", ID: id})
	c.Status(http.StatusNoContent)
}
