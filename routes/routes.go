package routes

import (
	"net/http"

	"nutrilog/controllers"
	"nutrilog/metrics"
	"nutrilog/middlewares"
	"nutrilog/services"

	"github.com/gin-gonic/gin"
)

// Deps is everything the router hands out to controllers.
type Deps struct {
	Meals     *services.MealService
	Foods     *services.FoodService
	Users     *services.UserService
	RT        *services.RealtimeHub
	Images    controllers.ImageUploader // nil disables meal photo uploads
	JWTSecret string
	DevTokens bool // expose POST /dev/token
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middlewares.MetricsMiddleware())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if d.DevTokens {
		r.POST("/dev/token", controllers.NewDevController(d.JWTSecret).IssueToken)
	}

	mealCtl := controllers.NewMealController(d.Meals, d.RT, d.Images)
	foodCtl := controllers.NewFoodController(d.Foods, d.Meals, d.RT)
	profileCtl := controllers.NewProfileController(d.Users)
	rtCtl := controllers.NewRealtimeController(d.RT)

	api := r.Group("/")
	api.Use(middlewares.AuthMiddleware(d.JWTSecret))

	meals := api.Group("/meals")
	{
		meals.POST("", mealCtl.Add)
		meals.GET("", mealCtl.List)
		meals.GET("/saved", mealCtl.Saved)
		meals.GET("/favorites", mealCtl.Favorites)
		meals.GET("/recent", mealCtl.Recent)
		meals.GET("/range", mealCtl.Range)
		meals.GET("/date/:date", mealCtl.ByDate)
		meals.GET("/:id", mealCtl.Get)
		meals.PATCH("/:id", mealCtl.Update)
		meals.DELETE("/:id", mealCtl.Delete)
		meals.PUT("/:id/favorite", mealCtl.SetFavorite)
		meals.POST("/:id/image", mealCtl.UploadImage)
	}

	foods := api.Group("/foods")
	{
		foods.GET("", foodCtl.List)
		foods.POST("", foodCtl.Upsert)
		foods.PUT("/:id/cart", foodCtl.SetCart)
	}

	items := api.Group("/items")
	{
		items.PUT("/:kind/:id/favorite", foodCtl.SetItemFavorite)
		items.DELETE("/:kind/:id", foodCtl.DeleteItem)
	}

	api.GET("/profile", profileCtl.Get)
	api.PUT("/profile", profileCtl.Upsert)
	api.GET("/ws", rtCtl.Events)

	return r
}
