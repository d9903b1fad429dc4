package controllers

import (
	"net/http"

	"nutrilog/models"
	"nutrilog/services"

	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	Users *services.UserService
}

func NewProfileController(users *services.UserService) *ProfileController {
	return &ProfileController{Users: users}
}

func (pc *ProfileController) Get(c *gin.Context) {
	profile, err := pc.Users.Get(c.Request.Context(), c.GetString("uid"))
	if err != nil {
		fail(c, err)
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Upsert saves the caller's profile. uid always comes from the token, and
// so does email when the token carries one.
func (pc *ProfileController) Upsert(c *gin.Context) {
	var input models.UserProfile
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input.UID = c.GetString("uid")
	if email := c.GetString("email"); email != "" {
		input.Email = email
	}

	profile, err := pc.Users.Upsert(c.Request.Context(), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
