package controllers

import (
	"net/http"
	"time"

	"nutrilog/utils"

	"github.com/gin-gonic/gin"
)

const devTokenTTL = 24 * time.Hour

// DevController issues tokens for local testing. It is only routed outside
// production.
type DevController struct {
	Secret string
}

func NewDevController(secret string) *DevController {
	return &DevController{Secret: secret}
}

type DevTokenRequest struct {
	UID   string `json:"uid" binding:"required"`
	Email string `json:"email"`
}

func (dc *DevController) IssueToken(c *gin.Context) {
	var req DevTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if dc.Secret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server misconfigured: JWT_SECRET not set"})
		return
	}
	tok, err := utils.GenerateJWT(req.UID, req.Email, dc.Secret, devTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tok})
}
