package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"nutrilog/models"
	"nutrilog/utils"

	"github.com/gin-gonic/gin"
)

type MealImageRequest struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
}

// UploadImage stores the photo in S3 and points the meal's imageUrl at it.
func (mc *MealController) UploadImage(c *gin.Context) {
	if mc.Images == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image uploads are not configured"})
		return
	}
	var req MealImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	id := c.Param("id")
	uid := c.GetString("uid")
	if _, err := ownedMeal(c, mc.Meals, id); err != nil {
		fail(c, err)
		return
	}

	url, err := mc.Images.Upload(c.Request.Context(), req.ImageBase64, fmt.Sprintf("meal-images/%s/%s", uid, id))
	if errors.Is(err, utils.ErrInvalidImage) {
		fail(c, invalid(err))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed", "detail": err.Error()})
		return
	}
	mc.update(c, id, models.MealPatch{ImageURL: &url})
}
