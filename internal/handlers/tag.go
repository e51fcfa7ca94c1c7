package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/clockwise-dev/clockwise/db"
	"github.com/clockwise-dev/clockwise/internal/models"
	"github.com/clockwise-dev/clockwise/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateTagRequest struct {
	Name        string `json:"name" binding:"required"`
	Color       string `json:"color" binding:"omitempty,hexcolor"`
	Description string `json:"description"`
	UsageCount  int    `json:"usage_count" binding:"omitempty,min=0"`
}

type UpdateTagRequest struct {
	Name        *string `json:"name"`
	Color       *string `json:"color" binding:"omitempty,hexcolor"`
	Description *string `json:"description"`
	UsageCount  *int    `json:"usage_count" binding:"omitempty,min=0"`
}

type TagResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	Description string    `json:"description"`
	UsageCount  int       `json:"usage_count"`
	UserID      uint      `json:"user"`
	CreatedAt   time.Time `json:"created_at"`
}

func toTagResponse(tag models.Tag) TagResponse {
	return TagResponse{
		ID:          tag.ID,
		Name:        tag.Name,
		Color:       tag.Color,
		Description: tag.Description,
		UsageCount:  tag.UsageCount,
		UserID:      tag.UserID,
		CreatedAt:   tag.CreatedAt,
	}
}

func CreateTag(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateTagRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Color == "" {
		req.Color = "#3b82f6"
	}

	tag := models.Tag{
		UserID:      userID,
		Name:        req.Name,
		Color:       req.Color,
		Description: req.Description,
		UsageCount:  req.UsageCount,
	}

	if err := db.DB.Create(&tag).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create tag"})
		return
	}

	ctx.JSON(http.StatusCreated, toTagResponse(tag))
}

func ListTags(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var tags []models.Tag

	if err := db.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&tags).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tags"})
		return
	}

	response := make([]TagResponse, 0, len(tags))

	for _, tag := range tags {
		response = append(response, toTagResponse(tag))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetTag(ctx *gin.Context) {
	tag, ok := findOwnedTag(ctx)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, toTagResponse(tag))
}

func UpdateTag(ctx *gin.Context) {
	tag, ok := findOwnedTag(ctx)

	if !ok {
		return
	}

	var req UpdateTagRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil {
		if *req.Name == "" {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Name cannot be empty"})
			return
		}
		tag.Name = *req.Name
	}
	if req.Color != nil {
		tag.Color = *req.Color
	}
	if req.Description != nil {
		tag.Description = *req.Description
	}
	if req.UsageCount != nil {
		tag.UsageCount = *req.UsageCount
	}

	if err := db.DB.Save(&tag).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update tag"})
		return
	}

	ctx.JSON(http.StatusOK, toTagResponse(tag))
}

func DeleteTag(ctx *gin.Context) {
	tag, ok := findOwnedTag(ctx)

	if !ok {
		return
	}

	// Detach from any time entries first; the entries themselves survive.
	if err := db.DB.Model(&tag).Association("TimeEntries").Clear(); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete tag"})
		return
	}

	if err := db.DB.Delete(&tag).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete tag"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

func findOwnedTag(ctx *gin.Context) (models.Tag, bool) {
	var tag models.Tag

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return tag, false
	}

	tagID, err := utils.GetIDParam(ctx)

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Tag not found"})
		return tag, false
	}

	if err := db.DB.Where("id = ? AND user_id = ?", tagID, userID).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Tag not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tag"})
		}
		return tag, false
	}

	return tag, true
}
