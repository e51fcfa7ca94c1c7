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
	"gorm.io/gorm/clause"
)

type CreateTimeEntryRequest struct {
	Description string     `json:"description" binding:"required"`
	ProjectID   *uint      `json:"project"`
	ClientID    *uint      `json:"client"`
	TagIDs      []uint     `json:"tags"`
	StartTime   *time.Time `json:"start_time" binding:"required"`
	EndTime     *time.Time `json:"end_time"`
	Duration    int        `json:"duration" binding:"omitempty,min=0"`
}

type UpdateTimeEntryRequest struct {
	Description *string    `json:"description"`
	ProjectID   *uint      `json:"project"` // 0 clears the reference
	ClientID    *uint      `json:"client"`  // 0 clears the reference
	TagIDs      *[]uint    `json:"tags"`    // [] detaches all tags
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	Duration    *int       `json:"duration" binding:"omitempty,min=0"`
}

type TimeEntryResponse struct {
	ID          uint       `json:"id"`
	Description string     `json:"description"`
	ProjectID   *uint      `json:"project"`
	ClientID    *uint      `json:"client"`
	TagIDs      []uint     `json:"tags"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	Duration    int        `json:"duration"`
	UserID      uint       `json:"user"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toTimeEntryResponse(entry models.TimeEntry) TimeEntryResponse {
	tagIDs := make([]uint, 0, len(entry.Tags))

	for _, tag := range entry.Tags {
		tagIDs = append(tagIDs, tag.ID)
	}

	return TimeEntryResponse{
		ID:          entry.ID,
		Description: entry.Description,
		ProjectID:   entry.ProjectID,
		ClientID:    entry.ClientID,
		TagIDs:      tagIDs,
		StartTime:   entry.StartTime,
		EndTime:     entry.EndTime,
		Duration:    entry.Duration,
		UserID:      entry.UserID,
		CreatedAt:   entry.CreatedAt,
	}
}

func CreateTimeEntry(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateTimeEntryRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.ProjectID != nil && !projectOwnedBy(*req.ProjectID, userID) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Project not found"})
		return
	}

	if req.ClientID != nil && !clientOwnedBy(*req.ClientID, userID) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Client not found"})
		return
	}

	tags, ok := resolveOwnedTags(ctx, req.TagIDs, userID)

	if !ok {
		return
	}

	entry := models.TimeEntry{
		UserID:      userID,
		Description: req.Description,
		ProjectID:   req.ProjectID,
		ClientID:    req.ClientID,
		StartTime:   *req.StartTime,
		EndTime:     req.EndTime,
		Duration:    req.Duration,
		Tags:        tags,
	}

	if err := db.DB.Create(&entry).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create time entry"})
		return
	}

	ctx.JSON(http.StatusCreated, toTimeEntryResponse(entry))
}

func ListTimeEntries(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var entries []models.TimeEntry

	if err := db.DB.Preload("Tags").Where("user_id = ?", userID).Order("start_time DESC").Find(&entries).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve time entries"})
		return
	}

	response := make([]TimeEntryResponse, 0, len(entries))

	for _, entry := range entries {
		response = append(response, toTimeEntryResponse(entry))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetTimeEntry(ctx *gin.Context) {
	entry, ok := findOwnedTimeEntry(ctx)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, toTimeEntryResponse(entry))
}

func UpdateTimeEntry(ctx *gin.Context) {
	entry, ok := findOwnedTimeEntry(ctx)

	if !ok {
		return
	}

	var req UpdateTimeEntryRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Description != nil {
		if *req.Description == "" {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Description cannot be empty"})
			return
		}
		entry.Description = *req.Description
	}

	if req.ProjectID != nil {
		if *req.ProjectID == 0 {
			entry.ProjectID = nil
		} else {
			if !projectOwnedBy(*req.ProjectID, entry.UserID) {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "Project not found"})
				return
			}
			entry.ProjectID = req.ProjectID
		}
	}

	if req.ClientID != nil {
		if *req.ClientID == 0 {
			entry.ClientID = nil
		} else {
			if !clientOwnedBy(*req.ClientID, entry.UserID) {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "Client not found"})
				return
			}
			entry.ClientID = req.ClientID
		}
	}

	if req.StartTime != nil {
		entry.StartTime = *req.StartTime
	}

	if req.EndTime != nil {
		entry.EndTime = req.EndTime
	}

	if req.Duration != nil {
		entry.Duration = *req.Duration
	}

	if req.TagIDs != nil {
		tags, ok := resolveOwnedTags(ctx, *req.TagIDs, entry.UserID)

		if !ok {
			return
		}

		if err := db.DB.Model(&entry).Association("Tags").Replace(tags); err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update time entry"})
			return
		}

		entry.Tags = tags
	}

	if err := db.DB.Omit("Tags").Save(&entry).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update time entry"})
		return
	}

	ctx.JSON(http.StatusOK, toTimeEntryResponse(entry))
}

func DeleteTimeEntry(ctx *gin.Context) {
	entry, ok := findOwnedTimeEntry(ctx)

	if !ok {
		return
	}

	if err := db.DB.Select(clause.Associations).Delete(&entry).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete time entry"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

func findOwnedTimeEntry(ctx *gin.Context) (models.TimeEntry, bool) {
	var entry models.TimeEntry

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return entry, false
	}

	entryID, err := utils.GetIDParam(ctx)

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Time entry not found"})
		return entry, false
	}

	if err := db.DB.Preload("Tags").Where("id = ? AND user_id = ?", entryID, userID).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Time entry not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve time entry"})
		}
		return entry, false
	}

	return entry, true
}

// resolveOwnedTags maps tag ids to the caller's tag rows, writing a 400 when
// any id does not resolve within the caller's own tags.
func resolveOwnedTags(ctx *gin.Context, tagIDs []uint, userID uint) ([]models.Tag, bool) {
	if len(tagIDs) == 0 {
		return []models.Tag{}, true
	}

	var tags []models.Tag

	if err := db.DB.Where("id IN ? AND user_id = ?", tagIDs, userID).Find(&tags).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve tags"})
		return nil, false
	}

	if len(tags) != len(tagIDs) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Tag not found"})
		return nil, false
	}

	return tags, true
}

func projectOwnedBy(projectID uint, userID uint) bool {
	var count int64

	db.DB.Model(&models.Project{}).Where("id = ? AND user_id = ?", projectID, userID).Count(&count)

	return count > 0
}
