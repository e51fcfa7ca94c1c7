package handlers

import (
	"net/http"
	"time"

	"github.com/clockwise-dev/clockwise/db"
	"github.com/clockwise-dev/clockwise/internal/models"
	"github.com/clockwise-dev/clockwise/internal/utils"
	"github.com/gin-gonic/gin"
)

type CalendarRequest struct {
	Month string `json:"month" form:"month"`
}

type CalendarResponse struct {
	Entries  []TimeEntryResponse `json:"entries"`
	Projects []ProjectResponse   `json:"projects"`
}

// Calendar returns the caller's time entries starting within the given
// YYYY-MM month and the caller's projects due within it, as two independent
// sets. GET (query param) and POST (JSON body) behave identically.
func Calendar(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CalendarRequest

	if ctx.Request.Method == http.MethodPost {
		if ctx.Request.ContentLength > 0 {
			if err := ctx.ShouldBindJSON(&req); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}
	} else {
		if err := ctx.ShouldBindQuery(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if req.Month == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "month param required"})
		return
	}

	monthStart, err := time.Parse("2006-01", req.Month)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month, expected YYYY-MM"})
		return
	}

	monthEnd := monthStart.AddDate(0, 1, 0)

	var entries []models.TimeEntry

	if err := db.DB.Preload("Tags").
		Where("user_id = ? AND start_time >= ? AND start_time < ?", userID, monthStart, monthEnd).
		Order("start_time ASC").
		Find(&entries).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve time entries"})
		return
	}

	var projects []models.Project

	if err := db.DB.
		Where("user_id = ? AND due_date >= ? AND due_date < ?", userID, monthStart, monthEnd).
		Order("due_date ASC").
		Find(&projects).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve projects"})
		return
	}

	response := CalendarResponse{
		Entries:  make([]TimeEntryResponse, 0, len(entries)),
		Projects: make([]ProjectResponse, 0, len(projects)),
	}

	for _, entry := range entries {
		response.Entries = append(response.Entries, toTimeEntryResponse(entry))
	}

	for _, project := range projects {
		response.Projects = append(response.Projects, toProjectResponse(project))
	}

	ctx.JSON(http.StatusOK, response)
}
