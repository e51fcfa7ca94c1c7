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

const dueDateLayout = "2006-01-02"

type CreateProjectRequest struct {
	Name        string  `json:"name" binding:"required"`
	ClientID    *uint   `json:"client"`
	Color       string  `json:"color" binding:"omitempty,hexcolor"`
	Status      string  `json:"status" binding:"omitempty,oneof=active completed on-hold"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	ClientID    *uint   `json:"client"` // 0 clears the reference
	Color       *string `json:"color" binding:"omitempty,hexcolor"`
	Status      *string `json:"status" binding:"omitempty,oneof=active completed on-hold"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"` // "" clears the date
}

type ProjectResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	ClientID    *uint     `json:"client"`
	Color       string    `json:"color"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	DueDate     *string   `json:"due_date"`
	UserID      uint      `json:"user"`
	CreatedAt   time.Time `json:"created_at"`
}

func toProjectResponse(project models.Project) ProjectResponse {
	var dueDate *string

	if project.DueDate != nil {
		formatted := project.DueDate.Format(dueDateLayout)
		dueDate = &formatted
	}

	return ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		ClientID:    project.ClientID,
		Color:       project.Color,
		Status:      project.Status,
		Description: project.Description,
		DueDate:     dueDate,
		UserID:      project.UserID,
		CreatedAt:   project.CreatedAt,
	}
}

func CreateProject(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateProjectRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.ClientID != nil && !clientOwnedBy(*req.ClientID, userID) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Client not found"})
		return
	}

	var dueDate *time.Time

	if req.DueDate != nil && *req.DueDate != "" {
		parsed, err := time.Parse(dueDateLayout, *req.DueDate)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due_date, expected YYYY-MM-DD"})
			return
		}

		dueDate = &parsed
	}

	if req.Color == "" {
		req.Color = "#3b82f6"
	}

	if req.Status == "" {
		req.Status = "active"
	}

	project := models.Project{
		UserID:      userID,
		Name:        req.Name,
		ClientID:    req.ClientID,
		Color:       req.Color,
		Status:      req.Status,
		Description: req.Description,
		DueDate:     dueDate,
	}

	if err := db.DB.Create(&project).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	ctx.JSON(http.StatusCreated, toProjectResponse(project))
}

func ListProjects(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var projects []models.Project

	if err := db.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&projects).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve projects"})
		return
	}

	response := make([]ProjectResponse, 0, len(projects))

	for _, project := range projects {
		response = append(response, toProjectResponse(project))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetProject(ctx *gin.Context) {
	project, ok := findOwnedProject(ctx)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, toProjectResponse(project))
}

func UpdateProject(ctx *gin.Context) {
	project, ok := findOwnedProject(ctx)

	if !ok {
		return
	}

	var req UpdateProjectRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil {
		if *req.Name == "" {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Name cannot be empty"})
			return
		}
		project.Name = *req.Name
	}

	if req.ClientID != nil {
		if *req.ClientID == 0 {
			project.ClientID = nil
		} else {
			if !clientOwnedBy(*req.ClientID, project.UserID) {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "Client not found"})
				return
			}
			project.ClientID = req.ClientID
		}
	}

	if req.Color != nil {
		project.Color = *req.Color
	}

	if req.Status != nil {
		project.Status = *req.Status
	}

	if req.Description != nil {
		project.Description = *req.Description
	}

	if req.DueDate != nil {
		if *req.DueDate == "" {
			project.DueDate = nil
		} else {
			parsed, err := time.Parse(dueDateLayout, *req.DueDate)

			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due_date, expected YYYY-MM-DD"})
				return
			}

			project.DueDate = &parsed
		}
	}

	if err := db.DB.Save(&project).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}

	ctx.JSON(http.StatusOK, toProjectResponse(project))
}

func DeleteProject(ctx *gin.Context) {
	project, ok := findOwnedProject(ctx)

	if !ok {
		return
	}

	// Time entries and settings referencing this project keep existing with
	// the reference nulled.
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.TimeEntry{}).Where("project_id = ?", project.ID).Update("project_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Settings{}).Where("default_project_id = ?", project.ID).Update("default_project_id", nil).Error; err != nil {
			return err
		}

		return tx.Delete(&project).Error
	})

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

func findOwnedProject(ctx *gin.Context) (models.Project, bool) {
	var project models.Project

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return project, false
	}

	projectID, err := utils.GetIDParam(ctx)

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return project, false
	}

	if err := db.DB.Where("id = ? AND user_id = ?", projectID, userID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		}
		return project, false
	}

	return project, true
}

// clientOwnedBy reports whether the client id resolves within the caller's own
// rows. Cross-tenant ids are indistinguishable from nonexistent ones.
func clientOwnedBy(clientID uint, userID uint) bool {
	var count int64

	db.DB.Model(&models.Client{}).Where("id = ? AND user_id = ?", clientID, userID).Count(&count)

	return count > 0
}
