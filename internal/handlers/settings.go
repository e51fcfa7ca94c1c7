package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/clockwise-dev/clockwise/db"
	"github.com/clockwise-dev/clockwise/internal/models"
	"github.com/clockwise-dev/clockwise/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UpdateSettingsRequest struct {
	Timezone              *string `json:"timezone"`
	DefaultProjectID      *uint   `json:"default_project"` // 0 clears the reference
	AutoStart             *bool   `json:"auto_start"`
	ReminderInterval      *int    `json:"reminder_interval" binding:"omitempty,min=1"`
	WeeklyGoal            *int    `json:"weekly_goal" binding:"omitempty,min=1"`
	EmailNotifications    *bool   `json:"email_notifications"`
	ReminderNotifications *bool   `json:"reminder_notifications"`
	WeeklyReports         *bool   `json:"weekly_reports"`
	TimeFormat            *string `json:"time_format" binding:"omitempty,oneof=12h 24h"`
	DateFormat            *string `json:"date_format"`
	Theme                 *string `json:"theme" binding:"omitempty,oneof=light dark system"`
}

type SettingsResponse struct {
	ID                    uint   `json:"id"`
	UserID                uint   `json:"user"`
	Timezone              string `json:"timezone"`
	DefaultProjectID      *uint  `json:"default_project"`
	AutoStart             bool   `json:"auto_start"`
	ReminderInterval      int    `json:"reminder_interval"`
	WeeklyGoal            int    `json:"weekly_goal"`
	EmailNotifications    bool   `json:"email_notifications"`
	ReminderNotifications bool   `json:"reminder_notifications"`
	WeeklyReports         bool   `json:"weekly_reports"`
	TimeFormat            string `json:"time_format"`
	DateFormat            string `json:"date_format"`
	Theme                 string `json:"theme"`
}

func toSettingsResponse(settings models.Settings) SettingsResponse {
	return SettingsResponse{
		ID:                    settings.ID,
		UserID:                settings.UserID,
		Timezone:              settings.Timezone,
		DefaultProjectID:      settings.DefaultProjectID,
		AutoStart:             settings.AutoStart,
		ReminderInterval:      settings.ReminderInterval,
		WeeklyGoal:            settings.WeeklyGoal,
		EmailNotifications:    settings.EmailNotifications,
		ReminderNotifications: settings.ReminderNotifications,
		WeeklyReports:         settings.WeeklyReports,
		TimeFormat:            settings.TimeFormat,
		DateFormat:            settings.DateFormat,
		Theme:                 settings.Theme,
	}
}

func GetSettings(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	settings, err := getOrCreateSettings(userID)

	if err != nil {
		log.Printf("Failed to resolve settings: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, toSettingsResponse(*settings))
}

// UpdateSettings serves both PUT and POST; the two entry points are
// deliberately identical partial merges for provider compatibility.
func UpdateSettings(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req UpdateSettingsRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Timezone != nil && *req.Timezone == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Timezone cannot be empty"})
		return
	}

	if req.DateFormat != nil && *req.DateFormat == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Date format cannot be empty"})
		return
	}

	if req.DefaultProjectID != nil && *req.DefaultProjectID != 0 && !projectOwnedBy(*req.DefaultProjectID, userID) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Project not found"})
		return
	}

	settings, err := getOrCreateSettings(userID)

	if err != nil {
		log.Printf("Failed to resolve settings: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if req.Timezone != nil {
		settings.Timezone = *req.Timezone
	}
	if req.DefaultProjectID != nil {
		if *req.DefaultProjectID == 0 {
			settings.DefaultProjectID = nil
		} else {
			settings.DefaultProjectID = req.DefaultProjectID
		}
	}
	if req.AutoStart != nil {
		settings.AutoStart = *req.AutoStart
	}
	if req.ReminderInterval != nil {
		settings.ReminderInterval = *req.ReminderInterval
	}
	if req.WeeklyGoal != nil {
		settings.WeeklyGoal = *req.WeeklyGoal
	}
	if req.EmailNotifications != nil {
		settings.EmailNotifications = *req.EmailNotifications
	}
	if req.ReminderNotifications != nil {
		settings.ReminderNotifications = *req.ReminderNotifications
	}
	if req.WeeklyReports != nil {
		settings.WeeklyReports = *req.WeeklyReports
	}
	if req.TimeFormat != nil {
		settings.TimeFormat = *req.TimeFormat
	}
	if req.DateFormat != nil {
		settings.DateFormat = *req.DateFormat
	}
	if req.Theme != nil {
		settings.Theme = *req.Theme
	}

	if err := db.DB.Save(settings).Error; err != nil {
		log.Printf("Failed to update settings: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, toSettingsResponse(*settings))
}

// getOrCreateSettings lazily creates the caller's settings row with defaults.
// A concurrent first access races on the user_id unique index; the loser
// re-fetches the winner's row.
func getOrCreateSettings(userID uint) (*models.Settings, error) {
	var settings models.Settings

	err := db.DB.Where("user_id = ?", userID).First(&settings).Error

	if err == nil {
		return &settings, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	settings = defaultSettings(userID)

	if err := db.DB.Create(&settings).Error; err != nil {
		if !db.IsDuplicateKey(err) {
			return nil, err
		}

		if err := db.DB.Where("user_id = ?", userID).First(&settings).Error; err != nil {
			return nil, err
		}
	}

	return &settings, nil
}

func defaultSettings(userID uint) models.Settings {
	return models.Settings{
		UserID:                userID,
		Timezone:              "UTC",
		AutoStart:             false,
		ReminderInterval:      30,
		WeeklyGoal:            40,
		EmailNotifications:    true,
		ReminderNotifications: true,
		WeeklyReports:         true,
		TimeFormat:            "24h",
		DateFormat:            "MM/DD/YYYY",
		Theme:                 "system",
	}
}
