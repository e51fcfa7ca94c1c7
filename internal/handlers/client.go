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

type CreateClientRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
	Status  string `json:"status" binding:"omitempty,oneof=active inactive"`
}

type UpdateClientRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
	Status  *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

type ClientResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Company   string    `json:"company"`
	Address   string    `json:"address"`
	Notes     string    `json:"notes"`
	Status    string    `json:"status"`
	UserID    uint      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

func toClientResponse(client models.Client) ClientResponse {
	return ClientResponse{
		ID:        client.ID,
		Name:      client.Name,
		Email:     client.Email,
		Phone:     client.Phone,
		Company:   client.Company,
		Address:   client.Address,
		Notes:     client.Notes,
		Status:    client.Status,
		UserID:    client.UserID,
		CreatedAt: client.CreatedAt,
	}
}

func CreateClient(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateClientRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Status == "" {
		req.Status = "active"
	}

	client := models.Client{
		UserID:  userID,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
		Address: req.Address,
		Notes:   req.Notes,
		Status:  req.Status,
	}

	if err := db.DB.Create(&client).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create client"})
		return
	}

	ctx.JSON(http.StatusCreated, toClientResponse(client))
}

func ListClients(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var clients []models.Client

	if err := db.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&clients).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve clients"})
		return
	}

	response := make([]ClientResponse, 0, len(clients))

	for _, client := range clients {
		response = append(response, toClientResponse(client))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetClient(ctx *gin.Context) {
	client, ok := findOwnedClient(ctx)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, toClientResponse(client))
}

func UpdateClient(ctx *gin.Context) {
	client, ok := findOwnedClient(ctx)

	if !ok {
		return
	}

	var req UpdateClientRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil {
		if *req.Name == "" {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Name cannot be empty"})
			return
		}
		client.Name = *req.Name
	}
	if req.Email != nil {
		client.Email = *req.Email
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.Company != nil {
		client.Company = *req.Company
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	if req.Notes != nil {
		client.Notes = *req.Notes
	}
	if req.Status != nil {
		client.Status = *req.Status
	}

	if err := db.DB.Save(&client).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update client"})
		return
	}

	ctx.JSON(http.StatusOK, toClientResponse(client))
}

func DeleteClient(ctx *gin.Context) {
	client, ok := findOwnedClient(ctx)

	if !ok {
		return
	}

	// Projects and time entries referencing this client keep existing with the
	// reference nulled.
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Project{}).Where("client_id = ?", client.ID).Update("client_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.TimeEntry{}).Where("client_id = ?", client.ID).Update("client_id", nil).Error; err != nil {
			return err
		}

		return tx.Delete(&client).Error
	})

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete client"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

// findOwnedClient resolves the :id path param to a client owned by the caller,
// writing the error response itself on failure. An unowned id answers 404,
// indistinguishable from true absence.
func findOwnedClient(ctx *gin.Context) (models.Client, bool) {
	var client models.Client

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return client, false
	}

	clientID, err := utils.GetIDParam(ctx)

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return client, false
	}

	if err := db.DB.Where("id = ? AND user_id = ?", clientID, userID).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve client"})
		}
		return client, false
	}

	return client, true
}
