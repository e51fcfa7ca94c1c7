package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/clockwise-dev/clockwise/db"
	"github.com/clockwise-dev/clockwise/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type projectResponse struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	ClientID *uint   `json:"client"`
	Color    string  `json:"color"`
	Status   string  `json:"status"`
	DueDate  *string `json:"due_date"`
	UserID   uint    `json:"user"`
}

func TestProjectCreateDefaults(t *testing.T) {
	r := setupRouter(t, nil)
	alice, token := createTestUser(t, "alice")

	w := doJSON(r, http.MethodPost, "/projects/", token, map[string]string{"name": "Website"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created projectResponse
	decodeBody(t, w, &created)
	assert.Equal(t, "#3b82f6", created.Color)
	assert.Equal(t, "active", created.Status)
	assert.Nil(t, created.ClientID)
	assert.Nil(t, created.DueDate)
	assert.Equal(t, alice.ID, created.UserID)
}

func TestProjectClientReference(t *testing.T) {
	r := setupRouter(t, nil)
	_, aliceToken := createTestUser(t, "alice")
	bob, _ := createTestUser(t, "bob")

	w := doJSON(r, http.MethodPost, "/clients/", aliceToken, map[string]string{"name": "Acme"})
	require.Equal(t, http.StatusCreated, w.Code)
	var client clientResponse
	decodeBody(t, w, &client)

	// Own client: accepted.
	w = doJSON(r, http.MethodPost, "/projects/", aliceToken, map[string]interface{}{
		"name":   "Website",
		"client": client.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var project projectResponse
	decodeBody(t, w, &project)
	require.NotNil(t, project.ClientID)
	assert.Equal(t, client.ID, *project.ClientID)

	// Another tenant's client id: rejected like a nonexistent one.
	bobClient := models.Client{UserID: bob.ID, Name: "BobCo", Status: "active"}
	require.NoError(t, db.DB.Create(&bobClient).Error)

	w = doJSON(r, http.MethodPost, "/projects/", aliceToken, map[string]interface{}{
		"name":   "Sneaky",
		"client": bobClient.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Clearing the reference with 0.
	w = doJSON(r, http.MethodPatch, fmt.Sprintf("/projects/%d/", project.ID), aliceToken, map[string]interface{}{
		"client": 0,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decodeBody(t, w, &project)
	assert.Nil(t, project.ClientID)
}

func TestProjectValidation(t *testing.T) {
	r := setupRouter(t, nil)
	_, token := createTestUser(t, "alice")

	w := doJSON(r, http.MethodPost, "/projects/", token, map[string]string{
		"name":   "Website",
		"status": "abandoned",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/projects/", token, map[string]string{
		"name":     "Website",
		"due_date": "03/15/2024",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/projects/", token, map[string]string{
		"name":  "Website",
		"color": "not-a-color",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/projects/", token, map[string]string{
		"name":     "Website",
		"due_date": "2024-03-15",
		"status":   "on-hold",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created projectResponse
	decodeBody(t, w, &created)
	require.NotNil(t, created.DueDate)
	assert.Equal(t, "2024-03-15", *created.DueDate)
	assert.Equal(t, "on-hold", created.Status)
}

func TestProjectDeleteNullsReferences(t *testing.T) {
	r := setupRouter(t, nil)
	alice, token := createTestUser(t, "alice")

	project := models.Project{UserID: alice.ID, Name: "Website", Color: "#3b82f6", Status: "active"}
	require.NoError(t, db.DB.Create(&project).Error)

	entry := models.TimeEntry{
		UserID:      alice.ID,
		Description: "work",
		ProjectID:   &project.ID,
		StartTime:   time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		Duration:    3600,
	}
	require.NoError(t, db.DB.Create(&entry).Error)

	settings := models.Settings{UserID: alice.ID, Timezone: "UTC", DefaultProjectID: &project.ID,
		ReminderInterval: 30, WeeklyGoal: 40, TimeFormat: "24h", DateFormat: "MM/DD/YYYY", Theme: "system"}
	require.NoError(t, db.DB.Create(&settings).Error)

	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/projects/%d/", project.ID), token, nil)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	// The entry and settings survive with the reference nulled.
	var reloadedEntry models.TimeEntry
	require.NoError(t, db.DB.First(&reloadedEntry, entry.ID).Error)
	assert.Nil(t, reloadedEntry.ProjectID)

	var reloadedSettings models.Settings
	require.NoError(t, db.DB.First(&reloadedSettings, settings.ID).Error)
	assert.Nil(t, reloadedSettings.DefaultProjectID)
}
