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

type tagResponse struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	UsageCount int    `json:"usage_count"`
	UserID     uint   `json:"user"`
}

func TestTagCRUD(t *testing.T) {
	r := setupRouter(t, nil)
	alice, token := createTestUser(t, "alice")

	w := doJSON(r, http.MethodPost, "/tags/", token, map[string]interface{}{
		"name":        "billable",
		"usage_count": 3,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created tagResponse
	decodeBody(t, w, &created)
	assert.Equal(t, "billable", created.Name)
	assert.Equal(t, "#3b82f6", created.Color) // default
	assert.Equal(t, 3, created.UsageCount)
	assert.Equal(t, alice.ID, created.UserID)

	w = doJSON(r, http.MethodPatch, fmt.Sprintf("/tags/%d/", created.ID), token, map[string]interface{}{
		"color":       "#ff0000",
		"usage_count": 7,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated tagResponse
	decodeBody(t, w, &updated)
	assert.Equal(t, "#ff0000", updated.Color)
	assert.Equal(t, 7, updated.UsageCount)
	assert.Equal(t, "billable", updated.Name)

	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/tags/%d/", created.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(r, http.MethodGet, fmt.Sprintf("/tags/%d/", created.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTagDeleteDetachesFromEntries(t *testing.T) {
	r := setupRouter(t, nil)
	alice, token := createTestUser(t, "alice")

	tag := models.Tag{UserID: alice.ID, Name: "billable", Color: "#3b82f6"}
	require.NoError(t, db.DB.Create(&tag).Error)

	entry := models.TimeEntry{
		UserID:      alice.ID,
		Description: "work",
		StartTime:   time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		Tags:        []models.Tag{tag},
	}
	require.NoError(t, db.DB.Create(&entry).Error)

	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/tags/%d/", tag.ID), token, nil)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	// The entry survives with the tag silently detached.
	w = doJSON(r, http.MethodGet, fmt.Sprintf("/time-entries/%d/", entry.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded timeEntryResponse
	decodeBody(t, w, &reloaded)
	assert.Empty(t, reloaded.TagIDs)
}

func TestTagOwnershipScoping(t *testing.T) {
	r := setupRouter(t, nil)
	alice, _ := createTestUser(t, "alice")
	_, bobToken := createTestUser(t, "bob")

	tag := models.Tag{UserID: alice.ID, Name: "billable", Color: "#3b82f6"}
	require.NoError(t, db.DB.Create(&tag).Error)

	w := doJSON(r, http.MethodGet, fmt.Sprintf("/tags/%d/", tag.ID), bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
