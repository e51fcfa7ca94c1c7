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

type timeEntryResponse struct {
	ID          uint       `json:"id"`
	Description string     `json:"description"`
	ProjectID   *uint      `json:"project"`
	ClientID    *uint      `json:"client"`
	TagIDs      []uint     `json:"tags"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	Duration    int        `json:"duration"`
	UserID      uint       `json:"user"`
}

func TestTimeEntryCreateWithTags(t *testing.T) {
	r := setupRouter(t, nil)
	alice, token := createTestUser(t, "alice")

	tagA := models.Tag{UserID: alice.ID, Name: "billable", Color: "#3b82f6"}
	tagB := models.Tag{UserID: alice.ID, Name: "deep-work", Color: "#3b82f6"}
	require.NoError(t, db.DB.Create(&tagA).Error)
	require.NoError(t, db.DB.Create(&tagB).Error)

	w := doJSON(r, http.MethodPost, "/time-entries/", token, map[string]interface{}{
		"description": "refactoring",
		"start_time":  "2024-03-01T09:00:00Z",
		"end_time":    "2024-03-01T10:30:00Z",
		"duration":    5400,
		"tags":        []uint{tagA.ID, tagB.ID},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created timeEntryResponse
	decodeBody(t, w, &created)
	assert.Equal(t, "refactoring", created.Description)
	assert.Equal(t, 5400, created.Duration)
	assert.ElementsMatch(t, []uint{tagA.ID, tagB.ID}, created.TagIDs)
	assert.Equal(t, alice.ID, created.UserID)
}

func TestTimeEntryRejectsForeignReferences(t *testing.T) {
	r := setupRouter(t, nil)
	_, aliceToken := createTestUser(t, "alice")
	bob, _ := createTestUser(t, "bob")

	bobTag := models.Tag{UserID: bob.ID, Name: "private", Color: "#3b82f6"}
	require.NoError(t, db.DB.Create(&bobTag).Error)

	bobProject := models.Project{UserID: bob.ID, Name: "Secret", Color: "#3b82f6", Status: "active"}
	require.NoError(t, db.DB.Create(&bobProject).Error)

	w := doJSON(r, http.MethodPost, "/time-entries/", aliceToken, map[string]interface{}{
		"description": "sneaky",
		"start_time":  "2024-03-01T09:00:00Z",
		"tags":        []uint{bobTag.ID},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/time-entries/", aliceToken, map[string]interface{}{
		"description": "sneaky",
		"start_time":  "2024-03-01T09:00:00Z",
		"project":     bobProject.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTimeEntryUpdateReplacesTags(t *testing.T) {
	r := setupRouter(t, nil)
	alice, token := createTestUser(t, "alice")

	tagA := models.Tag{UserID: alice.ID, Name: "billable", Color: "#3b82f6"}
	tagB := models.Tag{UserID: alice.ID, Name: "deep-work", Color: "#3b82f6"}
	require.NoError(t, db.DB.Create(&tagA).Error)
	require.NoError(t, db.DB.Create(&tagB).Error)

	entry := models.TimeEntry{
		UserID:      alice.ID,
		Description: "work",
		StartTime:   time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		Tags:        []models.Tag{tagA},
	}
	require.NoError(t, db.DB.Create(&entry).Error)

	w := doJSON(r, http.MethodPatch, fmt.Sprintf("/time-entries/%d/", entry.ID), token, map[string]interface{}{
		"tags":     []uint{tagB.ID},
		"duration": 1800,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated timeEntryResponse
	decodeBody(t, w, &updated)
	assert.Equal(t, []uint{tagB.ID}, updated.TagIDs)
	assert.Equal(t, 1800, updated.Duration)
	assert.Equal(t, "work", updated.Description)

	// Empty list detaches everything.
	w = doJSON(r, http.MethodPatch, fmt.Sprintf("/time-entries/%d/", entry.ID), token, map[string]interface{}{
		"tags": []uint{},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decodeBody(t, w, &updated)
	assert.Empty(t, updated.TagIDs)
}

func TestTimeEntryDurationIsClientAuthoritative(t *testing.T) {
	r := setupRouter(t, nil)
	_, token := createTestUser(t, "alice")

	// The stored duration is whatever the client sent, never derived from the
	// start/end pair.
	w := doJSON(r, http.MethodPost, "/time-entries/", token, map[string]interface{}{
		"description": "work",
		"start_time":  "2024-03-01T09:00:00Z",
		"end_time":    "2024-03-01T17:00:00Z",
		"duration":    60,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created timeEntryResponse
	decodeBody(t, w, &created)
	assert.Equal(t, 60, created.Duration)

	// Defaults to zero when omitted.
	w = doJSON(r, http.MethodPost, "/time-entries/", token, map[string]interface{}{
		"description": "more work",
		"start_time":  "2024-03-01T09:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	decodeBody(t, w, &created)
	assert.Equal(t, 0, created.Duration)
}

func TestTimeEntryListScoping(t *testing.T) {
	r := setupRouter(t, nil)
	alice, aliceToken := createTestUser(t, "alice")
	bob, bobToken := createTestUser(t, "bob")

	for _, entry := range []models.TimeEntry{
		{UserID: alice.ID, Description: "alice work", StartTime: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)},
		{UserID: bob.ID, Description: "bob work", StartTime: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)},
	} {
		entry := entry
		require.NoError(t, db.DB.Create(&entry).Error)
	}

	w := doJSON(r, http.MethodGet, "/time-entries/", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var aliceEntries []timeEntryResponse
	decodeBody(t, w, &aliceEntries)
	require.Len(t, aliceEntries, 1)
	assert.Equal(t, "alice work", aliceEntries[0].Description)

	w = doJSON(r, http.MethodGet, "/time-entries/", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var bobEntries []timeEntryResponse
	decodeBody(t, w, &bobEntries)
	require.Len(t, bobEntries, 1)
	assert.Equal(t, "bob work", bobEntries[0].Description)
}

func TestTimeEntryRequiresStartTime(t *testing.T) {
	r := setupRouter(t, nil)
	_, token := createTestUser(t, "alice")

	w := doJSON(r, http.MethodPost, "/time-entries/", token, map[string]interface{}{
		"description": "no start",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
