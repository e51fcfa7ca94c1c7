package handlers

import (
	"net/http"
	"sort"
	"time"

	"github.com/clockwise-dev/clockwise/db"
	"github.com/clockwise-dev/clockwise/internal/models"
	"github.com/clockwise-dev/clockwise/internal/utils"
	"github.com/gin-gonic/gin"
)

type ReportsRequest struct {
	Start   string `json:"start" form:"start"`
	End     string `json:"end" form:"end"`
	Project *uint  `json:"project" form:"project"`
	Client  *uint  `json:"client" form:"client"`
	Tag     *uint  `json:"tag" form:"tag"`
}

type ProjectStat struct {
	ProjectName *string `json:"project__name"`
	Total       int     `json:"total"`
}

type ClientStat struct {
	ClientName *string `json:"client__name"`
	Total      int     `json:"total"`
}

type DailyStat struct {
	Date  string `json:"date"`
	Total int    `json:"total"`
}

type ReportsResponse struct {
	TotalDuration int           `json:"total_duration"`
	TotalEntries  int           `json:"total_entries"`
	ProjectStats  []ProjectStat `json:"project_stats"`
	ClientStats   []ClientStat  `json:"client_stats"`
	DailyStats    []DailyStat   `json:"daily_stats"`
}

// Reports serves both GET (query params) and POST (JSON body) with identical
// behavior. All filters apply conjunctively to the caller's entries, and all
// four aggregates are computed over that one filtered set.
func Reports(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	req, ok := bindReportsRequest(ctx)

	if !ok {
		return
	}

	query := db.DB.Preload("Project").Preload("Client").Where("time_entries.user_id = ?", userID)

	if req.Start != "" {
		start, err := parseFilterTime(req.Start)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start filter"})
			return
		}

		query = query.Where("time_entries.start_time >= ?", start)
	}

	if req.End != "" {
		end, err := parseFilterTime(req.End)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end filter"})
			return
		}

		query = query.Where("time_entries.end_time <= ?", end)
	}

	if req.Project != nil {
		query = query.Where("time_entries.project_id = ?", *req.Project)
	}

	if req.Client != nil {
		query = query.Where("time_entries.client_id = ?", *req.Client)
	}

	if req.Tag != nil {
		query = query.Joins("JOIN time_entry_tags ON time_entry_tags.time_entry_id = time_entries.id").
			Where("time_entry_tags.tag_id = ?", *req.Tag)
	}

	var entries []models.TimeEntry

	if err := query.Find(&entries).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve time entries"})
		return
	}

	ctx.JSON(http.StatusOK, aggregateReports(entries))
}

func bindReportsRequest(ctx *gin.Context) (ReportsRequest, bool) {
	var req ReportsRequest

	if ctx.Request.Method == http.MethodPost {
		if ctx.Request.ContentLength > 0 {
			if err := ctx.ShouldBindJSON(&req); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return req, false
			}
		}
		return req, true
	}

	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return req, false
	}

	return req, true
}

// parseFilterTime accepts RFC 3339 timestamps or bare YYYY-MM-DD dates.
func parseFilterTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	return time.Parse("2006-01-02", value)
}

func aggregateReports(entries []models.TimeEntry) ReportsResponse {
	totalDuration := 0
	projectTotals := make(map[string]int)
	clientTotals := make(map[string]int)
	dailyTotals := make(map[string]int)

	noProjectTotal, noProjectSeen := 0, false
	noClientTotal, noClientSeen := 0, false

	for _, entry := range entries {
		totalDuration += entry.Duration

		if entry.Project != nil {
			projectTotals[entry.Project.Name] += entry.Duration
		} else {
			noProjectTotal += entry.Duration
			noProjectSeen = true
		}

		if entry.Client != nil {
			clientTotals[entry.Client.Name] += entry.Duration
		} else {
			noClientTotal += entry.Duration
			noClientSeen = true
		}

		dailyTotals[entry.StartTime.Format("2006-01-02")] += entry.Duration
	}

	projectStats := make([]ProjectStat, 0, len(projectTotals)+1)

	for _, name := range sortedKeys(projectTotals) {
		name := name
		projectStats = append(projectStats, ProjectStat{ProjectName: &name, Total: projectTotals[name]})
	}

	if noProjectSeen {
		projectStats = append(projectStats, ProjectStat{ProjectName: nil, Total: noProjectTotal})
	}

	clientStats := make([]ClientStat, 0, len(clientTotals)+1)

	for _, name := range sortedKeys(clientTotals) {
		name := name
		clientStats = append(clientStats, ClientStat{ClientName: &name, Total: clientTotals[name]})
	}

	if noClientSeen {
		clientStats = append(clientStats, ClientStat{ClientName: nil, Total: noClientTotal})
	}

	dailyStats := make([]DailyStat, 0, len(dailyTotals))

	for _, date := range sortedKeys(dailyTotals) {
		dailyStats = append(dailyStats, DailyStat{Date: date, Total: dailyTotals[date]})
	}

	return ReportsResponse{
		TotalDuration: totalDuration,
		TotalEntries:  len(entries),
		ProjectStats:  projectStats,
		ClientStats:   clientStats,
		DailyStats:    dailyStats,
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))

	for key := range m {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}
