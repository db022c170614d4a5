package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"musicflow/internal/models"
)

// GetTracks returns a paginated list of tracks from the database
// Query Params: page (default 1), limit (default 50), search (optional),
// plus optional min_bpm / max_bpm / genre filters.
func (s *Server) GetTracks(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	search := c.Query("search")

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	offset := (page - 1) * limit

	var tracks []models.Track
	var total int64

	query := s.db.DB.Model(&models.Track{})

	if search != "" {
		// Basic search on artist or title
		searchTerm := "%" + search + "%"
		query = query.Where("LOWER(artist) LIKE LOWER(?) OR LOWER(title) LIKE LOWER(?)", searchTerm, searchTerm)
	}
	if genre := c.Query("genre"); genre != "" {
		query = query.Where("genre = ?", genre)
	}
	if minBPM, err := strconv.ParseFloat(c.Query("min_bpm"), 64); err == nil {
		query = query.Where("bpm >= ?", minBPM)
	}
	if maxBPM, err := strconv.ParseFloat(c.Query("max_bpm"), 64); err == nil {
		query = query.Where("bpm <= ?", maxBPM)
	}

	// Count total for pagination metadata
	query.Count(&total)

	result := query.Order("artist asc, title asc").Limit(limit).Offset(offset).Find(&tracks)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": tracks,
		"meta": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetStats aggregates library data for the dashboard.
func (s *Server) GetStats(c *gin.Context) {
	var stats struct {
		TotalTracks    int64   `json:"total_tracks"`
		TotalPlaylists int64   `json:"total_playlists"`
		UniqueArtists  int64   `json:"unique_artists"`
		AvgBPM         float64 `json:"avg_bpm"`
	}

	s.db.DB.Model(&models.Track{}).Count(&stats.TotalTracks)
	s.db.DB.Model(&models.Playlist{}).Count(&stats.TotalPlaylists)
	s.db.DB.Model(&models.Track{}).Distinct("artist").Count(&stats.UniqueArtists)
	s.db.DB.Model(&models.Track{}).Select("COALESCE(AVG(bpm), 0)").Scan(&stats.AvgBPM)

	// Key distribution across the library, for the wheel visualization
	var keyRows []struct {
		CamelotKey string `json:"key"`
		Count      int64  `json:"count"`
	}
	s.db.DB.Model(&models.Track{}).
		Select("camelot_key, COUNT(*) as count").
		Where("camelot_key != ''").
		Group("camelot_key").
		Order("count desc").
		Scan(&keyRows)

	c.JSON(http.StatusOK, gin.H{
		"stats":            stats,
		"key_distribution": keyRows,
	})
}
