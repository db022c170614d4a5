package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"musicflow/internal/dj"
	"musicflow/internal/models"
)

// GeneratePlaylist runs the builder and persists the result. The
// request names a profile preset; an inline config overrides it when
// present.
func (s *Server) GeneratePlaylist(c *gin.Context) {
	var input struct {
		Name    string     `json:"name" binding:"required"`
		Profile string     `json:"profile"`
		Config  *dj.Config `json:"config"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg := dj.GetProfile(input.Profile).Config()
	if input.Config != nil {
		cfg = *input.Config
	}

	timer := prometheus.NewTimer(buildDuration)
	playlist, err := s.builder.Build(cfg)
	timer.ObserveDuration()

	if err != nil {
		buildsTotal.WithLabelValues("failure").Inc()
		if errors.Is(err, dj.ErrInvalidConfig) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(playlist) == 0 {
		buildsTotal.WithLabelValues("empty").Inc()
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No tracks matched the generation constraints"})
		return
	}
	buildsTotal.WithLabelValues("success").Inc()

	// Quality analysis is advisory; single-track results skip it.
	var quality *dj.QualityReport
	if report, err := s.builder.AnalyzeQuality(playlist); err == nil {
		quality = report
	}

	record := models.Playlist{
		Name:         input.Name,
		ArcType:      string(cfg.ArcType),
		TargetLength: cfg.TargetLength,
	}
	if quality != nil && quality.Sequence != nil {
		record.QualityRating = quality.Sequence.QualityRating
		record.AvgCoherence = quality.Sequence.Average
	}

	totalDuration := 0.0
	for _, e := range playlist {
		totalDuration += e.Track.Duration
		record.Entries = append(record.Entries, models.PlaylistEntry{
			TrackID:         e.Track.ID,
			Position:        e.Position,
			TransitionScore: e.TransitionScore,
			KeyScore:        e.Breakdown.KeyScore,
			TempoScore:      e.Breakdown.TempoScore,
			CoherenceScore:  e.Breakdown.CoherenceScore,
			SelectedReason:  e.SelectedReason,
		})
	}
	record.TotalDuration = int(totalDuration)

	if err := s.db.DB.Create(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save playlist"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"playlist": record,
		"entries":  playlist,
		"quality":  quality,
	})
}

func (s *Server) GetPlaylists(c *gin.Context) {
	var playlists []models.Playlist

	result := s.db.DB.Order("created_at desc").Find(&playlists)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch playlists"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": playlists})
}

func (s *Server) GetPlaylist(c *gin.Context) {
	playlist, ok := s.loadPlaylist(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, playlist)
}

// ExportPlaylist renders a stored playlist in the requested format.
// Query Params: format (json|m3u|csv, default m3u), store (persist the
// artifact to the export bucket when "true").
func (s *Server) ExportPlaylist(c *gin.Context) {
	playlist, ok := s.loadPlaylist(c)
	if !ok {
		return
	}

	entries := make([]dj.Entry, 0, len(playlist.Entries))
	for _, e := range playlist.Entries {
		entries = append(entries, dj.Entry{
			Track:           e.Track,
			Position:        e.Position,
			TransitionScore: e.TransitionScore,
			SelectedReason:  e.SelectedReason,
		})
	}

	format := c.DefaultQuery("format", "m3u")
	content, err := dj.Export(entries, format)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response := gin.H{
		"playlist_id": playlist.ID,
		"format":      format,
		"content":     content,
	}

	if c.Query("store") == "true" {
		key, err := s.storage.SaveExport(playlist.Name, format, content)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store export artifact"})
			return
		}
		response["stored_key"] = key
	}

	c.JSON(http.StatusOK, response)
}

func (s *Server) DeletePlaylist(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid playlist ID"})
		return
	}

	err = s.db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", id).Delete(&models.PlaylistEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Playlist{}, id).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// loadPlaylist fetches one playlist with its ordered entries and
// tracks, writing the error response itself on failure.
func (s *Server) loadPlaylist(c *gin.Context) (*models.Playlist, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid playlist ID"})
		return nil, false
	}

	var playlist models.Playlist
	result := s.db.DB.
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		Preload("Entries.Track").
		First(&playlist, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Playlist not found"})
		return nil, false
	}
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return nil, false
	}

	return &playlist, true
}
