package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"musicflow/internal/coherence"
)

// GetKeys lists every valid Camelot notation with its musical name.
func (s *Server) GetKeys(c *gin.Context) {
	keys := s.wheel.Keys()

	out := make([]gin.H, 0, len(keys))
	for _, k := range keys {
		info, _ := s.wheel.KeyInfo(k)
		out = append(out, gin.H{
			"camelot": k,
			"name":    info.Name,
			"mode":    info.Mode,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": out})
}

// GetCompatibleKeys returns harmonic neighbors for one key, best first.
// Query Params: min_score (default 0.5)
func (s *Server) GetCompatibleKeys(c *gin.Context) {
	key := s.wheel.NormalizeKey(c.Param("key"))
	if !s.wheel.ValidateKey(key) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown Camelot key: " + c.Param("key")})
		return
	}

	minScore := 0.5
	if v, err := strconv.ParseFloat(c.Query("min_score"), 64); err == nil {
		minScore = v
	}

	c.JSON(http.StatusOK, gin.H{
		"key":        key,
		"min_score":  minScore,
		"compatible": s.wheel.CompatibleKeys(key, minScore),
	})
}

// ScoreTransition evaluates a single A→B transition from raw features,
// without touching the library.
func (s *Server) ScoreTransition(c *gin.Context) {
	var input struct {
		From coherence.TrackFeatures `json:"from" binding:"required"`
		To   coherence.TrackFeatures `json:"to" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := s.metrics.OverallCoherence(input.From, input.To)

	c.JSON(http.StatusOK, gin.H{
		"result":      result,
		"suggestions": s.metrics.SuggestImprovements(input.From, input.To),
	})
}
