package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ListExports returns the keys of every stored export artifact.
func (s *Server) ListExports(c *gin.Context) {
	keys, err := s.storage.ListExports()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list exports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": keys})
}

// GetExport streams one stored artifact back to the client.
func (s *Server) GetExport(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")

	obj, err := s.storage.GetExport(key)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Export not found"})
		return
	}
	defer obj.Body.Close()

	c.DataFromReader(http.StatusOK, obj.ContentLength, obj.ContentType, obj.Body, nil)
}

func (s *Server) DeleteExport(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")

	if err := s.storage.DeleteExport(key); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete export"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
