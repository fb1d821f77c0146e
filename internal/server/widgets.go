package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/alkime/knobs/internal/page"
	"github.com/gin-gonic/gin"
)

// writeTimeout bounds how long a PUT waits for the UI to apply it.
const writeTimeout = 2 * time.Second

type writeRequest struct {
	Value *string `json:"value" binding:"required"`
}

func (s *Server) handleListWidgets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"widgets": s.store.All()})
}

func (s *Server) handleGetWidget(c *gin.Context) {
	change, ok := s.store.Get(c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": page.ErrUnknownWidget.Error()})
		return
	}

	c.JSON(http.StatusOK, change)
}

func (s *Server) handlePutWidget(c *gin.Context) {
	name := c.Param("name")

	var req writeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if s.writer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "remote writes are disabled"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), writeTimeout)
	defer cancel()

	change, err := s.writer.SetAttr(ctx, name, *req.Value)

	switch {
	case errors.Is(err, page.ErrUnknownWidget):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		s.logger.Warn("Widget write timed out", "widget", name)
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
	case err != nil:
		s.logger.Error("Widget write failed", "widget", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		s.logger.Info("Widget written remotely", "widget", name, "value", change.Attr)
		c.JSON(http.StatusOK, change)
	}
}
