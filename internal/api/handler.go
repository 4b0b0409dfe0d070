package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"labinventory-backend/internal/importer"
	"labinventory-backend/internal/parse"
	"labinventory-backend/internal/store"
)

// Importer runs an uploaded file through the import pipeline.
type Importer interface {
	ImportFile(ctx context.Context, path string, layout parse.Layout) (*importer.Summary, error)
}

// TokenIssuer issues bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID int64) (string, error)
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store     store.Store
	importer  Importer
	tokens    TokenIssuer
	uploadDir string
	maxUpload int64
}

// Options configure a Handler.
type Options struct {
	// UploadDir receives uploads while they are imported.
	UploadDir string
	// MaxUploadBytes caps the size of an uploaded file.
	MaxUploadBytes int64
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, imp Importer, tokens TokenIssuer, opts Options) *Handler {
	return &Handler{
		store:     s,
		importer:  imp,
		tokens:    tokens,
		uploadDir: opts.UploadDir,
		maxUpload: opts.MaxUploadBytes,
	}
}

func message(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}

// serverError logs err and answers with a generic 500, or 503 when the
// database is down.
func serverError(c *gin.Context, err error) {
	log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	if errors.Is(err, store.ErrUnavailable) {
		message(c, http.StatusServiceUnavailable, "Database unavailable")
		return
	}
	message(c, http.StatusInternalServerError, "Server error")
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		message(c, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}

// Healthz reports whether the database is reachable.
func (h *Handler) Healthz(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		log.Warn().Err(err).Msg("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
