package api

import (
	"bytes"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"labinventory-backend/internal/export"
	"labinventory-backend/internal/importer"
	"labinventory-backend/internal/mw"
	"labinventory-backend/internal/parse"
)

// multipartSlack is the allowance for multipart headers and boundaries on
// top of the file size limit.
const multipartSlack = 64 << 10

type importResponse struct {
	Message string `json:"message"`
	*importer.Summary
}

// ImportExcel handles POST /api/import/excel?layout=. The upload is the
// multipart field "file"; layout defaults to the Labs/Assets workbook.
func (h *Handler) ImportExcel(c *gin.Context) {
	layout, err := parse.ParseLayout(c.DefaultQuery("layout", string(parse.LayoutWorkbook)))
	if err != nil {
		message(c, http.StatusBadRequest, err.Error())
		return
	}

	if h.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+multipartSlack)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			message(c, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		message(c, http.StatusBadRequest, "No file uploaded")
		return
	}
	if h.maxUpload > 0 && fh.Size > h.maxUpload {
		message(c, http.StatusRequestEntityTooLarge, "File too large")
		return
	}

	path := filepath.Join(h.uploadDir, uuid.NewString()+strings.ToLower(filepath.Ext(fh.Filename)))
	if err := c.SaveUploadedFile(fh, path); err != nil {
		serverError(c, err)
		return
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("failed to remove upload")
		}
	}()

	summary, err := h.importer.ImportFile(c.Request.Context(), path, layout)
	if err != nil {
		if importer.IsInputError(err) {
			message(c, http.StatusBadRequest, err.Error())
			return
		}
		serverError(c, err)
		return
	}

	event := log.Info().Str("upload", fh.Filename).Str("layout", string(layout))
	if uid, ok := mw.UserID(c); ok {
		event = event.Int64("user_id", uid)
	}
	event.Msg("upload imported")
	c.JSON(http.StatusOK, importResponse{Message: "Import completed", Summary: summary})
}

// ExportExcel handles GET /api/import/excel.
func (h *Handler) ExportExcel(c *gin.Context) {
	var buf bytes.Buffer
	if err := export.Export(c.Request.Context(), h.store, &buf); err != nil {
		serverError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=assets.xlsx")
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}
