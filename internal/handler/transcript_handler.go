package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-portal-api/internal/service"
	appErrors "github.com/noah-isme/campus-portal-api/pkg/errors"
	"github.com/noah-isme/campus-portal-api/pkg/export"
	"github.com/noah-isme/campus-portal-api/pkg/response"
)

// TranscriptHandler serves transcript downloads for the authenticated student.
type TranscriptHandler struct {
	transcripts *service.TranscriptService
	csv         *export.CSVExporter
	pdf         *export.PDFExporter
}

// NewTranscriptHandler constructs handler.
func NewTranscriptHandler(transcripts *service.TranscriptService) *TranscriptHandler {
	return &TranscriptHandler{
		transcripts: transcripts,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
	}
}

// Export godoc
// @Summary Download the transcript as CSV or PDF
// @Tags Transcripts
// @Produce octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /transcript/export [get]
func (h *TranscriptHandler) Export(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	format := strings.ToLower(c.DefaultQuery("format", "csv"))
	table, err := h.transcripts.Table(c.Request.Context(), claims.UserID, displayName(claims))
	if err != nil {
		response.Error(c, err)
		return
	}
	var (
		payload  []byte
		mimeType string
	)
	switch format {
	case "csv":
		payload, err = h.csv.Render(table)
		mimeType = "text/csv"
	case "pdf":
		payload, err = h.pdf.Render(table)
		mimeType = "application/pdf"
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transcript-%s.%s\"", claims.UserID, format))
	c.Data(http.StatusOK, mimeType, payload)
}
