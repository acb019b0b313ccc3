package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-portal-api/internal/service"
	appErrors "github.com/noah-isme/campus-portal-api/pkg/errors"
	"github.com/noah-isme/campus-portal-api/pkg/response"
)

// PublicationHandler exposes the reviewer-facing publication switches and the
// combined per-course publication info.
type PublicationHandler struct {
	publications *service.PublicationService
}

// NewPublicationHandler constructs handler.
func NewPublicationHandler(publications *service.PublicationService) *PublicationHandler {
	return &PublicationHandler{publications: publications}
}

// Publish godoc
// @Summary Publish an exam or the course results
// @Tags Publications
// @Accept json
// @Produce json
// @Param payload body service.PublishRequest true "Publication payload"
// @Success 200 {object} response.Envelope
// @Router /publications [post]
func (h *PublicationHandler) Publish(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	info, err := h.publications.Publish(c.Request.Context(), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, info, nil)
}

// Unpublish godoc
// @Summary Retract an exam or results publication
// @Tags Publications
// @Accept json
// @Produce json
// @Param payload body service.PublishRequest true "Publication payload"
// @Success 200 {object} response.Envelope
// @Router /publications [delete]
func (h *PublicationHandler) Unpublish(c *gin.Context) {
	var req service.PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	info, err := h.publications.Unpublish(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, info, nil)
}

// BatchPublish godoc
// @Summary Publish across multiple courses
// @Tags Publications
// @Accept json
// @Produce json
// @Param payload body service.BatchPublishRequest true "Batch payload"
// @Success 200 {object} response.Envelope
// @Router /publications/batch [post]
func (h *PublicationHandler) BatchPublish(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.BatchPublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.publications.BatchPublish(c.Request.Context(), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Info godoc
// @Summary Combined publication info for a course
// @Tags Publications
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /publications/{courseId} [get]
func (h *PublicationHandler) Info(c *gin.Context) {
	info, err := h.publications.InfoFor(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, info, nil)
}
