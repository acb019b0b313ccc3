package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-portal-api/internal/models"
	"github.com/noah-isme/campus-portal-api/internal/service"
	appErrors "github.com/noah-isme/campus-portal-api/pkg/errors"
	"github.com/noah-isme/campus-portal-api/pkg/response"
)

// AssessmentHandler exposes assignment, test and exam endpoints.
type AssessmentHandler struct {
	assessments *service.AssessmentService
}

// NewAssessmentHandler constructs handler.
func NewAssessmentHandler(assessments *service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{assessments: assessments}
}

func examKindFromQuery(c *gin.Context) (models.ExamKind, error) {
	kind := models.ExamKind(strings.ToUpper(c.DefaultQuery("kind", string(models.ExamKindMidterm))))
	switch kind {
	case models.ExamKindMidterm, models.ExamKindFinal:
		return kind, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, "kind must be MIDTERM or FINAL")
	}
}

// Questions godoc
// @Summary Exam question set for a course
// @Tags Exams
// @Produce json
// @Param courseId path string true "Course ID"
// @Param kind query string false "MIDTERM or FINAL" default(MIDTERM)
// @Success 200 {object} response.Envelope
// @Router /exams/{courseId}/questions [get]
func (h *AssessmentHandler) Questions(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	kind, err := examKindFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	questions, err := h.assessments.Questions(c.Request.Context(), claims.UserID, c.Param("courseId"), kind)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, questions, nil)
}

// Eligibility godoc
// @Summary Exam eligibility for a course
// @Tags Exams
// @Produce json
// @Param courseId path string true "Course ID"
// @Param kind query string false "MIDTERM or FINAL" default(MIDTERM)
// @Success 200 {object} response.Envelope
// @Router /exams/{courseId}/eligibility [get]
func (h *AssessmentHandler) Eligibility(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	kind, err := examKindFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	eligibility, err := h.assessments.Eligibility(c.Request.Context(), claims.UserID, c.Param("courseId"), kind)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, eligibility, nil)
}

// SubmitAssignment godoc
// @Summary Submit an assignment
// @Tags Assessments
// @Accept json
// @Produce json
// @Param payload body service.SubmitEntryRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Router /assessments/assignments [post]
func (h *AssessmentHandler) SubmitAssignment(c *gin.Context) {
	h.submitEntry(c, models.AssessmentKindAssignment)
}

// SubmitTest godoc
// @Summary Submit a test
// @Tags Assessments
// @Accept json
// @Produce json
// @Param payload body service.SubmitEntryRequest true "Test payload"
// @Success 201 {object} response.Envelope
// @Router /assessments/tests [post]
func (h *AssessmentHandler) SubmitTest(c *gin.Context) {
	h.submitEntry(c, models.AssessmentKindTest)
}

func (h *AssessmentHandler) submitEntry(c *gin.Context, kind models.AssessmentKind) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.SubmitEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	var (
		entry *models.AssessmentEntry
		err   error
	)
	if kind == models.AssessmentKindAssignment {
		entry, err = h.assessments.SubmitAssignment(c.Request.Context(), claims.UserID, req)
	} else {
		entry, err = h.assessments.SubmitTest(c.Request.Context(), claims.UserID, req)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// SubmitMidterm godoc
// @Summary Submit midterm answers
// @Tags Exams
// @Accept json
// @Produce json
// @Param payload body service.SubmitExamRequest true "Answer sheet"
// @Success 201 {object} response.Envelope
// @Router /exams/midterm [post]
func (h *AssessmentHandler) SubmitMidterm(c *gin.Context) {
	h.submitExam(c, models.ExamKindMidterm)
}

// SubmitFinal godoc
// @Summary Submit final exam answers
// @Tags Exams
// @Accept json
// @Produce json
// @Param payload body service.SubmitExamRequest true "Answer sheet"
// @Success 201 {object} response.Envelope
// @Router /exams/final [post]
func (h *AssessmentHandler) SubmitFinal(c *gin.Context) {
	h.submitExam(c, models.ExamKindFinal)
}

func (h *AssessmentHandler) submitExam(c *gin.Context, kind models.ExamKind) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.SubmitExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	var (
		result *models.ExamResult
		err    error
	)
	if kind == models.ExamKindMidterm {
		result, err = h.assessments.SubmitMidterm(c.Request.Context(), claims.UserID, req)
	} else {
		result, err = h.assessments.SubmitFinal(c.Request.Context(), claims.UserID, req)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
