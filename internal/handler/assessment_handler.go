package handler

import (
	"net/url"
	"strconv"

	"skillcheck/internal/dto"
	"skillcheck/internal/middleware"
	"skillcheck/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AssessmentHandler handles the assessment lifecycle and history routes.
// Every route runs behind middleware.Protected.
type AssessmentHandler struct {
	service service.AssessmentService
}

func NewAssessmentHandler(service service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{service: service}
}

// StartAssessment godoc
// @Summary Start an assessment
// @Description Generates a five-question quiz for the skill and makes it the active session
// @Tags assessments
// @Accept json
// @Produce json
// @Param request body dto.StartAssessmentRequest true "Skill"
// @Success 201 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /assessments [post]
func (h *AssessmentHandler) StartAssessment(c *fiber.Ctx) error {
	var req dto.StartAssessmentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	session, err := h.service.Start(c.UserContext(), middleware.UserID(c), req.Skill)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewSessionResponse(session))
}

func (h *AssessmentHandler) GetCurrent(c *fiber.Ctx) error {
	session, err := h.service.Current(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSessionResponse(session))
}

// RecordAnswer godoc
// @Summary Record an answer
// @Tags assessments
// @Accept json
// @Produce json
// @Param index path int true "Question index"
// @Param request body dto.AnswerRequest true "Answer"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /assessments/current/answers/{index} [put]
func (h *AssessmentHandler) RecordAnswer(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "question index must be an integer")
	}
	var req dto.AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	session, err := h.service.RecordAnswer(c.UserContext(), middleware.UserID(c), index, req.ToDomain())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSessionResponse(session))
}

// Submit godoc
// @Summary Submit the active assessment
// @Description Evaluates the answers and appends the result to the learner's history
// @Tags assessments
// @Produce json
// @Success 201 {object} dto.RecordResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /assessments/current/submit [post]
func (h *AssessmentHandler) Submit(c *fiber.Ctx) error {
	record, err := h.service.Submit(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewRecordResponse(record))
}

func (h *AssessmentHandler) ListHistory(c *fiber.Ctx) error {
	records, err := h.service.ListAll(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewRecordListResponse(records))
}

func (h *AssessmentHandler) SkillHistory(c *fiber.Ctx) error {
	skill, err := skillParam(c)
	if err != nil {
		return err
	}
	records, err := h.service.History(c.UserContext(), middleware.UserID(c), skill)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewRecordListResponse(records))
}

func (h *AssessmentHandler) Progression(c *fiber.Ctx) error {
	skill, err := skillParam(c)
	if err != nil {
		return err
	}
	summary, err := h.service.Progression(c.UserContext(), middleware.UserID(c), skill)
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

// Report godoc
// @Summary Progress report for a skill
// @Tags history
// @Produce json
// @Param skill path string true "Skill name"
// @Success 200 {object} analytics.ReportPayload
// @Failure 404 {object} middleware.ErrorResponse
// @Router /skills/{skill}/report [get]
func (h *AssessmentHandler) Report(c *fiber.Ctx) error {
	skill, err := skillParam(c)
	if err != nil {
		return err
	}
	report, err := h.service.Report(c.UserContext(), middleware.UserID(c), skill)
	if err != nil {
		return err
	}
	return c.JSON(report)
}

func skillParam(c *fiber.Ctx) (string, error) {
	skill, err := url.PathUnescape(c.Params("skill"))
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "malformed skill name")
	}
	return skill, nil
}
