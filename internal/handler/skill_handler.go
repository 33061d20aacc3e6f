package handler

import (
	"skillcheck/internal/dto"
	"skillcheck/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SkillHandler serves the skill catalog.
type SkillHandler struct {
	service service.SkillService
}

func NewSkillHandler(service service.SkillService) *SkillHandler {
	return &SkillHandler{service: service}
}

// ListSkills godoc
// @Summary List known skills
// @Tags skills
// @Produce json
// @Success 200 {array} dto.SkillResponse
// @Router /skills [get]
func (h *SkillHandler) ListSkills(c *fiber.Ctx) error {
	skills, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSkillListResponse(skills))
}

// CreateSkill godoc
// @Summary Register a skill
// @Description Registers the skill, or returns the existing entry for the same normalized name
// @Tags skills
// @Accept json
// @Produce json
// @Param request body dto.CreateSkillRequest true "Skill"
// @Success 201 {object} dto.SkillResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /skills [post]
func (h *SkillHandler) CreateSkill(c *fiber.Ctx) error {
	var req dto.CreateSkillRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	skill, err := h.service.Register(c.UserContext(), req.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewSkillResponse(skill))
}
