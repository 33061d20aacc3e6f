package handler

import (
	"skillcheck/internal/middleware"
	"skillcheck/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the API under api. Only the skill listing is public.
func RegisterRoutes(api fiber.Router, authService service.AuthService, skills *SkillHandler, assessments *AssessmentHandler) {
	protected := middleware.Protected(authService)

	api.Get("/skills", skills.ListSkills)
	api.Post("/skills", protected, skills.CreateSkill)
	api.Get("/skills/:skill/history", protected, assessments.SkillHistory)
	api.Get("/skills/:skill/progression", protected, assessments.Progression)
	api.Get("/skills/:skill/report", protected, assessments.Report)

	api.Get("/history", protected, assessments.ListHistory)

	assessmentGroup := api.Group("/assessments", protected)
	assessmentGroup.Post("/", assessments.StartAssessment)
	assessmentGroup.Get("/current", assessments.GetCurrent)
	assessmentGroup.Put("/current/answers/:index", assessments.RecordAnswer)
	assessmentGroup.Post("/current/submit", assessments.Submit)
}
