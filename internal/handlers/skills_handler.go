package handlers

import (
	"github.com/gofiber/fiber/v2"

	"pathfinder/career-advisor/internal/models"
	"pathfinder/career-advisor/internal/services"
)

type SkillsHandler struct {
	advisor services.AdvisorService
}

func NewSkillsHandler(advisor services.AdvisorService) *SkillsHandler {
	return &SkillsHandler{advisor: advisor}
}

// HandleAnalyzeSkills handles POST /analyze-skills
func (h *SkillsHandler) HandleAnalyzeSkills(c *fiber.Ctx) error {
	var req models.SkillsAnalysisRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload(c)
	}

	result, err := h.advisor.AnalyzeSkills(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(result)
}

// HandleReviewSkills handles POST /skills
func (h *SkillsHandler) HandleReviewSkills(c *fiber.Ctx) error {
	var req models.SkillsReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload(c)
	}

	analysis, err := h.advisor.ReviewSkills(c.UserContext(), req.Skills)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SkillsReviewResponse{Analysis: analysis})
}
