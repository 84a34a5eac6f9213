package handlers

import (
	"github.com/gofiber/fiber/v2"

	"pathfinder/career-advisor/internal/models"
	"pathfinder/career-advisor/internal/services"
)

type CareerHandler struct {
	advisor services.AdvisorService
}

func NewCareerHandler(advisor services.AdvisorService) *CareerHandler {
	return &CareerHandler{advisor: advisor}
}

// HandleCareerAssessment handles POST /career-assessment
func (h *CareerHandler) HandleCareerAssessment(c *fiber.Ctx) error {
	var req models.CareerAssessmentRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload(c)
	}

	result, err := h.advisor.AssessCareer(c.UserContext(), req.Answers)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.CareerAssessmentResponse{Result: result})
}
