package handlers

import (
	"github.com/gofiber/fiber/v2"

	"pathfinder/career-advisor/internal/models"
	"pathfinder/career-advisor/internal/services"
)

type ChatHandler struct {
	advisor services.AdvisorService
}

func NewChatHandler(advisor services.AdvisorService) *ChatHandler {
	return &ChatHandler{advisor: advisor}
}

// HandleChat handles POST /chat
func (h *ChatHandler) HandleChat(c *fiber.Ctx) error {
	var req models.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload(c)
	}

	answer, err := h.advisor.Chat(c.UserContext(), req.Query)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.ChatResponse{Answer: answer})
}

// HandleChatbot handles POST /chatbot
func (h *ChatHandler) HandleChatbot(c *fiber.Ctx) error {
	var req models.ChatbotRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload(c)
	}

	reply, err := h.advisor.Chatbot(c.UserContext(), req.Message)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.ChatbotResponse{Reply: reply})
}
