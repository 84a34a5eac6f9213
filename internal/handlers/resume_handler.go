package handlers

import (
	"fmt"
	"io"
	"log"

	"github.com/gofiber/fiber/v2"

	"pathfinder/career-advisor/internal/models"
	"pathfinder/career-advisor/internal/services"
)

const resumeFormField = "resume"

type ResumeHandler struct {
	advisor     services.AdvisorService
	maxFileSize int64
}

func NewResumeHandler(advisor services.AdvisorService, maxFileSize int64) *ResumeHandler {
	return &ResumeHandler{
		advisor:     advisor,
		maxFileSize: maxFileSize,
	}
}

// HandleExtractSkills handles POST /extract-skills
func (h *ResumeHandler) HandleExtractSkills(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile(resumeFormField)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "No resume file uploaded. Please upload a PDF or DOCX file as 'resume'.",
			Code:  fiber.StatusBadRequest,
			Type:  "validation_error",
		})
	}

	if h.maxFileSize > 0 && fileHeader.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize),
			Code:  fiber.StatusBadRequest,
			Type:  "validation_error",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("❌ Failed to open uploaded resume: %v", err)
		return respondError(c, fmt.Errorf("failed to open uploaded file: %w", err))
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Printf("❌ Failed to read uploaded resume: %v", err)
		return respondError(c, fmt.Errorf("failed to read uploaded file: %w", err))
	}

	skills, err := h.advisor.ExtractSkills(c.UserContext(), services.ResumeUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(fiber.HeaderContentType),
		Data:        data,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.ExtractSkillsResponse{Skills: skills})
}

// HandleReviewResume handles POST /resume
func (h *ResumeHandler) HandleReviewResume(c *fiber.Ctx) error {
	var req models.ResumeReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload(c)
	}

	feedback, err := h.advisor.ReviewResume(c.UserContext(), req.Resume)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.ResumeReviewResponse{Feedback: feedback})
}
