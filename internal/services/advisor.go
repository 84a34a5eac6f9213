package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"pathfinder/career-advisor/internal/metrics"
	"pathfinder/career-advisor/internal/models"
)

type AdvisorService interface {
	Chat(ctx context.Context, query string) (string, error)
	Chatbot(ctx context.Context, message string) (string, error)
	AnalyzeSkills(ctx context.Context, req models.SkillsAnalysisRequest) (*models.SkillsAnalysisResult, error)
	ReviewSkills(ctx context.Context, skills string) (string, error)
	ExtractSkills(ctx context.Context, upload ResumeUpload) (string, error)
	ReviewResume(ctx context.Context, resumeText string) (string, error)
	AssessCareer(ctx context.Context, answers []string) (string, error)
}

// ResumeUpload is an uploaded résumé file as received.
type ResumeUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// DefaultCatalogTimeout bounds a catalog lookup when AdvisorOptions leaves
// CatalogTimeout unset.
const DefaultCatalogTimeout = 3 * time.Second

// AdvisorOptions carries the per-request limits shared by every use case.
// CatalogTimeout is carved out of Timeout for the catalog lookup so a slow
// vector store cannot consume the completion's budget.
type AdvisorOptions struct {
	Timeout        time.Duration
	CatalogTimeout time.Duration
	Retry          RetryPolicy
}

type advisorService struct {
	geminiService GeminiService
	extractor     TextExtractor
	catalog       CatalogRetriever
	promptBuilder *PromptBuilder
	metrics        *metrics.Metrics
	timeout        time.Duration
	catalogTimeout time.Duration
	retry          RetryPolicy
}

// NewAdvisorService wires the use cases. catalog and m may be nil.
func NewAdvisorService(
	geminiService GeminiService,
	extractor TextExtractor,
	catalog CatalogRetriever,
	m *metrics.Metrics,
	opts AdvisorOptions,
) AdvisorService {
	catalogTimeout := opts.CatalogTimeout
	if catalogTimeout <= 0 {
		catalogTimeout = DefaultCatalogTimeout
	}

	return &advisorService{
		geminiService:  geminiService,
		extractor:      extractor,
		catalog:        catalog,
		promptBuilder:  NewPromptBuilder(),
		metrics:        m,
		timeout:        opts.Timeout,
		catalogTimeout: catalogTimeout,
		retry:          opts.Retry,
	}
}

var (
	proseParams          = GenerationParams{Temperature: Temperature(0.5), MaxTokens: 2048}
	chatbotParams        = GenerationParams{Temperature: Temperature(0.7), MaxTokens: 2048}
	skillsAnalysisParams = GenerationParams{Temperature: Temperature(0.3), MaxTokens: 4096, JSON: true}
	resumeSkillsParams   = GenerationParams{Temperature: Temperature(0.2), MaxTokens: 1024}
)

func (a *advisorService) Chat(ctx context.Context, query string) (string, error) {
	if err := requireText("query", query); err != nil {
		return "", err
	}
	return a.generateProse(ctx, UseCaseChat, a.promptBuilder.BuildChatPrompt(query), proseParams)
}

func (a *advisorService) Chatbot(ctx context.Context, message string) (string, error) {
	if err := requireText("message", message); err != nil {
		return "", err
	}
	return a.generateProse(ctx, UseCaseChatbot, a.promptBuilder.BuildChatbotPrompt(strings.TrimSpace(message)), chatbotParams)
}

func (a *advisorService) ReviewSkills(ctx context.Context, skills string) (string, error) {
	if err := requireText("skills", skills); err != nil {
		return "", err
	}
	return a.generateProse(ctx, UseCaseSkillsReview, a.promptBuilder.BuildSkillsReviewPrompt(skills), proseParams)
}

func (a *advisorService) ReviewResume(ctx context.Context, resumeText string) (string, error) {
	if err := requireText("resume", resumeText); err != nil {
		return "", err
	}
	return a.generateProse(ctx, UseCaseResumeReview, a.promptBuilder.BuildResumeReviewPrompt(resumeText), proseParams)
}

func (a *advisorService) AssessCareer(ctx context.Context, answers []string) (string, error) {
	if len(answers) != models.AssessmentQuestionCount {
		return "", newValidationError("answers",
			fmt.Sprintf("please provide all %d answers, got %d", models.AssessmentQuestionCount, len(answers)))
	}
	for i, answer := range answers {
		if strings.TrimSpace(answer) == "" {
			return "", newValidationError(fmt.Sprintf("answers[%d]", i), "must not be empty")
		}
	}

	prompt := a.promptBuilder.BuildCareerAssessmentPrompt(answers)
	return a.generateProse(ctx, UseCaseCareerAssessment, prompt, proseParams)
}

func (a *advisorService) AnalyzeSkills(ctx context.Context, req models.SkillsAnalysisRequest) (*models.SkillsAnalysisResult, error) {
	if err := requireText("skills", req.Skills); err != nil {
		return nil, err
	}
	if err := requireText("targetRole", req.TargetRole); err != nil {
		return nil, err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	catalogContext := a.retrieveCatalog(ctx, req)
	prompt := a.promptBuilder.BuildSkillsAnalysisPrompt(req.Skills, req.TargetRole, catalogContext)

	log.Printf("📝 Skills analysis prompt length: %d characters", len(prompt))

	completion, err := a.complete(ctx, UseCaseSkillsAnalysis, prompt, skillsAnalysisParams)
	if err != nil {
		return nil, err
	}

	result, err := ParseSkillsAnalysis(completion)
	if err != nil {
		a.recordNormalizerFailure(UseCaseSkillsAnalysis, err, completion)
		return nil, err
	}

	return result, nil
}

func (a *advisorService) ExtractSkills(ctx context.Context, upload ResumeUpload) (string, error) {
	mediaType, err := ResolveUploadMediaType(upload.ContentType, upload.Filename)
	if err != nil {
		return "", err
	}
	if len(upload.Data) == 0 {
		return "", newValidationError("resume", "uploaded file is empty")
	}

	log.Printf("📄 Extracting text from %s (%s, %d bytes)", upload.Filename, mediaType, len(upload.Data))

	resumeText, err := a.extractor.ExtractText(upload.Data, mediaType)
	if err != nil {
		var unsupported *UnsupportedMediaTypeError
		if errors.As(err, &unsupported) {
			return "", err
		}
		if errors.Is(err, ErrNoTextContent) {
			return "", newValidationError("resume", "no readable text found in the uploaded file")
		}
		log.Printf("❌ Failed to extract resume text: %v", err)
		return "", newValidationError("resume", "the uploaded file could not be read")
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	completion, err := a.complete(ctx, UseCaseResumeSkills, a.promptBuilder.BuildResumeSkillsPrompt(resumeText), resumeSkillsParams)
	if err != nil {
		return "", err
	}

	skills, err := NormalizeSkillList(completion)
	if err != nil {
		a.recordNormalizerFailure(UseCaseResumeSkills, err, completion)
		return "", err
	}

	return skills, nil
}

// generateProse runs a free-text use case end to end.
func (a *advisorService) generateProse(ctx context.Context, useCase UseCase, prompt string, params GenerationParams) (string, error) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	completion, err := a.complete(ctx, useCase, prompt, params)
	if err != nil {
		return "", err
	}

	text, err := NormalizeText(useCase, completion)
	if err != nil {
		a.recordNormalizerFailure(useCase, err, completion)
		return "", err
	}

	return text, nil
}

// complete performs the backend call for useCase and records its outcome.
func (a *advisorService) complete(ctx context.Context, useCase UseCase, prompt string, params GenerationParams) (string, error) {
	log.Printf("🤖 Calling generative backend for %s", useCase)

	start := time.Now()
	completion, err := generateWithRetry(ctx, a.geminiService, prompt, params, a.retry)
	elapsed := float64(time.Since(start).Milliseconds())

	if err != nil {
		reason, _ := BackendReasonOf(err)
		log.Printf("❌ %s backend call failed after %.0fms (%s): %v", useCase, elapsed, reason, err)
		a.metrics.RecordBackendCall(string(useCase), string(reason), elapsed)
		return "", err
	}

	outcome := metrics.OutcomeSuccess
	if strings.TrimSpace(completion) == "" {
		outcome = metrics.OutcomeEmpty
	}
	a.metrics.RecordBackendCall(string(useCase), outcome, elapsed)

	log.Printf("✅ %s response received: %d characters", useCase, len(completion))
	return completion, nil
}

// retrieveCatalog returns formatted catalog context, or "" when grounding is
// disabled or the lookup fails. Lookup failures are logged and counted.
func (a *advisorService) retrieveCatalog(ctx context.Context, req models.SkillsAnalysisRequest) string {
	if a.catalog == nil {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, a.catalogTimeout)
	defer cancel()

	results, err := a.catalog.Retrieve(ctx, a.promptBuilder.BuildCatalogQuery(req.Skills, req.TargetRole))
	if err != nil {
		log.Printf("⚠️ Catalog lookup failed, continuing without catalog context: %v", err)
		a.metrics.RecordCatalogLookup(metrics.OutcomeError)
		return ""
	}

	a.metrics.RecordCatalogLookup(metrics.OutcomeSuccess)
	return FormatCatalogContext(results)
}

func (a *advisorService) recordNormalizerFailure(useCase UseCase, err error, completion string) {
	kind := ErrorKind(err)
	log.Printf("❌ %s completion rejected (%s): %v\nResponse: %s", useCase, kind, err, completion)
	a.metrics.RecordNormalizerFailure(string(useCase), kind)
}

func (a *advisorService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.timeout)
}

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return newValidationError(field, "is required")
	}
	return nil
}

// ErrorKind names the taxonomy entry err belongs to.
func ErrorKind(err error) string {
	var (
		validationErr  *ValidationError
		unsupportedErr *UnsupportedMediaTypeError
		backendErr     *BackendError
		parseErr       *SchemaParseError
		schemaErr      *SchemaValidationError
	)

	switch {
	case errors.As(err, &validationErr):
		return "validation_error"
	case errors.As(err, &unsupportedErr):
		return "unsupported_media_type"
	case errors.As(err, &backendErr):
		return "backend_error"
	case errors.As(err, &parseErr):
		return "schema_parse_error"
	case errors.As(err, &schemaErr):
		return "schema_validation_error"
	case errors.Is(err, ErrEmptyCompletion):
		return "empty_completion"
	default:
		return "internal_error"
	}
}
