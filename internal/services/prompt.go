package services

import (
	"fmt"
	"strings"

	"pathfinder/career-advisor/internal/models"
)

// UseCase names an endpoint's prompt and normalisation pairing.
type UseCase string

const (
	UseCaseChat             UseCase = "chat"
	UseCaseChatbot          UseCase = "chatbot"
	UseCaseSkillsAnalysis   UseCase = "skills_analysis"
	UseCaseSkillsReview     UseCase = "skills_review"
	UseCaseResumeSkills     UseCase = "resume_skills"
	UseCaseResumeReview     UseCase = "resume_review"
	UseCaseCareerAssessment UseCase = "career_assessment"
)

const proseFormatRules = `Rules:
- Respond in a few short paragraphs
- Highlight key points using **bold text**
- Use bullet points (•) for main suggestions
- Keep it concise, objective and actionable`

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildChatPrompt creates prompt for general career Q&A
func (pb *PromptBuilder) BuildChatPrompt(query string) string {
	return fmt.Sprintf(`You are a knowledgeable career assistant. Answer the user's question below directly and accurately.

USER QUESTION:
%s

Respond in plain prose. Use bullet points (•) and **bold text** only where they make the answer clearer.`,
		query)
}

// BuildChatbotPrompt creates prompt for the PathFinder chatbot
func (pb *PromptBuilder) BuildChatbotPrompt(message string) string {
	return fmt.Sprintf(`You are PathFinder, an expert AI Career Strategist. Answer the user's message below with a helpful, encouraging and actionable response.

USER MESSAGE:
"%s"

%s`,
		message, proseFormatRules)
}

// BuildSkillsAnalysisPrompt creates prompt for the structured skills-gap analysis.
// catalogContext may be empty.
func (pb *PromptBuilder) BuildSkillsAnalysisPrompt(skills, targetRole, catalogContext string) string {
	var catalogSection string
	if catalogContext != "" {
		catalogSection = fmt.Sprintf(`
REFERENCE CATALOG (prefer these learning resources for "recommendations" when they fit):
%s
`, catalogContext)
	}

	return fmt.Sprintf(`You are an expert career coach and skills analyst. Analyze the skills gap for a person wanting to become a "%s".

CURRENT SKILLS:
"%s"
%s
Provide the analysis in a strict JSON format only. Do not include any text, explanation, or markdown characters like `+"```json"+` outside of the main JSON object.
The JSON object must have this exact structure:
{
  "matchPercentage": <number between %d-%d>,
  "currentSkills": [
    { "name": "<skill_name>", "level": <number between %d-%d>, "status": "<'strong'|'good'|'developing'>" }
  ],
  "missingSkills": [
    { "name": "<skill_name>", "importance": "<'High'|'Medium'>", "description": "<brief_description>", "timeToLearn": "<estimated_time>" }
  ],
  "recommendations": [
    { "type": "<'course'|'certification'|'project'>", "title": "<item_title>", "provider": "<provider_name>", "duration": "<estimated_duration>", "rating": <number between %.1f-%.1f>, "price": "<price_string>" }
  ]
}

- Base the "level" on how relevant the current skill is to the target role.
- Identify 3-4 key "missingSkills".
- Provide 3 diverse "recommendations" (one course, one certification, one project).`,
		targetRole, skills, catalogSection,
		models.MinMatchPercentage, models.MaxMatchPercentage,
		models.MinSkillLevel, models.MaxSkillLevel,
		models.MinRating, models.MaxRating)
}

// BuildSkillsReviewPrompt creates prompt for a free-text review of a skill list
func (pb *PromptBuilder) BuildSkillsReviewPrompt(skills string) string {
	return fmt.Sprintf(`You are an expert career coach. Review the skills below.

SKILLS:
%s

Cover:
1. Strengths
2. Missing or weak areas
3. Career paths that match these skills

%s`,
		skills, proseFormatRules)
}

// BuildResumeSkillsPrompt creates prompt for extracting skills from resume text
func (pb *PromptBuilder) BuildResumeSkillsPrompt(resumeText string) string {
	return fmt.Sprintf(`From the following resume text, extract all the technical skills, programming languages, frameworks, and tools.
Return them as a single line of plain text, with each skill separated by a comma. Do not add any other text.

RESUME TEXT:
"%s"`,
		resumeText)
}

// BuildResumeReviewPrompt creates prompt for reviewing resume text
func (pb *PromptBuilder) BuildResumeReviewPrompt(resumeText string) string {
	return fmt.Sprintf(`You are an experienced recruiter reviewing a resume.

RESUME TEXT:
%s

Cover:
1. Strengths
2. Weaknesses
3. Suggested improvements for career growth

%s`,
		resumeText, proseFormatRules)
}

// BuildCareerAssessmentPrompt pairs each answer with its questionnaire item.
// answers must hold exactly models.AssessmentQuestionCount entries.
func (pb *PromptBuilder) BuildCareerAssessmentPrompt(answers []string) string {
	var qa strings.Builder
	for i, answer := range answers {
		question := ""
		if i < len(models.AssessmentQuestions) {
			question = models.AssessmentQuestions[i]
		}
		fmt.Fprintf(&qa, "%d. %s\n   Answer: %s\n", i+1, question, answer)
	}

	return fmt.Sprintf(`You are a career guidance expert. Based on these %d answers from a user, suggest the most suitable career goal.

ANSWERS:
%s
Return the result in this format:
1. Best Career Match (with explanation)
2. 3 Alternative Career Options (with short reasons)
3. Suggested Next Steps (skills to learn, path to follow)

%s`,
		len(answers), qa.String(), proseFormatRules)
}

// BuildCatalogQuery creates the retrieval query for catalog grounding
func (pb *PromptBuilder) BuildCatalogQuery(skills, targetRole string) string {
	return fmt.Sprintf("%s: %s", targetRole, skills)
}

// FormatCatalogContext renders catalog hits for the skills analysis prompt
func FormatCatalogContext(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	var parts []string
	for i, result := range results {
		parts = append(parts, fmt.Sprintf("--- Resource %d (Score: %.2f) ---\n%s",
			i+1, result.Score, strings.TrimSpace(result.Text)))
	}

	return strings.Join(parts, "\n\n")
}
