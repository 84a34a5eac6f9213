package models

// AssessmentQuestionCount is the exact number of answers a career assessment
// must carry.
const AssessmentQuestionCount = 10

// AssessmentQuestions are the questionnaire prompts shown by the frontend, in
// answer order.
var AssessmentQuestions = [AssessmentQuestionCount]string{
	"What type of work environment do you prefer?",
	"Which subject did you enjoy most in school?",
	"What motivates you the most?",
	"How do you handle deadlines?",
	"What's your preferred learning style?",
	"Which activity appeals to you most?",
	"What's your ideal work-life balance?",
	"How do you approach challenges?",
	"What outcome makes you feel most accomplished?",
	"Which technology excites you most?",
}

type CareerAssessmentRequest struct {
	Answers []string `json:"answers"`
}

type CareerAssessmentResponse struct {
	Result string `json:"result"`
}

type ResumeReviewRequest struct {
	Resume string `json:"resume"`
}

type ResumeReviewResponse struct {
	Feedback string `json:"feedback"`
}
