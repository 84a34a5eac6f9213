package models

type SkillsAnalysisRequest struct {
	Skills     string `json:"skills"`
	TargetRole string `json:"targetRole"`
}

type SkillsAnalysisResult struct {
	MatchPercentage float64          `json:"matchPercentage"`
	CurrentSkills   []CurrentSkill   `json:"currentSkills"`
	MissingSkills   []MissingSkill   `json:"missingSkills"`
	Recommendations []Recommendation `json:"recommendations"`
}

type CurrentSkill struct {
	Name   string      `json:"name"`
	Level  float64     `json:"level"`
	Status SkillStatus `json:"status"`
}

type MissingSkill struct {
	Name        string     `json:"name"`
	Importance  Importance `json:"importance"`
	Description string     `json:"description"`
	TimeToLearn string     `json:"timeToLearn"`
}

type Recommendation struct {
	Type     RecommendationType `json:"type"`
	Title    string             `json:"title"`
	Provider string             `json:"provider"`
	Duration string             `json:"duration"`
	Rating   float64            `json:"rating"`
	Price    string             `json:"price"`
}

type SkillStatus string

const (
	SkillStatusStrong     SkillStatus = "strong"
	SkillStatusGood       SkillStatus = "good"
	SkillStatusDeveloping SkillStatus = "developing"
)

func (s SkillStatus) Valid() bool {
	switch s {
	case SkillStatusStrong, SkillStatusGood, SkillStatusDeveloping:
		return true
	}
	return false
}

type Importance string

const (
	ImportanceHigh   Importance = "High"
	ImportanceMedium Importance = "Medium"
)

func (i Importance) Valid() bool {
	return i == ImportanceHigh || i == ImportanceMedium
}

type RecommendationType string

const (
	RecommendationCourse        RecommendationType = "course"
	RecommendationCertification RecommendationType = "certification"
	RecommendationProject       RecommendationType = "project"
)

func (r RecommendationType) Valid() bool {
	switch r {
	case RecommendationCourse, RecommendationCertification, RecommendationProject:
		return true
	}
	return false
}

// Bounds the prompt asks the model to respect.
const (
	MinMatchPercentage = 0
	MaxMatchPercentage = 100
	MinSkillLevel      = 50
	MaxSkillLevel      = 95
	MinRating          = 4.5
	MaxRating          = 4.9
)

type SkillsReviewRequest struct {
	Skills string `json:"skills"`
}

type SkillsReviewResponse struct {
	Analysis string `json:"analysis"`
}

type ExtractSkillsResponse struct {
	Skills string `json:"skills"`
}
