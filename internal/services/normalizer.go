package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"pathfinder/career-advisor/internal/models"
)

const codeFence = "```"

// NormalizeText returns the trimmed completion, or an EmptyCompletionError
// when nothing is left.
func NormalizeText(useCase UseCase, completion string) (string, error) {
	text := strings.TrimSpace(completion)
	if text == "" {
		return "", &EmptyCompletionError{UseCase: useCase}
	}
	return text, nil
}

// StripFences removes a markdown code fence and stray backticks around a JSON
// payload. Backticks inside the payload are left alone. Applying it twice
// yields the same result as applying it once.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, codeFence) {
		// Opening fence plus its language tag, e.g. ```json
		text = strings.TrimLeftFunc(text[len(codeFence):], unicode.IsLetter)
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), codeFence)
	text = strings.TrimFunc(text, func(r rune) bool {
		return r == '`' || unicode.IsSpace(r)
	})

	// Drop any prose before the first brace or after the last one.
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		return text[start : end+1]
	}

	return text
}

// parseJSONResponse strips fences and decodes completion into target.
func parseJSONResponse(useCase UseCase, completion string, target interface{}) error {
	if strings.TrimSpace(completion) == "" {
		return &EmptyCompletionError{UseCase: useCase}
	}

	jsonStr := StripFences(completion)

	decoder := json.NewDecoder(strings.NewReader(jsonStr))
	if err := decoder.Decode(target); err != nil {
		return &SchemaParseError{Raw: completion, Err: err}
	}
	if decoder.More() {
		return &SchemaParseError{Raw: completion, Err: fmt.Errorf("unexpected data after JSON object")}
	}

	return nil
}

// ParseSkillsAnalysis decodes and validates a skills-gap completion. Any
// out-of-range number or unknown enum rejects the whole response.
func ParseSkillsAnalysis(completion string) (*models.SkillsAnalysisResult, error) {
	var fields map[string]json.RawMessage
	if err := parseJSONResponse(UseCaseSkillsAnalysis, completion, &fields); err != nil {
		return nil, err
	}

	for _, key := range []string{"matchPercentage", "currentSkills", "missingSkills", "recommendations"} {
		raw, ok := fields[key]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return nil, &SchemaValidationError{Field: key, Message: "is required", Raw: completion}
		}
	}

	var result models.SkillsAnalysisResult
	if err := json.Unmarshal([]byte(StripFences(completion)), &result); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &SchemaValidationError{
				Field:   typeErr.Field,
				Message: fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value),
				Raw:     completion,
			}
		}
		return nil, &SchemaParseError{Raw: completion, Err: err}
	}

	if err := validateSkillsAnalysis(&result); err != nil {
		err.Raw = completion
		return nil, err
	}

	return &result, nil
}

func validateSkillsAnalysis(r *models.SkillsAnalysisResult) *SchemaValidationError {
	if r.MatchPercentage < models.MinMatchPercentage || r.MatchPercentage > models.MaxMatchPercentage {
		return &SchemaValidationError{
			Field:   "matchPercentage",
			Message: fmt.Sprintf("%v is outside [%d,%d]", r.MatchPercentage, models.MinMatchPercentage, models.MaxMatchPercentage),
		}
	}

	for i, s := range r.CurrentSkills {
		field := fmt.Sprintf("currentSkills[%d]", i)
		if strings.TrimSpace(s.Name) == "" {
			return &SchemaValidationError{Field: field + ".name", Message: "is required"}
		}
		if s.Level < models.MinSkillLevel || s.Level > models.MaxSkillLevel {
			return &SchemaValidationError{
				Field:   field + ".level",
				Message: fmt.Sprintf("%v is outside [%d,%d]", s.Level, models.MinSkillLevel, models.MaxSkillLevel),
			}
		}
		if !s.Status.Valid() {
			return &SchemaValidationError{Field: field + ".status", Message: fmt.Sprintf("unknown value %q", s.Status)}
		}
	}

	for i, s := range r.MissingSkills {
		field := fmt.Sprintf("missingSkills[%d]", i)
		if strings.TrimSpace(s.Name) == "" {
			return &SchemaValidationError{Field: field + ".name", Message: "is required"}
		}
		if !s.Importance.Valid() {
			return &SchemaValidationError{Field: field + ".importance", Message: fmt.Sprintf("unknown value %q", s.Importance)}
		}
		if err := requireFields(field, "description", s.Description, "timeToLearn", s.TimeToLearn); err != nil {
			return err
		}
	}

	for i, rec := range r.Recommendations {
		field := fmt.Sprintf("recommendations[%d]", i)
		if strings.TrimSpace(rec.Title) == "" {
			return &SchemaValidationError{Field: field + ".title", Message: "is required"}
		}
		if !rec.Type.Valid() {
			return &SchemaValidationError{Field: field + ".type", Message: fmt.Sprintf("unknown value %q", rec.Type)}
		}
		if err := requireFields(field, "provider", rec.Provider, "duration", rec.Duration, "price", rec.Price); err != nil {
			return err
		}
		if rec.Rating < models.MinRating || rec.Rating > models.MaxRating {
			return &SchemaValidationError{
				Field:   field + ".rating",
				Message: fmt.Sprintf("%v is outside [%.1f,%.1f]", rec.Rating, models.MinRating, models.MaxRating),
			}
		}
	}

	return nil
}

// requireFields takes name/value pairs and rejects the first blank value.
func requireFields(prefix string, pairs ...string) *SchemaValidationError {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return &SchemaValidationError{Field: prefix + "." + pairs[i], Message: "is required"}
		}
	}
	return nil
}

// NormalizeSkillList turns a comma or newline separated completion into a
// single comma-joined line.
func NormalizeSkillList(completion string) (string, error) {
	text, err := NormalizeText(UseCaseResumeSkills, completion)
	if err != nil {
		return "", err
	}

	var skills []string
	for _, line := range strings.Split(text, "\n") {
		for _, token := range strings.Split(line, ",") {
			token = strings.TrimSpace(token)
			token = strings.TrimLeft(token, "-•* ")
			if token != "" {
				skills = append(skills, token)
			}
		}
	}
	if len(skills) == 0 {
		return "", &EmptyCompletionError{UseCase: UseCaseResumeSkills}
	}

	return strings.Join(skills, ", "), nil
}
