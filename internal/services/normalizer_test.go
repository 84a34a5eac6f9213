package services

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleAnalysis = `{"matchPercentage":62,"currentSkills":[{"name":"Python","level":85,"status":"strong"},{"name":"SQL","level":80,"status":"good"}],"missingSkills":[{"name":"Apache Spark","importance":"High","description":"Distributed data processing","timeToLearn":"2-3 months"}],"recommendations":[{"type":"course","title":"Data Engineering on GCP","provider":"Coursera","duration":"6 weeks","rating":4.7,"price":"$49/month"}]}`

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"upper fence", "```JSON\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around", "Here you go:\n{\"a\":1}\nThanks!", `{"a":1}`},
		{"stray backticks", "` `{\"a\":1}` `", `{"a":1}`},
		{"no object", "  just text  ", "just text"},
		{"inline fence", "```json {\"a\":1}```", `{"a":1}`},
		{"backticks inside value", "```json\n{\"d\":\"use ```go fmt``` here\"}\n```", `{"d":"use ` + "```go fmt```" + ` here"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripFences(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, StripFences(got), "stripping twice must not change the result")
		})
	}
}

func TestParseSkillsAnalysisFencedAndUnfencedMatch(t *testing.T) {
	plain, err := ParseSkillsAnalysis(sampleAnalysis)
	require.NoError(t, err)

	fenced, err := ParseSkillsAnalysis("```json\n" + sampleAnalysis + "\n```")
	require.NoError(t, err)

	assert.Equal(t, plain, fenced)
	assert.Equal(t, 62.0, plain.MatchPercentage)
	require.Len(t, plain.Recommendations, 1)
	assert.Equal(t, 4.7, plain.Recommendations[0].Rating)
}

func TestParseSkillsAnalysisKeepsCodeInValues(t *testing.T) {
	completion := "```json\n" + `{"matchPercentage":72,"currentSkills":[],"missingSkills":[{"name":"Go","importance":"High","description":"Write ` + "```go\\nfmt.Println()\\n```" + ` daily","timeToLearn":"4 weeks"}],"recommendations":[]}` + "\n```"

	result, err := ParseSkillsAnalysis(completion)
	require.NoError(t, err)
	require.Len(t, result.MissingSkills, 1)
	assert.Equal(t, "Write ```go\nfmt.Println()\n``` daily", result.MissingSkills[0].Description)
}

func TestParseSkillsAnalysisRoundTripsUnchanged(t *testing.T) {
	result, err := ParseSkillsAnalysis(sampleAnalysis)
	require.NoError(t, err)

	out, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, sampleAnalysis, string(out))
}

func TestParseSkillsAnalysisRejectsSchemaViolations(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{"match above range", `{"matchPercentage":101,"currentSkills":[],"missingSkills":[],"recommendations":[]}`, "matchPercentage"},
		{"match below range", `{"matchPercentage":-1,"currentSkills":[],"missingSkills":[],"recommendations":[]}`, "matchPercentage"},
		{"level out of range", `{"matchPercentage":50,"currentSkills":[{"name":"Go","level":20,"status":"good"}],"missingSkills":[],"recommendations":[]}`, "currentSkills[0].level"},
		{"unknown status", `{"matchPercentage":50,"currentSkills":[{"name":"Go","level":70,"status":"expert"}],"missingSkills":[],"recommendations":[]}`, "currentSkills[0].status"},
		{"unknown importance", `{"matchPercentage":50,"currentSkills":[],"missingSkills":[{"name":"K8s","importance":"Low","description":"","timeToLearn":""}],"recommendations":[]}`, "missingSkills[0].importance"},
		{"rating out of range", `{"matchPercentage":50,"currentSkills":[],"missingSkills":[],"recommendations":[{"type":"course","title":"X","provider":"Y","duration":"1w","rating":5,"price":"free"}]}`, "recommendations[0].rating"},
		{"unknown recommendation type", `{"matchPercentage":50,"currentSkills":[],"missingSkills":[],"recommendations":[{"type":"book","title":"X","provider":"Y","duration":"1w","rating":4.6,"price":"free"}]}`, "recommendations[0].type"},
		{"missing key", `{"matchPercentage":50,"currentSkills":[],"missingSkills":[]}`, "recommendations"},
		{"null key", `{"matchPercentage":50,"currentSkills":null,"missingSkills":[],"recommendations":[]}`, "currentSkills"},
		{"missing description", `{"matchPercentage":72,"currentSkills":[],"missingSkills":[{"name":"Spark","importance":"High","timeToLearn":"4 weeks"}],"recommendations":[]}`, "missingSkills[0].description"},
		{"blank timeToLearn", `{"matchPercentage":72,"currentSkills":[],"missingSkills":[{"name":"Spark","importance":"High","description":"Distributed processing","timeToLearn":"  "}],"recommendations":[]}`, "missingSkills[0].timeToLearn"},
		{"missing provider", `{"matchPercentage":72,"currentSkills":[],"missingSkills":[],"recommendations":[{"type":"course","title":"T","duration":"6h","rating":4.7,"price":"$0"}]}`, "recommendations[0].provider"},
		{"missing duration", `{"matchPercentage":72,"currentSkills":[],"missingSkills":[],"recommendations":[{"type":"course","title":"T","provider":"Acme","rating":4.7,"price":"$0"}]}`, "recommendations[0].duration"},
		{"missing price", `{"matchPercentage":72,"currentSkills":[],"missingSkills":[],"recommendations":[{"type":"course","title":"T","provider":"Acme","duration":"6h","rating":4.7}]}`, "recommendations[0].price"},
		{"bare items", `{"matchPercentage":72,"currentSkills":[],"missingSkills":[{"name":"Spark","importance":"High"}],"recommendations":[{"type":"course","title":"T","rating":4.7}]}`, "missingSkills[0].description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseSkillsAnalysis(tt.input)
			assert.Nil(t, result)

			var schemaErr *SchemaValidationError
			require.True(t, errors.As(err, &schemaErr), "got %v", err)
			assert.Equal(t, tt.field, schemaErr.Field)
			assert.Equal(t, tt.input, schemaErr.Raw)
		})
	}
}

func TestParseSkillsAnalysisWrongTypeIsSchemaViolation(t *testing.T) {
	_, err := ParseSkillsAnalysis(`{"matchPercentage":"high","currentSkills":[],"missingSkills":[],"recommendations":[]}`)

	var schemaErr *SchemaValidationError
	require.True(t, errors.As(err, &schemaErr), "got %v", err)
	assert.Equal(t, "matchPercentage", schemaErr.Field)
}

func TestParseSkillsAnalysisParseErrors(t *testing.T) {
	for _, input := range []string{
		"I could not analyze that.",
		`{"matchPercentage": 50,`,
		`{"matchPercentage":50,"currentSkills":[],"missingSkills":[],"recommendations":[]} {"extra":true}`,
	} {
		_, err := ParseSkillsAnalysis(input)

		var parseErr *SchemaParseError
		require.True(t, errors.As(err, &parseErr), "input %q: got %v", input, err)
		assert.Equal(t, input, parseErr.Raw)
	}
}

func TestParseSkillsAnalysisEmpty(t *testing.T) {
	_, err := ParseSkillsAnalysis("   \n")
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestNormalizeText(t *testing.T) {
	text, err := NormalizeText(UseCaseChat, "  Learn Go.\n")
	require.NoError(t, err)
	assert.Equal(t, "Learn Go.", text)

	_, err = NormalizeText(UseCaseChat, " \t ")
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestNormalizeSkillList(t *testing.T) {
	skills, err := NormalizeSkillList("Python, SQL,\n- Docker\n• Kubernetes,  ")
	require.NoError(t, err)
	assert.Equal(t, "Python, SQL, Docker, Kubernetes", skills)

	_, err = NormalizeSkillList(" , ,\n - ")
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}
