package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"

	"google.golang.org/genai"
)

// GenerationParams tunes a single completion. Zero values leave the model
// defaults in place.
type GenerationParams struct {
	Temperature *float32
	MaxTokens   int32
	JSON        bool
}

// Temperature is a helper for building GenerationParams literals.
func Temperature(t float32) *float32 {
	return &t
}

type GeminiService interface {
	GenerateText(ctx context.Context, prompt string, params GenerationParams) (string, error)
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type geminiService struct {
	client     *genai.Client
	modelName  string
	embedModel string
}

func NewGeminiService(ctx context.Context, apiKey, modelName, embedModel string) (GeminiService, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:     client,
		modelName:  modelName,
		embedModel: embedModel,
	}, nil
}

// GenerateEmbedding implements GeminiService.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	// Embedding input is capped by the model; only retrieval queries and
	// catalog chunks go through here, never prompt text.
	if len(text) > 40000 {
		text = text[:40000]
	}

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, classifyBackendError(ctx, err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, &BackendError{Reason: BackendReasonUnknown, Err: errors.New("empty embedding result")}
	}

	return result.Embeddings[0].Values, nil
}

// GenerateText implements GeminiService. An empty completion is returned as
// an empty string; deciding whether that is acceptable is the caller's job.
func (g *geminiService) GenerateText(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     params.Temperature,
		MaxOutputTokens: params.MaxTokens,
	}
	if params.JSON {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		log.Printf("❌ Gemini API error: %v", err)
		return "", classifyBackendError(ctx, err)
	}

	if resp == nil {
		return "", &BackendError{Reason: BackendReasonUnknown, Err: errors.New("nil response")}
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != "" &&
		resp.Candidates[0].FinishReason != genai.FinishReasonStop &&
		resp.Candidates[0].FinishReason != genai.FinishReasonMaxTokens {
		log.Printf("⚠️ Gemini finished with reason %s", resp.Candidates[0].FinishReason)
	}

	return resp.Text(), nil
}

// classifyBackendError maps a client failure onto a BackendReason.
func classifyBackendError(ctx context.Context, err error) *BackendError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &BackendError{Reason: BackendReasonTimeout, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &BackendError{Reason: BackendReasonTimeout, Err: err}
	}

	if code, ok := apiErrorCode(err); ok {
		return &BackendError{Reason: reasonForStatus(code), Err: err}
	}

	return &BackendError{Reason: BackendReasonUnknown, Err: err}
}

func apiErrorCode(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, true
	}
	return 0, false
}

func reasonForStatus(code int) BackendReason {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return BackendReasonAuth
	case code == http.StatusTooManyRequests:
		return BackendReasonQuota
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		return BackendReasonTimeout
	case code >= 400 && code < 500:
		return BackendReasonMalformed
	default:
		return BackendReasonUnknown
	}
}
