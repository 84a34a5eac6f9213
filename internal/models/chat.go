package models

type ChatRequest struct {
	Query string `json:"query"`
}

type ChatResponse struct {
	Answer string `json:"answer"`
}

type ChatbotRequest struct {
	Message string `json:"message"`
}

type ChatbotResponse struct {
	Reply string `json:"reply"`
}
