package models

type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
	Type  string `json:"type,omitempty"`
}
