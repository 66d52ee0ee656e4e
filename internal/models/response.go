package models

// Response is the envelope every API endpoint answers with.
// Token is only set by login.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Token   string `json:"token,omitempty"`
}
