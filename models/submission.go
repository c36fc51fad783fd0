package models

type SubmissionRequest struct {
	Email      string `json:"email" validate:"required,email"`
	ArticleURL string `json:"article_url" validate:"required,max=2083,http_url"`
}

type SubmissionResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id"`
	Forwarded bool   `json:"forwarded"`
}

// ForwardPayload is the body posted to the webhook.
type ForwardPayload struct {
	Email      string `json:"email"`
	ArticleURL string `json:"article_url"`
	SessionID  string `json:"session_id"`
}
