package dto

// Payload is the JSON body external publishers push to the receiver
type Payload struct {
	Title        string                 `json:"title"`
	Content      string                 `json:"content"`
	Source       string                 `json:"source,omitempty"`
	SourceURL    string                 `json:"source_url,omitempty"`
	Author       string                 `json:"author,omitempty"`
	CategoryHint string                 `json:"category,omitempty"`
	Subcategory  string                 `json:"subcategory,omitempty"`
	Tags         []string               `json:"tags,omitempty"`
	IsUrgent     bool                   `json:"is_urgent,omitempty"`
	Priority     string                 `json:"priority,omitempty"`
	ExternalID   string                 `json:"external_id,omitempty"`
	// PublishedAt stays a raw string; publishers send assorted timestamp
	// formats and a bad one must not fail the whole payload
	PublishedAt string                 `json:"published_at,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// ReceiveRequest carries one inbound webhook request into the usecase
type ReceiveRequest struct {
	SourceName  string
	Body        []byte
	ContentType string
	Signature   string
	Headers     string
	RemoteAddr  string
}

// ReceiveResponse acknowledges an accepted webhook request
type ReceiveResponse struct {
	Message      string `json:"message"`
	WebhookLogID uint   `json:"webhook_log_id"`
}

// ProcessJob is the payload of a queued webhook processing request
type ProcessJob struct {
	WebhookLogID uint `json:"webhook_log_id"`
}
