package dto

// DispatchJob is the payload of a queued notification dispatch request
type DispatchJob struct {
	NewsID uint `json:"news_id"`
}

// NewsInfo is the news projection a dispatch works from
type NewsInfo struct {
	ID         uint
	Title      string
	Summary    string
	Content    string
	Source     string
	CategoryID *uint
	IsUrgent   bool
}

// Message is the rendered notification handed to a transport
type Message struct {
	NewsID   uint
	Title    string
	Summary  string
	Source   string
	IsUrgent bool
}
