package bus

// InboundMessage is a row another participant inserted into the session.
type InboundMessage struct {
	ID         string `json:"id,omitempty"`
	Sender     string `json:"sender"`
	SessionKey string `json:"session_key"`
	Content    string `json:"content"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// OutboundMessage is a reply waiting to be posted.
type OutboundMessage struct {
	Sender  string `json:"sender"`
	Content string `json:"content"`
}
