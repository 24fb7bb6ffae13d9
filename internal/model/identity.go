package model

// Identity is the resolved viewer identity attached to a request. A
// session identity is issued and persisted by the service; a pseudo
// identity is a locally generated fallback used only to key upvote
// membership when the session store is unreachable.
type Identity struct {
	UserID string `json:"userId"`
	Pseudo bool   `json:"pseudo"`
}

// SessionResponse is the API response for session resolution.
type SessionResponse struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
	Pseudo bool   `json:"pseudo"`
}

// PolishRequest is the API request body for the text polish passthrough.
type PolishRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// PolishResponse is the polished title and description.
type PolishResponse struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
