package model

// Feature statuses. Only an administrator moves a feature out of "open";
// the public API treats status as read-only display data.
const (
	StatusOpen       = "open"
	StatusPlanned    = "planned"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// ValidStatuses are the allowed feature status values.
var ValidStatuses = map[string]bool{
	StatusOpen:       true,
	StatusPlanned:    true,
	StatusInProgress: true,
	StatusCompleted:  true,
}

// SortOption selects the ordering of a feature listing.
type SortOption string

const (
	SortPopular SortOption = "popular"
	SortNewest  SortOption = "newest"
)

// FeatureRequest is one user-submitted idea, the unit of voting.
// Upvotes always equals the cardinality of UpvotedBy; both are mutated
// inside a single store transaction so they can never be observed apart.
type FeatureRequest struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	CreatedAt   int64    `json:"createdAt"` // epoch milliseconds
	Upvotes     int      `json:"upvotes"`
	UpvotedBy   []string `json:"upvotedBy"`
	Status      string   `json:"status"`
	CreatedBy   string   `json:"createdBy,omitempty"`
	AuthorName  string   `json:"authorName,omitempty"`
}

// HasUpvoted reports whether userID is a member of the feature's vote set.
func (f *FeatureRequest) HasUpvoted(userID string) bool {
	for _, id := range f.UpvotedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// SubmitRequest is the API request body for creating a feature request.
type SubmitRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// VoteResponse is the API response after toggling an upvote.
type VoteResponse struct {
	Success bool `json:"success"`
	Upvoted bool `json:"upvoted"` // membership state after the toggle
	Upvotes int  `json:"upvotes"`
}

// StatusUpdateRequest is the admin request body for changing a feature status.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// StatsResponse is the API response for board statistics.
type StatsResponse struct {
	TotalFeatures int            `json:"totalFeatures"`
	TotalVotes    int            `json:"totalVotes"`
	ByStatus      map[string]int `json:"byStatus"`
}

// Snapshot is one complete push of the current record set, as delivered
// on the live feed. It replaces any previously cached set.
type Snapshot struct {
	Features    []FeatureRequest `json:"features"`
	GeneratedAt string           `json:"generatedAt"`
}

// FeedError is the classified error event emitted on the live feed when
// the snapshot source fails. Cleared by the next successful snapshot.
type FeedError struct {
	Code    string `json:"code"` // ACCESS_DENIED or CONNECTIVITY
	Message string `json:"message"`
}
