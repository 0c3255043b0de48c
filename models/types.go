package models

import "time"

// Poll status values (derived, never stored)
const (
	StatusActive   = "active"
	StatusExpired  = "expired"
	StatusDraft    = "draft"
	StatusArchived = "archived"
)

// Sort fields and directions for poll listings
const (
	SortCreatedAt  = "createdAt"
	SortUpdatedAt  = "updatedAt"
	SortTitle      = "title"
	SortTotalVotes = "totalVotes"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// Poll form limits
const (
	MinOptions        = 2
	MaxOptions        = 10
	MaxTitleLength    = 200
	MaxDescLength     = 500
	MaxOptionLength   = 100
	MinUsernameLength = 3
	MaxUsernameLength = 20
	MinPasswordLength = 8
)

// Request types

type SignUpRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateOptionRequest struct {
	Text  string `json:"text"`
	Order int    `json:"order"`
}

type CreatePollRequest struct {
	Title              string                `json:"title"`
	Description        string                `json:"description,omitempty"`
	Options            []CreateOptionRequest `json:"options"`
	ExpiresAt          *time.Time            `json:"expiresAt,omitempty"`
	AllowMultipleVotes bool                  `json:"allowMultipleVotes"`
	RequireAuth        bool                  `json:"requireAuth"`
}

type VoteRequest struct {
	OptionIDs []string   `json:"optionIds"`
	VoterInfo *VoterInfo `json:"voterInfo,omitempty"`
}

// Response types

type PasswordStrength struct {
	Score int    `json:"score"`
	Label string `json:"label"`
}

type AuthResponse struct {
	User             User              `json:"user"`
	PasswordStrength *PasswordStrength `json:"passwordStrength,omitempty"`
}

type VoteResponse struct {
	VoteIDs []string `json:"voteIds"`
	Message string   `json:"message"`
}

type Pagination struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	HasNext     bool `json:"hasNext"`
	HasPrevious bool `json:"hasPrevious"`
}

type PaginatedPolls struct {
	Data       []Poll     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type PollResults struct {
	Poll          Poll        `json:"poll"`
	Stats         PollStats   `json:"stats"`
	LeadingOption *OptionStat `json:"leadingOption,omitempty"`
	IsExpired     bool        `json:"isExpired"`
	CreatedLabel  string      `json:"createdLabel"`
	CreatedAgo    string      `json:"createdAgo"`
}

type DashboardStats struct {
	TotalPolls      int    `json:"totalPolls"`
	ActivePolls     int    `json:"activePolls"`
	TotalVotes      int    `json:"totalVotes"`
	TotalVotesLabel string `json:"totalVotesLabel"`
}

type DashboardResponse struct {
	User  User           `json:"user"`
	Polls []Poll         `json:"polls"`
	Stats DashboardStats `json:"stats"`
}

// PollFormLimits describes the constraints enforced on poll creation
type PollFormLimits struct {
	MinOptions      int `json:"minOptions"`
	MaxOptions      int `json:"maxOptions"`
	MaxTitleLength  int `json:"maxTitleLength"`
	MaxDescLength   int `json:"maxDescriptionLength"`
	MaxOptionLength int `json:"maxOptionLength"`
}

// AuthPage is returned for the login/register landing routes
type AuthPage struct {
	Page      string `json:"page"`
	ReturnURL string `json:"returnUrl,omitempty"`
}

// Domain types

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	Avatar       *string   `json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	PasswordHash string    `json:"-"` // Never expose in JSON
}

type Poll struct {
	ID                 string       `json:"id"`
	Title              string       `json:"title"`
	Description        *string      `json:"description,omitempty"`
	CreatedBy          string       `json:"createdBy"`
	CreatedAt          time.Time    `json:"createdAt"`
	UpdatedAt          time.Time    `json:"updatedAt"`
	ExpiresAt          *time.Time   `json:"expiresAt,omitempty"`
	IsActive           bool         `json:"isActive"`
	AllowMultipleVotes bool         `json:"allowMultipleVotes"`
	RequireAuth        bool         `json:"requireAuth"`
	Options            []PollOption `json:"options"`
	TotalVotes         int          `json:"totalVotes"`
	Slug               string       `json:"slug"`
	Status             string       `json:"status"`
}

type PollOption struct {
	ID        string `json:"id"`
	PollID    string `json:"pollId"`
	Text      string `json:"text"`
	Order     int    `json:"order"`
	Votes     []Vote `json:"votes,omitempty"`
	VoteCount int    `json:"voteCount"`
}

type VoterInfo struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type Vote struct {
	ID        string     `json:"id"`
	PollID    string     `json:"pollId"`
	OptionID  string     `json:"optionId"`
	UserID    *string    `json:"userId,omitempty"`
	VoterInfo *VoterInfo `json:"voterInfo,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	IPAddress *string    `json:"-"` // Salted hash only; never expose in JSON
}

// Result types

type OptionStat struct {
	OptionID   string `json:"optionId"`
	Text       string `json:"text"`
	Votes      int    `json:"votes"`
	Percentage int    `json:"percentage"`
}

type HistoryPoint struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Votes int    `json:"votes"`
}

type PollStats struct {
	TotalVotes    int            `json:"totalVotes"`
	OptionStats   []OptionStat   `json:"optionStats"`
	VotingHistory []HistoryPoint `json:"votingHistory"`
}

// Listing types

type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type FilterOptions struct {
	Status      string     `json:"status,omitempty"`
	CreatedBy   string     `json:"createdBy,omitempty"`
	DateRange   *DateRange `json:"dateRange,omitempty"`
	SearchQuery string     `json:"searchQuery,omitempty"`
}

type SortOptions struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
