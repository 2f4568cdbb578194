package admin

// UserSummary is the admin-facing projection of an account
type UserSummary struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

// UserFilter narrows the admin user listing
type UserFilter struct {
	Role   string
	Status string
	Limit  int
	Page   int
}

// PlatformStats is the admin dashboard snapshot
type PlatformStats struct {
	TotalUsers     int64 `json:"total_users"`
	PendingHosts   int64 `json:"pending_hosts"`
	ActiveEvents   int64 `json:"active_events"`
	TotalRSVPs     int64 `json:"total_rsvps"`
	CheckedIn      int64 `json:"checked_in"`
	PendingReviews int64 `json:"pending_reviews"`
}

// RejectHostRequest carries the rejection reason shown to the applicant
type RejectHostRequest struct {
	Reason string `json:"reason"`
}
