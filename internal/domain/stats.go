package domain

// EventRegistrationCount pairs an event with its registration total,
// used for the top-events ranking.
type EventRegistrationCount struct {
	Event Event `json:"event"`
	Count int64 `json:"count"`
}

type DashboardStats struct {
	TotalEvents         int64                    `json:"total_events"`
	ActiveEvents        int64                    `json:"active_events"`
	TotalRegistrations  int64                    `json:"total_registrations"`
	RecentRegistrations int64                    `json:"recent_registrations"` // last 30 days
	RecentEvents        []Event                  `json:"recent_events"`
	TopEvents           []EventRegistrationCount `json:"top_events"`
}
