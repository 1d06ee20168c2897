package domain

import "time"

const (
	DateFilterToday     = "today"
	DateFilterThisWeek  = "this_week"
	DateFilterThisMonth = "this_month"
)

type Event struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	Capacity    int       `json:"capacity"`
	VideoURL    string    `json:"video_url,omitempty"`
	VideoFile   string    `json:"video_file,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	IsActive    bool      `json:"is_active"`

	// RegistrationCount is derived from the registration rows, never stored.
	RegistrationCount int `json:"registration_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e Event) AvailableSpots() int {
	return e.Capacity - e.RegistrationCount
}

func (e Event) IsFull() bool {
	return e.RegistrationCount >= e.Capacity
}

// EventFilters narrows the public event listing.
type EventFilters struct {
	Search   string
	Category string
	Date     string // one of the DateFilter constants, or empty
}

// CalendarEntry is the read-only calendar feed shape.
type CalendarEntry struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Start       string `json:"start"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Category    string `json:"category"`
}
