package request

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var errInvalidDate = errors.New("date must be RFC3339 or YYYY-MM-DDTHH:MM")

// dateLayouts accepts RFC3339 and the HTML datetime-local format admin forms
// submit.
var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04"}

type EventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	Category    string `json:"category"`
	Capacity    int    `json:"capacity"`
	VideoURL    string `json:"video_url"`
	ImageURL    string `json:"image_url"`
	IsActive    *bool  `json:"is_active"`
}

func (req *EventRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Date, validation.Required),
		validation.Field(&req.Location, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Category, validation.Length(0, 100)),
		validation.Field(&req.Capacity, validation.Min(0)),
		validation.Field(&req.VideoURL, is.URL),
		validation.Field(&req.ImageURL, is.URL),
	)
	if err != nil {
		return err
	}

	if _, err := req.ParsedDate(); err != nil {
		return errInvalidDate
	}

	return nil
}

func (req *EventRequest) ParsedDate() (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, req.Date); err == nil {
			return t, nil
		}
	}

	return time.Time{}, errInvalidDate
}
