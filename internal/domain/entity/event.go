package entity

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Event is an entry of the municipal agenda.
type Event struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	Location    string     `json:"location,omitempty"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Category    Category   `json:"category,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	IsFeatured  bool       `json:"is_featured"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (e Event) RecordID() string     { return e.ID }
func (e Event) PartitionKey() string { return string(e.Category) }

// IsUpcoming reports whether the event has not finished at now.
func (e Event) IsUpcoming(now time.Time) bool {
	if e.EndDate != nil {
		return !e.EndDate.Before(now)
	}
	return !e.StartDate.Before(now)
}

// Validate checks required fields and that the event does not end before it starts.
func (e *Event) Validate() error {
	if e.Slug == "" {
		e.Slug = Slugify(e.Title)
	}
	return fromRules(validation.ValidateStruct(e,
		validation.Field(&e.Title, validation.Required, validation.Length(3, 200)),
		validation.Field(&e.Slug, validation.Required, slugRule),
		validation.Field(&e.Description, validation.Required),
		validation.Field(&e.StartDate, validation.Required),
		validation.Field(&e.EndDate, validation.By(func(v interface{}) error {
			end, _ := v.(*time.Time)
			if end != nil && end.Before(e.StartDate) {
				return errors.New("must not be before start_date")
			}
			return nil
		})),
		validation.Field(&e.ImageURL, urlRule...),
		validation.Field(&e.Category, categoryRule(EventCategories)),
	))
}
