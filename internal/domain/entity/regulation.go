package entity

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Regulation is an ordinance, decree or resolution published under "normativa".
type Regulation struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Number      string     `json:"number"`
	Year        int        `json:"year"`
	Category    Category   `json:"category"`
	Description string     `json:"description,omitempty"`
	FileURL     string     `json:"file_url,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (r Regulation) RecordID() string     { return r.ID }
func (r Regulation) PartitionKey() string { return string(r.Category) }

func (r *Regulation) Validate() error {
	if r.Slug == "" {
		r.Slug = Slugify(r.Title)
	}
	return fromRules(validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.Required, validation.Length(3, 250)),
		validation.Field(&r.Slug, validation.Required, slugRule),
		validation.Field(&r.Number, validation.Required),
		validation.Field(&r.Year, validation.Required, validation.Min(1900), validation.Max(2100)),
		validation.Field(&r.Category, validation.Required, categoryRule(RegulationCategories)),
		validation.Field(&r.FileURL, urlRule...),
	))
}
