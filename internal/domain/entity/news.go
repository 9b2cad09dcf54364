package entity

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// NewsStatus is the publication lifecycle of a news item.
type NewsStatus string

const (
	NewsDraft     NewsStatus = "draft"
	NewsPublished NewsStatus = "published"
	NewsArchived  NewsStatus = "archived"
)

// News is an item of the "novedades" section.
type News struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	Slug             string           `json:"slug"`
	Excerpt          string           `json:"excerpt,omitempty"`
	Content          string           `json:"content"`
	FeaturedImageURL string           `json:"featured_image_url,omitempty"`
	Category         Category         `json:"category,omitempty"`
	IsFeatured       bool             `json:"is_featured"`
	PublishedAt      *time.Time       `json:"published_at,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	CreatedBy        string           `json:"created_by,omitempty"`
	Status           NewsStatus       `json:"status"`
	Attachments      []NewsAttachment `json:"attachments,omitempty"`
}

// NewsAttachment is a downloadable file linked to a news item.
type NewsAttachment struct {
	ID        string    `json:"id"`
	NewsID    string    `json:"news_id"`
	FileName  string    `json:"file_name"`
	FileURL   string    `json:"file_url"`
	FileType  string    `json:"file_type,omitempty"`
	FileSize  int64     `json:"file_size,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (n News) RecordID() string     { return n.ID }
func (n News) PartitionKey() string { return string(n.Category) }

// Validate checks the fields an administrator fills in the news form.
// An empty slug is derived from the title and an empty status defaults to draft.
func (n *News) Validate() error {
	if n.Slug == "" {
		n.Slug = Slugify(n.Title)
	}
	if n.Status == "" {
		n.Status = NewsDraft
	}
	return fromRules(validation.ValidateStruct(n,
		validation.Field(&n.Title, validation.Required, validation.Length(3, 200)),
		validation.Field(&n.Slug, validation.Required, slugRule),
		validation.Field(&n.Content, validation.Required),
		validation.Field(&n.Excerpt, validation.Length(0, 500)),
		validation.Field(&n.FeaturedImageURL, urlRule...),
		validation.Field(&n.Category, categoryRule(NewsCategories)),
		validation.Field(&n.Status, validation.In(NewsDraft, NewsPublished, NewsArchived)),
	))
}
