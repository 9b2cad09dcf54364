package entity

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// ServiceContactInfo is how visitors reach the office providing a service.
type ServiceContactInfo struct {
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Hours   string `json:"hours,omitempty"`
}

// Service is a municipal service or procedure ("trámite").
type Service struct {
	ID            string              `json:"id"`
	Title         string              `json:"title"`
	Slug          string              `json:"slug"`
	Description   string              `json:"description"`
	Category      Category            `json:"category"`
	Icon          string              `json:"icon,omitempty"`
	ImageURL      string              `json:"image_url,omitempty"`
	ContactInfo   *ServiceContactInfo `json:"contact_info,omitempty"`
	Requirements  []string            `json:"requirements,omitempty"`
	IsActive      bool                `json:"is_active"`
	OrderPosition int                 `json:"order_position,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func (s Service) RecordID() string     { return s.ID }
func (s Service) PartitionKey() string { return string(s.Category) }

// Validate checks the service form. Category is mandatory because services are
// always listed under one of the area pages.
func (s *Service) Validate() error {
	if s.Slug == "" {
		s.Slug = Slugify(s.Title)
	}
	return fromRules(validation.ValidateStruct(s,
		validation.Field(&s.Title, validation.Required, validation.Length(3, 200)),
		validation.Field(&s.Slug, validation.Required, slugRule),
		validation.Field(&s.Description, validation.Required),
		validation.Field(&s.Category, validation.Required, categoryRule(ServiceCategories)),
		validation.Field(&s.ImageURL, urlRule...),
		validation.Field(&s.OrderPosition, validation.Min(0)),
		validation.Field(&s.ContactInfo),
	))
}

// Validate implements validation.Validatable so nested contact info is checked too.
func (c ServiceContactInfo) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Email, is.EmailFormat),
	)
}
