package entity

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Authority is an official of the municipal government.
type Authority struct {
	ID            string    `json:"id"`
	FullName      string    `json:"full_name"`
	Position      string    `json:"position"`
	Department    string    `json:"department,omitempty"`
	Bio           string    `json:"bio,omitempty"`
	PhotoURL      string    `json:"photo_url,omitempty"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	OrderPosition int       `json:"order_position"`
	Category      Category  `json:"category"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (a Authority) RecordID() string     { return a.ID }
func (a Authority) PartitionKey() string { return string(a.Category) }

func (a *Authority) Validate() error {
	return fromRules(validation.ValidateStruct(a,
		validation.Field(&a.FullName, validation.Required, validation.Length(3, 150)),
		validation.Field(&a.Position, validation.Required),
		validation.Field(&a.Category, validation.Required, categoryRule(AuthorityCategories)),
		validation.Field(&a.PhotoURL, urlRule...),
		validation.Field(&a.Email, is.EmailFormat),
		validation.Field(&a.OrderPosition, validation.Min(0)),
	))
}
