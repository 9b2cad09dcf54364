package entity

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Contact is a phone/email entry of the "contacto" page.
type Contact struct {
	ID            string    `json:"id"`
	Department    string    `json:"department"`
	Description   string    `json:"description,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Email         string    `json:"email,omitempty"`
	Address       string    `json:"address,omitempty"`
	Hours         string    `json:"hours,omitempty"`
	Category      Category  `json:"category"`
	OrderPosition int       `json:"order_position"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (c Contact) RecordID() string     { return c.ID }
func (c Contact) PartitionKey() string { return string(c.Category) }

// Validate requires at least a phone or an email, otherwise the entry is useless.
func (c *Contact) Validate() error {
	return fromRules(validation.ValidateStruct(c,
		validation.Field(&c.Department, validation.Required),
		validation.Field(&c.Category, validation.Required, categoryRule(ContactCategories)),
		validation.Field(&c.Phone, validation.When(c.Email == "", validation.Required.Error("phone or email is required"))),
		validation.Field(&c.Email, is.EmailFormat),
		validation.Field(&c.OrderPosition, validation.Min(0)),
	))
}
