package entity

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// MunicipalityInfo is the single settings record behind the "gobierno/historia" page.
// Historia, Mision and Vision hold sanitized HTML.
type MunicipalityInfo struct {
	ID        string    `json:"id"`
	Historia  string    `json:"historia,omitempty"`
	Mision    string    `json:"mision,omitempty"`
	Vision    string    `json:"vision,omitempty"`
	Valores   []string  `json:"valores,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m MunicipalityInfo) RecordID() string     { return m.ID }
func (m MunicipalityInfo) PartitionKey() string { return "" }

func (m *MunicipalityInfo) Validate() error {
	return fromRules(validation.ValidateStruct(m,
		validation.Field(&m.Valores, validation.Each(validation.Required, validation.Length(1, 120))),
	))
}
