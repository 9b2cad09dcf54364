package entity

import (
	"errors"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Día del Niño 2025", "dia-del-nino-2025"},
		{"  Recolección de Residuos  ", "recoleccion-de-residuos"},
		{"Obras -- Públicas!!", "obras-publicas"},
		{"ÑANDÚ", "nandu"},
		{"", ""},
		{"---", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		name    string
		slug    string
		wantErr bool
	}{
		{"valid", "turno-odontologia", false},
		{"digits", "ordenanza-2024-15", false},
		{"empty", "", true},
		{"uppercase", "Turno", true},
		{"double dash", "a--b", true},
		{"trailing dash", "abc-", true},
		{"accent", "niño", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSlug(tt.slug)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateSlug(%q) err = %v, wantErr %v", tt.slug, err, tt.wantErr)
			}
			if err != nil {
				var ve *ValidationError
				if !errors.As(err, &ve) || ve.Field != "slug" {
					t.Errorf("expected ValidationError on slug, got %v", err)
				}
			}
		})
	}
}

func TestIsValidCategory(t *testing.T) {
	if !IsValidCategory(NewsCategories, "medio-ambiente") {
		t.Error("medio-ambiente should be a news category")
	}
	if IsValidCategory(ServiceCategories, "obras") {
		t.Error("obras is not a service category")
	}
	if got := len(Values(AuthorityCategories)); got != 4 {
		t.Errorf("authority categories = %d, want 4", got)
	}
}
