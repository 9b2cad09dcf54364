package entity

import (
	"errors"
	"testing"
	"time"
)

/* ───────── Validate ───────── */

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
	}
	return ve.Field
}

func TestNews_Validate(t *testing.T) {
	t.Run("derives slug and default status", func(t *testing.T) {
		n := News{Title: "Nueva plaza en el barrio", Content: "<p>texto</p>", Category: "obras"}
		if err := n.Validate(); err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		if n.Slug != "nueva-plaza-en-el-barrio" {
			t.Errorf("Slug = %q", n.Slug)
		}
		if n.Status != NewsDraft {
			t.Errorf("Status = %q, want draft", n.Status)
		}
	})

	tests := []struct {
		name  string
		news  News
		field string
	}{
		{"missing title", News{Slug: "x", Content: "c"}, "title"},
		{"bad category", News{Title: "Titulo", Content: "c", Category: "deportes"}, "category"},
		{"bad status", News{Title: "Titulo", Content: "c", Status: "hidden"}, "status"},
		{"bad image url", News{Title: "Titulo", Content: "c", FeaturedImageURL: "not a url"}, "featured_image_url"},
		{"missing content", News{Title: "Titulo"}, "content"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.news
			err := n.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if got := fieldOf(t, err); got != tt.field {
				t.Errorf("field = %q, want %q", got, tt.field)
			}
		})
	}
}

func TestEvent_Validate(t *testing.T) {
	start := time.Date(2025, 7, 9, 10, 0, 0, 0, time.UTC)
	before := start.Add(-time.Hour)

	ok := Event{Title: "Desfile 9 de Julio", Description: "d", StartDate: start, Category: "institucional"}
	if err := ok.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	bad := Event{Title: "Desfile", Description: "d", StartDate: start, EndDate: &before}
	if got := fieldOf(t, bad.Validate()); got != "end_date" {
		t.Errorf("field = %q, want end_date", got)
	}

	noStart := Event{Title: "Desfile", Description: "d"}
	if got := fieldOf(t, noStart.Validate()); got != "start_date" {
		t.Errorf("field = %q, want start_date", got)
	}
}

func TestEvent_IsUpcoming(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)
	end := now.Add(time.Hour)

	if (Event{StartDate: past}).IsUpcoming(now) {
		t.Error("finished event reported as upcoming")
	}
	if !(Event{StartDate: future}).IsUpcoming(now) {
		t.Error("future event reported as past")
	}
	if !(Event{StartDate: past, EndDate: &end}).IsUpcoming(now) {
		t.Error("running event should count as upcoming")
	}
}

func TestService_Validate(t *testing.T) {
	s := Service{Title: "Turnos de odontología", Description: "d", Category: ServiceSalud}
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	noCat := Service{Title: "Turnos", Description: "d"}
	if got := fieldOf(t, noCat.Validate()); got != "category" {
		t.Errorf("field = %q, want category", got)
	}

	badMail := Service{Title: "Turnos", Description: "d", Category: ServiceSalud,
		ContactInfo: &ServiceContactInfo{Email: "nope"}}
	if got := fieldOf(t, badMail.Validate()); got != "contact_info" {
		t.Errorf("field = %q, want contact_info", got)
	}
}

func TestAuthority_Validate(t *testing.T) {
	a := Authority{FullName: "María López", Position: "Intendenta", Category: AuthorityIntendente}
	if err := a.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	a.Category = "ministro"
	if got := fieldOf(t, a.Validate()); got != "category" {
		t.Errorf("field = %q, want category", got)
	}
}

func TestRegulation_Validate(t *testing.T) {
	r := Regulation{Title: "Ordenanza tarifaria", Number: "1520", Year: 2024, Category: "tributaria"}
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	r.Year = 1850
	if got := fieldOf(t, r.Validate()); got != "year" {
		t.Errorf("field = %q, want year", got)
	}
}

func TestContact_Validate(t *testing.T) {
	c := Contact{Department: "Bomberos", Category: ContactEmergencia, Phone: "100"}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	c.Phone = ""
	if got := fieldOf(t, c.Validate()); got != "phone" {
		t.Errorf("field = %q, want phone", got)
	}
	c.Email = "guardia@municipio.gob.ar"
	if err := c.Validate(); err != nil {
		t.Errorf("email only should be accepted, got %v", err)
	}
}

func TestRecord_PartitionKey(t *testing.T) {
	records := []Record{
		Service{ID: "1", Category: ServiceCultura},
		Authority{ID: "2", Category: AuthorityConcejo},
		MunicipalityInfo{ID: "3"},
	}
	want := []string{"cultura", "concejo", ""}
	for i, r := range records {
		if r.PartitionKey() != want[i] {
			t.Errorf("record %s partition = %q, want %q", r.RecordID(), r.PartitionKey(), want[i])
		}
	}
}
