package entity

import validation "github.com/go-ozzo/ozzo-validation/v4"

// Category is the partition key shared by all content types.
type Category string

// CategoryOption pairs a category with the label shown to visitors.
type CategoryOption struct {
	Value Category `json:"value"`
	Label string   `json:"label"`
}

// News categories.
var NewsCategories = []CategoryOption{
	{"institucional", "Institucional"},
	{"obras", "Obras Públicas"},
	{"cultura", "Cultura"},
	{"deporte", "Deporte"},
	{"salud", "Salud"},
	{"educacion", "Educación"},
	{"social", "Desarrollo Social"},
	{"medio-ambiente", "Medio Ambiente"},
	{"seguridad", "Seguridad"},
	{"recoleccion-residuos", "Recolección de Residuos"},
	{"servicio-agua", "Servicio de Agua"},
	{"inmobiliario", "Inmobiliario"},
	{"registro-civil", "Registro Civil"},
	{"otros", "Otros"},
}

// Service categories, also the service partitions.
const (
	ServiceSalud     Category = "salud"
	ServiceCultura   Category = "cultura"
	ServiceDeporte   Category = "deporte"
	ServiceTramites  Category = "tramites"
	ServiceEducacion Category = "educacion"
)

var ServiceCategories = []CategoryOption{
	{ServiceSalud, "Salud"},
	{ServiceCultura, "Cultura"},
	{ServiceDeporte, "Deporte"},
	{ServiceTramites, "Trámites"},
	{ServiceEducacion, "Educación"},
}

// Contact categories.
const (
	ContactEmergencia     Category = "emergencia"
	ContactAdministrativo Category = "administrativo"
	ContactServicios      Category = "servicios"
)

var ContactCategories = []CategoryOption{
	{ContactEmergencia, "Emergencias"},
	{ContactAdministrativo, "Administrativo"},
	{ContactServicios, "Servicios"},
}

var RegulationCategories = []CategoryOption{
	{"tributaria", "Tributaria"},
	{"obras", "Obras Públicas"},
	{"administrativa", "Administrativa"},
	{"urbanismo", "Urbanismo"},
	{"ambiental", "Ambiental"},
	{"transito", "Tránsito"},
	{"habilitaciones", "Habilitaciones"},
	{"otras", "Otras"},
}

var EventCategories = []CategoryOption{
	{"cultural", "Cultural"},
	{"deportivo", "Deportivo"},
	{"institucional", "Institucional"},
	{"educativo", "Educativo"},
	{"social", "Social"},
}

// Authority categories. Intendente is a single office.
const (
	AuthorityIntendente Category = "intendente"
	AuthorityGabinete   Category = "gabinete"
	AuthorityConcejo    Category = "concejo"
	AuthorityTribunal   Category = "tribunal"
)

var AuthorityCategories = []CategoryOption{
	{AuthorityIntendente, "Intendente"},
	{AuthorityGabinete, "Gabinete"},
	{AuthorityConcejo, "Concejo Deliberante"},
	{AuthorityTribunal, "Tribunal de Cuentas"},
}

// Values returns the bare categories of a catalogue in declaration order.
func Values(opts []CategoryOption) []Category {
	out := make([]Category, len(opts))
	for i, o := range opts {
		out[i] = o.Value
	}
	return out
}

// IsValidCategory reports whether c belongs to the catalogue.
func IsValidCategory(opts []CategoryOption, c string) bool {
	for _, o := range opts {
		if string(o.Value) == c {
			return true
		}
	}
	return false
}

// categoryRule accepts an empty value or any member of the catalogue.
func categoryRule(opts []CategoryOption) validation.Rule {
	allowed := make([]interface{}, len(opts))
	for i, o := range opts {
		allowed[i] = o.Value
	}
	return validation.In(allowed...).Error("must be a valid category")
}
