package content

import (
	"fmt"

	"municipal-portal/internal/state/status"
)

// Ops are the status names of one slice's operations.
type Ops struct {
	FetchAll        status.Op
	FetchByCategory status.Op
	FetchByID       status.Op
	FetchBySlug     status.Op
	FetchFeatured   status.Op
	Create          status.Op
	Update          status.Op
	Delete          status.Op
}

// OpsFor derives the operation names from the record name, e.g.
// OpsFor("Service", "Services") gives getServicesAsync, getServiceByIdAsync, ...
func OpsFor(singular, plural string) Ops {
	return Ops{
		FetchAll:        status.Op("get" + plural + "Async"),
		FetchByCategory: status.Op("get" + plural + "ByCategoryAsync"),
		FetchByID:       status.Op("get" + singular + "ByIdAsync"),
		FetchBySlug:     status.Op("get" + singular + "BySlugAsync"),
		FetchFeatured:   status.Op("getFeatured" + plural + "Async"),
		Create:          status.Op("create" + singular + "Async"),
		Update:          status.Op("update" + singular + "Async"),
		Delete:          status.Op("delete" + singular + "Async"),
	}
}

// Messages are the user-facing texts of one slice, in Spanish.
type Messages struct {
	FetchAll        string
	FetchByCategory string
	FetchByID       string
	NotFound        string
	Created         string
	CreateFailed    string
	Updated         string
	UpdateFailed    string
	Deleted         string
	DeleteFailed    string
}

// MessagesFor builds the default texts. noun is the capitalised singular
// ("Servicio"), plural the lowercase plural ("servicios"); feminine selects the
// -a endings ("Autoridad creada correctamente").
func MessagesFor(noun, plural string, feminine bool) Messages {
	end := "o"
	if feminine {
		end = "a"
	}
	lower := lowerFirst(noun)
	return Messages{
		FetchAll:        "Error al obtener " + plural,
		FetchByCategory: "Error al obtener " + plural + " por categoría",
		FetchByID:       "Error al obtener " + lower,
		NotFound:        fmt.Sprintf("%s no encontrad%s", noun, end),
		Created:         fmt.Sprintf("%s cread%s correctamente", noun, end),
		CreateFailed:    "Error al crear " + lower,
		Updated:         fmt.Sprintf("%s actualizad%s correctamente", noun, end),
		UpdateFailed:    "Error al actualizar " + lower,
		Deleted:         fmt.Sprintf("%s eliminad%s correctamente", noun, end),
		DeleteFailed:    "Error al eliminar " + lower,
	}
}

func lowerFirst(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	if r[0] >= 'A' && r[0] <= 'Z' {
		r[0] += 'a' - 'A'
	}
	return string(r)
}
