package content

import (
	"municipal-portal/internal/domain/entity"
	"municipal-portal/internal/repository"
	"municipal-portal/internal/state/store"
	"municipal-portal/internal/utils/text"
)

// Fetch record keys.
const (
	KeyServices           = "services"
	KeyServicesByCategory = "servicesByCategory"
	KeyAuthorities        = "authorities"
	KeyAuthoritiesByCat   = "authoritiesByCategory"
	KeyContacts           = "contacts"
	KeyContactsByCategory = "contactsByCategory"
	KeyNews               = "news"
	KeyNewsByCategory     = "newsByCategory"
	KeyFeaturedNews       = "featuredNews"
	KeyEvents             = "events"
	KeyEventsByCategory   = "eventsByCategory"
	KeyRegulations        = "regulations"
	KeyRegulationsByCat   = "regulationsByCategory"
	KeyMunicipalityInfo   = "municipalityInfo"
	PageLimit             = 9
	FeaturedNewsLimit     = 4
	newsExcerptLength     = 200
)

type validatable interface {
	Validate() error
}

func validate[T any, PT interface {
	*T
	validatable
}](item *T) error {
	return PT(item).Validate()
}

func categoryKeys(prefix string, cats ...entity.Category) []string {
	keys := make([]string, len(cats))
	for i, c := range cats {
		keys[i] = prefix + "." + string(c)
	}
	return keys
}

func byCategory[T entity.Record](cats ...entity.Category) []store.Partition[T] {
	parts := make([]store.Partition[T], len(cats))
	for i, c := range cats {
		parts[i] = store.ByCategory[T](c)
	}
	return parts
}

// NewServices builds the services slice: every service is loaded at once and
// split into the five area partitions.
func NewServices(repo repository.ContentRepository[entity.Service], opts Options) *Slice[entity.Service] {
	cats := entity.Values(entity.ServiceCategories)
	return NewSlice(Definition[entity.Service]{
		Scope:        KeyServices,
		CategoryKey:  KeyServicesByCategory,
		StampOnFetch: append([]string{KeyServices}, categoryKeys(KeyServicesByCategory, cats...)...),
		Partitions:   byCategory[entity.Service](cats...),
		Categories:   entity.ServiceCategories,
		Ops:          OpsFor("Service", "Services"),
		Messages:     MessagesFor("Servicio", "servicios", false),
		Prepare:      validate[entity.Service],
	}, repo, opts)
}

// NewAuthorities builds the authorities slice. The intendente partition holds a
// single record.
func NewAuthorities(repo repository.ContentRepository[entity.Authority], opts Options) *Slice[entity.Authority] {
	rest := []entity.Category{entity.AuthorityGabinete, entity.AuthorityConcejo, entity.AuthorityTribunal}
	partitions := append(
		[]store.Partition[entity.Authority]{store.SingletonByCategory[entity.Authority](entity.AuthorityIntendente)},
		byCategory[entity.Authority](rest...)...,
	)
	return NewSlice(Definition[entity.Authority]{
		Scope:        KeyAuthorities,
		CategoryKey:  KeyAuthoritiesByCat,
		StampOnFetch: append(categoryKeys(KeyAuthoritiesByCat, entity.Values(entity.AuthorityCategories)...), KeyAuthorities),
		Partitions:   partitions,
		Categories:   entity.AuthorityCategories,
		Ops:          OpsFor("Authority", "Authorities"),
		Messages:     MessagesFor("Autoridad", "autoridades", true),
		Prepare:      validate[entity.Authority],
	}, repo, opts)
}

// NewContacts builds the contact directory slice.
func NewContacts(repo repository.ContentRepository[entity.Contact], opts Options) *Slice[entity.Contact] {
	return NewSlice(Definition[entity.Contact]{
		Scope:       KeyContacts,
		CategoryKey: KeyContactsByCategory,
		Partitions:  byCategory[entity.Contact](entity.Values(entity.ContactCategories)...),
		Categories:  entity.ContactCategories,
		Ops:         OpsFor("Contact", "Contacts"),
		Messages:    MessagesFor("Contacto", "contactos", false),
		Prepare:     validate[entity.Contact],
	}, repo, opts)
}

// NewNews builds the "novedades" slice: paged by PageLimit, with the published
// featured items kept apart for the home page.
func NewNews(repo repository.ContentRepository[entity.News], opts Options) *Slice[entity.News] {
	featured := true
	return NewSlice(Definition[entity.News]{
		Scope:       KeyNews,
		CategoryKey: KeyNewsByCategory,
		Featured: &Featured{
			Key:     KeyFeaturedNews,
			Filters: repository.Filters{Featured: &featured, Status: string(entity.NewsPublished)},
			Limit:   FeaturedNewsLimit,
		},
		Categories: entity.NewsCategories,
		Ops:        OpsFor("News", "News"),
		Messages:   MessagesFor("Novedad", "novedades", true),
		Limit:      PageLimit,
		Prepare:    prepareNews,
	}, repo, opts)
}

// prepareNews cleans the rich-text body and fills a missing excerpt from it.
func prepareNews(n *entity.News) error {
	clean, err := text.SanitizeHTML(n.Content)
	if err != nil {
		return &entity.ValidationError{Field: "content", Message: "contenido HTML inválido"}
	}
	n.Content = clean
	if n.Excerpt == "" {
		n.Excerpt = text.Excerpt(clean, newsExcerptLength)
	}
	return n.Validate()
}

// NewEvents builds the agenda slice. It starts on upcoming events.
func NewEvents(repo repository.ContentRepository[entity.Event], opts Options) *Slice[entity.Event] {
	upcoming := true
	return NewSlice(Definition[entity.Event]{
		Scope:       KeyEvents,
		CategoryKey: KeyEventsByCategory,
		Categories:  entity.EventCategories,
		Filters:     repository.Filters{Upcoming: &upcoming},
		Ops:         OpsFor("Event", "Events"),
		Messages:    MessagesFor("Evento", "eventos", false),
		Limit:       PageLimit,
		Prepare:     validate[entity.Event],
	}, repo, opts)
}

// AgendaFilters returns the agenda filters for the "show past events" toggle.
func AgendaFilters(showPast bool, f repository.Filters) repository.Filters {
	upcoming := !showPast
	f.Upcoming = &upcoming
	return f
}

// NewRegulations builds the "normativa" slice.
func NewRegulations(repo repository.ContentRepository[entity.Regulation], opts Options) *Slice[entity.Regulation] {
	return NewSlice(Definition[entity.Regulation]{
		Scope:       KeyRegulations,
		CategoryKey: KeyRegulationsByCat,
		Categories:  entity.RegulationCategories,
		Ops:         OpsFor("Regulation", "Regulations"),
		Messages:    MessagesFor("Normativa", "normativas", true),
		Limit:       PageLimit,
		Prepare:     validate[entity.Regulation],
	}, repo, opts)
}
