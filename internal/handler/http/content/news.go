package content

import (
	"encoding/xml"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"municipal-portal/internal/domain/entity"
	"municipal-portal/internal/handler/http/respond"
	"municipal-portal/internal/repository"
	"municipal-portal/internal/utils/text"
)

// rssItems is the number of news items in the feed.
const rssItems = 20

type FeaturedHandler struct{ Res *Resource[entity.News] }

// ServeHTTP returns the featured news of the home page.
// @Summary      Novedades destacadas
// @Tags         news
// @Produce      json
// @Success      200 {array} entity.News
// @Failure      503 {object} respond.ErrorBody
// @Router       /api/novedades/destacadas [get]
func (h FeaturedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_, err := h.Res.Slice.EnsureFeaturedFresh(r.Context(), h.Res.TTL)
	items := h.Res.Slice.FeaturedItems()
	if err != nil {
		if len(items) == 0 {
			respond.Failure(w, err)
			return
		}
		h.Res.logger().WarnContext(r.Context(), "serving stale featured news", slog.Any("error", err))
	}
	respond.JSON(w, http.StatusOK, nonNil(h.Res.visibleTo(r, items)))
}

// FeedInfo describes the RSS channel.
type FeedInfo struct {
	Title       string
	Link        string // public site URL, news links are Link + "/novedades/" + slug
	Description string
}

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	Description string `xml:"description"`
	Category    string `xml:"category,omitempty"`
	PubDate     string `xml:"pubDate,omitempty"`
}

type RSSHandler struct {
	Res  *Resource[entity.News]
	Feed FeedInfo
}

// ServeHTTP renders the latest published news as RSS 2.0.
// @Summary      Feed RSS de novedades
// @Tags         news
// @Produce      xml
// @Success      200 {string} string "RSS 2.0"
// @Router       /api/novedades/rss [get]
func (h RSSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res, err := h.Res.Slice.List(r.Context(), repository.ListQuery{
		Page:    1,
		Limit:   rssItems,
		Filters: repository.Filters{Status: string(entity.NewsPublished)},
	})
	if err != nil {
		respond.Failure(w, err)
		return
	}

	link := strings.TrimRight(h.Feed.Link, "/")
	feed := rssFeed{
		Version: "2.0",
		Channel: rssChannel{
			Title:       h.Feed.Title,
			Link:        link,
			Description: h.Feed.Description,
			Language:    "es-AR",
		},
	}
	var latest time.Time
	for _, n := range res.Items {
		item := rssItem{
			Title:       n.Title,
			Link:        link + "/novedades/" + n.Slug,
			GUID:        n.ID,
			Description: n.Excerpt,
			Category:    string(n.Category),
		}
		if item.Description == "" {
			item.Description = text.Excerpt(n.Content, 200)
		}
		if n.PublishedAt != nil {
			item.PubDate = n.PublishedAt.UTC().Format(time.RFC1123Z)
			if n.PublishedAt.After(latest) {
				latest = *n.PublishedAt
			}
		}
		feed.Channel.Items = append(feed.Channel.Items, item)
	}
	if !latest.IsZero() {
		feed.Channel.LastBuildDate = latest.UTC().Format(time.RFC1123Z)
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(xml.Header))
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(feed); err != nil {
		h.Res.logger().ErrorContext(r.Context(), "failed to encode RSS feed", slog.Any("error", err))
	}
}
