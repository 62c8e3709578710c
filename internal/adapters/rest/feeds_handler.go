package rest

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/feeds"

	"github.com/inkhouse/backend/internal/content/application"
)

// FeedConfig describes the public site the feeds point at.
type FeedConfig struct {
	SiteURL     string
	Title       string
	Description string
}

// FeedsHandler serves the RSS feed and the XML sitemap.
type FeedsHandler struct {
	*BaseHandler
	service *application.ContentService
	config  FeedConfig
}

func NewFeedsHandler(base *BaseHandler, service *application.ContentService, config FeedConfig) *FeedsHandler {
	config.SiteURL = strings.TrimRight(config.SiteURL, "/")
	return &FeedsHandler{
		BaseHandler: base,
		service:     service,
		config:      config,
	}
}

func (h *FeedsHandler) postURL(slug string) string {
	return fmt.Sprintf("%s/posts/%s", h.config.SiteURL, slug)
}

// GetRss handles GET /feed.xml with the newest published posts.
func (h *FeedsHandler) GetRss(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.GetRssEntries(r.Context())
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	feed := &feeds.Feed{
		Title:       h.config.Title,
		Link:        &feeds.Link{Href: h.config.SiteURL},
		Description: h.config.Description,
		Updated:     time.Now().UTC(),
	}
	for _, entry := range entries {
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          entry.ID,
			Title:       entry.Title,
			Link:        &feeds.Link{Href: h.postURL(entry.Slug)},
			Description: entry.Description,
			Created:     entry.Date,
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		h.HandleError(w, r, fmt.Errorf("FeedsHandler.GetRss: %w", err))
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if _, err := w.Write([]byte(rss)); err != nil {
		h.logger.Error(r.Context(), "failed to write rss response", "error", err)
	}
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// GetSitemap handles GET /sitemap.xml with every published post.
func (h *FeedsHandler) GetSitemap(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.GetSitemapEntries(r.Context())
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	urlSet := sitemapURLSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  make([]sitemapURL, 0, len(entries)),
	}
	for _, entry := range entries {
		urlSet.URLs = append(urlSet.URLs, sitemapURL{
			Loc:     h.postURL(entry.Slug),
			LastMod: entry.LastModified.UTC().Format(time.RFC3339),
		})
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	if _, err := w.Write([]byte(xml.Header)); err != nil {
		h.logger.Error(r.Context(), "failed to write sitemap header", "error", err)
		return
	}
	if err := xml.NewEncoder(w).Encode(urlSet); err != nil {
		h.logger.Error(r.Context(), "failed to encode sitemap", "error", err)
	}
}
