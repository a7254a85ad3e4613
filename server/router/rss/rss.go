// Package rss publishes the current deals as an RSS feed.
package rss

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/feeds"
	"github.com/labstack/echo/v4"

	"github.com/voicecart/voicecart/internal/profile"
	"github.com/voicecart/voicecart/store"
)

type RSSService struct {
	Profile *profile.Profile
	Store   *store.Store
}

func NewRSSService(profile *profile.Profile, store *store.Store) *RSSService {
	return &RSSService{
		Profile: profile,
		Store:   store,
	}
}

func (s *RSSService) RegisterRoutes(e *echo.Echo) {
	e.GET("/feeds/deals.rss", s.dealsFeed)
}

// dealsFeed lists every discounted product with its effective price.
func (s *RSSService) dealsFeed(c echo.Context) error {
	discounted := true
	products, err := s.Store.ListProducts(c.Request().Context(), &store.FindProduct{Discounted: &discounted})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list deals")
	}

	baseURL := s.Profile.InstanceURL
	feed := &feeds.Feed{
		Title:       "VoiceCart Deals",
		Link:        &feeds.Link{Href: baseURL + "/deals"},
		Description: "Current promotions, discounts, and special offers available in our store.",
		Created:     time.Now(),
	}

	for _, p := range products {
		feed.Items = append(feed.Items, &feeds.Item{
			Id:    fmt.Sprintf("%s/product/%d", baseURL, p.ID),
			Title: fmt.Sprintf("%s: now $%.2f (%d%% off)", p.Name, p.EffectivePrice(), *p.Discount),
			Link:  &feeds.Link{Href: fmt.Sprintf("%s/product/%d", baseURL, p.ID)},
			Description: fmt.Sprintf("%s Was $%.2f, now $%.2f in %s.",
				p.Description, p.Price, p.EffectivePrice(), p.Category),
			Created: time.Unix(p.CreatedTs, 0),
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to render feed")
	}
	return c.Blob(http.StatusOK, "application/rss+xml", []byte(rss))
}
