package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"grievance/internal/config"
	"grievance/internal/domain"
	"grievance/pkg/e"
)

type Geocoder interface {
	Geocode(ctx context.Context, address string) (*domain.GeoResult, error)
	ReverseGeocode(ctx context.Context, lng, lat float64) (*domain.GeoResult, error)
}

type GeocodeCache interface {
	Get(ctx context.Context, key string) (*domain.GeoResult, error)
	Set(ctx context.Context, key string, res *domain.GeoResult, ttl time.Duration) error
}

type GeocodeObserver interface {
	ObserveGeocode(kind, result string)
}

type nominatimAddress struct {
	City     string `json:"city"`
	Town     string `json:"town"`
	Village  string `json:"village"`
	State    string `json:"state"`
	Country  string `json:"country"`
	Postcode string `json:"postcode"`
	Road     string `json:"road"`
	Suburb   string `json:"suburb"`
}

type nominatimPlace struct {
	Lat         string           `json:"lat"`
	Lon         string           `json:"lon"`
	DisplayName string           `json:"display_name"`
	Address     nominatimAddress `json:"address"`
	Error       string           `json:"error"`
}

// Nominatim talks to an OpenStreetMap Nominatim compatible endpoint.
type Nominatim struct {
	baseURL   string
	country   string
	userAgent string
	http      *http.Client
	logger    *slog.Logger
}

func NewNominatim(cfg config.GeocoderConfig, logger *slog.Logger) *Nominatim {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Nominatim{
		baseURL:   cfg.URL,
		country:   cfg.Country,
		userAgent: cfg.UserAgent,
		http:      &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

func (n *Nominatim) Geocode(ctx context.Context, address string) (*domain.GeoResult, error) {
	const op = "geo.Nominatim.Geocode"

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("addressdetails", "1")
	if n.country != "" {
		q.Set("countrycodes", n.country)
	}

	var places []nominatimPlace
	if err := n.get(ctx, "/search", q, &places); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(places) == 0 {
		return nil, fmt.Errorf("%s: address %q: %w", op, address, e.ErrNotFound)
	}

	res, err := places[0].toResult()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

func (n *Nominatim) ReverseGeocode(ctx context.Context, lng, lat float64) (*domain.GeoResult, error) {
	const op = "geo.Nominatim.ReverseGeocode"

	if !CoordinateValid(lng, lat) {
		return nil, fmt.Errorf("%s: %w", op, e.ErrInvalidCoordinates)
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("format", "json")
	q.Set("addressdetails", "1")

	var place nominatimPlace
	if err := n.get(ctx, "/reverse", q, &place); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if place.Error != "" || place.DisplayName == "" {
		return nil, fmt.Errorf("%s: location not found: %w", op, e.ErrNotFound)
	}

	res, err := place.toResult()
	if err != nil {
		// reverse lookups answer for the queried point anyway
		res = place.addressOnly()
	}
	res.Coordinates = [2]float64{lng, lat}
	return res, nil
}

func (n *Nominatim) get(ctx context.Context, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", errors.Join(err, e.ErrGeoServiceUnavailable))
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		n.logger.Warn("geocoder request failed", slog.String("path", path), slog.Any("error", err))
		return fmt.Errorf("request: %v: %w", err, e.ErrGeoServiceUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		n.logger.Warn("geocoder bad status", slog.String("path", path), slog.String("status", resp.Status))
		return fmt.Errorf("provider status %s: %w", resp.Status, e.ErrGeoServiceUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode: %v: %w", err, e.ErrGeoServiceUnavailable)
	}
	return nil
}

func (p nominatimPlace) toResult() (*domain.GeoResult, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parse lat %q: %w", p.Lat, e.ErrGeoServiceUnavailable)
	}
	lng, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parse lon %q: %w", p.Lon, e.ErrGeoServiceUnavailable)
	}
	res := p.addressOnly()
	res.Coordinates = [2]float64{lng, lat}
	return res, nil
}

func (p nominatimPlace) addressOnly() *domain.GeoResult {
	city := p.Address.City
	if city == "" {
		city = p.Address.Town
	}
	if city == "" {
		city = p.Address.Village
	}
	return &domain.GeoResult{
		FormattedAddress: p.DisplayName,
		City:             city,
		State:            p.Address.State,
		Country:          p.Address.Country,
		Postcode:         p.Address.Postcode,
		Road:             p.Address.Road,
		Suburb:           p.Address.Suburb,
	}
}

// CachedGeocoder consults cache before the provider. Cache failures are
// logged and otherwise ignored.
type CachedGeocoder struct {
	next     Geocoder
	cache    GeocodeCache
	ttl      time.Duration
	logger   *slog.Logger
	observer GeocodeObserver
}

func NewCachedGeocoder(next Geocoder, cache GeocodeCache, ttl time.Duration, logger *slog.Logger, observer GeocodeObserver) *CachedGeocoder {
	return &CachedGeocoder{next: next, cache: cache, ttl: ttl, logger: logger, observer: observer}
}

func (c *CachedGeocoder) Geocode(ctx context.Context, address string) (*domain.GeoResult, error) {
	return c.lookup(ctx, "geocode", "fwd:"+address, func() (*domain.GeoResult, error) {
		return c.next.Geocode(ctx, address)
	})
}

func (c *CachedGeocoder) ReverseGeocode(ctx context.Context, lng, lat float64) (*domain.GeoResult, error) {
	// ~11 m grid keeps nearby lookups on the same key
	key := fmt.Sprintf("rev:%.4f,%.4f", lng, lat)
	return c.lookup(ctx, "reverse", key, func() (*domain.GeoResult, error) {
		return c.next.ReverseGeocode(ctx, lng, lat)
	})
}

func (c *CachedGeocoder) lookup(ctx context.Context, kind, key string, fetch func() (*domain.GeoResult, error)) (*domain.GeoResult, error) {
	if c.cache != nil {
		res, err := c.cache.Get(ctx, key)
		if err != nil {
			c.logger.Warn("geocode cache get failed", slog.String("key", key), slog.Any("error", err))
		} else if res != nil {
			c.observe(kind, "cache_hit")
			return res, nil
		}
	}

	res, err := fetch()
	if err != nil {
		switch {
		case errors.Is(err, e.ErrNotFound):
			c.observe(kind, "not_found")
		default:
			c.observe(kind, "error")
		}
		return nil, err
	}
	c.observe(kind, "ok")

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, res, c.ttl); err != nil {
			c.logger.Warn("geocode cache set failed", slog.String("key", key), slog.Any("error", err))
		}
	}
	return res, nil
}

func (c *CachedGeocoder) observe(kind, result string) {
	if c.observer != nil {
		c.observer.ObserveGeocode(kind, result)
	}
}
