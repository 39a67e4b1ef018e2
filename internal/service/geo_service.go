package service

import (
	"context"
	"fmt"
	"strings"

	"grievance/internal/auth"
	"grievance/internal/domain"
	"grievance/internal/geo"
	"grievance/pkg/e"
)

// GeoService exposes the geocoder as an advisory lookup for clients that
// want to preview a location before submitting.
type GeoService struct {
	geocoder Geocoder
	region   geo.Bounds
}

func NewGeoService(geocoder Geocoder, region geo.Bounds) *GeoService {
	if region == (geo.Bounds{}) {
		region = geo.RajasthanBounds
	}
	return &GeoService{geocoder: geocoder, region: region}
}

func (s *GeoService) Geocode(ctx context.Context, p domain.Principal, address string) (*domain.GeocodeResponse, error) {
	const op = "service.Geo.Geocode"

	if err := auth.RequireRole(p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	address = strings.TrimSpace(address)
	if address == "" || len(address) > 500 {
		return nil, fmt.Errorf("%s: address: %w", op, e.ErrInvalidInput)
	}
	if s.geocoder == nil {
		return nil, fmt.Errorf("%s: geocoder disabled: %w", op, e.ErrGeoServiceUnavailable)
	}

	res, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.response(res), nil
}

func (s *GeoService) ReverseGeocode(ctx context.Context, p domain.Principal, lng, lat float64) (*domain.GeocodeResponse, error) {
	const op = "service.Geo.ReverseGeocode"

	if err := auth.RequireRole(p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !geo.CoordinateValid(lng, lat) {
		return nil, fmt.Errorf("%s: %w", op, e.ErrInvalidCoordinates)
	}
	if s.geocoder == nil {
		return nil, fmt.Errorf("%s: geocoder disabled: %w", op, e.ErrGeoServiceUnavailable)
	}

	res, err := s.geocoder.ReverseGeocode(ctx, lng, lat)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.response(res), nil
}

const (
	unknownDistrict = "Unknown District"
	unknownState    = "Unknown State"
)

// DistrictInfo names the district and state around a point. City falls
// back to suburb for points outside a city boundary.
func (s *GeoService) DistrictInfo(ctx context.Context, p domain.Principal, lng, lat float64) (*domain.DistrictInfo, error) {
	const op = "service.Geo.DistrictInfo"

	resp, err := s.ReverseGeocode(ctx, p, lng, lat)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	info := &domain.DistrictInfo{
		District:     resp.Result.City,
		State:        resp.Result.State,
		FullAddress:  resp.Result.FormattedAddress,
		WithinRegion: resp.WithinRegion,
	}
	if info.District == "" {
		info.District = resp.Result.Suburb
	}
	if info.District == "" {
		info.District = unknownDistrict
	}
	if info.State == "" {
		info.State = unknownState
	}
	return info, nil
}

func (s *GeoService) response(res *domain.GeoResult) *domain.GeocodeResponse {
	lng, lat := res.Coordinates[0], res.Coordinates[1]
	links := geo.Links(lng, lat, 0)
	return &domain.GeocodeResponse{
		Result:       res,
		Map:          links,
		WithinRegion: geo.WithinRegion(lng, lat, s.region),
	}
}
