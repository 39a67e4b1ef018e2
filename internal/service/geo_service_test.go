package service_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"grievance/internal/domain"
	"grievance/internal/geo"
	"grievance/internal/service"
	mock_service "grievance/internal/service/mocks"
	"grievance/pkg/e"
)

func TestGeoService_Geocode(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	geocoder := mock_service.NewMockGeocoder(ctrl)

	jaipur := &domain.GeoResult{Coordinates: [2]float64{75.7873, 26.9124}, FormattedAddress: "Jaipur, Rajasthan, India", City: "Jaipur"}
	geocoder.EXPECT().Geocode(gomock.Any(), "Jaipur").Return(jaipur, nil).Times(1)

	svc := service.NewGeoService(geocoder, geo.Bounds{})

	got, err := svc.Geocode(context.Background(), citizenU1, "  Jaipur ")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Result != jaipur {
		t.Fatalf("unexpected result: %+v", got.Result)
	}
	if !got.WithinRegion {
		t.Fatalf("Jaipur must be within the region")
	}
	if got.Map.Coordinates != jaipur.Coordinates || got.Map.InteractiveURL == "" {
		t.Fatalf("unexpected map links: %+v", got.Map)
	}
}

func TestGeoService_ReverseGeocode_OutsideRegion(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	geocoder := mock_service.NewMockGeocoder(ctrl)

	mumbai := &domain.GeoResult{Coordinates: [2]float64{72.8777, 19.076}, FormattedAddress: "Mumbai, Maharashtra, India"}
	geocoder.EXPECT().ReverseGeocode(gomock.Any(), 72.8777, 19.076).Return(mumbai, nil).Times(1)

	svc := service.NewGeoService(geocoder, geo.RajasthanBounds)

	got, err := svc.ReverseGeocode(context.Background(), admin, 72.8777, 19.076)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.WithinRegion {
		t.Fatalf("Mumbai must be outside the region")
	}
}

func TestGeoService_Rejects(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	svc := service.NewGeoService(mock_service.NewMockGeocoder(ctrl), geo.RajasthanBounds)
	ctx := context.Background()

	if _, err := svc.Geocode(ctx, domain.Principal{}, "Jaipur"); !errors.Is(err, e.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	if _, err := svc.Geocode(ctx, citizenU1, "   "); !errors.Is(err, e.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if _, err := svc.ReverseGeocode(ctx, citizenU1, 75.8, 120); !errors.Is(err, e.ErrInvalidCoordinates) {
		t.Fatalf("expected invalid coordinates, got %v", err)
	}
}

func TestGeoService_Disabled(t *testing.T) {
	t.Parallel()

	svc := service.NewGeoService(nil, geo.RajasthanBounds)

	if _, err := svc.Geocode(context.Background(), citizenU1, "Jaipur"); !errors.Is(err, e.ErrGeoServiceUnavailable) {
		t.Fatalf("expected geo service unavailable, got %v", err)
	}
	if _, err := svc.ReverseGeocode(context.Background(), citizenU1, 75.8, 26.9); !errors.Is(err, e.ErrGeoServiceUnavailable) {
		t.Fatalf("expected geo service unavailable, got %v", err)
	}
}

func TestGeoService_ProviderErrorPropagates(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	geocoder := mock_service.NewMockGeocoder(ctrl)
	geocoder.EXPECT().Geocode(gomock.Any(), gomock.Any()).Return(nil, e.ErrNotFound).Times(1)

	svc := service.NewGeoService(geocoder, geo.RajasthanBounds)

	if _, err := svc.Geocode(context.Background(), citizenU1, "Atlantis"); !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGeoService_DistrictInfo(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name         string
		result       *domain.GeoResult
		wantDistrict string
		wantState    string
	}{
		{"city", &domain.GeoResult{Coordinates: [2]float64{75.8, 26.9}, City: "Jaipur", Suburb: "Malviya Nagar", State: "Rajasthan"}, "Jaipur", "Rajasthan"},
		{"suburb_fallback", &domain.GeoResult{Coordinates: [2]float64{75.8, 26.9}, Suburb: "Sanganer", State: "Rajasthan"}, "Sanganer", "Rajasthan"},
		{"unknown", &domain.GeoResult{Coordinates: [2]float64{75.8, 26.9}}, "Unknown District", "Unknown State"},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			geocoder := mock_service.NewMockGeocoder(ctrl)
			c.result.FormattedAddress = "somewhere near Jaipur"
			geocoder.EXPECT().ReverseGeocode(gomock.Any(), 75.8, 26.9).Return(c.result, nil).Times(1)

			svc := service.NewGeoService(geocoder, geo.RajasthanBounds)

			got, err := svc.DistrictInfo(context.Background(), citizenU1, 75.8, 26.9)
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if got.District != c.wantDistrict || got.State != c.wantState {
				t.Fatalf("expected %s/%s, got %+v", c.wantDistrict, c.wantState, got)
			}
			if got.FullAddress != "somewhere near Jaipur" || !got.WithinRegion {
				t.Fatalf("unexpected info: %+v", got)
			}
		})
	}
}

func TestGeoService_DistrictInfo_Errors(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	geocoder := mock_service.NewMockGeocoder(ctrl)
	geocoder.EXPECT().ReverseGeocode(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, e.ErrGeoServiceUnavailable).Times(1)

	svc := service.NewGeoService(geocoder, geo.RajasthanBounds)
	ctx := context.Background()

	if _, err := svc.DistrictInfo(ctx, citizenU1, 75.8, 26.9); !errors.Is(err, e.ErrGeoServiceUnavailable) {
		t.Fatalf("expected geo service unavailable, got %v", err)
	}
	if _, err := svc.DistrictInfo(ctx, citizenU1, 200, 26.9); !errors.Is(err, e.ErrInvalidCoordinates) {
		t.Fatalf("expected invalid coordinates, got %v", err)
	}
}
