package service

import (
	"context"
	"time"

	"grievance/internal/domain"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go
type ComplaintRepository interface {
	Create(ctx context.Context, c *domain.Complaint) error
	List(ctx context.Context, filter domain.ComplaintFilter) ([]*domain.Complaint, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Complaint, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, change domain.StatusChange) (*domain.Complaint, error)
	AddComment(ctx context.Context, id uuid.UUID, comment domain.AdminComment) (*domain.Complaint, error)
	SetFeedback(ctx context.Context, id uuid.UUID, fb domain.Feedback) (*domain.Complaint, error)
	Delete(ctx context.Context, id uuid.UUID) (*domain.Complaint, error)
	Nearby(ctx context.Context, q domain.NearbyQuery) ([]domain.NearbyComplaint, error)
}

type StatsRepository interface {
	Snapshot(ctx context.Context, since time.Time) (*domain.StatsSnapshot, error)
}

type Geocoder interface {
	Geocode(ctx context.Context, address string) (*domain.GeoResult, error)
	ReverseGeocode(ctx context.Context, lng, lat float64) (*domain.GeoResult, error)
}

// Notifier accepts events after the change they describe has committed.
// Implementations must not block.
type Notifier interface {
	Emit(ev domain.Event)
}

type Observer interface {
	ComplaintCreated(priority string)
	StatusChanged(status string)
	ObserveStatsSnapshot(start time.Time)
}

type Service struct {
	Complaints *ComplaintService
	Stats      *StatsService
	Geo        *GeoService
}

func NewService(complaints *ComplaintService, stats *StatsService, geo *GeoService) *Service {
	return &Service{
		Complaints: complaints,
		Stats:      stats,
		Geo:        geo,
	}
}
