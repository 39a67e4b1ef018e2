package postgres

import (
	"context"
	"time"

	"grievance/internal/domain"

	"github.com/google/uuid"
)

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

var (
	_ ComplaintRepository = (*Complaints)(nil)
	_ StatsRepository     = (*Stats)(nil)
)

func (p *Postgres) ComplaintStore() ComplaintRepository { return p.Complaints }
func (p *Postgres) StatsStore() StatsRepository         { return p.Stats }
