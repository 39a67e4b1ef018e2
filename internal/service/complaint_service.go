package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"grievance/internal/auth"
	"grievance/internal/domain"
	"grievance/internal/geo"
	"grievance/pkg/e"
	"grievance/pkg/validator"

	"github.com/google/uuid"
)

const (
	DefaultNearbyRadiusKM = 5
	DefaultNearbyLimit    = 20
	MaxNearbyLimit        = 100

	enrichTimeout = 3 * time.Second
)

type ComplaintOptions struct {
	Region       geo.Bounds
	NotifyAdmins bool
	Observer     Observer
	Now          func() time.Time
}

type ComplaintService struct {
	repo         ComplaintRepository
	geocoder     Geocoder
	notifier     Notifier
	logger       *slog.Logger
	region       geo.Bounds
	notifyAdmins bool
	observer     Observer
	now          func() time.Time
	locks        complaintLocks
}

// NewComplaintService builds the complaint lifecycle service. geocoder may be
// nil, in which case submissions are stored without enrichment.
func NewComplaintService(repo ComplaintRepository, geocoder Geocoder, notifier Notifier, logger *slog.Logger, opts ComplaintOptions) *ComplaintService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Region == (geo.Bounds{}) {
		opts.Region = geo.RajasthanBounds
	}
	return &ComplaintService{
		repo:         repo,
		geocoder:     geocoder,
		notifier:     notifier,
		logger:       logger,
		region:       opts.Region,
		notifyAdmins: opts.NotifyAdmins,
		observer:     opts.Observer,
		now:          opts.Now,
	}
}

func (s *ComplaintService) Create(ctx context.Context, p domain.Principal, req domain.CreateComplaintRequest) (*domain.Complaint, error) {
	const op = "service.Complaint.Create"

	if err := auth.RequireRole(p, domain.RoleCustomer); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Category = strings.TrimSpace(req.Category)
	req.Location = strings.TrimSpace(req.Location)
	if err := validator.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", op, err, e.ErrInvalidInput)
	}
	if g := req.Geolocation; g != nil && !geo.CoordinateValid(g.Lng(), g.Lat()) {
		return nil, fmt.Errorf("%s: %w", op, e.ErrInvalidCoordinates)
	}

	now := s.now().UTC()
	c := &domain.Complaint{
		ID:                uuid.New(),
		Category:          req.Category,
		Description:       req.Description,
		Location:          req.Location,
		Geolocation:       req.Geolocation,
		Priority:          req.Priority,
		Status:            domain.StatusRegistered,
		CreatedBy:         p.SubjectID,
		CreatedAt:         now,
		UpdatedAt:         now,
		Attachments:       req.Attachments,
		Tags:              distinct(req.Tags),
		IsUrgent:          req.IsUrgent,
		RelatedComplaints: distinct(req.RelatedComplaints),
	}
	if c.Priority == "" {
		c.Priority = domain.PriorityMedium
	}

	s.enrich(ctx, c)
	if c.Geolocation != nil {
		c.OutsideRegion = !geo.WithinRegion(c.Geolocation.Lng(), c.Geolocation.Lat(), s.region)
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.logger.Info("complaint created",
		slog.String("id", c.ID.String()),
		slog.String("owner", c.CreatedBy),
		slog.String("category", c.Category),
		slog.Bool("outside_region", c.OutsideRegion))

	if s.observer != nil {
		s.observer.ComplaintCreated(string(c.Priority))
	}
	s.emit(domain.EventComplaintCreated, c, domain.ComplaintEventPayload{
		ComplaintID: c.ID,
		UserID:      c.CreatedBy,
		Category:    c.Category,
		Status:      c.Status,
	}, s.notifyAdmins)

	return c, nil
}

// enrich fills coordinates from the text location, or a readable address
// from coordinates. Lookups are advisory and never fail the submission.
func (s *ComplaintService) enrich(ctx context.Context, c *domain.Complaint) {
	if s.geocoder == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, enrichTimeout)
	defer cancel()

	switch {
	case c.Geolocation == nil && c.Location != "":
		res, err := s.geocoder.Geocode(ctx, c.Location)
		if err != nil {
			s.logger.Warn("geocode enrichment skipped", slog.String("location", c.Location), slog.Any("error", err))
			return
		}
		if !geo.CoordinateValid(res.Coordinates[0], res.Coordinates[1]) {
			s.logger.Warn("geocoder returned invalid coordinates", slog.String("location", c.Location))
			return
		}
		c.Geolocation = &domain.GeoLocation{
			Coordinates:      res.Coordinates,
			Address:          c.Location,
			FormattedAddress: res.FormattedAddress,
		}

	case c.Geolocation != nil && c.Geolocation.FormattedAddress == "":
		res, err := s.geocoder.ReverseGeocode(ctx, c.Geolocation.Lng(), c.Geolocation.Lat())
		if err != nil {
			s.logger.Warn("reverse geocode enrichment skipped", slog.Any("error", err))
			return
		}
		c.Geolocation.FormattedAddress = res.FormattedAddress
		if c.Geolocation.Address == "" {
			c.Geolocation.Address = res.FormattedAddress
		}
	}
}

func (s *ComplaintService) List(ctx context.Context, p domain.Principal) ([]*domain.Complaint, error) {
	const op = "service.Complaint.List"

	if err := auth.RequireRole(p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items, err := s.repo.List(ctx, auth.ScopeFor(p))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

func (s *ComplaintService) Get(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.Complaint, error) {
	const op = "service.Complaint.Get"

	if err := auth.RequireRole(p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !auth.CanView(p, c) {
		return nil, fmt.Errorf("%s: %w", op, e.ErrForbidden)
	}
	return c, nil
}

func (s *ComplaintService) UpdateStatus(ctx context.Context, p domain.Principal, id uuid.UUID, req domain.UpdateStatusRequest) (*domain.Complaint, error) {
	const op = "service.Complaint.UpdateStatus"

	if err := auth.RequireRole(p, domain.RoleAdmin); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := validator.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", op, err, e.ErrInvalidInput)
	}

	unlock := s.locks.lock(id)
	defer unlock()

	c, err := s.repo.UpdateStatus(ctx, id, domain.StatusChange{
		Status:                  req.Status,
		ChangedBy:               p.SubjectID,
		Note:                    strings.TrimSpace(req.Note),
		EstimatedResolutionDate: req.EstimatedResolutionDate,
		AssignedTo:              req.AssignedTo,
		At:                      s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.logger.Info("complaint status updated",
		slog.String("id", c.ID.String()),
		slog.String("status", string(c.Status)),
		slog.String("by", p.SubjectID))

	if s.observer != nil {
		s.observer.StatusChanged(string(c.Status))
	}
	s.emit(domain.EventComplaintStatusUpdate, c, domain.StatusUpdatePayload{
		ComplaintID: c.ID,
		Status:      c.Status,
		UserID:      c.CreatedBy,
	}, false)

	return c, nil
}

func (s *ComplaintService) AddComment(ctx context.Context, p domain.Principal, id uuid.UUID, req domain.AddCommentRequest) (*domain.Complaint, error) {
	const op = "service.Complaint.AddComment"

	if err := auth.RequireRole(p, domain.RoleAdmin); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Comment = strings.TrimSpace(req.Comment)
	if err := validator.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", op, err, e.ErrInvalidInput)
	}

	unlock := s.locks.lock(id)
	defer unlock()

	c, err := s.repo.AddComment(ctx, id, domain.AdminComment{
		Text:   req.Comment,
		Author: p.SubjectID,
		At:     s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.emit(domain.EventComplaintCommented, c, domain.ComplaintEventPayload{
		ComplaintID: c.ID,
		UserID:      c.CreatedBy,
		Status:      c.Status,
	}, false)

	return c, nil
}

// SubmitFeedback lets the owning citizen rate a settled complaint, once.
func (s *ComplaintService) SubmitFeedback(ctx context.Context, p domain.Principal, id uuid.UUID, req domain.FeedbackRequest) (*domain.Complaint, error) {
	const op = "service.Complaint.SubmitFeedback"

	if err := auth.RequireRole(p, domain.RoleCustomer); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := validator.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", op, err, e.ErrInvalidInput)
	}

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !auth.CanView(p, current) {
		return nil, fmt.Errorf("%s: %w", op, e.ErrForbidden)
	}
	if !current.Status.Settled() {
		return nil, fmt.Errorf("%s: complaint is %s: %w", op, current.Status, e.ErrConflict)
	}
	if current.CitizenFeedback != nil {
		return nil, fmt.Errorf("%s: feedback already provided: %w", op, e.ErrConflict)
	}

	unlock := s.locks.lock(id)
	defer unlock()

	c, err := s.repo.SetFeedback(ctx, id, domain.Feedback{
		Rating:     req.Rating,
		Comment:    strings.TrimSpace(req.Comment),
		ProvidedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.notifier.Emit(domain.Event{
		Name:        domain.EventComplaintFeedback,
		ComplaintID: c.ID,
		Target:      domain.BroadcastTarget(),
		Payload:     domain.FeedbackPayload{ComplaintID: c.ID, UserID: c.CreatedBy, Rating: req.Rating},
		At:          s.now().UTC(),
	})

	return c, nil
}

func (s *ComplaintService) Delete(ctx context.Context, p domain.Principal, id uuid.UUID) error {
	const op = "service.Complaint.Delete"

	if err := auth.RequireRole(p, domain.RoleAdmin); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	unlock := s.locks.lock(id)
	defer unlock()

	c, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.logger.Info("complaint deleted", slog.String("id", c.ID.String()), slog.String("by", p.SubjectID))
	s.emit(domain.EventComplaintDeleted, c, domain.ComplaintEventPayload{
		ComplaintID: c.ID,
		UserID:      c.CreatedBy,
		Category:    c.Category,
	}, s.notifyAdmins)

	return nil
}

func (s *ComplaintService) Nearby(ctx context.Context, p domain.Principal, req domain.NearbyRequest) ([]domain.NearbyComplaint, error) {
	const op = "service.Complaint.Nearby"

	if err := auth.RequireRole(p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	q, err := nearbyQuery(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	found, err := s.repo.Nearby(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	origin := geo.Point{Lng: q.Lng, Lat: q.Lat}
	out := make([]domain.NearbyComplaint, 0, len(found))
	for _, nc := range found {
		if nc.Geolocation == nil {
			continue
		}
		d := geo.DistanceKm(origin, geo.PointOf(*nc.Geolocation))
		if d > q.RadiusKM {
			continue
		}
		nc.DistanceKM = d
		out = append(out, nc)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceKM < out[j].DistanceKM })
	if len(out) > q.Limit {
		out = out[:q.Limit]
	}

	return out, nil
}

func nearbyQuery(req domain.NearbyRequest) (domain.NearbyQuery, error) {
	if !geo.CoordinateValid(req.Lng, req.Lat) {
		return domain.NearbyQuery{}, e.ErrInvalidCoordinates
	}

	q := domain.NearbyQuery{Lng: req.Lng, Lat: req.Lat, RadiusKM: req.RadiusKM, Limit: req.Limit}
	switch {
	case q.RadiusKM == 0:
		q.RadiusKM = DefaultNearbyRadiusKM
	case q.RadiusKM < 0 || math.IsNaN(q.RadiusKM) || math.IsInf(q.RadiusKM, 0):
		return domain.NearbyQuery{}, fmt.Errorf("radius must be positive: %w", e.ErrInvalidInput)
	}
	switch {
	case q.Limit == 0:
		q.Limit = DefaultNearbyLimit
	case q.Limit < 0:
		return domain.NearbyQuery{}, fmt.Errorf("limit must be positive: %w", e.ErrInvalidInput)
	case q.Limit > MaxNearbyLimit:
		q.Limit = MaxNearbyLimit
	}
	return q, nil
}

// emit notifies the owner, and staff as well when alsoStaff is set.
func (s *ComplaintService) emit(name string, c *domain.Complaint, payload any, alsoStaff bool) {
	at := s.now().UTC()
	s.notifier.Emit(domain.Event{
		Name:        name,
		ComplaintID: c.ID,
		Target:      domain.UserTarget(c.CreatedBy),
		Payload:     payload,
		At:          at,
	})
	if alsoStaff {
		s.notifier.Emit(domain.Event{
			Name:        name,
			ComplaintID: c.ID,
			Target:      domain.BroadcastTarget(),
			Payload:     payload,
			At:          at,
		})
	}
}

// distinct drops repeated values, keeping first-seen order.
func distinct[T comparable](in []T) []T {
	if in == nil {
		return nil
	}
	seen := make(map[T]struct{}, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
