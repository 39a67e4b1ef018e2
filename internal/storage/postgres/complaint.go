package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"grievance/internal/domain"
	"grievance/pkg/e"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostGIS measures on the WGS84 spheroid while callers filter on a sphere;
// the two disagree by well under half a percent.
const nearbyRadiusPad = 1.005

const complaintColumns = `
	id,
	category,
	description,
	location,
	ST_X(geo_point::geometry),
	ST_Y(geo_point::geometry),
	geo_address,
	geo_formatted_address,
	outside_region,
	priority,
	status,
	created_by,
	assigned_to,
	created_at,
	updated_at,
	estimated_resolution_date,
	actual_resolution_date,
	attachments,
	admin_comments,
	citizen_feedback,
	tags,
	is_urgent,
	related_complaints::text[],
	status_history`

type Complaints struct {
	pool    *pgxpool.Pool
	timeout time.Duration
	logger  *slog.Logger
}

func NewComplaints(pool *pgxpool.Pool, timeout time.Duration, logger *slog.Logger) *Complaints {
	return &Complaints{pool: pool, timeout: timeout, logger: logger}
}

func (p *Complaints) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, p.timeout)
}

func (p *Complaints) Create(ctx context.Context, c *domain.Complaint) error {
	const op = "postgres.Complaint.Create"

	if c == nil || c.CreatedBy == "" || c.Category == "" {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if c.UpdatedAt.Before(c.CreatedAt) {
		c.UpdatedAt = c.CreatedAt
	}
	if c.Status == "" {
		c.Status = domain.StatusRegistered
	}
	if c.Priority == "" {
		c.Priority = domain.PriorityMedium
	}
	normalizeCollections(c)

	var lng, lat *float64
	var address, formatted string
	if g := c.Geolocation; g != nil {
		x, y := g.Lng(), g.Lat()
		lng, lat = &x, &y
		address, formatted = g.Address, g.FormattedAddress
	}

	attachments, err := json.Marshal(c.Attachments)
	if err != nil {
		return fmt.Errorf("%s: marshal attachments: %w", op, e.ErrInvalidInput)
	}
	comments, err := json.Marshal(c.AdminComments)
	if err != nil {
		return fmt.Errorf("%s: marshal comments: %w", op, e.ErrInvalidInput)
	}
	history, err := json.Marshal(c.StatusHistory)
	if err != nil {
		return fmt.Errorf("%s: marshal history: %w", op, e.ErrInvalidInput)
	}

	const query = `
		INSERT INTO complaints (
			id, category, description, location,
			geo_point, geo_address, geo_formatted_address, outside_region,
			priority, status, created_by, assigned_to,
			created_at, updated_at, estimated_resolution_date,
			attachments, admin_comments, tags, is_urgent, related_complaints, status_history
		)
		VALUES (
			$1, $2, $3, $4,
			CASE WHEN $5::float8 IS NULL OR $6::float8 IS NULL THEN NULL
				ELSE ST_SetSRID(ST_MakePoint($5::float8, $6::float8), 4326)::geography END,
			$7, $8, $9,
			$10, $11, $12, $13::text,
			$14, $15, $16::timestamptz,
			$17::jsonb, $18::jsonb, $19::text[], $20, $21::text[]::uuid[], $22::jsonb
		)
	`

	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	_, err = p.pool.Exec(ctx, query,
		c.ID,
		c.Category,
		c.Description,
		c.Location,
		lng,
		lat,
		address,
		formatted,
		c.OutsideRegion,
		string(c.Priority),
		string(c.Status),
		c.CreatedBy,
		c.AssignedTo,
		c.CreatedAt,
		c.UpdatedAt,
		c.EstimatedResolutionDate,
		string(attachments),
		string(comments),
		c.Tags,
		c.IsUrgent,
		uuidStrings(c.RelatedComplaints),
		string(history),
	)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}

	return nil
}

func (p *Complaints) List(ctx context.Context, filter domain.ComplaintFilter) ([]*domain.Complaint, error) {
	const op = "postgres.Complaint.List"

	query := `SELECT ` + complaintColumns + `
		FROM complaints
		WHERE ($1::text = '' OR created_by = $1::text)
		ORDER BY created_at DESC, id DESC
	`

	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	rows, err := p.pool.Query(ctx, query, filter.OwnerID)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	complaints := make([]*domain.Complaint, 0, 16)
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		complaints = append(complaints, c)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return complaints, nil
}

func (p *Complaints) Get(ctx context.Context, id uuid.UUID) (*domain.Complaint, error) {
	const op = "postgres.Complaint.Get"

	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE id = $1`

	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	c, err := scanComplaint(p.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return nil, e.WrapError(ctx, op, err)
	}

	return c, nil
}

// UpdateStatus applies change in a single statement. The previous status is
// read by the same statement that writes the new one, so concurrent updates
// each record an accurate history entry.
func (p *Complaints) UpdateStatus(ctx context.Context, id uuid.UUID, change domain.StatusChange) (*domain.Complaint, error) {
	const op = "postgres.Complaint.UpdateStatus"

	if !change.Status.Valid() {
		return nil, fmt.Errorf("%s: status %q: %w", op, change.Status, e.ErrInvalidInput)
	}
	if change.At.IsZero() {
		change.At = time.Now().UTC()
	}

	transition, err := json.Marshal(map[string]any{
		"to": change.Status,
		"by": change.ChangedBy,
		"at": change.At,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	var note *string
	if change.Note != "" {
		raw, err := json.Marshal(domain.AdminComment{Text: change.Note, Author: change.ChangedBy, At: change.At})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
		}
		s := string(raw)
		note = &s
	}

	query := `
		UPDATE complaints SET
			status = $2::text,
			updated_at = GREATEST($3::timestamptz, created_at),
			status_history = status_history || jsonb_build_array(jsonb_build_object('from', status) || $4::jsonb),
			admin_comments = CASE WHEN $5::jsonb IS NULL THEN admin_comments
				ELSE admin_comments || jsonb_build_array($5::jsonb) END,
			estimated_resolution_date = COALESCE($6::timestamptz, estimated_resolution_date),
			assigned_to = COALESCE($7::text, assigned_to),
			actual_resolution_date = CASE
				WHEN $2::text IN ('Resolved', 'Closed') AND actual_resolution_date IS NULL THEN $3::timestamptz
				ELSE actual_resolution_date END
		WHERE id = $1
		RETURNING ` + complaintColumns

	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	c, err := scanComplaint(p.pool.QueryRow(ctx, query,
		id,
		string(change.Status),
		change.At,
		string(transition),
		note,
		change.EstimatedResolutionDate,
		change.AssignedTo,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db update failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return nil, e.WrapError(ctx, op, err)
	}

	return c, nil
}

func (p *Complaints) AddComment(ctx context.Context, id uuid.UUID, comment domain.AdminComment) (*domain.Complaint, error) {
	const op = "postgres.Complaint.AddComment"

	if comment.At.IsZero() {
		comment.At = time.Now().UTC()
	}
	raw, err := json.Marshal(comment)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	query := `
		UPDATE complaints SET
			admin_comments = admin_comments || jsonb_build_array($2::jsonb),
			updated_at = GREATEST($3::timestamptz, created_at)
		WHERE id = $1
		RETURNING ` + complaintColumns

	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	c, err := scanComplaint(p.pool.QueryRow(ctx, query, id, string(raw), comment.At))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db update failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return nil, e.WrapError(ctx, op, err)
	}

	return c, nil
}

// SetFeedback records citizen feedback once, and only on a settled
// complaint. A row that fails either condition yields ErrConflict.
func (p *Complaints) SetFeedback(ctx context.Context, id uuid.UUID, fb domain.Feedback) (*domain.Complaint, error) {
	const op = "postgres.Complaint.SetFeedback"

	if fb.ProvidedAt.IsZero() {
		fb.ProvidedAt = time.Now().UTC()
	}
	raw, err := json.Marshal(fb)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	query := `
		UPDATE complaints SET
			citizen_feedback = $2::jsonb,
			updated_at = GREATEST($3::timestamptz, created_at)
		WHERE id = $1
			AND citizen_feedback IS NULL
			AND status IN ('Resolved', 'Closed')
		RETURNING ` + complaintColumns

	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	c, err := scanComplaint(p.pool.QueryRow(ctx, query, id, string(raw), fb.ProvidedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: feedback already given or complaint not settled: %w", op, e.ErrConflict)
		}
		p.logger.Error("db update failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return nil, e.WrapError(ctx, op, err)
	}

	return c, nil
}

// Delete removes the record and returns what was removed.
func (p *Complaints) Delete(ctx context.Context, id uuid.UUID) (*domain.Complaint, error) {
	const op = "postgres.Complaint.Delete"

	query := `DELETE FROM complaints WHERE id = $1 RETURNING ` + complaintColumns

	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	c, err := scanComplaint(p.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db delete failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return nil, e.WrapError(ctx, op, err)
	}

	return c, nil
}

func (p *Complaints) Nearby(ctx context.Context, q domain.NearbyQuery) ([]domain.NearbyComplaint, error) {
	const op = "postgres.Complaint.Nearby"

	if q.Lat < -90 || q.Lat > 90 || q.Lng < -180 || q.Lng > 180 || q.RadiusKM <= 0 || q.Limit <= 0 {
		return nil, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	query := `
		WITH origin AS (
			SELECT ST_SetSRID(ST_MakePoint($1::float8, $2::float8), 4326)::geography AS g
		)
		SELECT ` + complaintColumns + `,
			ST_Distance(geo_point, origin.g) / 1000 AS distance_km
		FROM complaints, origin
		WHERE geo_point IS NOT NULL
			AND ST_DWithin(geo_point, origin.g, $3::float8 * 1000)
		ORDER BY distance_km
		LIMIT $4
	`

	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	rows, err := p.pool.Query(ctx, query, q.Lng, q.Lat, q.RadiusKM*nearbyRadiusPad, q.Limit)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	out := make([]domain.NearbyComplaint, 0, q.Limit)
	for rows.Next() {
		var distance float64
		c, err := scanComplaint(rows, &distance)
		if err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		out = append(out, domain.NearbyComplaint{Complaint: *c, DistanceKM: distance})
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return out, nil
}

func scanComplaint(row pgx.Row, extra ...any) (*domain.Complaint, error) {
	var (
		c         domain.Complaint
		lng, lat  *float64
		address   string
		formatted string
		related   []string
		priority  string
		status    string
	)

	dest := []any{
		&c.ID,
		&c.Category,
		&c.Description,
		&c.Location,
		&lng,
		&lat,
		&address,
		&formatted,
		&c.OutsideRegion,
		&priority,
		&status,
		&c.CreatedBy,
		&c.AssignedTo,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.EstimatedResolutionDate,
		&c.ActualResolutionDate,
		&c.Attachments,
		&c.AdminComments,
		&c.CitizenFeedback,
		&c.Tags,
		&c.IsUrgent,
		&related,
		&c.StatusHistory,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	c.Priority = domain.Priority(priority)
	c.Status = domain.Status(status)
	if lng != nil && lat != nil {
		c.Geolocation = &domain.GeoLocation{
			Coordinates:      [2]float64{*lng, *lat},
			Address:          address,
			FormattedAddress: formatted,
		}
	}
	for _, s := range related {
		if id, err := uuid.Parse(s); err == nil {
			c.RelatedComplaints = append(c.RelatedComplaints, id)
		}
	}
	normalizeCollections(&c)

	return &c, nil
}

// normalizeCollections keeps JSON output as [] rather than null.
func normalizeCollections(c *domain.Complaint) {
	if c.Attachments == nil {
		c.Attachments = []domain.Attachment{}
	}
	if c.AdminComments == nil {
		c.AdminComments = []domain.AdminComment{}
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if c.RelatedComplaints == nil {
		c.RelatedComplaints = []uuid.UUID{}
	}
	if c.StatusHistory == nil {
		c.StatusHistory = []domain.StatusTransition{}
	}
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
