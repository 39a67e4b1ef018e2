package complaints

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"grievance/internal/auth"
	"grievance/internal/domain"
	"grievance/pkg/e"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type Complaints interface {
	Create(ctx context.Context, p domain.Principal, req domain.CreateComplaintRequest) (*domain.Complaint, error)
	List(ctx context.Context, p domain.Principal) ([]*domain.Complaint, error)
	Get(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.Complaint, error)
	UpdateStatus(ctx context.Context, p domain.Principal, id uuid.UUID, req domain.UpdateStatusRequest) (*domain.Complaint, error)
	AddComment(ctx context.Context, p domain.Principal, id uuid.UUID, req domain.AddCommentRequest) (*domain.Complaint, error)
	SubmitFeedback(ctx context.Context, p domain.Principal, id uuid.UUID, req domain.FeedbackRequest) (*domain.Complaint, error)
	Delete(ctx context.Context, p domain.Principal, id uuid.UUID) error
	Nearby(ctx context.Context, p domain.Principal, req domain.NearbyRequest) ([]domain.NearbyComplaint, error)
}

type StatsGetter interface {
	DashboardStats(ctx context.Context, p domain.Principal) (*domain.DashboardStats, error)
}

type GeoLookup interface {
	Geocode(ctx context.Context, p domain.Principal, address string) (*domain.GeocodeResponse, error)
	ReverseGeocode(ctx context.Context, p domain.Principal, lng, lat float64) (*domain.GeocodeResponse, error)
	DistrictInfo(ctx context.Context, p domain.Principal, lng, lat float64) (*domain.DistrictInfo, error)
}

type Handler struct {
	logger     *slog.Logger
	Complaints Complaints
	Stats      StatsGetter
	Geo        GeoLookup
}

func NewHandler(logger *slog.Logger, complaints Complaints, stats StatsGetter, geo GeoLookup) *Handler {
	return &Handler{
		logger:     logger,
		Complaints: complaints,
		Stats:      stats,
		Geo:        geo,
	}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}

// principal returns the caller set by the auth middleware. A missing
// principal is the zero value, which every service rejects as
// unauthenticated.
func principal(r *http.Request) domain.Principal {
	p, _ := auth.PrincipalFrom(r.Context())
	return p
}

func (h *Handler) ComplaintCreate(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("ComplaintCreate", slog.String("remote", r.RemoteAddr))

	var req domain.CreateComplaintRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	c, err := h.Complaints.Create(r.Context(), principal(r), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("complaint submitted", slog.String("id", c.ID.String()), slog.String("category", c.Category))
	h.writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) ComplaintList(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("ComplaintList", slog.String("remote", r.RemoteAddr))

	items, err := h.Complaints.List(r.Context(), principal(r))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("complaints listed", slog.Int("count", len(items)))
	h.writeJSON(w, http.StatusOK, domain.ListComplaintsResponse{Complaints: items, Total: len(items)})
}

func (h *Handler) ComplaintNearby(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("ComplaintNearby", slog.String("query", r.URL.RawQuery), slog.String("remote", r.RemoteAddr))

	req, err := parseNearby(r.URL.Query())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	found, err := h.Complaints.Nearby(r.Context(), principal(r), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, domain.NearbyResponse{Complaints: found, Count: len(found)})
}

func (h *Handler) ComplaintGet(w http.ResponseWriter, r *http.Request) {
	h.log(r).Debug("ComplaintGet", slog.String("remote", r.RemoteAddr))

	id, err := complaintID(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	c, err := h.Complaints.Get(r.Context(), principal(r), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, c)
}

func (h *Handler) ComplaintUpdateStatus(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("ComplaintUpdateStatus", slog.String("remote", r.RemoteAddr))

	id, err := complaintID(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var req domain.UpdateStatusRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	c, err := h.Complaints.UpdateStatus(r.Context(), principal(r), id, req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("complaint status changed", slog.String("id", id.String()), slog.String("status", string(c.Status)))
	h.writeJSON(w, http.StatusOK, c)
}

func (h *Handler) ComplaintComment(w http.ResponseWriter, r *http.Request) {
	h.log(r).Debug("ComplaintComment", slog.String("remote", r.RemoteAddr))

	id, err := complaintID(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var req domain.AddCommentRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	c, err := h.Complaints.AddComment(r.Context(), principal(r), id, req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, c)
}

func (h *Handler) ComplaintFeedback(w http.ResponseWriter, r *http.Request) {
	h.log(r).Debug("ComplaintFeedback", slog.String("remote", r.RemoteAddr))

	id, err := complaintID(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var req domain.FeedbackRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	c, err := h.Complaints.SubmitFeedback(r.Context(), principal(r), id, req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, c)
}

func (h *Handler) ComplaintDelete(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("ComplaintDelete", slog.String("remote", r.RemoteAddr))

	id, err := complaintID(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if err := h.Complaints.Delete(r.Context(), principal(r), id); err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("complaint deleted", slog.String("id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("AdminStats", slog.String("remote", r.RemoteAddr))

	stats, err := h.Stats.DashboardStats(r.Context(), principal(r))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("stats success", slog.Int64("total", stats.Total))
	h.writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) GeoGeocode(w http.ResponseWriter, r *http.Request) {
	h.log(r).Debug("GeoGeocode", slog.String("remote", r.RemoteAddr))

	res, err := h.Geo.Geocode(r.Context(), principal(r), r.URL.Query().Get("address"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, res)
}

func (h *Handler) GeoReverse(w http.ResponseWriter, r *http.Request) {
	h.log(r).Debug("GeoReverse", slog.String("query", r.URL.RawQuery), slog.String("remote", r.RemoteAddr))

	lng, lat, err := parsePoint(r.URL.Query())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	res, err := h.Geo.ReverseGeocode(r.Context(), principal(r), lng, lat)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, res)
}

func (h *Handler) GeoDistrict(w http.ResponseWriter, r *http.Request) {
	h.log(r).Debug("GeoDistrict", slog.String("query", r.URL.RawQuery), slog.String("remote", r.RemoteAddr))

	lng, lat, err := parsePoint(r.URL.Query())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	res, err := h.Geo.DistrictInfo(r.Context(), principal(r), lng, lat)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, res)
}

func complaintID(r *http.Request) (uuid.UUID, error) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q: %w", idStr, e.ErrInvalidInput)
	}
	return id, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON: %v: %w", err, e.ErrInvalidInput)
	}
	return nil
}
