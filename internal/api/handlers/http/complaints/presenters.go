package complaints

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"grievance/internal/domain"
	"grievance/pkg/e"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	l := h.log(r)

	code := statusFor(err)
	attrs := []any{
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("code", code),
		slog.Any("error", err),
	}
	if code >= http.StatusInternalServerError {
		l.Error("handler error", attrs...)
	} else {
		l.Warn("request rejected", attrs...)
	}

	h.writeJSON(w, code, errorResponse{Error: e.Kind(err), Message: messageFor(err, code)})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, e.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, e.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, e.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, e.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, e.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, e.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, e.ErrGeoServiceUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// messageFor hides internals behind 5xx responses; client errors echo the
// wrapped chain so validation failures stay actionable.
func messageFor(err error, code int) string {
	if code >= http.StatusInternalServerError {
		return http.StatusText(code)
	}
	return err.Error()
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("write response failed", slog.Any("error", err))
	}
}

func parseNearby(q url.Values) (domain.NearbyRequest, error) {
	var req domain.NearbyRequest
	var err error

	if req.Lng, req.Lat, err = parsePoint(q); err != nil {
		return req, err
	}
	if s := q.Get("radius_km"); s != "" {
		if req.RadiusKM, err = parseFloat(s, "radius_km"); err != nil {
			return req, err
		}
	}
	if s := q.Get("limit"); s != "" {
		if req.Limit, err = strconv.Atoi(s); err != nil {
			return req, fmt.Errorf("limit %q: %w", s, e.ErrInvalidInput)
		}
	}
	return req, nil
}

func parsePoint(q url.Values) (lng, lat float64, err error) {
	if lng, err = parseFloat(q.Get("lng"), "lng"); err != nil {
		return 0, 0, err
	}
	if lat, err = parseFloat(q.Get("lat"), "lat"); err != nil {
		return 0, 0, err
	}
	return lng, lat, nil
}

func parseFloat(s, name string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("%s is required: %w", name, e.ErrInvalidInput)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", name, s, e.ErrInvalidInput)
	}
	return v, nil
}
