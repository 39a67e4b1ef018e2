package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"

	"grievance/internal/domain"
	"grievance/internal/service"
	mock_service "grievance/internal/service/mocks"
	"grievance/pkg/e"
)

var (
	fixedNow = time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

	citizenU1 = domain.Principal{SubjectID: "U1", Role: domain.RoleCustomer}
	citizenU2 = domain.Principal{SubjectID: "U2", Role: domain.RoleCustomer}
	admin     = domain.Principal{SubjectID: "A1", Role: domain.RoleAdmin}
)

type complaintDeps struct {
	repo     *mock_service.MockComplaintRepository
	geocoder *mock_service.MockGeocoder
	notifier *mock_service.MockNotifier
	observer *mock_service.MockObserver
}

func newComplaintService(t *testing.T, withGeocoder bool, notifyAdmins bool) (*service.ComplaintService, complaintDeps) {
	t.Helper()

	ctrl := gomock.NewController(t)
	deps := complaintDeps{
		repo:     mock_service.NewMockComplaintRepository(ctrl),
		notifier: mock_service.NewMockNotifier(ctrl),
		observer: mock_service.NewMockObserver(ctrl),
	}

	var geocoder service.Geocoder
	if withGeocoder {
		deps.geocoder = mock_service.NewMockGeocoder(ctrl)
		geocoder = deps.geocoder
	}

	svc := service.NewComplaintService(deps.repo, geocoder, deps.notifier, slog.New(slog.NewTextHandler(io.Discard, nil)), service.ComplaintOptions{
		NotifyAdmins: notifyAdmins,
		Observer:     deps.observer,
		Now:          func() time.Time { return fixedNow },
	})
	return svc, deps
}

func storedComplaint(owner string, status domain.Status) *domain.Complaint {
	return &domain.Complaint{
		ID:        uuid.New(),
		Category:  "Water Supply",
		Location:  "Sector 15",
		Priority:  domain.PriorityMedium,
		Status:    status,
		CreatedBy: owner,
		CreatedAt: fixedNow.Add(-time.Hour),
		UpdatedAt: fixedNow.Add(-time.Hour),
	}
}

func TestComplaintService_Create_OK(t *testing.T) {
	t.Parallel()

	svc, deps := newComplaintService(t, false, false)

	var stored *domain.Complaint
	deps.repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c *domain.Complaint) error {
			stored = c
			return nil
		}).
		Times(1)
	deps.observer.EXPECT().ComplaintCreated(string(domain.PriorityMedium)).Times(1)

	var emitted []domain.Event
	deps.notifier.EXPECT().
		Emit(gomock.Any()).
		Do(func(ev domain.Event) { emitted = append(emitted, ev) }).
		Times(1)

	got, err := svc.Create(context.Background(), citizenU1, domain.CreateComplaintRequest{
		Category: "Water Supply",
		Location: "Sector 15",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != stored {
		t.Fatalf("expected the stored complaint to be returned")
	}
	if got.Status != domain.StatusRegistered {
		t.Fatalf("expected status Registered, got %s", got.Status)
	}
	if got.CreatedBy != "U1" {
		t.Fatalf("expected owner U1, got %q", got.CreatedBy)
	}
	if got.Priority != domain.PriorityMedium {
		t.Fatalf("expected default priority Medium, got %s", got.Priority)
	}
	if !got.CreatedAt.Equal(fixedNow) || !got.UpdatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected timestamps: %v %v", got.CreatedAt, got.UpdatedAt)
	}
	if got.Geolocation != nil {
		t.Fatalf("expected no geolocation without a geocoder")
	}

	if len(emitted) != 1 {
		t.Fatalf("expected 1 event, got %d", len(emitted))
	}
	ev := emitted[0]
	if ev.Name != domain.EventComplaintCreated || ev.Target != domain.UserTarget("U1") || ev.ComplaintID != got.ID {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestComplaintService_Create_DeduplicatesSets(t *testing.T) {
	t.Parallel()

	svc, deps := newComplaintService(t, false, false)

	var stored *domain.Complaint
	deps.repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c *domain.Complaint) error {
			stored = c
			return nil
		}).
		Times(1)
	deps.observer.EXPECT().ComplaintCreated(gomock.Any()).Times(1)
	deps.notifier.EXPECT().Emit(gomock.Any()).Times(1)

	r1, r2 := uuid.New(), uuid.New()
	_, err := svc.Create(context.Background(), citizenU1, domain.CreateComplaintRequest{
		Category:          "Water Supply",
		Tags:              []string{"water", "leak", "water"},
		RelatedComplaints: []uuid.UUID{r1, r2, r1, r1},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if want := []string{"water", "leak"}; !slices.Equal(stored.Tags, want) {
		t.Fatalf("expected tags %v, got %v", want, stored.Tags)
	}
	if want := []uuid.UUID{r1, r2}; !slices.Equal(stored.RelatedComplaints, want) {
		t.Fatalf("expected related %v, got %v", want, stored.RelatedComplaints)
	}
}

func TestComplaintService_Create_NotifiesStaffWhenEnabled(t *testing.T) {
	t.Parallel()

	svc, deps := newComplaintService(t, false, true)

	deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	deps.observer.EXPECT().ComplaintCreated(gomock.Any()).Times(1)

	var targets []domain.Target
	deps.notifier.EXPECT().
		Emit(gomock.Any()).
		Do(func(ev domain.Event) { targets = append(targets, ev.Target) }).
		Times(2)

	if _, err := svc.Create(context.Background(), citizenU1, domain.CreateComplaintRequest{Category: "Roads"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if targets[0] != domain.UserTarget("U1") || targets[1] != domain.BroadcastTarget() {
		t.Fatalf("unexpected targets: %+v", targets)
	}
}

func TestComplaintService_Create_GeocodesTextLocation(t *testing.T) {
	t.Parallel()

	svc, deps := newComplaintService(t, true, false)

	deps.geocoder.EXPECT().
		Geocode(gomock.Any(), "Sector 15").
		Return(&domain.GeoResult{Coordinates: [2]float64{75.8, 26.9}, FormattedAddress: "Sector 15, Jaipur, Rajasthan"}, nil).
		Times(1)
	deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	deps.observer.EXPECT().ComplaintCreated(gomock.Any()).Times(1)
	deps.notifier.EXPECT().Emit(gomock.Any()).Times(1)

	got, err := svc.Create(context.Background(), citizenU1, domain.CreateComplaintRequest{Category: "Water Supply", Location: "Sector 15"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Geolocation == nil {
		t.Fatalf("expected geolocation to be filled")
	}
	if got.Geolocation.Coordinates != [2]float64{75.8, 26.9} {
		t.Fatalf("unexpected coordinates: %v", got.Geolocation.Coordinates)
	}
	if got.Geolocation.FormattedAddress != "Sector 15, Jaipur, Rajasthan" {
		t.Fatalf("unexpected formatted address: %q", got.Geolocation.FormattedAddress)
	}
	if got.OutsideRegion {
		t.Fatalf("Jaipur must be inside the region")
	}
}

func TestComplaintService_Create_GeocoderFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	svc, deps := newComplaintService(t, true, false)

	deps.geocoder.EXPECT().
		Geocode(gomock.Any(), gomock.Any()).
		Return(nil, e.ErrGeoServiceUnavailable).
		Times(1)
	deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	deps.observer.EXPECT().ComplaintCreated(gomock.Any()).Times(1)
	deps.notifier.EXPECT().Emit(gomock.Any()).Times(1)

	got, err := svc.Create(context.Background(), citizenU1, domain.CreateComplaintRequest{Category: "Water Supply", Location: "Sector 15"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Geolocation != nil {
		t.Fatalf("expected geolocation to stay empty, got %+v", got.Geolocation)
	}
}

func TestComplaintService_Create_ReverseGeocodesAndFlagsOutsideRegion(t *testing.T) {
	t.Parallel()

	svc, deps := newComplaintService(t, true, false)

	// Mumbai
	deps.geocoder.EXPECT().
		ReverseGeocode(gomock.Any(), 72.8777, 19.076).
		Return(&domain.GeoResult{Coordinates: [2]float64{72.8777, 19.076}, FormattedAddress: "Mumbai, Maharashtra"}, nil).
		Times(1)
	deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	deps.observer.EXPECT().ComplaintCreated(gomock.Any()).Times(1)
	deps.notifier.EXPECT().Emit(gomock.Any()).Times(1)

	got, err := svc.Create(context.Background(), citizenU1, domain.CreateComplaintRequest{
		Category:    "Roads",
		Geolocation: &domain.GeoLocation{Coordinates: [2]float64{72.8777, 19.076}},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !got.OutsideRegion {
		t.Fatalf("expected complaint to be flagged outside region")
	}
	if got.Geolocation.FormattedAddress != "Mumbai, Maharashtra" || got.Geolocation.Address != "Mumbai, Maharashtra" {
		t.Fatalf("unexpected address fields: %+v", got.Geolocation)
	}
}

func TestComplaintService_Create_Rejects(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		p    domain.Principal
		req  domain.CreateComplaintRequest
		want error
	}{
		{"admin_cannot_submit", admin, domain.CreateComplaintRequest{Category: "Roads"}, e.ErrForbidden},
		{"anonymous", domain.Principal{}, domain.CreateComplaintRequest{Category: "Roads"}, e.ErrUnauthenticated},
		{"missing_category", citizenU1, domain.CreateComplaintRequest{Category: "   "}, e.ErrInvalidInput},
		{"bad_priority", citizenU1, domain.CreateComplaintRequest{Category: "Roads", Priority: "Urgent"}, e.ErrInvalidInput},
		{
			"bad_coordinates",
			citizenU1,
			domain.CreateComplaintRequest{Category: "Roads", Geolocation: &domain.GeoLocation{Coordinates: [2]float64{75.8, 95}}},
			e.ErrInvalidInput,
		},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			// no expectations: any store or notifier call fails the test
			svc, _ := newComplaintService(t, false, false)

			_, err := svc.Create(context.Background(), c.p, c.req)
			if !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
		})
	}
}

func TestComplaintService_List_ScopesByRole(t *testing.T) {
	t.Parallel()

	svc, deps := newComplaintService(t, false, false)

	own := []*domain.Complaint{storedComplaint("U1", domain.StatusRegistered)}
	all := append(own, storedComplaint("U2", domain.StatusProcessing))

	deps.repo.EXPECT().List(gomock.Any(), domain.ComplaintFilter{OwnerID: "U1"}).Return(own, nil).Times(1)
	deps.repo.EXPECT().List(gomock.Any(), domain.ComplaintFilter{}).Return(all, nil).Times(1)

	got, err := svc.List(context.Background(), citizenU1)
	if err != nil || len(got) != 1 {
		t.Fatalf("customer list: got %d items, err %v", len(got), err)
	}

	got, err = svc.List(context.Background(), admin)
	if err != nil || len(got) != 2 {
		t.Fatalf("admin list: got %d items, err %v", len(got), err)
	}
}

func TestComplaintService_Get_OtherCitizenIsForbidden(t *testing.T) {
	t.Parallel()

	svc, deps := newComplaintService(t, false, false)

	c := storedComplaint("U1", domain.StatusRegistered)
	deps.repo.EXPECT().Get(gomock.Any(), c.ID).Return(c, nil).Times(3)

	if _, err := svc.Get(context.Background(), citizenU2, c.ID); !errors.Is(err, e.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if got, err := svc.Get(context.Background(), citizenU1, c.ID); err != nil || got.ID != c.ID {
		t.Fatalf("owner get failed: %v", err)
	}
	if _, err := svc.Get(context.Background(), admin, c.ID); err != nil {
		t.Fatalf("admin get failed: %v", err)
	}
}

func TestComplaintService_Get_NotFound(t *testing.T) {
	t.Parallel()

	svc, deps := newComplaintService(t, false, false)

	id := uuid.New()
	deps.repo.EXPECT().Get(gomock.Any(), id).Return(nil, e.ErrNotFound).Times(1)

	if _, err := svc.Get(context.Background(), citizenU1, id); !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestComplaintService_UpdateStatus_NotifiesOwner(t *testing.T) {
	t.Parallel()

	svc, deps := newComplaintService(t, false, true)

	c := storedComplaint("U1", domain.StatusRegistered)
	updated := *c
	updated.Status = domain.StatusResolved
	updated.UpdatedAt = fixedNow

	deps.repo.EXPECT().
		UpdateStatus(gomock.Any(), c.ID, domain.StatusChange{
			Status:    domain.StatusResolved,
			ChangedBy: "A1",
			Note:      "pipe fixed",
			At:        fixedNow,
		}).
		Return(&updated, nil).
		Times(1)
	deps.observer.EXPECT().StatusChanged(string(domain.StatusResolved)).Times(1)

	var ev domain.Event
	deps.notifier.EXPECT().
		Emit(gomock.Any()).
		Do(func(got domain.Event) { ev = got }).
		Times(1)

	got, err := svc.UpdateStatus(context.Background(), admin, c.ID, domain.UpdateStatusRequest{
		Status: domain.StatusResolved,
		Note:   "  pipe fixed ",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Status != domain.StatusResolved {
		t.Fatalf("expected Resolved, got %s", got.Status)
	}

	if ev.Name != domain.EventComplaintStatusUpdate {
		t.Fatalf("unexpected event name %q", ev.Name)
	}
	if ev.Target != domain.UserTarget("U1") {
		t.Fatalf("status updates go to the owner only, got %+v", ev.Target)
	}
	want := domain.StatusUpdatePayload{ComplaintID: c.ID, Status: domain.StatusResolved, UserID: "U1"}
	if ev.Payload != want {
		t.Fatalf("unexpected payload: got=%+v want=%+v", ev.Payload, want)
	}
}

func TestComplaintService_UpdateStatus_NonAdminTouchesNothing(t *testing.T) {
	t.Parallel()

	for _, p := range []domain.Principal{citizenU1, {SubjectID: "S1", Role: domain.RoleSupervisor}} {
		svc, _ := newComplaintService(t, false, false)

		_, err := svc.UpdateStatus(context.Background(), p, uuid.New(), domain.UpdateStatusRequest{Status: domain.StatusResolved})
		if !errors.Is(err, e.ErrForbidden) {
			t.Fatalf("%s: expected forbidden, got %v", p.Role, err)
		}
	}
}

func TestComplaintService_UpdateStatus_UnknownStatus(t *testing.T) {
	t.Parallel()

	svc, _ := newComplaintService(t, false, false)

	_, err := svc.UpdateStatus(context.Background(), admin, uuid.New(), domain.UpdateStatusRequest{Status: "Done"})
	if !errors.Is(err, e.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestComplaintService_UpdateStatus_StoreErrorEmitsNothing(t *testing.T) {
	t.Parallel()

	svc, deps := newComplaintService(t, false, false)

	id := uuid.New()
	deps.repo.EXPECT().UpdateStatus(gomock.Any(), id, gomock.Any()).Return(nil, e.ErrNotFound).Times(1)

	_, err := svc.UpdateStatus(context.Background(), admin, id, domain.UpdateStatusRequest{Status: domain.StatusProcessing})
	if !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestComplaintService_AddComment(t *testing.T) {
	t.Parallel()

	svc, deps := newComplaintService(t, false, false)

	c := storedComplaint("U1", domain.StatusProcessing)
	deps.repo.EXPECT().
		AddComment(gomock.Any(), c.ID, domain.AdminComment{Text: "crew assigned", Author: "A1", At: fixedNow}).
		Return(c, nil).
		Times(1)
	deps.notifier.EXPECT().
		Emit(gomock.Any()).
		Do(func(ev domain.Event) {
			if ev.Name != domain.EventComplaintCommented || ev.Target != domain.UserTarget("U1") {
				t.Errorf("unexpected event: %+v", ev)
			}
		}).
		Times(1)

	if _, err := svc.AddComment(context.Background(), admin, c.ID, domain.AddCommentRequest{Comment: " crew assigned "}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if _, err := svc.AddComment(context.Background(), admin, c.ID, domain.AddCommentRequest{Comment: "  "}); !errors.Is(err, e.ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank comment, got %v", err)
	}
}

func TestComplaintService_SubmitFeedback_OK(t *testing.T) {
	t.Parallel()

	svc, deps := newComplaintService(t, false, false)

	c := storedComplaint("U1", domain.StatusResolved)
	withFeedback := *c
	withFeedback.CitizenFeedback = &domain.Feedback{Rating: 4, Comment: "quick", ProvidedAt: fixedNow}

	deps.repo.EXPECT().Get(gomock.Any(), c.ID).Return(c, nil).Times(1)
	deps.repo.EXPECT().
		SetFeedback(gomock.Any(), c.ID, domain.Feedback{Rating: 4, Comment: "quick", ProvidedAt: fixedNow}).
		Return(&withFeedback, nil).
		Times(1)

	var ev domain.Event
	deps.notifier.EXPECT().Emit(gomock.Any()).Do(func(got domain.Event) { ev = got }).Times(1)

	got, err := svc.SubmitFeedback(context.Background(), citizenU1, c.ID, domain.FeedbackRequest{Rating: 4, Comment: "quick"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.CitizenFeedback == nil || got.CitizenFeedback.Rating != 4 {
		t.Fatalf("unexpected feedback: %+v", got.CitizenFeedback)
	}
	if ev.Name != domain.EventComplaintFeedback || ev.Target != domain.BroadcastTarget() {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestComplaintService_SubmitFeedback_Rejects(t *testing.T) {
	t.Parallel()

	open := storedComplaint("U1", domain.StatusProcessing)
	rated := storedComplaint("U1", domain.StatusClosed)
	rated.CitizenFeedback = &domain.Feedback{Rating: 5, ProvidedAt: fixedNow}
	foreign := storedComplaint("U2", domain.StatusResolved)

	cases := []struct {
		name string
		c    *domain.Complaint
		want error
	}{
		{"not_settled", open, e.ErrConflict},
		{"already_rated", rated, e.ErrConflict},
		{"not_owner", foreign, e.ErrForbidden},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			svc, deps := newComplaintService(t, false, false)
			deps.repo.EXPECT().Get(gomock.Any(), c.c.ID).Return(c.c, nil).Times(1)

			_, err := svc.SubmitFeedback(context.Background(), citizenU1, c.c.ID, domain.FeedbackRequest{Rating: 3})
			if !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
		})
	}
}

func TestComplaintService_SubmitFeedback_BadRating(t *testing.T) {
	t.Parallel()

	svc, _ := newComplaintService(t, false, false)

	_, err := svc.SubmitFeedback(context.Background(), citizenU1, uuid.New(), domain.FeedbackRequest{Rating: 6})
	if !errors.Is(err, e.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestComplaintService_Delete(t *testing.T) {
	t.Parallel()

	svc, deps := newComplaintService(t, false, false)

	c := storedComplaint("U1", domain.StatusClosed)
	deps.repo.EXPECT().Delete(gomock.Any(), c.ID).Return(c, nil).Times(1)
	deps.notifier.EXPECT().
		Emit(gomock.Any()).
		Do(func(ev domain.Event) {
			if ev.Name != domain.EventComplaintDeleted || ev.ComplaintID != c.ID {
				t.Errorf("unexpected event: %+v", ev)
			}
		}).
		Times(1)

	if err := svc.Delete(context.Background(), admin, c.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := svc.Delete(context.Background(), citizenU1, c.ID); !errors.Is(err, e.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func nearbyAt(owner string, lng, lat float64) domain.NearbyComplaint {
	c := storedComplaint(owner, domain.StatusRegistered)
	c.Geolocation = &domain.GeoLocation{Coordinates: [2]float64{lng, lat}}
	return domain.NearbyComplaint{Complaint: *c}
}

func TestComplaintService_Nearby_FiltersByRadius(t *testing.T) {
	t.Parallel()

	svc, deps := newComplaintService(t, false, false)

	near := nearbyAt("U1", 75.83227, 26.9) // ~3.2 km
	far := nearbyAt("U2", 75.87160, 26.9)  // ~7.1 km
	noGeo := domain.NearbyComplaint{Complaint: *storedComplaint("U3", domain.StatusRegistered)}

	deps.repo.EXPECT().
		Nearby(gomock.Any(), domain.NearbyQuery{Lng: 75.8, Lat: 26.9, RadiusKM: service.DefaultNearbyRadiusKM, Limit: service.DefaultNearbyLimit}).
		Return([]domain.NearbyComplaint{far, noGeo, near}, nil).
		Times(1)

	got, err := svc.Nearby(context.Background(), citizenU1, domain.NearbyRequest{Lng: 75.8, Lat: 26.9})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 complaint within 5 km, got %d", len(got))
	}
	if got[0].ID != near.ID {
		t.Fatalf("expected the nearby complaint, got %s", got[0].ID)
	}
	if math.Abs(got[0].DistanceKM-3.2) > 0.05 {
		t.Fatalf("expected distance ~3.2 km, got %.3f", got[0].DistanceKM)
	}
}

func TestComplaintService_Nearby_SortsAndTruncates(t *testing.T) {
	t.Parallel()

	svc, deps := newComplaintService(t, false, false)

	a := nearbyAt("U1", 75.83227, 26.9)
	b := nearbyAt("U1", 75.81, 26.9)
	c := nearbyAt("U1", 75.82, 26.9)

	deps.repo.EXPECT().
		Nearby(gomock.Any(), domain.NearbyQuery{Lng: 75.8, Lat: 26.9, RadiusKM: 10, Limit: 2}).
		Return([]domain.NearbyComplaint{a, b, c}, nil).
		Times(1)

	got, err := svc.Nearby(context.Background(), admin, domain.NearbyRequest{Lng: 75.8, Lat: 26.9, RadiusKM: 10, Limit: 2})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 || got[0].ID != b.ID || got[1].ID != c.ID {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestComplaintService_Nearby_ClampsLimit(t *testing.T) {
	t.Parallel()

	svc, deps := newComplaintService(t, false, false)

	deps.repo.EXPECT().
		Nearby(gomock.Any(), domain.NearbyQuery{Lng: 75.8, Lat: 26.9, RadiusKM: 1, Limit: service.MaxNearbyLimit}).
		Return(nil, nil).
		Times(1)

	got, err := svc.Nearby(context.Background(), citizenU1, domain.NearbyRequest{Lng: 75.8, Lat: 26.9, RadiusKM: 1, Limit: 5000})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}

func TestComplaintService_Nearby_Rejects(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		req  domain.NearbyRequest
		want error
	}{
		{"lat_out_of_range", domain.NearbyRequest{Lng: 75.8, Lat: 91}, e.ErrInvalidCoordinates},
		{"lng_out_of_range", domain.NearbyRequest{Lng: 181, Lat: 26.9}, e.ErrInvalidCoordinates},
		{"nan", domain.NearbyRequest{Lng: math.NaN(), Lat: 26.9}, e.ErrInvalidCoordinates},
		{"negative_radius", domain.NearbyRequest{Lng: 75.8, Lat: 26.9, RadiusKM: -1}, e.ErrInvalidInput},
		{"infinite_radius", domain.NearbyRequest{Lng: 75.8, Lat: 26.9, RadiusKM: math.Inf(1)}, e.ErrInvalidInput},
		{"negative_limit", domain.NearbyRequest{Lng: 75.8, Lat: 26.9, Limit: -3}, e.ErrInvalidInput},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			svc, _ := newComplaintService(t, false, false)

			_, err := svc.Nearby(context.Background(), citizenU1, c.req)
			if !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
		})
	}
}
