package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusRegistered Status = "Registered"
	StatusProcessing Status = "Processing"
	StatusReview     Status = "Review"
	StatusResolved   Status = "Resolved"
	StatusClosed     Status = "Closed"
	StatusReopened   Status = "Reopened"
)

// Statuses lists every lifecycle state in workflow order.
var Statuses = []Status{
	StatusRegistered,
	StatusProcessing,
	StatusReview,
	StatusResolved,
	StatusClosed,
	StatusReopened,
}

func (s Status) Valid() bool {
	switch s {
	case StatusRegistered, StatusProcessing, StatusReview, StatusResolved, StatusClosed, StatusReopened:
		return true
	}
	return false
}

// Settled reports whether the status counts as a resolution: entering it
// stamps the actual resolution date and unlocks citizen feedback.
func (s Status) Settled() bool {
	return s == StatusResolved || s == StatusClosed
}

type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// GeoLocation stores coordinates as [longitude, latitude].
type GeoLocation struct {
	Coordinates      [2]float64 `json:"coordinates"`
	Address          string     `json:"address,omitempty"`
	FormattedAddress string     `json:"formattedAddress,omitempty"`
}

func (g GeoLocation) Lng() float64 { return g.Coordinates[0] }
func (g GeoLocation) Lat() float64 { return g.Coordinates[1] }

var ErrCoordinatesShape = errors.New("geolocation.coordinates must be [longitude, latitude]")

// UnmarshalJSON requires exactly two coordinates, so an absent or short
// array never decodes to a point at (0,0).
func (g *GeoLocation) UnmarshalJSON(data []byte) error {
	var raw struct {
		Coordinates      []float64 `json:"coordinates"`
		Address          string    `json:"address"`
		FormattedAddress string    `json:"formattedAddress"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Coordinates) != 2 {
		return ErrCoordinatesShape
	}

	g.Coordinates = [2]float64{raw.Coordinates[0], raw.Coordinates[1]}
	g.Address = raw.Address
	g.FormattedAddress = raw.FormattedAddress
	return nil
}

type Attachment struct {
	Filename     string `json:"filename" validate:"required,max=255"`
	OriginalName string `json:"originalName" validate:"max=255"`
	Path         string `json:"path" validate:"max=1024"`
	MimeType     string `json:"mimetype" validate:"max=255"`
	Size         int64  `json:"size" validate:"min=0"`
}

type AdminComment struct {
	Text   string    `json:"comment"`
	Author string    `json:"addedBy"`
	At     time.Time `json:"addedAt"`
}

type Feedback struct {
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	ProvidedAt time.Time `json:"providedAt"`
}

type StatusTransition struct {
	From Status    `json:"from"`
	To   Status    `json:"to"`
	By   string    `json:"by"`
	At   time.Time `json:"at"`
}

type Complaint struct {
	ID                      uuid.UUID          `json:"id"`
	Category                string             `json:"category"`
	Description             string             `json:"description"`
	Location                string             `json:"location"`
	Geolocation             *GeoLocation       `json:"geolocation,omitempty"`
	OutsideRegion           bool               `json:"outsideRegion"`
	Priority                Priority           `json:"priority"`
	Status                  Status             `json:"status"`
	CreatedBy               string             `json:"createdBy"`
	AssignedTo              *string            `json:"assignedTo,omitempty"`
	CreatedAt               time.Time          `json:"createdAt"`
	UpdatedAt               time.Time          `json:"updatedAt"`
	EstimatedResolutionDate *time.Time         `json:"estimatedResolutionDate,omitempty"`
	ActualResolutionDate    *time.Time         `json:"actualResolutionDate,omitempty"`
	Attachments             []Attachment       `json:"attachments"`
	AdminComments           []AdminComment     `json:"adminComments"`
	CitizenFeedback         *Feedback          `json:"citizenFeedback,omitempty"`
	Tags                    []string           `json:"tags"`
	IsUrgent                bool               `json:"isUrgent"`
	RelatedComplaints       []uuid.UUID        `json:"relatedComplaints"`
	StatusHistory           []StatusTransition `json:"statusHistory"`
}

// NearbyComplaint is a complaint annotated with its distance to a query point.
type NearbyComplaint struct {
	Complaint
	DistanceKM float64 `json:"distanceKm"`
}

// ComplaintFilter is the visibility predicate applied to listings. An empty
// OwnerID means no owner restriction.
type ComplaintFilter struct {
	OwnerID string
}

// StatusChange is applied to a complaint in a single atomic store write.
type StatusChange struct {
	Status                  Status
	ChangedBy               string
	Note                    string
	EstimatedResolutionDate *time.Time
	AssignedTo              *string
	At                      time.Time
}

type NearbyQuery struct {
	Lng      float64
	Lat      float64
	RadiusKM float64
	Limit    int
}
