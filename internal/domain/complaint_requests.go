package domain

import (
	"time"

	"github.com/google/uuid"
)

type CreateComplaintRequest struct {
	Category          string       `json:"category" validate:"required,max=100"`
	Description       string       `json:"description" validate:"max=5000"`
	Location          string       `json:"location" validate:"max=500"`
	Geolocation       *GeoLocation `json:"geolocation" validate:"omitempty"`
	Priority          Priority     `json:"priority" validate:"omitempty,priority"`
	Attachments       []Attachment `json:"attachments" validate:"omitempty,max=10,dive"`
	Tags              []string     `json:"tags" validate:"omitempty,max=20,dive,min=1,max=50"`
	IsUrgent          bool         `json:"isUrgent"`
	RelatedComplaints []uuid.UUID  `json:"relatedComplaints" validate:"omitempty,max=20"`
}

type UpdateStatusRequest struct {
	Status                  Status     `json:"status" validate:"required,status"`
	Note                    string     `json:"note" validate:"max=2000"`
	EstimatedResolutionDate *time.Time `json:"estimatedResolutionDate"`
	AssignedTo              *string    `json:"assignedTo" validate:"omitempty,min=1,max=64"`
}

type AddCommentRequest struct {
	Comment string `json:"comment" validate:"required,max=2000"`
}

type FeedbackRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// NearbyRequest carries raw query values; zero RadiusKM and Limit select
// the defaults.
type NearbyRequest struct {
	Lng      float64
	Lat      float64
	RadiusKM float64
	Limit    int
}

type ListComplaintsResponse struct {
	Complaints []*Complaint `json:"complaints"`
	Total      int          `json:"total"`
}

type NearbyResponse struct {
	Complaints []NearbyComplaint `json:"complaints"`
	Count      int               `json:"count"`
}
