package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventComplaintCreated      = "complaintCreated"
	EventComplaintStatusUpdate = "complaintStatusUpdate"
	EventComplaintDeleted      = "complaintDeleted"
	EventComplaintCommented    = "complaintCommented"
	EventComplaintFeedback     = "complaintFeedback"
)

// Target addresses an event either to one subject's channel or to everyone
// listening on the broadcast topic.
type Target struct {
	UserID    string
	Broadcast bool
}

func UserTarget(userID string) Target { return Target{UserID: userID} }

func BroadcastTarget() Target { return Target{Broadcast: true} }

type Event struct {
	Name        string
	ComplaintID uuid.UUID
	Target      Target
	Payload     any
	At          time.Time
}

// Envelope is the wire form published to the transport.
type Envelope struct {
	Event     string    `json:"event"`
	Payload   any       `json:"payload"`
	EmittedAt time.Time `json:"emittedAt"`
}

type StatusUpdatePayload struct {
	ComplaintID uuid.UUID `json:"complaintId"`
	Status      Status    `json:"status"`
	UserID      string    `json:"userId"`
}

type ComplaintEventPayload struct {
	ComplaintID uuid.UUID `json:"complaintId"`
	UserID      string    `json:"userId"`
	Category    string    `json:"category,omitempty"`
	Status      Status    `json:"status,omitempty"`
}

type FeedbackPayload struct {
	ComplaintID uuid.UUID `json:"complaintId"`
	UserID      string    `json:"userId"`
	Rating      int       `json:"rating"`
}
