package invitation

import "errors"

var (
	ErrInvitationNotFound = errors.New("invitation not found")
	// ErrInvitationExists is returned when the same user was already invited to the same group by the same inviter.
	ErrInvitationExists = errors.New("invitation already exists")
)

// Status values an invitation moves through.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusDeclined = "declined"
)

// Invitation asks a user to join a group.
type Invitation struct {
	ID          string `bson:"_id" json:"_id"`
	Group       string `bson:"group" json:"group"`
	InvitedBy   string `bson:"invitedBy" json:"invitedBy"`
	InvitedUser string `bson:"invitedUser" json:"invitedUser"`
	Status      string `bson:"status" json:"status"`
}
