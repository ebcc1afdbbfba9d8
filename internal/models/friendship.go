package models

import (
	"time"

	"gorm.io/gorm"
)

// Friendship statuses. Rejected never persists; it only appears in the
// broadcast payload emitted just before the row is deleted.
const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
	FriendshipBlocked  = "blocked"
	FriendshipRejected = "rejected"
)

// Pair statuses as seen from one side of the relationship
const (
	PairStatusNone            = "none"
	PairStatusFriends         = "friends"
	PairStatusPendingSent     = "pending_sent"
	PairStatusPendingReceived = "pending_received"
)

// Friendship tracks a single undirected relationship between two users with
// directional metadata. The pair is stored in canonical order
// (UserLowID < UserHighID) under one unique index, so a second row for the
// same pair is structurally impossible regardless of request direction;
// RequestedBy records who initiated.
type Friendship struct {
	gorm.Model
	UserLowID   uint       `json:"user_low_id" gorm:"uniqueIndex:idx_friendship_pair,priority:1"`
	UserHighID  uint       `json:"user_high_id" gorm:"uniqueIndex:idx_friendship_pair,priority:2"`
	RequestedBy uint       `json:"requested_by" gorm:"index"`
	Status      string     `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
}

// CanonicalPair orders two user IDs into (low, high) form.
func CanonicalPair(a, b uint) (low, high uint) {
	if a < b {
		return a, b
	}
	return b, a
}

// Involves reports whether userID is one of the two parties.
func (f *Friendship) Involves(userID uint) bool {
	return f.UserLowID == userID || f.UserHighID == userID
}

// OtherUser returns the counterpart of userID in the pair.
func (f *Friendship) OtherUser(userID uint) uint {
	if f.UserLowID == userID {
		return f.UserHighID
	}
	return f.UserLowID
}

// RecipientID returns the user who received the request.
func (f *Friendship) RecipientID() uint {
	return f.OtherUser(f.RequestedBy)
}

// PairStatusFor resolves the relationship status as seen by viewerID.
func (f *Friendship) PairStatusFor(viewerID uint) string {
	switch f.Status {
	case FriendshipAccepted:
		return PairStatusFriends
	case FriendshipPending:
		if f.RequestedBy == viewerID {
			return PairStatusPendingSent
		}
		return PairStatusPendingReceived
	default:
		return PairStatusNone
	}
}

// CreateFriendRequest defines the request body for sending a friend request
type CreateFriendRequest struct {
	UserID uint `json:"user_id" validate:"required,min=1"`
}

// RespondFriendshipRequest defines the request body for answering a friend request
type RespondFriendshipRequest struct {
	Action string `json:"action" validate:"required,oneof=accept reject block"`
}
