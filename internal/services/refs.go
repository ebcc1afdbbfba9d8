package services

import (
	"github.com/wavely-app/backend/internal/broadcast"
	"github.com/wavely-app/backend/internal/models"
)

// userRef shapes a user for broadcast payloads.
func userRef(u *models.User) broadcast.UserRef {
	if u == nil {
		return broadcast.UserRef{}
	}
	ref := broadcast.UserRef{ID: u.ID, Name: u.Name}
	if u.Profile != nil {
		ref.Avatar = u.Profile.Avatar
	}
	return ref
}
