package services

import (
	"context"
	"time"

	"github.com/wavely-app/backend/internal/broadcast"
	"github.com/wavely-app/backend/internal/models"
	"github.com/wavely-app/backend/internal/repositories"
	"github.com/wavely-app/backend/pkg/apperrors"
)

// Friendship response actions
const (
	FriendshipActionAccept = "accept"
	FriendshipActionReject = "reject"
	FriendshipActionBlock  = "block"
)

// FriendshipService drives the pending/accepted/blocked transitions over
// canonical-pair storage. Because each unordered pair maps to exactly one
// row under a unique index, duplicate relationships cannot arise from racing
// requests; a concurrent insert loses with a conflict instead.
type FriendshipService struct {
	friendships   repositories.FriendshipRepository
	users         repositories.UserRepository
	notifications *NotificationService
	dispatcher    *broadcast.Dispatcher
}

// NewFriendshipService creates a new FriendshipService
func NewFriendshipService(friendships repositories.FriendshipRepository, users repositories.UserRepository, notifications *NotificationService, dispatcher *broadcast.Dispatcher) *FriendshipService {
	return &FriendshipService{
		friendships:   friendships,
		users:         users,
		notifications: notifications,
		dispatcher:    dispatcher,
	}
}

// SendRequest creates a pending friendship from requester to target and
// notifies the target.
func (s *FriendshipService) SendRequest(ctx context.Context, requesterID, targetID uint) (*models.Friendship, error) {
	if requesterID == targetID {
		return nil, apperrors.SelfAction("you cannot send a friend request to yourself")
	}

	if _, err := s.users.GetUserByID(targetID); err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, err
	}

	existing, err := s.friendships.GetFriendshipByPair(requesterID, targetID)
	if err != nil && !repositories.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case models.FriendshipAccepted:
			return nil, apperrors.Duplicate("you are already friends with this user")
		case models.FriendshipPending:
			if existing.RequestedBy == requesterID {
				return nil, apperrors.Duplicate("friend request already sent")
			}
			return nil, apperrors.Duplicate("this user has already sent you a friend request")
		case models.FriendshipBlocked:
			return nil, apperrors.Blocked("cannot send friend request to blocked user")
		}
	}

	low, high := models.CanonicalPair(requesterID, targetID)
	friendship := &models.Friendship{
		UserLowID:   low,
		UserHighID:  high,
		RequestedBy: requesterID,
		Status:      models.FriendshipPending,
	}
	if err := s.friendships.CreateFriendship(friendship); err != nil {
		if repositories.IsConflict(err) {
			return nil, apperrors.Conflict("a friend request for this pair already exists")
		}
		return nil, err
	}

	if _, err := s.notifications.FriendRequest(ctx, targetID, requesterID); err != nil {
		return nil, err
	}

	requester, err := s.users.GetUserByID(requesterID)
	if err == nil {
		s.dispatcher.Dispatch(ctx, broadcast.EventFriendRequestReceived, broadcast.FriendRequestPayload{
			FriendshipID: friendship.ID,
			From:         userRef(requester),
			Status:       friendship.Status,
			CreatedAt:    friendship.CreatedAt,
		}, broadcast.UserChannel(targetID))
	}

	return friendship, nil
}

// Respond answers a pending request. Only the recipient may respond.
// Accept keeps the row, reject deletes it (broadcasting first so the
// payload survives), block marks the pair terminal.
func (s *FriendshipService) Respond(ctx context.Context, friendshipID, actorID uint, action string) (*models.Friendship, error) {
	friendship, err := s.friendships.GetFriendshipByID(friendshipID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.NotFound("friend request not found")
		}
		return nil, err
	}

	if friendship.RecipientID() != actorID || !friendship.Involves(actorID) {
		return nil, apperrors.Unauthorized("only the recipient can respond to a friend request")
	}
	if friendship.Status != models.FriendshipPending {
		return nil, apperrors.Validation("friend request is no longer pending")
	}

	switch action {
	case FriendshipActionAccept:
		now := time.Now()
		friendship.Status = models.FriendshipAccepted
		friendship.AcceptedAt = &now
		if err := s.friendships.UpdateFriendship(friendship); err != nil {
			return nil, err
		}
		if _, err := s.notifications.FriendAccepted(ctx, friendship.RequestedBy, actorID); err != nil {
			return nil, err
		}
		s.broadcastStatus(ctx, friendship)
		return friendship, nil

	case FriendshipActionReject:
		// Broadcast before deletion so the payload still carries the row.
		friendship.Status = models.FriendshipRejected
		s.broadcastStatus(ctx, friendship)
		if err := s.friendships.DeleteFriendship(friendship.ID); err != nil {
			return nil, err
		}
		return nil, nil

	case FriendshipActionBlock:
		friendship.Status = models.FriendshipBlocked
		friendship.RequestedBy = actorID
		if err := s.friendships.UpdateFriendship(friendship); err != nil {
			return nil, err
		}
		s.broadcastStatus(ctx, friendship)
		return friendship, nil
	}

	return nil, apperrors.Validation("invalid action")
}

// Remove deletes an existing friendship. Either party may remove it.
func (s *FriendshipService) Remove(friendshipID, actorID uint) error {
	friendship, err := s.friendships.GetFriendshipByID(friendshipID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return apperrors.NotFound("friendship not found")
		}
		return err
	}
	if !friendship.Involves(actorID) {
		return apperrors.Unauthorized("you are not a party to this friendship")
	}
	return s.friendships.DeleteFriendship(friendshipID)
}

// Block marks the pair blocked, upserting if no row exists. Idempotent.
// RequestedBy records who blocked so only they can unblock.
func (s *FriendshipService) Block(ctx context.Context, actorID, targetID uint) (*models.Friendship, error) {
	if actorID == targetID {
		return nil, apperrors.SelfAction("you cannot block yourself")
	}

	friendship, err := s.friendships.GetFriendshipByPair(actorID, targetID)
	if err != nil && !repositories.IsNotFound(err) {
		return nil, err
	}

	if friendship != nil {
		if friendship.Status == models.FriendshipBlocked && friendship.RequestedBy == actorID {
			return friendship, nil
		}
		friendship.Status = models.FriendshipBlocked
		friendship.RequestedBy = actorID
		if err := s.friendships.UpdateFriendship(friendship); err != nil {
			return nil, err
		}
		return friendship, nil
	}

	low, high := models.CanonicalPair(actorID, targetID)
	friendship = &models.Friendship{
		UserLowID:   low,
		UserHighID:  high,
		RequestedBy: actorID,
		Status:      models.FriendshipBlocked,
	}
	if err := s.friendships.CreateFriendship(friendship); err != nil {
		if repositories.IsConflict(err) {
			return nil, apperrors.Conflict("relationship changed concurrently, retry")
		}
		return nil, err
	}
	return friendship, nil
}

// Unblock deletes a blocked row, returning the pair to none. Only the user
// who blocked may unblock.
func (s *FriendshipService) Unblock(actorID, targetID uint) error {
	friendship, err := s.friendships.GetFriendshipByPair(actorID, targetID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return apperrors.New(apperrors.CodeFailedPrecondition, "user is not blocked")
		}
		return err
	}
	if friendship.Status != models.FriendshipBlocked {
		return apperrors.New(apperrors.CodeFailedPrecondition, "user is not blocked")
	}
	if friendship.RequestedBy != actorID {
		return apperrors.Unauthorized("only the user who blocked can unblock")
	}
	return s.friendships.DeleteFriendship(friendship.ID)
}

// Status resolves the relationship state between viewer and other as one of
// none, friends, pending_sent, or pending_received. Blocked pairs read as
// none to the viewer.
func (s *FriendshipService) Status(viewerID, otherID uint) (string, uint, error) {
	if viewerID == otherID {
		return "", 0, apperrors.SelfAction("cannot check friendship status with yourself")
	}
	friendship, err := s.friendships.GetFriendshipByPair(viewerID, otherID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return models.PairStatusNone, 0, nil
		}
		return "", 0, err
	}
	return friendship.PairStatusFor(viewerID), friendship.ID, nil
}

// Friends lists all accepted friends of the user
func (s *FriendshipService) Friends(userID uint) ([]models.User, error) {
	return s.friendships.GetFriendsOf(userID)
}

// PendingReceived lists pending requests awaiting the user's response
func (s *FriendshipService) PendingReceived(userID uint) ([]models.Friendship, error) {
	return s.friendships.GetPendingReceivedBy(userID)
}

// PendingSent lists pending requests the user has sent
func (s *FriendshipService) PendingSent(userID uint) ([]models.Friendship, error) {
	return s.friendships.GetPendingSentBy(userID)
}

// Suggestions lists users with no relationship to the given user
func (s *FriendshipService) Suggestions(userID uint, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.friendships.GetSuggestionsFor(userID, limit)
}

// AreFriends reports whether the pair has an accepted friendship
func (s *FriendshipService) AreFriends(userA, userB uint) (bool, error) {
	friendship, err := s.friendships.GetFriendshipByPair(userA, userB)
	if err != nil {
		if repositories.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return friendship.Status == models.FriendshipAccepted, nil
}

// broadcastStatus pushes a status-changed event to both parties.
func (s *FriendshipService) broadcastStatus(ctx context.Context, f *models.Friendship) {
	requester, err := s.users.GetUserByID(f.RequestedBy)
	if err != nil {
		requester = &models.User{ID: f.RequestedBy}
	}
	recipientID := f.RecipientID()
	recipient, err := s.users.GetUserByID(recipientID)
	if err != nil {
		recipient = &models.User{ID: recipientID}
	}

	payload := broadcast.FriendshipStatusPayload{
		FriendshipID: f.ID,
		Requester:    userRef(requester),
		Recipient:    userRef(recipient),
		Status:       f.Status,
	}
	s.dispatcher.Dispatch(ctx, broadcast.EventFriendshipStatusChanged, payload,
		broadcast.UserChannel(f.UserLowID), broadcast.UserChannel(f.UserHighID))
}
