package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wavely-app/backend/internal/broadcast"
	"github.com/wavely-app/backend/internal/models"
	"github.com/wavely-app/backend/internal/repositories"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeTransport records published envelopes instead of hitting Redis.
type fakeTransport struct {
	mu        sync.Mutex
	fail      bool
	published []publishedEvent
}

type publishedEvent struct {
	Channel string
	Payload []byte
}

func (t *fakeTransport) Publish(_ context.Context, channel, _ string, payload []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fail {
		return errors.New("transport down")
	}
	t.published = append(t.published, publishedEvent{Channel: channel, Payload: payload})
	return nil
}

func (t *fakeTransport) channels() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.published))
	for _, p := range t.published {
		out = append(out, p.Channel)
	}
	return out
}

type testEnv struct {
	db        *gorm.DB
	transport *fakeTransport
	outbox    repositories.OutboxRepository

	userRepo repositories.UserRepository

	notifications *NotificationService
	friendships   *FriendshipService
	profiles      *ProfileService
	posts         *PostService
	comments      *CommentService
	likes         *LikeService
	shares        *ShareService
	convos        *ConversationService
	messages      *MessageService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Share{},
		&models.Friendship{},
		&models.Conversation{},
		&models.ConversationMember{},
		&models.Message{},
		&models.Notification{},
		&models.OutboxEvent{},
	))

	transport := &fakeTransport{}
	outboxRepo := repositories.NewPostgresOutboxRepository(db)
	dispatcher := broadcast.NewDispatcher(outboxRepo, transport)

	userRepo := repositories.NewPostgresUserRepository(db)
	profileRepo := repositories.NewPostgresProfileRepository(db)
	postRepo := repositories.NewPostgresPostRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	likeRepo := repositories.NewPostgresLikeRepository(db)
	shareRepo := repositories.NewPostgresShareRepository(db)
	friendshipRepo := repositories.NewPostgresFriendshipRepository(db)
	conversationRepo := repositories.NewPostgresConversationRepository(db)
	messageRepo := repositories.NewPostgresMessageRepository(db)
	notificationRepo := repositories.NewPostgresNotificationRepository(db)

	notifications := NewNotificationService(notificationRepo, userRepo, dispatcher)
	friendships := NewFriendshipService(friendshipRepo, userRepo, notifications, dispatcher)
	posts := NewPostService(postRepo, userRepo, dispatcher)

	return &testEnv{
		db:            db,
		transport:     transport,
		outbox:        outboxRepo,
		userRepo:      userRepo,
		notifications: notifications,
		friendships:   friendships,
		profiles:      NewProfileService(profileRepo, userRepo, friendships),
		posts:         posts,
		comments:      NewCommentService(commentRepo, postRepo, userRepo, notifications, dispatcher),
		likes:         NewLikeService(likeRepo, postRepo, commentRepo, userRepo, notifications, dispatcher),
		shares:        NewShareService(shareRepo, posts, userRepo, notifications, dispatcher),
		convos:        NewConversationService(conversationRepo, messageRepo),
		messages:      NewMessageService(messageRepo, conversationRepo, userRepo, dispatcher),
	}
}

// createUser inserts a user and a matching profile.
func (e *testEnv) createUser(t *testing.T, name string) *models.User {
	t.Helper()
	user := &models.User{
		Name:  name,
		Email: fmt.Sprintf("%s@example.com", name),
	}
	require.NoError(t, e.db.Create(user).Error)
	profile := &models.Profile{
		UserID:   user.ID,
		Username: fmt.Sprintf("%s%d", name, user.ID),
	}
	require.NoError(t, e.db.Create(profile).Error)
	user.Profile = profile
	return user
}

// createPost inserts a post for the given author.
func (e *testEnv) createPost(t *testing.T, authorID uint, content string) *models.Post {
	t.Helper()
	post, err := e.posts.Create(context.Background(), authorID, models.CreatePostRequest{Content: content})
	require.NoError(t, err)
	return post
}
