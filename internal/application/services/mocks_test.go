package services

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/threaddit/backend/internal/domain/models"
	"github.com/threaddit/backend/internal/domain/ports"
)

// MockUserRepository is a mock implementation of ports.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) Search(ctx context.Context, query string, limit int) ([]models.UserRef, error) {
	args := m.Called(ctx, query, limit)
	return args.Get(0).([]models.UserRef), args.Error(1)
}

func (m *MockUserRepository) Karma(ctx context.Context, id uint) (models.Karma, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Karma), args.Error(1)
}

// MockSessionRepository is a mock implementation of ports.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) InsertSession(ctx context.Context, session *models.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *MockSessionRepository) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionRepository) RevokeSession(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *MockSessionRepository) RevokeUserSessions(ctx context.Context, userID uint) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockSessionRepository) UpdateLastActivity(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *MockSessionRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockThreadRepository is a mock implementation of ports.ThreadRepository
type MockThreadRepository struct {
	mock.Mock
}

func (m *MockThreadRepository) Create(ctx context.Context, thread *models.Subthread) error {
	return m.Called(ctx, thread).Error(0)
}

func (m *MockThreadRepository) GetByID(ctx context.Context, id uint) (*models.Subthread, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subthread), args.Error(1)
}

func (m *MockThreadRepository) GetByName(ctx context.Context, name string) (*models.Subthread, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subthread), args.Error(1)
}

func (m *MockThreadRepository) Update(ctx context.Context, thread *models.Subthread) error {
	return m.Called(ctx, thread).Error(0)
}

func (m *MockThreadRepository) Info(ctx context.Context, id uint, viewerID uint) (*models.ThreadInfo, error) {
	args := m.Called(ctx, id, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ThreadInfo), args.Error(1)
}

func (m *MockThreadRepository) List(ctx context.Context, q ports.ThreadQuery) ([]models.ThreadInfo, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]models.ThreadInfo), args.Error(1)
}

func (m *MockThreadRepository) PopularIDs(ctx context.Context, limit int) ([]uint, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockThreadRepository) SubscribedIDs(ctx context.Context, userID uint) ([]uint, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockThreadRepository) Subscribe(ctx context.Context, userID, threadID uint) error {
	return m.Called(ctx, userID, threadID).Error(0)
}

func (m *MockThreadRepository) Unsubscribe(ctx context.Context, userID, threadID uint) error {
	return m.Called(ctx, userID, threadID).Error(0)
}

func (m *MockThreadRepository) IsModerator(ctx context.Context, userID, threadID uint) (bool, error) {
	args := m.Called(ctx, userID, threadID)
	return args.Bool(0), args.Error(1)
}

func (m *MockThreadRepository) ModeratedIDs(ctx context.Context, userID uint) ([]uint, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockThreadRepository) AddModerator(ctx context.Context, userID, threadID uint) error {
	return m.Called(ctx, userID, threadID).Error(0)
}

func (m *MockThreadRepository) RemoveModerator(ctx context.Context, userID, threadID uint) error {
	return m.Called(ctx, userID, threadID).Error(0)
}

// MockPostRepository is a mock implementation of ports.PostRepository
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	return m.Called(ctx, post).Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, post *models.Post) error {
	return m.Called(ctx, post).Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPostRepository) Info(ctx context.Context, id uint, viewerID uint) (*models.PostInfo, error) {
	args := m.Called(ctx, id, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PostInfo), args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context, q ports.PostQuery) ([]models.PostInfo, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]models.PostInfo), args.Error(1)
}

func (m *MockPostRepository) Save(ctx context.Context, userID, postID uint) error {
	return m.Called(ctx, userID, postID).Error(0)
}

func (m *MockPostRepository) Unsave(ctx context.Context, userID, postID uint) error {
	return m.Called(ctx, userID, postID).Error(0)
}

// MockCommentRepository is a mock implementation of ports.CommentRepository
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *MockCommentRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCommentRepository) Info(ctx context.Context, id uint, viewerID uint) (*models.CommentInfo, error) {
	args := m.Called(ctx, id, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CommentInfo), args.Error(1)
}

func (m *MockCommentRepository) ListForPost(ctx context.Context, postID uint, viewerID uint) ([]models.CommentInfo, error) {
	args := m.Called(ctx, postID, viewerID)
	return args.Get(0).([]models.CommentInfo), args.Error(1)
}

// MockReactionRepository is a mock implementation of ports.ReactionRepository
type MockReactionRepository struct {
	mock.Mock
}

func (m *MockReactionRepository) Get(ctx context.Context, userID uint, target ports.ReactionTarget) (*models.Reaction, error) {
	args := m.Called(ctx, userID, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reaction), args.Error(1)
}

func (m *MockReactionRepository) Create(ctx context.Context, reaction *models.Reaction) error {
	return m.Called(ctx, reaction).Error(0)
}

func (m *MockReactionRepository) Update(ctx context.Context, reaction *models.Reaction) error {
	return m.Called(ctx, reaction).Error(0)
}

func (m *MockReactionRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

// MockMessageRepository is a mock implementation of ports.MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, message *models.Message) error {
	return m.Called(ctx, message).Error(0)
}

func (m *MockMessageRepository) GetInfo(ctx context.Context, id uint) (*models.MessageInfo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MessageInfo), args.Error(1)
}

func (m *MockMessageRepository) Latest(ctx context.Context, userID uint) ([]models.MessageInfo, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.MessageInfo), args.Error(1)
}

func (m *MockMessageRepository) Conversation(ctx context.Context, userID, otherID uint) ([]models.MessageInfo, error) {
	args := m.Called(ctx, userID, otherID)
	return args.Get(0).([]models.MessageInfo), args.Error(1)
}

func (m *MockMessageRepository) MarkSeen(ctx context.Context, receiverID, senderID uint, at time.Time) error {
	return m.Called(ctx, receiverID, senderID, at).Error(0)
}

// MockMediaStore is a mock implementation of ports.MediaStore
type MockMediaStore struct {
	mock.Mock
}

func (m *MockMediaStore) Upload(ctx context.Context, r io.Reader, opts ports.MediaUpload) (*ports.MediaAsset, error) {
	args := m.Called(ctx, r, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.MediaAsset), args.Error(1)
}

func (m *MockMediaStore) Delete(ctx context.Context, publicID string) error {
	return m.Called(ctx, publicID).Error(0)
}
