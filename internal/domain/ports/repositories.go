package ports

import (
	"context"
	"time"

	"github.com/threaddit/backend/internal/domain/models"
)

// Lookup methods return (nil, nil) when the row does not exist.

// UserRepository persists accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, limit int) ([]models.UserRef, error)
	Karma(ctx context.Context, id uint) (models.Karma, error)
}

// SessionRepository persists login sessions keyed by token id.
type SessionRepository interface {
	InsertSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
	RevokeSession(ctx context.Context, sessionID string) error
	RevokeUserSessions(ctx context.Context, userID uint) error
	UpdateLastActivity(ctx context.Context, sessionID string) error
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// ThreadQuery filters thread listings.
type ThreadQuery struct {
	NameLike     string
	SubscribedBy uint
	OrderBy      string // "name" or "subscribers"
	Limit        int
	ViewerID     uint
}

// ThreadRepository persists threads, their moderators and subscriptions.
type ThreadRepository interface {
	// Create inserts the thread and makes its creator a moderator and subscriber.
	Create(ctx context.Context, thread *models.Subthread) error
	GetByID(ctx context.Context, id uint) (*models.Subthread, error)
	GetByName(ctx context.Context, name string) (*models.Subthread, error)
	Update(ctx context.Context, thread *models.Subthread) error
	Info(ctx context.Context, id uint, viewerID uint) (*models.ThreadInfo, error)
	List(ctx context.Context, q ThreadQuery) ([]models.ThreadInfo, error)
	PopularIDs(ctx context.Context, limit int) ([]uint, error)
	SubscribedIDs(ctx context.Context, userID uint) ([]uint, error)
	Subscribe(ctx context.Context, userID, threadID uint) error
	Unsubscribe(ctx context.Context, userID, threadID uint) error
	IsModerator(ctx context.Context, userID, threadID uint) (bool, error)
	ModeratedIDs(ctx context.Context, userID uint) ([]uint, error)
	AddModerator(ctx context.Context, userID, threadID uint) error
	RemoveModerator(ctx context.Context, userID, threadID uint) error
}

// Post orderings understood by PostRepository.List
const (
	OrderNew = "new"
	OrderTop = "top"
)

// PostQuery filters post listings. A non-nil empty ThreadIDs matches nothing.
type PostQuery struct {
	ThreadIDs []uint
	AuthorID  uint
	SavedBy   uint
	Since     time.Time
	OrderBy   string
	Limit     int
	Offset    int
	ViewerID  uint
}

// PostRepository persists posts and bookmarks.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	Info(ctx context.Context, id uint, viewerID uint) (*models.PostInfo, error)
	List(ctx context.Context, q PostQuery) ([]models.PostInfo, error)
	Save(ctx context.Context, userID, postID uint) error
	Unsave(ctx context.Context, userID, postID uint) error
}

// CommentRepository persists comments. Deleting a comment removes its replies.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uint) error
	Info(ctx context.Context, id uint, viewerID uint) (*models.CommentInfo, error)
	// ListForPost returns every comment of a post, oldest first.
	ListForPost(ctx context.Context, postID uint, viewerID uint) ([]models.CommentInfo, error)
}

// ReactionTarget names the voted item. Exactly one field is non-zero.
type ReactionTarget struct {
	PostID    uint
	CommentID uint
}

// ReactionRepository persists votes.
type ReactionRepository interface {
	Get(ctx context.Context, userID uint, target ReactionTarget) (*models.Reaction, error)
	Create(ctx context.Context, reaction *models.Reaction) error
	Update(ctx context.Context, reaction *models.Reaction) error
	Delete(ctx context.Context, id uint) error
}

// MessageRepository persists private messages.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetInfo(ctx context.Context, id uint) (*models.MessageInfo, error)
	// Latest returns the newest message of every conversation userID takes
	// part in, newest first.
	Latest(ctx context.Context, userID uint) ([]models.MessageInfo, error)
	// Conversation returns messages between two users, oldest first.
	Conversation(ctx context.Context, userID, otherID uint) ([]models.MessageInfo, error)
	MarkSeen(ctx context.Context, receiverID, senderID uint, at time.Time) error
}
