package services

import (
	"fmt"

	"github.com/threaddit/backend/internal/config"
	"github.com/threaddit/backend/internal/domain/ports"
	"github.com/threaddit/backend/internal/infrastructure/persistence"
	"github.com/threaddit/backend/pkg/auth"
	"github.com/threaddit/backend/pkg/ranking"
	"gorm.io/gorm"
)

// ServiceManager orchestrates all services with dependency injection
type ServiceManager struct {
	Auth      *AuthService
	Users     *UserService
	Threads   *ThreadService
	Posts     *PostService
	Comments  *CommentService
	Reactions *ReactionService
	Messages  *MessageService
	Scheduler *SchedulerService
}

// NewServiceManager creates a new service manager with all dependencies wired
func NewServiceManager(db *gorm.DB, cfg *config.Config, store ports.MediaStore) (*ServiceManager, error) {
	ranker, err := ranking.NewRanker(cfg.HotFormula)
	if err != nil {
		return nil, fmt.Errorf("FEED_HOT_FORMULA: %w", err)
	}

	txManager := persistence.NewTransactionManager(db)
	users := persistence.NewUserRepository(db)
	sessions := persistence.NewSessionRepository(db)
	threads := persistence.NewThreadRepository(db, txManager)
	posts := persistence.NewPostRepository(db)
	comments := persistence.NewCommentRepository(db)
	reactions := persistence.NewReactionRepository(db)
	messages := persistence.NewMessageRepository(db)

	maxUpload := cfg.MaxUploadBytes()
	sm := &ServiceManager{}

	// Initialize services in dependency order
	sm.Auth = NewAuthService(users, sessions, auth.NewSigner(cfg.SecretKey, cfg.SessionTTL))
	sm.Users = NewUserService(users, threads, store, maxUpload)
	sm.Threads = NewThreadService(threads, users, store, maxUpload)
	sm.Posts = NewPostService(posts, threads, users, sm.Threads, ranker, store, maxUpload)
	sm.Comments = NewCommentService(comments, sm.Posts, sm.Threads)
	sm.Reactions = NewReactionService(reactions, posts, comments)
	sm.Messages = NewMessageService(messages, users)
	sm.Scheduler = NewSchedulerService(cfg.SessionPurgeSchedule, sm.Auth)

	return sm, nil
}
