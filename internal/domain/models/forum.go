package models

import (
	"time"

	"github.com/threaddit/backend/pkg/constants"
)

// User is a registered account.
type User struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Username         string    `gorm:"size:15;not null;uniqueIndex" json:"username"`
	Email            string    `gorm:"size:254;not null;uniqueIndex" json:"email"`
	PasswordHash     string    `gorm:"size:255;not null" json:"-"`
	Avatar           string    `gorm:"size:512" json:"avatar"`
	AvatarPublicID   string    `gorm:"size:255" json:"-"`
	Bio              string    `gorm:"type:text" json:"bio"`
	IsAdmin          bool      `gorm:"not null;default:false" json:"-"`
	RegistrationDate time.Time `gorm:"autoCreateTime" json:"registration_date"`
}

func (User) TableName() string { return constants.TableUser }

// Subthread is a community. Name is stored with its t/ prefix.
type Subthread struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:22;not null;uniqueIndex" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	Logo         string    `gorm:"size:512" json:"logo"`
	LogoPublicID string    `gorm:"size:255" json:"-"`
	CreatedBy    *uint     `gorm:"index" json:"-"`
	Creator      *User     `gorm:"foreignKey:CreatedBy;constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Subthread) TableName() string { return constants.TableSubthread }

// Moderator grants a user moderation rights over a thread.
type Moderator struct {
	UserID      uint      `gorm:"primaryKey;autoIncrement:false"`
	SubthreadID uint      `gorm:"primaryKey;autoIncrement:false;index"`
	User        User      `gorm:"constraint:OnDelete:CASCADE"`
	Subthread   Subthread `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (Moderator) TableName() string { return constants.TableModerator }

// Subscription records that a user follows a thread.
type Subscription struct {
	UserID      uint      `gorm:"primaryKey;autoIncrement:false"`
	SubthreadID uint      `gorm:"primaryKey;autoIncrement:false;index"`
	User        User      `gorm:"constraint:OnDelete:CASCADE"`
	Subthread   Subthread `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (Subscription) TableName() string { return constants.TableSubscription }

// Post is a submission to a thread. Media holds a hosted asset URL or an external link.
type Post struct {
	ID            uint      `gorm:"primaryKey"`
	UserID        uint      `gorm:"not null;index"`
	SubthreadID   uint      `gorm:"not null;index"`
	User          User      `gorm:"constraint:OnDelete:CASCADE"`
	Subthread     Subthread `gorm:"constraint:OnDelete:CASCADE"`
	Title         string    `gorm:"size:300;not null"`
	Media         string    `gorm:"size:512"`
	MediaPublicID string    `gorm:"size:255"`
	Content       string    `gorm:"type:text"`
	IsEdited      bool      `gorm:"not null;default:false"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index"`
}

func (Post) TableName() string { return constants.TablePost }

// SavedPost is a user's bookmark.
type SavedPost struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false"`
	PostID    uint      `gorm:"primaryKey;autoIncrement:false;index"`
	User      User      `gorm:"constraint:OnDelete:CASCADE"`
	Post      Post      `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (SavedPost) TableName() string { return constants.TableSavedPost }

// Comment belongs to a post and optionally replies to another comment.
type Comment struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index"`
	PostID    uint      `gorm:"not null;index"`
	ParentID  *uint     `gorm:"index"`
	User      User      `gorm:"constraint:OnDelete:CASCADE"`
	Post      Post      `gorm:"constraint:OnDelete:CASCADE"`
	Parent    *Comment  `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
	Content   string    `gorm:"type:text;not null"`
	IsEdited  bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Comment) TableName() string { return constants.TableComment }

// Reaction is a vote on exactly one of a post or a comment.
type Reaction struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_reaction_post;uniqueIndex:idx_reaction_comment"`
	PostID    *uint     `gorm:"uniqueIndex:idx_reaction_post"`
	CommentID *uint     `gorm:"uniqueIndex:idx_reaction_comment"`
	User      User      `gorm:"constraint:OnDelete:CASCADE"`
	Post      *Post     `gorm:"constraint:OnDelete:CASCADE"`
	Comment   *Comment  `gorm:"constraint:OnDelete:CASCADE"`
	IsUpvote  bool      `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Reaction) TableName() string { return constants.TableReaction }

// Message is a private message between two users.
type Message struct {
	ID         uint   `gorm:"primaryKey"`
	SenderID   uint   `gorm:"not null;index"`
	ReceiverID uint   `gorm:"not null;index"`
	Sender     User   `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE"`
	Receiver   User   `gorm:"foreignKey:ReceiverID;constraint:OnDelete:CASCADE"`
	Content    string `gorm:"type:text;not null"`
	Seen       bool   `gorm:"not null;default:false"`
	SeenAt     *time.Time
	CreatedAt  time.Time `gorm:"autoCreateTime;index"`
}

func (Message) TableName() string { return constants.TableMessage }

// Session is a persisted login. ID is the token's jti.
type Session struct {
	ID           string    `gorm:"primaryKey;size:36"`
	UserID       uint      `gorm:"not null;index"`
	User         User      `gorm:"constraint:OnDelete:CASCADE"`
	ExpiresAt    time.Time `gorm:"not null;index"`
	IPAddress    string    `gorm:"size:64"`
	UserAgent    string    `gorm:"size:512"`
	IsRevoked    bool      `gorm:"not null;default:false"`
	LastActivity time.Time
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (Session) TableName() string { return constants.TableSession }

// AllModels is the AutoMigrate set, parents first.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Subthread{},
		&Moderator{},
		&Subscription{},
		&Post{},
		&SavedPost{},
		&Comment{},
		&Reaction{},
		&Message{},
		&Session{},
	}
}
