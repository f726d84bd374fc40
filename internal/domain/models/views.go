package models

import "time"

// UserRef is the compact author block embedded in listings.
type UserRef struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// Karma summarises votes received by a user.
type Karma struct {
	UserKarma     int `json:"user_karma"`
	PostsCount    int `json:"posts_count"`
	PostsKarma    int `json:"posts_karma"`
	CommentsCount int `json:"comments_count"`
	CommentsKarma int `json:"comments_karma"`
}

// UserInfo is a profile as shown to clients.
type UserInfo struct {
	ID               uint      `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email,omitempty"`
	Avatar           string    `json:"avatar"`
	Bio              string    `json:"bio"`
	RegistrationDate time.Time `json:"registration_date"`
	Roles            []string  `json:"roles,omitempty"`
	ModIn            []uint    `json:"mod_in,omitempty"`
	Karma            Karma     `json:"karma"`
}

// ThreadInfo is a thread with its counters and, for a viewer, subscription state.
type ThreadInfo struct {
	ID              uint      `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Logo            string    `json:"logo"`
	CreatedAt       time.Time `json:"created_at"`
	CreatedBy       string    `json:"created_by"`
	SubscriberCount int       `json:"subscriberCount"`
	PostsCount      int       `json:"PostsCount"`
	CommentsCount   int       `json:"CommentsCount"`
	HasSubscribed   bool      `json:"has_subscribed"`
	Modlist         []string  `json:"modList" gorm:"-"`
}

// ThreadListing is the response of GET /api/threads.
type ThreadListing struct {
	Subscribed []ThreadInfo `json:"subscribed"`
	All        []ThreadInfo `json:"all"`
	Popular    []ThreadInfo `json:"popular"`
}

// PostThread is the thread block of a PostInfo.
type PostThread struct {
	ThreadID   uint   `json:"thread_id"`
	ThreadName string `json:"thread_name"`
	ThreadLogo string `json:"thread_logo"`
}

// PostAuthor is the author block of a PostInfo.
type PostAuthor struct {
	UserName   string `json:"user_name"`
	UserAvatar string `json:"user_avatar"`
}

// PostBody is the post block of a PostInfo.
type PostBody struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Media         string    `json:"media"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"created_at"`
	PostKarma     int       `json:"post_karma"`
	CommentsCount int       `json:"comments_count"`
	IsEdited      bool      `json:"is_edited"`
}

// ViewerState is what the requesting user did to an item. HasUpvoted is nil when they did not vote.
type ViewerState struct {
	HasUpvoted *bool `json:"has_upvoted"`
	Saved      bool  `json:"saved,omitempty"`
}

// PostInfo is a post with its thread, author and the viewer's state.
type PostInfo struct {
	Thread      PostThread   `json:"thread_info"`
	Author      PostAuthor   `json:"user_info"`
	Post        PostBody     `json:"post_info"`
	CurrentUser *ViewerState `json:"current_user"`
}

// CommentBody is the comment block of a CommentInfo.
type CommentBody struct {
	ID           uint      `json:"id"`
	PostID       uint      `json:"post_id"`
	ParentID     *uint     `json:"parent_id"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
	CommentKarma int       `json:"comment_karma"`
	IsEdited     bool      `json:"is_edited"`
	HasParent    bool      `json:"has_parent"`
}

// CommentInfo is a comment with its author and the viewer's vote.
type CommentInfo struct {
	Author      PostAuthor   `json:"user_info"`
	Comment     CommentBody  `json:"comment_info"`
	CurrentUser *ViewerState `json:"current_user"`
}

// CommentNode is one comment and its replies.
type CommentNode struct {
	Comment  CommentInfo    `json:"comment"`
	Children []*CommentNode `json:"children"`
}

// PostThreadView is the response of GET /api/comments/post/:pid.
type PostThreadView struct {
	Post     *PostInfo      `json:"post_info"`
	Comments []*CommentNode `json:"comment_info"`
}

// MessageInfo is a message with both parties resolved.
type MessageInfo struct {
	ID        uint       `json:"message_id"`
	Sender    UserRef    `json:"sender"`
	Receiver  UserRef    `json:"receiver"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	Seen      bool       `json:"seen"`
	SeenAt    *time.Time `json:"seen_at"`
}
