package constants

import "time"

// Request context keys and cookie names
const (
	ContextKeyUser    = "user"
	ContextKeySession = "session_id"
	SessionCookieName = "session"
)

// Feed names accepted by /api/posts/:feed
const (
	FeedHome    = "home"
	FeedAll     = "all"
	FeedPopular = "popular"
)

// Post orderings
const (
	SortHot = "hot"
	SortTop = "top"
	SortNew = "new"
)

// Listing defaults
const (
	DefaultPageSize     = 20
	MaxPageSize         = 100
	HotCandidateWindow  = 500
	PopularThreadCount  = 10
	ThreadListingSize   = 20
	UserSearchLimit     = 10
	MediaFolderAvatars  = "avatars"
	MediaFolderPosts    = "posts"
	MediaFolderThreads  = "threads"
	ContentTypeMedia    = "media"
	ContentTypeURL      = "url"
	DefaultSortBy       = SortHot
	DefaultDurationName = "alltime"
)

// Durations maps a duration query value to its look-back window. Zero means unbounded.
var Durations = map[string]time.Duration{
	"day":     24 * time.Hour,
	"week":    7 * 24 * time.Hour,
	"month":   30 * 24 * time.Hour,
	"year":    365 * 24 * time.Hour,
	"alltime": 0,
}
