package constants

// Table names used by the gorm models and the raw aggregate queries.
const (
	TableUser         = "users"
	TableSubthread    = "subthreads"
	TableModerator    = "moderators"
	TableSubscription = "subscriptions"
	TablePost         = "posts"
	TableSavedPost    = "saved_posts"
	TableComment      = "comments"
	TableReaction     = "reactions"
	TableMessage      = "messages"
	TableSession      = "sessions"
)

// ForumTables lists every table in drop-safe order (dependents first).
func ForumTables() []string {
	return []string{
		TableSession,
		TableMessage,
		TableReaction,
		TableComment,
		TableSavedPost,
		TablePost,
		TableSubscription,
		TableModerator,
		TableSubthread,
		TableUser,
	}
}
