// Package services provides the business logic layer of the forum.
//
// This package contains the service implementations behind the HTTP route groups:
//   - Session issuance, validation and revocation (AuthService)
//   - Accounts, profiles and karma (UserService)
//   - Threads, subscriptions and moderators (ThreadService)
//   - Posts, feeds with hot/top/new ordering, and bookmarks (PostService)
//   - Comment trees (CommentService)
//   - Votes on posts and comments (ReactionService)
//   - Private messages (MessageService)
//   - Periodic session purging (SchedulerService)
//
// Services depend on the repository ports in internal/domain/ports and return
// typed errors from pkg/errors, which the REST layer maps to HTTP responses.
package services
