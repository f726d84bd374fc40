package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/threaddit/backend/internal/domain/models"
	"github.com/threaddit/backend/internal/domain/ports"
	"github.com/threaddit/backend/pkg/errors"
	"github.com/threaddit/backend/pkg/ranking"
)

type postFixture struct {
	svc     *PostService
	posts   *MockPostRepository
	threads *MockThreadRepository
	users   *MockUserRepository
	store   *MockMediaStore
	now     time.Time
}

func newPostFixture(t *testing.T) *postFixture {
	t.Helper()
	ranker, err := ranking.NewRanker("karma + comments")
	require.NoError(t, err)

	f := &postFixture{
		posts:   new(MockPostRepository),
		threads: new(MockThreadRepository),
		users:   new(MockUserRepository),
		store:   new(MockMediaStore),
		now:     time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	mods := NewThreadService(f.threads, f.users, f.store, 10<<20)
	f.svc = NewPostService(f.posts, f.threads, f.users, mods, ranker, f.store, 10<<20)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func postWith(id uint, karma, comments int) models.PostInfo {
	return models.PostInfo{Post: models.PostBody{ID: id, PostKarma: karma, CommentsCount: comments}}
}

func ids(posts []models.PostInfo) []uint {
	out := make([]uint, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Post.ID)
	}
	return out
}

func TestPostService_Feed_HomeRequiresLogin(t *testing.T) {
	f := newPostFixture(t)

	_, err := f.svc.Feed(context.Background(), nil, "home", ListQuery{})
	uerr, ok := errors.AsUnauthorized(err)
	require.True(t, ok)
	assert.Empty(t, uerr.Reason)
}

func TestPostService_Feed_HomeWithoutSubscriptions(t *testing.T) {
	f := newPostFixture(t)
	f.threads.On("SubscribedIDs", mock.Anything, uint(1)).Return([]uint(nil), nil)
	f.posts.On("List", mock.Anything, mock.MatchedBy(func(q ports.PostQuery) bool {
		return q.ThreadIDs != nil && len(q.ThreadIDs) == 0
	})).Return([]models.PostInfo{}, nil)

	posts, err := f.svc.Feed(context.Background(), &models.User{ID: 1}, "home", ListQuery{SortBy: "new"})
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostService_Feed_PopularTopWeek(t *testing.T) {
	f := newPostFixture(t)
	f.threads.On("PopularIDs", mock.Anything, 10).Return([]uint{3, 4}, nil)
	expected := ports.PostQuery{
		ThreadIDs: []uint{3, 4},
		Since:     f.now.Add(-7 * 24 * time.Hour),
		OrderBy:   ports.OrderTop,
		Limit:     5,
		Offset:    10,
	}
	f.posts.On("List", mock.Anything, expected).Return([]models.PostInfo{postWith(1, 9, 0)}, nil)

	posts, err := f.svc.Feed(context.Background(), nil, "popular", ListQuery{SortBy: "top", Duration: "week", Limit: 5, Offset: 10})
	require.NoError(t, err)
	assert.Equal(t, []uint{1}, ids(posts))
	f.posts.AssertExpectations(t)
}

func TestPostService_Feed_HotRanksCandidateWindow(t *testing.T) {
	f := newPostFixture(t)
	f.posts.On("List", mock.Anything, ports.PostQuery{OrderBy: ports.OrderNew, Limit: 500, ViewerID: 2}).
		Return([]models.PostInfo{postWith(1, 1, 0), postWith(2, 10, 5), postWith(3, -2, 0), postWith(4, 3, 1)}, nil)

	posts, err := f.svc.Feed(context.Background(), &models.User{ID: 2}, "all", ListQuery{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 4}, ids(posts))

	posts, err = f.svc.Feed(context.Background(), &models.User{ID: 2}, "all", ListQuery{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 3}, ids(posts))

	posts, err = f.svc.Feed(context.Background(), &models.User{ID: 2}, "all", ListQuery{Offset: 50})
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostService_Feed_InvalidQuery(t *testing.T) {
	f := newPostFixture(t)

	_, err := f.svc.Feed(context.Background(), nil, "all", ListQuery{SortBy: "random"})
	assert.True(t, errors.IsValidation(err))

	_, err = f.svc.Feed(context.Background(), nil, "all", ListQuery{Duration: "decade"})
	assert.True(t, errors.IsValidation(err))

	_, err = f.svc.Feed(context.Background(), nil, "trending", ListQuery{})
	assert.True(t, errors.IsNotFound(err))
}

func TestPostService_Create_MediaRules(t *testing.T) {
	f := newPostFixture(t)
	f.threads.On("GetByID", mock.Anything, uint(3)).Return(&models.Subthread{ID: 3, Name: "t/go"}, nil)
	title := "A picture"
	user := &models.User{ID: 1}

	_, err := f.svc.Create(context.Background(), user, PostInput{ThreadID: 3, Title: &title, ContentType: "media"})
	verr, ok := errors.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "media")

	_, err = f.svc.Create(context.Background(), user, PostInput{
		ThreadID: 3, Title: &title, ContentType: "media",
		Media: &MediaInput{Reader: strings.NewReader(""), Filename: "huge.gif", Size: 11 << 20},
	})
	verr, ok = errors.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, []string{"File exceeds the 10 MB limit."}, verr.Fields["media"])
	f.store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestPostService_Create_WithUpload(t *testing.T) {
	f := newPostFixture(t)
	f.threads.On("GetByID", mock.Anything, uint(3)).Return(&models.Subthread{ID: 3, Name: "t/go"}, nil)
	f.store.On("Upload", mock.Anything, mock.Anything, ports.MediaUpload{Folder: "posts", Filename: "cat.png"}).
		Return(&ports.MediaAsset{URL: "https://cdn/cat.png", PublicID: "threaddit/posts/cat"}, nil)
	f.posts.On("Create", mock.Anything, mock.AnythingOfType("*models.Post")).
		Run(func(args mock.Arguments) {
			p := args.Get(1).(*models.Post)
			assert.Equal(t, "Cat", p.Title)
			assert.Equal(t, "https://cdn/cat.png", p.Media)
			p.ID = 21
		}).
		Return(nil)
	f.posts.On("Info", mock.Anything, uint(21), uint(1)).Return(&models.PostInfo{Post: models.PostBody{ID: 21}}, nil)

	title := "<b>Cat</b>"
	info, err := f.svc.Create(context.Background(), &models.User{ID: 1}, PostInput{
		ThreadID: 3, Title: &title, ContentType: "media",
		Media: &MediaInput{Reader: strings.NewReader("png"), Filename: "cat.png", Size: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, uint(21), info.Post.ID)
}

func TestPostService_Update_AuthorOnly(t *testing.T) {
	f := newPostFixture(t)
	f.posts.On("GetByID", mock.Anything, uint(5)).Return(&models.Post{ID: 5, UserID: 1}, nil)

	title := "edited"
	_, err := f.svc.Update(context.Background(), &models.User{ID: 2, IsAdmin: true}, 5, PostInput{Title: &title})
	assert.True(t, errors.IsPermission(err))
}

func TestPostService_Delete_ModeratorRemovesMedia(t *testing.T) {
	f := newPostFixture(t)
	f.posts.On("GetByID", mock.Anything, uint(5)).Return(&models.Post{ID: 5, UserID: 1, SubthreadID: 3, MediaPublicID: "threaddit/posts/x"}, nil)
	f.threads.On("IsModerator", mock.Anything, uint(2), uint(3)).Return(true, nil)
	f.threads.On("IsModerator", mock.Anything, uint(9), uint(3)).Return(false, nil)
	f.posts.On("Delete", mock.Anything, uint(5)).Return(nil)
	f.store.On("Delete", mock.Anything, "threaddit/posts/x").Return(nil)

	err := f.svc.Delete(context.Background(), &models.User{ID: 9}, 5)
	assert.True(t, errors.IsPermission(err))

	require.NoError(t, f.svc.Delete(context.Background(), &models.User{ID: 2}, 5))
	f.posts.AssertCalled(t, "Delete", mock.Anything, uint(5))
	f.store.AssertExpectations(t)
}
