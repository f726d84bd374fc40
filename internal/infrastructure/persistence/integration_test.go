package persistence_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/threaddit/backend/internal/config"
	"github.com/threaddit/backend/internal/domain/models"
	"github.com/threaddit/backend/internal/domain/ports"
	"github.com/threaddit/backend/internal/infrastructure/database"
	"github.com/threaddit/backend/internal/infrastructure/persistence"
	"github.com/threaddit/backend/pkg/utils"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	if os.Getenv("DATABASE_URI") == "" || os.Getenv("RUN_DB_TESTS") == "" {
		t.Skip("set DATABASE_URI and RUN_DB_TESTS to run database integration tests")
	}
	cfg := &config.Config{DatabaseURI: os.Getenv("DATABASE_URI"), DBMaxConns: 4}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Open(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(ctx, db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func TestIntegration_ThreadLifecycle(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	users := persistence.NewUserRepository(db)
	threads := persistence.NewThreadRepository(db, persistence.NewTransactionManager(db))
	posts := persistence.NewPostRepository(db)

	suffix := utils.GenerateID()[:8]
	owner := &models.User{Username: "it_" + suffix, Email: "it_" + suffix + "@example.com", PasswordHash: "x"}
	require.NoError(t, users.Create(ctx, owner))
	t.Cleanup(func() { _ = users.Delete(ctx, owner.ID) })

	thread := &models.Subthread{Name: "t/it_" + suffix, Description: "integration", CreatedBy: &owner.ID}
	require.NoError(t, threads.Create(ctx, thread))

	isMod, err := threads.IsModerator(ctx, owner.ID, thread.ID)
	require.NoError(t, err)
	assert.True(t, isMod, "creator should moderate the new thread")

	subscribed, err := threads.SubscribedIDs(ctx, owner.ID)
	require.NoError(t, err)
	assert.Contains(t, subscribed, thread.ID)

	post := &models.Post{UserID: owner.ID, SubthreadID: thread.ID, Title: "hello"}
	require.NoError(t, posts.Create(ctx, post))
	require.NoError(t, posts.Save(ctx, owner.ID, post.ID))
	require.NoError(t, posts.Save(ctx, owner.ID, post.ID))

	saved, err := posts.List(ctx, ports.PostQuery{SavedBy: owner.ID, ViewerID: owner.ID})
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.True(t, saved[0].CurrentUser.Saved)

	info, err := threads.Info(ctx, thread.ID, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, 1, info.PostsCount)
	assert.Equal(t, []string{owner.Username}, info.Modlist)
}
