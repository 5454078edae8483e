package mysql

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/blog_service/internal/testdb"
	"github.com/Xushengqwer/blog_service/models/entities"
)

func TestSettingsRepository_SingleRow(t *testing.T) {
	db := testdb.New(t)
	repo := NewSettingsRepository(db, zap.NewNop())
	ctx := context.Background()

	first, err := repo.GetOrCreateSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, entities.SiteSettingsID, first.ID)
	assert.False(t, first.Twitter.Valid)

	_, err = repo.GetOrCreateSettings(ctx)
	require.NoError(t, err)

	first.Twitter = sql.NullString{String: "https://twitter.com/blog", Valid: true}
	require.NoError(t, repo.SaveSettings(ctx, first))
	require.NoError(t, repo.SaveSettings(ctx, &entities.SiteSettings{YouTube: sql.NullString{String: "https://youtube.com/@blog", Valid: true}}))

	var count int64
	require.NoError(t, db.Model(&entities.SiteSettings{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	got, err := repo.GetOrCreateSettings(ctx)
	require.NoError(t, err)
	assert.False(t, got.Twitter.Valid, "saving overwrites every link")
	assert.Equal(t, "https://youtube.com/@blog", got.YouTube.String)
}

func TestSettingsRepository_ReadsDoNotWrite(t *testing.T) {
	db := testdb.New(t)
	repo := NewSettingsRepository(db, zap.NewNop())
	ctx := context.Background()

	var inserts int
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:count_inserts", func(*gorm.DB) {
		inserts++
	}))

	for i := 0; i < 5; i++ {
		settings, err := repo.GetOrCreateSettings(ctx)
		require.NoError(t, err)
		assert.Equal(t, entities.SiteSettingsID, settings.ID)
	}
	assert.Equal(t, 1, inserts, "only the first call creates the row")
}
