package dependencies

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestSQLiteLowerFoldsUnicode(t *testing.T) {
	require.NoError(t, RegisterSQLiteFunctions())
	require.NoError(t, RegisterSQLiteFunctions(), "second registration is a no-op")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	var lowered string
	require.NoError(t, db.Raw("SELECT LOWER(?)", "ÜBER Straße ÀÉ").Scan(&lowered).Error)
	assert.Equal(t, "über straße àé", lowered)

	var matched bool
	require.NoError(t, db.Raw("SELECT LOWER(?) LIKE LOWER(?)", "Über Alles", "%üBER%").Scan(&matched).Error)
	assert.True(t, matched)

	var null *string
	require.NoError(t, db.Raw("SELECT LOWER(NULL)").Scan(&null).Error)
	assert.Nil(t, null)
}
