package database

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// dryRunDB builds statements without opening a connection.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=portfolio dbname=portfolio sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Discard,
	})
	require.NoError(t, err)
	return db
}

// pinnedReads records, per table, whether the last SELECT was pinned to the
// write source by dbresolver.Write.
func pinnedReads(t *testing.T, db *gorm.DB) map[string]bool {
	t.Helper()
	pinned := map[string]bool{}
	err := db.Callback().Query().After("gorm:query").Register("test:pinned_reads", func(tx *gorm.DB) {
		_, write := tx.Statement.Settings.Load("gorm:db_resolver:write")
		pinned[tx.Statement.Table] = write
	})
	require.NoError(t, err)
	return pinned
}

func TestPhotoRepo_FindByHashReadsPrimary(t *testing.T) {
	db := dryRunDB(t)
	pinned := pinnedReads(t, db)
	repo := NewPhotoRepo(db)

	_, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.False(t, pinned["photos"])

	photo, err := repo.FindByHash(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Nil(t, photo)
	assert.True(t, pinned["photos"])
}

func TestTagRepo_UpsertReadsBackFromPrimary(t *testing.T) {
	db := dryRunDB(t)
	pinned := pinnedReads(t, db)

	_, err := NewTagRepo(db).Upsert(context.Background(), "beach")
	require.NoError(t, err)
	assert.True(t, pinned["tags"])
}

func TestUnlinkAll_DeletesOnlyThePhotosLinks(t *testing.T) {
	db := dryRunDB(t)
	var statements []string
	err := db.Callback().Delete().After("gorm:delete").Register("test:statements", func(tx *gorm.DB) {
		statements = append(statements, tx.Statement.SQL.String())
	})
	require.NoError(t, err)

	require.NoError(t, unlinkAll(db, uuid.New()))
	require.Len(t, statements, 1)
	assert.Equal(t, `DELETE FROM "photo_tags" WHERE photo_id = $1`, statements[0])
}
