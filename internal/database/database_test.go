package database

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	logger := zerolog.New(io.Discard)
	db, err := NewDB("sqlite3", ":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedUser(t *testing.T, db *DB, name, email string) *models.User {
	u := &models.User{Name: name, Email: email}
	require.NoError(t, db.CreateUser(context.Background(), u))
	return u
}

func seedItem(t *testing.T, db *DB, ownerID int64, name string, available bool) *models.Item {
	it := &models.Item{Name: name, Description: name + " description", Available: available, OwnerID: ownerID}
	require.NoError(t, db.CreateItem(context.Background(), it))
	return it
}

func TestNewDB_DirectoryCreation(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "shareit.db")

	logger := zerolog.New(io.Discard)
	db, err := NewDB("sqlite3", dbPath, &logger)
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(filepath.Dir(dbPath))
	assert.NoError(t, err)
}

func TestNewDB_UnknownDriver(t *testing.T) {
	logger := zerolog.New(io.Discard)
	_, err := NewDB("oracle", "whatever", &logger)
	assert.Error(t, err)
}

func TestDB_Ping(t *testing.T) {
	db := setupTestDB(t)
	assert.NoError(t, db.Ping(context.Background()))
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, ":memory:?_foreign_keys=on", sqliteDSN(":memory:"))
	assert.Equal(t, "data/x.db?cache=shared&_foreign_keys=on", sqliteDSN("data/x.db?cache=shared"))
	assert.Equal(t, "x.db?_foreign_keys=off", sqliteDSN("x.db?_foreign_keys=off"))

	assert.Equal(t, "", sqlitePath(":memory:?_foreign_keys=on"))
	assert.Equal(t, "data/x.db", sqlitePath("file:data/x.db?mode=rwc"))
}

func TestForeignKeysEnforced(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	err := db.CreateItem(ctx, &models.Item{Name: "Drill", Description: "d", Available: true, OwnerID: 999})
	assert.ErrorIs(t, err, ErrReferenced)
}
