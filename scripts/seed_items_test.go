package main

import (
	"context"
	"io"
	"testing"

	"shareit/internal/config"
	"shareit/internal/database"
	"shareit/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const catalogYAML = `
owners:
  - name: Ann
    email: ann@example.com
    items:
      - name: Drill
        description: Cordless drill
      - name: Ladder
        description: Three meters
        available: false
  - name: Bob
    email: bob@example.com
    items:
      - name: Tent
        description: Four persons
`

func TestSeed(t *testing.T) {
	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(config.DriverSQLite, ":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var catalog Catalog
	require.NoError(t, yaml.Unmarshal([]byte(catalogYAML), &catalog))

	ctx := context.Background()
	users := service.NewUserService(db, &logger)
	items := service.NewItemService(db, nil, &logger)

	res, err := seed(ctx, catalog, users, items)
	require.NoError(t, err)
	assert.Equal(t, seedResult{usersCreated: 2, itemsCreated: 3}, res)

	catalog.Owners[0].Items[0].Description = "Cordless drill with two batteries"
	res, err = seed(ctx, catalog, users, items)
	require.NoError(t, err)
	assert.Equal(t, seedResult{itemsUpdated: 3}, res)

	all, err := users.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	owned, err := items.ListForOwner(ctx, all[0].ID)
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, "Cordless drill with two batteries", owned[0].Description)
	assert.False(t, owned[1].Available)
}

func TestSeedPaddedNames(t *testing.T) {
	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(config.DriverSQLite, ":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	catalog := Catalog{Owners: []CatalogOwner{{
		Name:  "Ann",
		Email: " ann@example.com ",
		Items: []CatalogItem{{Name: "  Drill ", Description: "Cordless drill"}},
	}}}

	ctx := context.Background()
	users := service.NewUserService(db, &logger)
	items := service.NewItemService(db, nil, &logger)

	res, err := seed(ctx, catalog, users, items)
	require.NoError(t, err)
	assert.Equal(t, seedResult{usersCreated: 1, itemsCreated: 1}, res)

	res, err = seed(ctx, catalog, users, items)
	require.NoError(t, err)
	assert.Equal(t, seedResult{itemsUpdated: 1}, res)

	all, err := users.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	owned, err := items.ListForOwner(ctx, all[0].ID)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, "Drill", owned[0].Name)
}
