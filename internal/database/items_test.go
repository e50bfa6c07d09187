package database

import (
	"context"
	"testing"
	"time"

	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "Owner", "owner@example.com")

	item := seedItem(t, db, owner.ID, "Drill", true)
	assert.NotZero(t, item.ID)

	found, err := db.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Drill", found.Name)
	assert.True(t, found.Available)
	assert.Nil(t, found.RequestID)

	found.Available = false
	found.Description = "Cordless"
	require.NoError(t, db.UpdateItem(ctx, found))

	found, err = db.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, found.Available)
	assert.Equal(t, "Cordless", found.Description)

	seedItem(t, db, owner.ID, "Saw", true)
	items, err := db.ListItemsByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Drill", items[0].Name)
	assert.Equal(t, "Saw", items[1].Name)

	require.NoError(t, db.DeleteItem(ctx, item.ID))
	_, err = db.GetItem(ctx, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, db.DeleteItem(ctx, item.ID), ErrNotFound)
}

func TestSearchItems(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "Owner", "owner@example.com")

	skiX := seedItem(t, db, owner.ID, "Ski X", true)
	seedItem(t, db, owner.ID, "Ski Y", false)
	seedItem(t, db, owner.ID, "Hammer", true)
	pct := seedItem(t, db, owner.ID, "100% cotton tent", true)
	drill := seedItem(t, db, owner.ID, "Дрель Ударная", true)

	tests := []struct {
		name string
		text string
		want []int64
	}{
		{"only available matches", "ski", []int64{skiX.ID}},
		{"case insensitive", "SKI", []int64{skiX.ID}},
		{"matches description", "x desc", []int64{skiX.ID}},
		{"blank text", "   ", nil},
		{"no match", "boat", nil},
		{"like metacharacters are literal", "0%", []int64{pct.ID}},
		{"underscore is literal", "_", nil},
		{"cyrillic lower", "дрель", []int64{drill.ID}},
		{"cyrillic upper", "ДРЕЛЬ", []int64{drill.ID}},
		{"cyrillic exact case", "Дрель", []int64{drill.ID}},
		{"cyrillic mixed case in middle", "уДАРн", []int64{drill.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := db.SearchItems(ctx, tt.text)
			require.NoError(t, err)
			var ids []int64
			for _, it := range items {
				ids = append(ids, it.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestItemsByRequest(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "Author", "author@example.com")
	owner := seedUser(t, db, "Owner", "owner@example.com")

	req := &models.ItemRequest{AuthorID: author.ID, Description: "need a drill", Created: time.Now()}
	require.NoError(t, db.CreateRequest(ctx, req))

	first := &models.Item{Name: "Drill", Description: "d", Available: true, OwnerID: owner.ID, RequestID: &req.ID}
	second := &models.Item{Name: "Drill 2", Description: "d", Available: true, OwnerID: owner.ID, RequestID: &req.ID}
	require.NoError(t, db.CreateItem(ctx, first))
	require.NoError(t, db.CreateItem(ctx, second))
	seedItem(t, db, owner.ID, "Unrelated", true)

	items, err := db.ListItemsByRequest(ctx, req.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID)
	require.NotNil(t, items[0].RequestID)
	assert.Equal(t, req.ID, *items[0].RequestID)
}
