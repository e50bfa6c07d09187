package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemService_Create(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "Owner", "owner@example.com")

	t.Run("unknown owner", func(t *testing.T) {
		_, err := env.items.Create(ctx, models.ItemDraft{Name: "Drill", Description: "d", Available: ptr(true)}, 999)
		assertKind(t, domain.KindNotFound, err)
	})

	t.Run("missing availability", func(t *testing.T) {
		_, err := env.items.Create(ctx, models.ItemDraft{Name: "Drill", Description: "d"}, owner.ID)
		assertKind(t, domain.KindValidation, err)
	})

	t.Run("blank name", func(t *testing.T) {
		_, err := env.items.Create(ctx, models.ItemDraft{Name: "  ", Description: "d", Available: ptr(true)}, owner.ID)
		assertKind(t, domain.KindValidation, err)
	})

	t.Run("missing request is dropped", func(t *testing.T) {
		item, err := env.items.Create(ctx, models.ItemDraft{
			Name: "Drill", Description: "d", Available: ptr(true), RequestID: ptr(int64(404)),
		}, owner.ID)
		require.NoError(t, err)
		assert.Nil(t, item.RequestID)
	})
}

func TestItemService_UpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "Owner", "owner@example.com")
	other := env.user(t, "Other", "other@example.com")
	item := env.item(t, owner.ID, "Drill", true)

	_, err := env.items.Update(ctx, models.ItemPatch{ID: item.ID, Name: ptr("Stolen")}, other.ID)
	assertKind(t, domain.KindForbidden, err)

	_, err = env.items.Update(ctx, models.ItemPatch{ID: item.ID, Name: ptr("x")}, 999)
	assertKind(t, domain.KindNotFound, err)

	_, err = env.items.Update(ctx, models.ItemPatch{ID: 999, Name: ptr("x")}, owner.ID)
	assertKind(t, domain.KindNotFound, err)

	updated, err := env.items.Update(ctx, models.ItemPatch{ID: item.ID, Available: ptr(false)}, owner.ID)
	require.NoError(t, err)
	assert.False(t, updated.Available)
	assert.Equal(t, "Drill", updated.Name)
	assert.Equal(t, "Drill for rent", updated.Description)

	assertKind(t, domain.KindForbidden, env.items.Delete(ctx, item.ID, other.ID))
	require.NoError(t, env.items.Delete(ctx, item.ID, owner.ID))

	_, err = env.items.GetByID(ctx, item.ID, owner.ID)
	assertKind(t, domain.KindNotFound, err)
}

func TestItemService_Search(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "Owner", "owner@example.com")

	skiX := env.item(t, owner.ID, "Ski X", true)
	env.item(t, owner.ID, "Ski Y", false)

	items, err := env.items.Search(ctx, "ski")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, skiX.ID, items[0].ID)

	drill := env.item(t, owner.ID, "Дрель", true)
	for _, text := range []string{"дрель", "ДРЕЛЬ", "Дрель"} {
		items, err = env.items.Search(ctx, text)
		require.NoError(t, err)
		require.Len(t, items, 1, text)
		assert.Equal(t, drill.ID, items[0].ID)
	}

	items, err = env.items.Search(ctx, "")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestItemService_BookingReferences(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "Owner", "owner@example.com")
	booker := env.user(t, "Booker", "booker@example.com")
	item := env.item(t, owner.ID, "Drill", true)

	first := env.book(t, item.ID, booker.ID, time.Hour, 2*time.Hour)
	second := env.book(t, item.ID, booker.ID, 5*time.Hour, 6*time.Hour)
	_, err := env.bookings.SetStatus(ctx, second.ID, owner.ID, true)
	require.NoError(t, err)

	// move past the first booking
	env.now = env.now.Add(3 * time.Hour)

	view, err := env.items.GetByID(ctx, item.ID, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, view.LastBooking)
	assert.Equal(t, models.BookingRef{ID: first.ID, BookerID: booker.ID}, *view.LastBooking)
	require.NotNil(t, view.NextBooking)
	assert.Equal(t, second.ID, view.NextBooking.ID)
	assert.NotNil(t, view.Comments)

	view, err = env.items.GetByID(ctx, item.ID, booker.ID)
	require.NoError(t, err)
	assert.Nil(t, view.LastBooking)
	assert.Nil(t, view.NextBooking)

	views, err := env.items.ListForOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.NotNil(t, views[0].LastBooking)

	_, err = env.items.ListForOwner(ctx, 999)
	assertKind(t, domain.KindNotFound, err)
}

func TestItemService_AddComment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "Owner", "owner@example.com")
	booker := env.user(t, "Booker", "booker@example.com")
	item := env.item(t, owner.ID, "Drill", true)

	draft := models.CommentDraft{ItemID: item.ID, AuthorID: booker.ID, Text: "Works great"}

	_, err := env.items.AddComment(ctx, draft)
	assertKind(t, domain.KindValidation, err)
	assert.Contains(t, err.Error(), "user has not used the item")

	b := env.book(t, item.ID, booker.ID, time.Hour, 2*time.Hour)
	_, err = env.bookings.SetStatus(ctx, b.ID, owner.ID, true)
	require.NoError(t, err)

	// approved but not finished yet
	_, err = env.items.AddComment(ctx, draft)
	assertKind(t, domain.KindValidation, err)

	env.now = env.now.Add(3 * time.Hour)
	comment, err := env.items.AddComment(ctx, draft)
	require.NoError(t, err)
	assert.Equal(t, "Booker", comment.AuthorName)
	assert.Equal(t, env.now, comment.Created)
	assert.Equal(t, 1, env.received[events.EventCommentAdded])

	view, err := env.items.GetByID(ctx, item.ID, booker.ID)
	require.NoError(t, err)
	require.Len(t, view.Comments, 1)
	assert.Equal(t, "Works great", view.Comments[0].Text)

	_, err = env.items.AddComment(ctx, models.CommentDraft{ItemID: item.ID, AuthorID: 999, Text: "x"})
	assertKind(t, domain.KindNotFound, err)
	_, err = env.items.AddComment(ctx, models.CommentDraft{ItemID: 999, AuthorID: booker.ID, Text: "x"})
	assertKind(t, domain.KindNotFound, err)
	_, err = env.items.AddComment(ctx, models.CommentDraft{ItemID: item.ID, AuthorID: booker.ID, Text: strings.Repeat("a", 513)})
	assertKind(t, domain.KindValidation, err)
}

func TestItemService_DeleteWithBookings(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "Owner", "owner@example.com")
	booker := env.user(t, "Booker", "booker@example.com")
	item := env.item(t, owner.ID, "Drill", true)
	env.book(t, item.ID, booker.ID, time.Hour, 2*time.Hour)

	assertKind(t, domain.KindConflict, env.items.Delete(context.Background(), item.ID, owner.ID))
}
