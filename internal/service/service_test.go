package service

import (
	"context"
	"io"
	"testing"
	"time"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db       *database.DB
	bus      *events.EventBus
	users    *UserService
	items    *ItemService
	bookings *BookingService
	requests *RequestService
	now      time.Time
	received map[string]int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zerolog.New(io.Discard)
	db, err := database.NewDB("sqlite3", ":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := &testEnv{
		db:       db,
		bus:      events.NewEventBus(),
		now:      time.Now().UTC().Truncate(time.Second),
		received: map[string]int{},
	}
	env.bus.SubscribeAll(func(e *events.Event) error {
		env.received[e.Type]++
		return nil
	})

	clock := func() time.Time { return env.now }
	env.users = NewUserService(db, &logger)
	env.items = NewItemService(db, env.bus, &logger)
	env.items.now = clock
	env.bookings = NewBookingService(db, env.bus, &logger)
	env.bookings.now = clock
	env.requests = NewRequestService(db, env.items, env.bus, &logger)
	env.requests.now = clock
	return env
}

func (e *testEnv) user(t *testing.T, name, email string) *models.User {
	t.Helper()
	u, err := e.users.Create(context.Background(), &models.User{Name: name, Email: email})
	require.NoError(t, err)
	return u
}

func (e *testEnv) item(t *testing.T, ownerID int64, name string, available bool) *models.Item {
	t.Helper()
	it, err := e.items.Create(context.Background(), models.ItemDraft{
		Name:        name,
		Description: name + " for rent",
		Available:   &available,
	}, ownerID)
	require.NoError(t, err)
	return it
}

func (e *testEnv) book(t *testing.T, itemID, bookerID int64, start, end time.Duration) *models.BookingView {
	t.Helper()
	s, en := e.now.Add(start), e.now.Add(end)
	b, err := e.bookings.Create(context.Background(), models.BookingDraft{
		ItemID:   itemID,
		BookerID: bookerID,
		Start:    &s,
		End:      &en,
	})
	require.NoError(t, err)
	return b
}

func assertKind(t *testing.T, want domain.Kind, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want, domain.KindOf(err), "unexpected error: %v", err)
}

func ptr[T any](v T) *T { return &v }
