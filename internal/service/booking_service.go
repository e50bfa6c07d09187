package service

import (
	"context"
	"errors"
	"time"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/metrics"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type BookingService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewBookingService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// bookingTarget is what draft validation resolved; it lives only for one call.
type bookingTarget struct {
	item   *models.Item
	booker *models.User
}

// validateDraft checks a booking draft in order and reports the first failure.
func (s *BookingService) validateDraft(ctx context.Context, draft models.BookingDraft, now time.Time) (bookingTarget, error) {
	var target bookingTarget

	// Даты из прошлого отсекаются до обращения к хранилищу.
	if draft.Start != nil && draft.Start.Before(now) {
		return target, domain.Validation("booking start must not be in the past")
	}
	if draft.End != nil && !draft.End.After(now) {
		return target, domain.Validation("booking end must be in the future")
	}

	item, err := s.repo.GetItem(ctx, draft.ItemID)
	if err != nil {
		return target, lookupErr(err, "item %d not found", draft.ItemID)
	}
	booker, err := s.repo.GetUser(ctx, draft.BookerID)
	if err != nil {
		return target, lookupErr(err, "user %d not found", draft.BookerID)
	}

	if draft.Start == nil || draft.End == nil {
		return target, domain.Validation("booking start and end are required")
	}
	start, end := *draft.Start, *draft.End
	if !start.Before(end) {
		return target, domain.Validation("booking start must be before its end")
	}
	if !item.Available {
		return target, domain.Validation("item %d is not available", item.ID)
	}
	if item.OwnerID == booker.ID {
		return target, domain.NotFound("owner cannot book own item %d", item.ID)
	}

	target.item = item
	target.booker = booker
	return target, nil
}

// Create stores a WAITING booking after validation and the overlap check.
func (s *BookingService) Create(ctx context.Context, draft models.BookingDraft) (*models.BookingView, error) {
	target, err := s.validateDraft(ctx, draft, s.now())
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		Start:    draft.Start.UTC(),
		End:      draft.End.UTC(),
		ItemID:   target.item.ID,
		BookerID: target.booker.ID,
		Status:   models.StatusWaiting,
	}
	if err := s.repo.CreateBookingExclusive(ctx, booking); err != nil {
		if errors.Is(err, database.ErrOverlap) {
			return nil, domain.Conflict(err, "item %d is already booked for this period", booking.ItemID)
		}
		return nil, err
	}

	metrics.IncBookingTransition(string(booking.Status))
	s.publishEvent(events.EventBookingCreated, *booking, target.item.Name, 0)
	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("item_id", booking.ItemID).
		Int64("booker_id", booking.BookerID).
		Msg("booking created")

	return &models.BookingView{
		ID:     booking.ID,
		Start:  booking.Start,
		End:    booking.End,
		Status: booking.Status,
		Item:   models.ItemShort{ID: target.item.ID, Name: target.item.Name},
		Booker: models.UserShort{ID: target.booker.ID, Name: target.booker.Name},
	}, nil
}

// SetStatus approves or rejects a WAITING booking on behalf of the item owner.
func (s *BookingService) SetStatus(ctx context.Context, bookingID, actingUserID int64, approve bool) (*models.BookingView, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, lookupErr(err, "booking %d not found", bookingID)
	}
	item, err := s.repo.GetItem(ctx, booking.ItemID)
	if err != nil {
		return nil, lookupErr(err, "item %d not found", booking.ItemID)
	}
	if item.OwnerID != actingUserID {
		return nil, domain.NotFound("booking %d not found for owner %d", bookingID, actingUserID)
	}

	target := models.StatusRejected
	eventType := events.EventBookingRejected
	if approve {
		target = models.StatusApproved
		eventType = events.EventBookingApproved
	}

	if booking.Status == target {
		return nil, domain.Validation("status already set")
	}
	if booking.Status != models.StatusWaiting {
		return nil, domain.Validation("booking is not awaiting approval")
	}

	updated, err := s.repo.TransitionBooking(ctx, bookingID, models.StatusWaiting, target)
	if err != nil {
		if errors.Is(err, database.ErrStaleStatus) {
			return nil, domain.Validation("booking is not awaiting approval")
		}
		return nil, lookupErr(err, "booking %d not found", bookingID)
	}

	metrics.IncBookingTransition(string(target))
	s.publishEvent(eventType, *updated, item.Name, actingUserID)
	s.logger.Info().Int64("booking_id", bookingID).Str("status", string(target)).Msg("booking status changed")

	view, err := s.repo.GetBookingView(ctx, bookingID)
	if err != nil {
		return nil, lookupErr(err, "booking %d not found", bookingID)
	}
	return view, nil
}

// GetByID is visible to the booker and to the owner of the booked item only.
func (s *BookingService) GetByID(ctx context.Context, bookingID, requestingUserID int64) (*models.BookingView, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, lookupErr(err, "booking %d not found", bookingID)
	}

	if booking.BookerID != requestingUserID {
		item, err := s.repo.GetItem(ctx, booking.ItemID)
		if err != nil {
			return nil, lookupErr(err, "item %d not found", booking.ItemID)
		}
		if item.OwnerID != requestingUserID {
			return nil, domain.NotFound("booking %d not found", bookingID)
		}
	}

	view, err := s.repo.GetBookingView(ctx, bookingID)
	if err != nil {
		return nil, lookupErr(err, "booking %d not found", bookingID)
	}
	return view, nil
}

func (s *BookingService) ListForBooker(ctx context.Context, bookerID int64, facet string, page models.Page) ([]models.BookingView, error) {
	return s.list(ctx, models.AnchorBooker, bookerID, facet, page)
}

func (s *BookingService) ListForOwner(ctx context.Context, ownerID int64, facet string, page models.Page) ([]models.BookingView, error) {
	return s.list(ctx, models.AnchorOwner, ownerID, facet, page)
}

func (s *BookingService) list(ctx context.Context, anchor models.Anchor, userID int64, rawFacet string, page models.Page) ([]models.BookingView, error) {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, lookupErr(err, "user %d not found", userID)
	}

	facet, ok := models.ParseFacet(rawFacet)
	if !ok {
		return nil, domain.Validation("Unknown state: %s", rawFacet)
	}

	return s.repo.ListBookingViews(ctx, models.BookingFilter{
		Anchor:   anchor,
		AnchorID: userID,
		Facet:    facet,
		Now:      s.now(),
		Page:     page,
	})
}

func (s *BookingService) publishEvent(eventType string, booking models.Booking, itemName string, changedBy int64) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID: booking.ID,
		ItemID:    booking.ItemID,
		ItemName:  itemName,
		BookerID:  booking.BookerID,
		Status:    string(booking.Status),
		Start:     booking.Start,
		End:       booking.End,
		ChangedBy: changedBy,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}
