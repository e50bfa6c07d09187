package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type ItemService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewItemService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *ItemService {
	return &ItemService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ListForOwner returns every item of the owner with booking references and comments.
func (s *ItemService) ListForOwner(ctx context.Context, ownerID int64) ([]models.ItemView, error) {
	if _, err := s.requireUser(ctx, ownerID); err != nil {
		return nil, err
	}

	items, err := s.repo.ListItemsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	views := make([]models.ItemView, 0, len(items))
	for _, item := range items {
		view, err := s.buildView(ctx, item, true, now)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// GetByID returns the item with its comments. Booking references are only
// attached when the owner asks.
func (s *ItemService) GetByID(ctx context.Context, id, requestingUserID int64) (*models.ItemView, error) {
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "item %d not found", id)
	}

	view, err := s.buildView(ctx, item, item.OwnerID == requestingUserID, s.now())
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *ItemService) buildView(ctx context.Context, item *models.Item, withBookings bool, now time.Time) (models.ItemView, error) {
	view := models.ItemView{Item: *item}

	if withBookings {
		last, err := s.repo.LastBooking(ctx, item.ID, now)
		if err != nil {
			return view, err
		}
		if last != nil {
			view.LastBooking = &models.BookingRef{ID: last.ID, BookerID: last.BookerID}
		}

		next, err := s.repo.NextBooking(ctx, item.ID, now)
		if err != nil {
			return view, err
		}
		if next != nil {
			view.NextBooking = &models.BookingRef{ID: next.ID, BookerID: next.BookerID}
		}
	}

	comments, err := s.repo.ListCommentViews(ctx, item.ID)
	if err != nil {
		return view, err
	}
	view.Comments = emptyIfNil(comments)
	return view, nil
}

func (s *ItemService) Create(ctx context.Context, draft models.ItemDraft, ownerID int64) (*models.Item, error) {
	if _, err := s.requireUser(ctx, ownerID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(draft.Name)
	description := strings.TrimSpace(draft.Description)
	if name == "" {
		return nil, domain.Validation("item name is required")
	}
	if description == "" {
		return nil, domain.Validation("item description is required")
	}
	if draft.Available == nil {
		return nil, domain.Validation("item availability is required")
	}

	requestID, err := s.resolveRequest(ctx, draft.RequestID)
	if err != nil {
		return nil, err
	}

	item := &models.Item{
		Name:        name,
		Description: description,
		Available:   *draft.Available,
		OwnerID:     ownerID,
		RequestID:   requestID,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("item_id", item.ID).Int64("owner_id", ownerID).Msg("item created")
	return item, nil
}

// Update applies the non-nil fields of patch; only the owner may do so.
func (s *ItemService) Update(ctx context.Context, patch models.ItemPatch, requestingUserID int64) (*models.Item, error) {
	item, err := s.ownedItem(ctx, patch.ID, requestingUserID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, domain.Validation("item name must not be blank")
	}
	if patch.Description != nil && strings.TrimSpace(*patch.Description) == "" {
		return nil, domain.Validation("item description must not be blank")
	}
	patch.Apply(item)

	if patch.RequestID != nil {
		if item.RequestID, err = s.resolveRequest(ctx, patch.RequestID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, lookupErr(err, "item %d not found", item.ID)
	}

	s.logger.Debug().Int64("item_id", item.ID).Msg("item updated")
	return item, nil
}

func (s *ItemService) Delete(ctx context.Context, id, requestingUserID int64) error {
	if _, err := s.ownedItem(ctx, id, requestingUserID); err != nil {
		return err
	}

	err := s.repo.DeleteItem(ctx, id)
	switch {
	case err == nil:
		s.logger.Info().Int64("item_id", id).Msg("item deleted")
		return nil
	case errors.Is(err, database.ErrReferenced):
		return domain.Conflict(err, "item %d has bookings or comments", id)
	default:
		return lookupErr(err, "item %d not found", id)
	}
}

// Search matches available items by name or description. Blank text yields nothing.
func (s *ItemService) Search(ctx context.Context, text string) ([]*models.Item, error) {
	if strings.TrimSpace(text) == "" {
		return []*models.Item{}, nil
	}
	items, err := s.repo.SearchItems(ctx, text)
	if err != nil {
		return nil, err
	}
	return emptyIfNil(items), nil
}

// ListForRequest returns items created in answer to a request, newest first.
func (s *ItemService) ListForRequest(ctx context.Context, requestID int64) ([]models.Item, error) {
	items, err := s.repo.ListItemsByRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	out := make([]models.Item, 0, len(items))
	for _, it := range items {
		out = append(out, *it)
	}
	return out, nil
}

// AddComment stores a comment of a user who has finished an approved booking of the item.
func (s *ItemService) AddComment(ctx context.Context, draft models.CommentDraft) (*models.CommentView, error) {
	author, err := s.requireUser(ctx, draft.AuthorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetItem(ctx, draft.ItemID); err != nil {
		return nil, lookupErr(err, "item %d not found", draft.ItemID)
	}

	text := strings.TrimSpace(draft.Text)
	if text == "" {
		return nil, domain.Validation("comment text is required")
	}
	if utf8.RuneCountInString(text) > models.CommentTextMax {
		return nil, domain.Validation("comment text is longer than %d characters", models.CommentTextMax)
	}

	now := s.now()
	used, err := s.repo.HasCompletedBooking(ctx, draft.ItemID, author.ID, now)
	if err != nil {
		return nil, err
	}
	if !used {
		return nil, domain.Validation("user has not used the item")
	}

	comment := &models.Comment{ItemID: draft.ItemID, AuthorID: author.ID, Text: text, Created: now}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	s.publish(events.EventCommentAdded, events.CommentEventPayload{
		CommentID: comment.ID,
		ItemID:    comment.ItemID,
		AuthorID:  comment.AuthorID,
	})

	return &models.CommentView{
		ID:         comment.ID,
		Text:       comment.Text,
		AuthorName: author.Name,
		Created:    comment.Created,
	}, nil
}

func (s *ItemService) requireUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "user %d not found", id)
	}
	return user, nil
}

// ownedItem loads the item after checking that userID exists and owns it.
func (s *ItemService) ownedItem(ctx context.Context, itemID, userID int64) (*models.Item, error) {
	if _, err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, lookupErr(err, "item %d not found", itemID)
	}
	if item.OwnerID != userID {
		return nil, domain.Forbidden("user %d is not the owner of item %d", userID, itemID)
	}
	return item, nil
}

// resolveRequest keeps a request reference only when the request exists.
func (s *ItemService) resolveRequest(ctx context.Context, requestID *int64) (*int64, error) {
	if requestID == nil {
		return nil, nil
	}

	req, err := s.repo.GetRequest(ctx, *requestID)
	if errors.Is(err, database.ErrNotFound) {
		s.logger.Debug().Int64("request_id", *requestID).Msg("referenced request not found, storing item without it")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req.ID, nil
}

func (s *ItemService) publish(eventType string, payload interface{}) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Msg("publish event error")
	}
}
