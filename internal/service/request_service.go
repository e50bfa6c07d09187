package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// itemLister is the part of the item service requests need.
type itemLister interface {
	ListForRequest(ctx context.Context, requestID int64) ([]models.Item, error)
}

type RequestService struct {
	repo     domain.Repository
	items    itemLister
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewRequestService(repo domain.Repository, items itemLister, eventBus domain.EventPublisher, logger *zerolog.Logger) *RequestService {
	return &RequestService{
		repo:     repo,
		items:    items,
		eventBus: eventBus,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *RequestService) Create(ctx context.Context, draft models.ItemRequestDraft) (*models.ItemRequestView, error) {
	if err := s.requireUser(ctx, draft.AuthorID); err != nil {
		return nil, err
	}

	description := strings.TrimSpace(draft.Description)
	if description == "" {
		return nil, domain.Validation("request description is required")
	}
	if utf8.RuneCountInString(description) > models.RequestDescriptionMax {
		return nil, domain.Validation("request description is longer than %d characters", models.RequestDescriptionMax)
	}

	req := &models.ItemRequest{AuthorID: draft.AuthorID, Description: description, Created: s.now()}
	if err := s.repo.CreateRequest(ctx, req); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		payload := events.RequestEventPayload{RequestID: req.ID, AuthorID: req.AuthorID, Description: req.Description}
		if err := s.eventBus.PublishJSON(events.EventRequestCreated, payload); err != nil {
			s.logger.Error().Err(err).Int64("request_id", req.ID).Msg("publish event error")
		}
	}
	s.logger.Info().Int64("request_id", req.ID).Int64("author_id", req.AuthorID).Msg("request created")

	view, err := s.view(ctx, req)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *RequestService) GetByID(ctx context.Context, id, requestingUserID int64) (*models.ItemRequestView, error) {
	if err := s.requireUser(ctx, requestingUserID); err != nil {
		return nil, err
	}

	req, err := s.repo.GetRequest(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "request %d not found", id)
	}

	view, err := s.view(ctx, req)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// ListForAuthor returns the user's own requests, newest first.
func (s *RequestService) ListForAuthor(ctx context.Context, authorID int64) ([]models.ItemRequestView, error) {
	if err := s.requireUser(ctx, authorID); err != nil {
		return nil, err
	}

	reqs, err := s.repo.ListRequestsByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, reqs)
}

// ListAll pages through the requests of other users, newest first.
func (s *RequestService) ListAll(ctx context.Context, requestingUserID int64, page models.Page) ([]models.ItemRequestView, error) {
	if err := s.requireUser(ctx, requestingUserID); err != nil {
		return nil, err
	}

	reqs, err := s.repo.ListRequestsExcept(ctx, requestingUserID, page)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, reqs)
}

func (s *RequestService) views(ctx context.Context, reqs []*models.ItemRequest) ([]models.ItemRequestView, error) {
	out := make([]models.ItemRequestView, 0, len(reqs))
	for _, req := range reqs {
		view, err := s.view(ctx, req)
		if err != nil {
			return nil, err
		}
		out = append(out, view)
	}
	return out, nil
}

func (s *RequestService) view(ctx context.Context, req *models.ItemRequest) (models.ItemRequestView, error) {
	items, err := s.items.ListForRequest(ctx, req.ID)
	if err != nil {
		return models.ItemRequestView{}, err
	}
	return models.ItemRequestView{
		ID:          req.ID,
		Description: req.Description,
		Created:     req.Created.UTC(),
		Items:       items,
	}, nil
}

func (s *RequestService) requireUser(ctx context.Context, id int64) error {
	if _, err := s.repo.GetUser(ctx, id); err != nil {
		return lookupErr(err, "user %d not found", id)
	}
	return nil
}
