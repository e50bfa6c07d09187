package domain

import (
	"context"
	"time"

	"shareit/internal/models"
)

type UserRepository interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error
}

type ItemRepository interface {
	ListItemsByOwner(ctx context.Context, ownerID int64) ([]*models.Item, error)
	GetItem(ctx context.Context, id int64) (*models.Item, error)
	CreateItem(ctx context.Context, item *models.Item) error
	UpdateItem(ctx context.Context, item *models.Item) error
	DeleteItem(ctx context.Context, id int64) error
	SearchItems(ctx context.Context, text string) ([]*models.Item, error)
	ListItemsByRequest(ctx context.Context, requestID int64) ([]*models.Item, error)
}

type BookingRepository interface {
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	// CreateBookingExclusive inserts the booking unless it overlaps an active one
	// of the same item.
	CreateBookingExclusive(ctx context.Context, booking *models.Booking) error
	// TransitionBooking moves a booking from one status to another and returns
	// the stored row.
	TransitionBooking(ctx context.Context, id int64, from, to models.Status) (*models.Booking, error)
	ListBookingViews(ctx context.Context, filter models.BookingFilter) ([]models.BookingView, error)
	GetBookingView(ctx context.Context, id int64) (*models.BookingView, error)
	LastBooking(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error)
	NextBooking(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error)
	HasCompletedBooking(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error)
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	ListCommentViews(ctx context.Context, itemID int64) ([]models.CommentView, error)
}

type RequestRepository interface {
	CreateRequest(ctx context.Context, req *models.ItemRequest) error
	GetRequest(ctx context.Context, id int64) (*models.ItemRequest, error)
	ListRequestsByAuthor(ctx context.Context, authorID int64) ([]*models.ItemRequest, error)
	ListRequestsExcept(ctx context.Context, userID int64, page models.Page) ([]*models.ItemRequest, error)
}

// Repository is the whole storage surface, implemented by *database.DB.
type Repository interface {
	UserRepository
	ItemRepository
	BookingRepository
	CommentRepository
	RequestRepository
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type UserService interface {
	ListAll(ctx context.Context) ([]*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, patch models.UserPatch) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

type ItemService interface {
	ListForOwner(ctx context.Context, ownerID int64) ([]models.ItemView, error)
	GetByID(ctx context.Context, id, requestingUserID int64) (*models.ItemView, error)
	Create(ctx context.Context, draft models.ItemDraft, ownerID int64) (*models.Item, error)
	Update(ctx context.Context, patch models.ItemPatch, requestingUserID int64) (*models.Item, error)
	Delete(ctx context.Context, id, requestingUserID int64) error
	Search(ctx context.Context, text string) ([]*models.Item, error)
	ListForRequest(ctx context.Context, requestID int64) ([]models.Item, error)
	AddComment(ctx context.Context, draft models.CommentDraft) (*models.CommentView, error)
}

type BookingService interface {
	Create(ctx context.Context, draft models.BookingDraft) (*models.BookingView, error)
	SetStatus(ctx context.Context, bookingID, actingUserID int64, approve bool) (*models.BookingView, error)
	GetByID(ctx context.Context, bookingID, requestingUserID int64) (*models.BookingView, error)
	ListForBooker(ctx context.Context, bookerID int64, facet string, page models.Page) ([]models.BookingView, error)
	ListForOwner(ctx context.Context, ownerID int64, facet string, page models.Page) ([]models.BookingView, error)
}

type RequestService interface {
	Create(ctx context.Context, draft models.ItemRequestDraft) (*models.ItemRequestView, error)
	GetByID(ctx context.Context, id, requestingUserID int64) (*models.ItemRequestView, error)
	ListForAuthor(ctx context.Context, authorID int64) ([]models.ItemRequestView, error)
	ListAll(ctx context.Context, requestingUserID int64, page models.Page) ([]models.ItemRequestView, error)
}
