package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/config"
	"shareit/internal/models"
)

const bookingColumns = `id, start_date, end_date, item_id, booker_id, status`

// bookingRow is a booking joined with its item and booker names.
type bookingRow struct {
	ID         int64         `db:"id"`
	Start      time.Time     `db:"start_date"`
	End        time.Time     `db:"end_date"`
	Status     models.Status `db:"status"`
	ItemID     int64         `db:"item_id"`
	ItemName   string        `db:"item_name"`
	BookerID   int64         `db:"booker_id"`
	BookerName string        `db:"booker_name"`
}

func (r bookingRow) view() models.BookingView {
	return models.BookingView{
		ID:     r.ID,
		Start:  r.Start.UTC(),
		End:    r.End.UTC(),
		Status: r.Status,
		Item:   models.ItemShort{ID: r.ItemID, Name: r.ItemName},
		Booker: models.UserShort{ID: r.BookerID, Name: r.BookerName},
	}
}

const bookingViewSelect = `SELECT b.id, b.start_date, b.end_date, b.status,
                 b.item_id, i.name AS item_name, b.booker_id, u.name AS booker_name
          FROM bookings b
          JOIN items i ON i.id = b.item_id
          JOIN users u ON u.id = b.booker_id`

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	var booking models.Booking
	query := db.Rebind(`SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`)
	if err := db.GetContext(ctx, &booking, query, id); err != nil {
		return nil, fmt.Errorf("failed to get booking %d: %w", id, translate(err))
	}
	return &booking, nil
}

func (db *DB) GetBookingView(ctx context.Context, id int64) (*models.BookingView, error) {
	var row bookingRow
	if err := db.GetContext(ctx, &row, db.Rebind(bookingViewSelect+` WHERE b.id = ?`), id); err != nil {
		return nil, fmt.Errorf("failed to get booking %d: %w", id, translate(err))
	}
	view := row.view()
	return &view, nil
}

// CreateBookingExclusive inserts booking in a transaction that first checks for
// a WAITING or APPROVED booking of the same item intersecting [Start, End).
func (db *DB) CreateBookingExclusive(ctx context.Context, booking *models.Booking) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if db.DriverName() == config.DriverPostgres {
		// блокируем предмет, чтобы параллельные заявки проверялись по очереди
		if _, err := tx.ExecContext(ctx, `SELECT id FROM items WHERE id = $1 FOR UPDATE`, booking.ItemID); err != nil {
			return fmt.Errorf("failed to lock item %d: %w", booking.ItemID, err)
		}
	}

	var overlapping int
	countQuery := tx.Rebind(`SELECT COUNT(*) FROM bookings
              WHERE item_id = ? AND status IN (?, ?) AND start_date < ? AND end_date > ?`)
	err = tx.GetContext(ctx, &overlapping, countQuery,
		booking.ItemID, models.StatusWaiting, models.StatusApproved, booking.End.UTC(), booking.Start.UTC())
	if err != nil {
		return fmt.Errorf("failed to check overlapping bookings: %w", err)
	}
	if overlapping > 0 {
		return ErrOverlap
	}

	insertQuery := tx.Rebind(`INSERT INTO bookings (start_date, end_date, item_id, booker_id, status)
              VALUES (?, ?, ?, ?, ?) RETURNING id`)
	err = tx.QueryRowxContext(ctx, insertQuery,
		booking.Start.UTC(),
		booking.End.UTC(),
		booking.ItemID,
		booking.BookerID,
		booking.Status,
	).Scan(&booking.ID)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", translate(err))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// TransitionBooking sets status to "to" only while the stored status is "from".
func (db *DB) TransitionBooking(ctx context.Context, id int64, from, to models.Status) (*models.Booking, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var booking models.Booking
	selectQuery := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	if db.DriverName() == config.DriverPostgres {
		selectQuery += ` FOR UPDATE`
	}
	if err := tx.GetContext(ctx, &booking, tx.Rebind(selectQuery), id); err != nil {
		return nil, fmt.Errorf("failed to get booking %d: %w", id, translate(err))
	}
	if booking.Status != from {
		return nil, fmt.Errorf("booking %d is %s: %w", id, booking.Status, ErrStaleStatus)
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE bookings SET status = ? WHERE id = ?`), to, id); err != nil {
		return nil, fmt.Errorf("failed to update booking %d status: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	booking.Status = to
	return &booking, nil
}

// facetClause returns the WHERE fragment, its arguments and the ORDER BY for a facet.
func facetClause(facet models.Facet, anchor models.Anchor, now time.Time) (string, []interface{}, string, error) {
	now = now.UTC()
	switch facet {
	case models.FacetAll:
		return "", nil, "b.id DESC", nil
	case models.FacetCurrent:
		order := "b.id ASC"
		if anchor == models.AnchorOwner {
			order = "b.id DESC"
		}
		return " AND b.start_date <= ? AND b.end_date >= ?", []interface{}{now, now}, order, nil
	case models.FacetPast:
		return " AND b.status = ? AND b.end_date < ?", []interface{}{models.StatusApproved, now}, "b.id DESC", nil
	case models.FacetFuture:
		return " AND b.status IN (?, ?) AND b.start_date > ?",
			[]interface{}{models.StatusApproved, models.StatusWaiting, now}, "b.id DESC", nil
	case models.FacetWaiting:
		return " AND b.status = ?", []interface{}{models.StatusWaiting}, "b.id DESC", nil
	case models.FacetRejected:
		return " AND b.status = ?", []interface{}{models.StatusRejected}, "b.id DESC", nil
	default:
		return "", nil, "", fmt.Errorf("unsupported facet %q", facet)
	}
}

// ListBookingViews runs the facet query anchored either on the booker or on
// the owner of the booked item. Only the ALL facet is paginated.
func (db *DB) ListBookingViews(ctx context.Context, filter models.BookingFilter) ([]models.BookingView, error) {
	anchorClause := " WHERE b.booker_id = ?"
	if filter.Anchor == models.AnchorOwner {
		anchorClause = " WHERE i.owner_id = ?"
	}

	where, args, order, err := facetClause(filter.Facet, filter.Anchor, filter.Now)
	if err != nil {
		return nil, err
	}

	query := bookingViewSelect + anchorClause + where + " ORDER BY " + order
	args = append([]interface{}{filter.AnchorID}, args...)
	if filter.Facet == models.FacetAll && filter.Page.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Page.Limit, filter.Page.Offset)
	}

	var rows []bookingRow
	if err := db.SelectContext(ctx, &rows, db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list %s bookings of %s %d: %w",
			filter.Facet, filter.Anchor, filter.AnchorID, err)
	}

	views := make([]models.BookingView, 0, len(rows))
	for _, r := range rows {
		views = append(views, r.view())
	}
	return views, nil
}

// LastBooking returns the booking of the item that started most recently
// before now, by end date; nil when there is none.
func (db *DB) LastBooking(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	query := db.Rebind(`SELECT ` + bookingColumns + ` FROM bookings
              WHERE item_id = ? AND start_date < ?
              ORDER BY end_date DESC LIMIT 1`)
	return db.optionalBooking(ctx, query, itemID, now.UTC())
}

// NextBooking returns the nearest approved booking starting after now; nil when there is none.
func (db *DB) NextBooking(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	query := db.Rebind(`SELECT ` + bookingColumns + ` FROM bookings
              WHERE item_id = ? AND status = ? AND start_date > ?
              ORDER BY start_date ASC LIMIT 1`)
	return db.optionalBooking(ctx, query, itemID, models.StatusApproved, now.UTC())
}

func (db *DB) optionalBooking(ctx context.Context, query string, args ...interface{}) (*models.Booking, error) {
	var booking models.Booking
	err := db.GetContext(ctx, &booking, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

// HasCompletedBooking reports whether bookerID has an approved booking of
// itemID that ended before now.
func (db *DB) HasCompletedBooking(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error) {
	var count int
	query := db.Rebind(`SELECT COUNT(*) FROM bookings
              WHERE item_id = ? AND booker_id = ? AND status = ? AND end_date < ?`)
	if err := db.GetContext(ctx, &count, query, itemID, bookerID, models.StatusApproved, now.UTC()); err != nil {
		return false, fmt.Errorf("failed to check completed bookings: %w", err)
	}
	return count > 0, nil
}
