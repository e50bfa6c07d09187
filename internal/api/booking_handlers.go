package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"shareit/internal/export"
	"shareit/internal/models"
)

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	bookerID, err := sharerID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var draft models.BookingDraft
	if err := s.decodeBody(r, &draft); err != nil {
		s.fail(w, r, err)
		return
	}
	draft.BookerID = bookerID

	booking, err := s.services.Bookings.Create(r.Context(), draft)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleSetBookingStatus(w http.ResponseWriter, r *http.Request) {
	ownerID, err := sharerID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	approved, err := approvedFromQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	booking, err := s.services.Bookings.SetStatus(r.Context(), id, ownerID, approved)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := sharerID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	booking, err := s.services.Bookings.GetByID(r.Context(), id, userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleListBookerBookings(w http.ResponseWriter, r *http.Request) {
	s.listBookings(w, r, s.services.Bookings.ListForBooker)
}

func (s *HTTPServer) handleListOwnerBookings(w http.ResponseWriter, r *http.Request) {
	s.listBookings(w, r, s.services.Bookings.ListForOwner)
}

type bookingLister func(ctx context.Context, userID int64, facet string, page models.Page) ([]models.BookingView, error)

func (s *HTTPServer) listBookings(w http.ResponseWriter, r *http.Request, list bookingLister) {
	userID, err := sharerID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	page, err := s.pageFromQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	bookings, err := list(r.Context(), userID, stateFromQuery(r), page)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// handleExportOwnerBookings streams every owner booking of a facet as XLSX.
func (s *HTTPServer) handleExportOwnerBookings(w http.ResponseWriter, r *http.Request) {
	ownerID, err := sharerID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	state := stateFromQuery(r)

	// пустая страница означает выгрузку без LIMIT
	bookings, err := s.services.Bookings.ListForOwner(r.Context(), ownerID, state, models.Page{})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteBookings(&buf, bookings); err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(ownerID, state)))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
