// Package dispatch holds the mechanic-side job state machine and the pool of
// claimable service requests. Acceptance is a race between mechanics; the
// authoritative decision is the database's, and this package keeps the local
// view consistent with whatever the server decided.
package dispatch

import (
	"errors"
	"math"

	"roadassist/internal/domain"
)

var (
	// ErrJobInProgress: a mechanic holds at most one non-terminal booking.
	ErrJobInProgress = errors.New("current job must be finished first")
	// ErrInvalidTransition: the requested status change is not on the graph.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrInvalidCost: completion needs a positive, finite cost.
	ErrInvalidCost = errors.New("total cost must be a positive number")
)

// CanTransition reports whether a booking may move from one status to
// another. The main status only moves forward:
//
//	scheduled → en_route → arrived → in_progress → completed
//
// with completion allowed straight from arrived, and cancellation allowed
// from any non-terminal state.
func CanTransition(from, to domain.BookingStatus) bool {
	if from.IsTerminal() {
		return false
	}
	if to == domain.BookingCancelled {
		return true
	}

	switch from {
	case domain.BookingScheduled:
		return to == domain.BookingEnRoute
	case domain.BookingEnRoute:
		return to == domain.BookingArrived
	case domain.BookingArrived:
		return to == domain.BookingInProgress || to == domain.BookingCompleted
	case domain.BookingInProgress:
		return to == domain.BookingCompleted
	}
	return false
}

// CurrentJob returns the mechanic's single non-terminal booking, or nil.
// First match in input order, same selection discipline as the user-side
// resolver.
func CurrentJob(bookings []domain.Booking) *domain.Booking {
	for i := range bookings {
		if !bookings[i].Status.IsTerminal() {
			return &bookings[i]
		}
	}
	return nil
}

// ValidateCompletionCost rejects the cost values an operator can plausibly
// mistype: zero, negatives, NaN and infinities.
func ValidateCompletionCost(cost float64) error {
	if math.IsNaN(cost) || math.IsInf(cost, 0) || cost <= 0 {
		return ErrInvalidCost
	}
	return nil
}

// CheckAccept is the local gate in front of the accept call: it fails fast,
// without any network round trip, while the mechanic still has an open job.
func CheckAccept(current *domain.Booking) error {
	if current != nil && !current.Status.IsTerminal() {
		return ErrJobInProgress
	}
	return nil
}
