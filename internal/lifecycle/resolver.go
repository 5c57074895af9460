// Package lifecycle decides which booking a user should currently be looking
// at. The whole request → accept → work → pay/decline → rate flow funnels into
// a single question: out of everything the user has ever booked, what is the
// one actionable item right now, and what is the action?
package lifecycle

import "roadassist/internal/domain"

// Action tags the call-to-action the interface should show for the active
// booking.
type Action string

const (
	// ActionAwaitTracking: work in progress, the user watches and waits.
	ActionAwaitTracking Action = "awaiting_tracking"
	// ActionPayNow: service completed, payment not yet resolved.
	ActionPayNow Action = "pay_now"
	// ActionRateMechanic: payment resolved either way, review still missing.
	ActionRateMechanic Action = "rate_mechanic"
	// ActionNone: nothing actionable.
	ActionNone Action = "none"
)

// Resolve scans the user's bookings in input order and returns the first one
// that is still actionable, together with the action it calls for. It returns
// (nil, ActionNone) when every booking has run its full course.
//
// Resolve is a pure function of its inputs: callers may re-invoke it on every
// refetch or push event, in any order, and redundant invocations are harmless.
// Input order decides ties when more than one booking qualifies; the backend
// is expected to return bookings newest-first, and this function deliberately
// does not re-sort.
func Resolve(bookings []domain.Booking, reviews []domain.Review) (*domain.Booking, Action) {
	for i := range bookings {
		b := &bookings[i]
		if action := actionFor(b, reviews); action != ActionNone {
			return b, action
		}
	}
	return nil, ActionNone
}

// actionFor evaluates the qualification predicate for one booking.
func actionFor(b *domain.Booking, reviews []domain.Review) Action {
	if b.Status.IsActive() {
		return ActionAwaitTracking
	}

	if b.Status != domain.BookingCompleted {
		// cancelled, or something unrecognized: never actionable
		return ActionNone
	}

	switch b.EffectivePaymentStatus() {
	case domain.PaymentPending:
		return ActionPayNow
	case domain.PaymentCompleted, domain.PaymentDeclined:
		if !isRated(b.ID, reviews) {
			return ActionRateMechanic
		}
		return ActionNone
	default:
		// unknown payment value: treat as settled rather than re-prompting payment
		return ActionNone
	}
}

// isRated reports whether any review references the booking. References may
// arrive as bare ids or expanded records; BookingRef has already normalized
// them, and a ref that failed to parse matches nothing.
func isRated(bookingID int64, reviews []domain.Review) bool {
	if bookingID == 0 {
		return false
	}
	for i := range reviews {
		if reviews[i].BookingID.Matches(bookingID) {
			return true
		}
	}
	return false
}
