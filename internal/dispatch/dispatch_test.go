package dispatch

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"roadassist/internal/domain"
)

func TestCanTransitionForwardPath(t *testing.T) {
	assert.True(t, CanTransition(domain.BookingScheduled, domain.BookingEnRoute))
	assert.True(t, CanTransition(domain.BookingEnRoute, domain.BookingArrived))
	assert.True(t, CanTransition(domain.BookingArrived, domain.BookingInProgress))
	assert.True(t, CanTransition(domain.BookingArrived, domain.BookingCompleted))
	assert.True(t, CanTransition(domain.BookingInProgress, domain.BookingCompleted))
}

func TestCanTransitionNoSkippingOrReversing(t *testing.T) {
	assert.False(t, CanTransition(domain.BookingScheduled, domain.BookingArrived))
	assert.False(t, CanTransition(domain.BookingScheduled, domain.BookingCompleted))
	assert.False(t, CanTransition(domain.BookingEnRoute, domain.BookingScheduled))
	assert.False(t, CanTransition(domain.BookingEnRoute, domain.BookingCompleted))
	assert.False(t, CanTransition(domain.BookingArrived, domain.BookingEnRoute))
	assert.False(t, CanTransition(domain.BookingInProgress, domain.BookingArrived))
}

func TestCanTransitionCancelFromAnyNonTerminal(t *testing.T) {
	for _, from := range []domain.BookingStatus{
		domain.BookingScheduled,
		domain.BookingEnRoute,
		domain.BookingArrived,
		domain.BookingInProgress,
	} {
		assert.True(t, CanTransition(from, domain.BookingCancelled), "from %s", from)
	}
}

func TestCanTransitionTerminalIsFinal(t *testing.T) {
	for _, from := range []domain.BookingStatus{domain.BookingCompleted, domain.BookingCancelled} {
		for _, to := range []domain.BookingStatus{
			domain.BookingScheduled,
			domain.BookingEnRoute,
			domain.BookingArrived,
			domain.BookingInProgress,
			domain.BookingCompleted,
			domain.BookingCancelled,
		} {
			assert.False(t, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCurrentJobFirstNonTerminal(t *testing.T) {
	bookings := []domain.Booking{
		{ID: 1, Status: domain.BookingCompleted},
		{ID: 2, Status: domain.BookingEnRoute},
		{ID: 3, Status: domain.BookingScheduled},
	}

	job := CurrentJob(bookings)
	assert.NotNil(t, job)
	assert.Equal(t, int64(2), job.ID)
}

func TestCurrentJobNoneWhenAllTerminal(t *testing.T) {
	bookings := []domain.Booking{
		{ID: 1, Status: domain.BookingCompleted},
		{ID: 2, Status: domain.BookingCancelled},
	}
	assert.Nil(t, CurrentJob(bookings))
	assert.Nil(t, CurrentJob(nil))
}

func TestCheckAcceptBlocksWhileJobOpen(t *testing.T) {
	// the gate fires locally, before any claim reaches the database
	current := &domain.Booking{ID: 1, Status: domain.BookingArrived}
	assert.ErrorIs(t, CheckAccept(current), ErrJobInProgress)
}

func TestCheckAcceptAllowsAfterTerminal(t *testing.T) {
	assert.NoError(t, CheckAccept(nil))
	assert.NoError(t, CheckAccept(&domain.Booking{Status: domain.BookingCompleted}))
	assert.NoError(t, CheckAccept(&domain.Booking{Status: domain.BookingCancelled}))
}

func TestValidateCompletionCost(t *testing.T) {
	assert.NoError(t, ValidateCompletionCost(0.01))
	assert.NoError(t, ValidateCompletionCost(150))

	assert.ErrorIs(t, ValidateCompletionCost(0), ErrInvalidCost)
	assert.ErrorIs(t, ValidateCompletionCost(-20), ErrInvalidCost)
	assert.ErrorIs(t, ValidateCompletionCost(math.NaN()), ErrInvalidCost)
	assert.ErrorIs(t, ValidateCompletionCost(math.Inf(1)), ErrInvalidCost)
}
