package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStampStatusTimesSetsResolvedOnce(t *testing.T) {
	ticket := &Ticket{Status: TicketStatusResolved}
	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	ticket.StampStatusTimes(first)

	require.NotNil(t, ticket.ResolvedAt)
	assert.Equal(t, first, *ticket.ResolvedAt)
	assert.Nil(t, ticket.ClosedAt)

	later := first.Add(2 * time.Hour)
	ticket.StampStatusTimes(later)
	assert.Equal(t, first, *ticket.ResolvedAt)
}

func TestStampStatusTimesSetsClosedOnce(t *testing.T) {
	ticket := &Ticket{Status: TicketStatusClosed}
	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	ticket.StampStatusTimes(first)

	require.NotNil(t, ticket.ClosedAt)
	assert.Equal(t, first, *ticket.ClosedAt)
	assert.Nil(t, ticket.ResolvedAt)

	ticket.StampStatusTimes(first.Add(time.Minute))
	assert.Equal(t, first, *ticket.ClosedAt)
}

func TestStampStatusTimesSurvivesStatusBounce(t *testing.T) {
	ticket := &Ticket{Status: TicketStatusResolved}
	resolvedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	ticket.StampStatusTimes(resolvedAt)

	ticket.Status = TicketStatusInProgress
	ticket.StampStatusTimes(resolvedAt.Add(time.Hour))
	assert.Equal(t, resolvedAt, *ticket.ResolvedAt)

	ticket.Status = TicketStatusClosed
	closedAt := resolvedAt.Add(3 * time.Hour)
	ticket.StampStatusTimes(closedAt)
	assert.Equal(t, resolvedAt, *ticket.ResolvedAt)
	require.NotNil(t, ticket.ClosedAt)
	assert.Equal(t, closedAt, *ticket.ClosedAt)
}

func TestStampStatusTimesNoopForOpenStates(t *testing.T) {
	for _, status := range []TicketStatus{TicketStatusOpen, TicketStatusInProgress} {
		ticket := &Ticket{Status: status}
		ticket.StampStatusTimes(time.Now())
		assert.Nil(t, ticket.ResolvedAt, "status %s", status)
		assert.Nil(t, ticket.ClosedAt, "status %s", status)
	}
}

func TestTimeToResolution(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	ticket := &Ticket{Status: TicketStatusOpen, CreatedAt: created}

	_, ok := ticket.TimeToResolution()
	assert.False(t, ok)

	ticket.Status = TicketStatusResolved
	ticket.StampStatusTimes(created.Add(90 * time.Minute))
	elapsed, ok := ticket.TimeToResolution()
	require.True(t, ok)
	assert.Equal(t, 90*time.Minute, elapsed)
}

func TestValidStatusAndPriority(t *testing.T) {
	assert.True(t, ValidStatus(TicketStatusOpen))
	assert.True(t, ValidStatus(TicketStatusClosed))
	assert.False(t, ValidStatus("archived"))

	assert.True(t, ValidPriority(TicketPriorityHigh))
	assert.False(t, ValidPriority("urgent"))
	assert.False(t, ValidPriority(""))
}
