package order

import (
	"testing"

	"github.com/pantryfresh/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_CanTransitionTo(t *testing.T) {
	allowed := map[Status]map[Status]bool{
		StatusPending:    {StatusConfirmed: true, StatusCancelled: true},
		StatusConfirmed:  {StatusProcessing: true, StatusCancelled: true},
		StatusProcessing: {StatusShipped: true, StatusCancelled: true},
		StatusShipped:    {StatusDelivered: true, StatusReturned: true},
		StatusDelivered:  {StatusReturned: true},
	}

	for _, from := range AllStatuses() {
		for _, to := range AllStatuses() {
			from, to := from, to
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				assert.Equal(t, allowed[from][to], from.CanTransitionTo(to))
			})
		}
	}
}

func TestStatus_CanCancel(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusPending, true},
		{StatusConfirmed, true},
		{StatusProcessing, true},
		{StatusShipped, false},
		{StatusDelivered, false},
		{StatusCancelled, false},
		{StatusReturned, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.CanCancel())
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusReturned.IsTerminal())
	assert.False(t, StatusDelivered.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
}

func TestStatus_LabelAndParse(t *testing.T) {
	assert.Equal(t, "Processing", StatusProcessing.Label())
	assert.Equal(t, "UNKNOWN", Status("UNKNOWN").Label())

	s, err := ParseStatus(" shipped ")
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, s)

	_, err = ParseStatus("lost")
	assert.True(t, shared.IsKind(err, shared.KindValidation))
	assert.False(t, Status("").IsValid())
}

func TestStatus_AllowedTransitions(t *testing.T) {
	assert.Equal(t, []Status{StatusDelivered, StatusReturned}, StatusShipped.AllowedTransitions())
	assert.Empty(t, StatusCancelled.AllowedTransitions())
}
