package enum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBillStatusCanTransitionTo(t *testing.T) {
	cases := []struct {
		from    BillStatus
		to      BillStatus
		allowed bool
	}{
		{BillStatusDraft, BillStatusCompleted, true},
		{BillStatusDraft, BillStatusCancelled, true},
		{BillStatusDraft, BillStatusRefunded, false},
		{BillStatusCompleted, BillStatusCancelled, true},
		{BillStatusCompleted, BillStatusRefunded, true},
		{BillStatusCompleted, BillStatusPartialRefund, true},
		{BillStatusCompleted, BillStatusDraft, false},
		{BillStatusPartialRefund, BillStatusRefunded, true},
		{BillStatusPartialRefund, BillStatusPartialRefund, true},
		{BillStatusPartialRefund, BillStatusCancelled, false},
		{BillStatusCancelled, BillStatusCompleted, false},
		{BillStatusRefunded, BillStatusCancelled, false},
	}

	for _, tc := range cases {
		t.Run(tc.from.String()+"_to_"+tc.to.String(), func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestBillStatusIsTerminal(t *testing.T) {
	assert.False(t, BillStatusDraft.IsTerminal())
	assert.False(t, BillStatusCompleted.IsTerminal())
	assert.False(t, BillStatusPartialRefund.IsTerminal())
	assert.True(t, BillStatusCancelled.IsTerminal())
	assert.True(t, BillStatusRefunded.IsTerminal())
}

func TestBillStatusJSONRoundTrip(t *testing.T) {
	data, err := BillStatusPartialRefund.MarshalJSON()
	assert.NoError(t, err)
	assert.Equal(t, `"partial_refund"`, string(data))

	var s BillStatus
	assert.NoError(t, s.UnmarshalJSON(data))
	assert.Equal(t, BillStatusPartialRefund, s)
}
