package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// BillStatus represents the lifecycle state of a bill
type BillStatus int

const (
	BillStatusDraft BillStatus = iota
	BillStatusCompleted
	BillStatusCancelled
	BillStatusRefunded
	BillStatusPartialRefund
)

func (s BillStatus) String() string {
	return [...]string{"draft", "completed", "cancelled", "refunded", "partial_refund"}[s]
}

// IsTerminal reports whether no further lifecycle transitions are allowed
// (payments may still be applied to a completed bill)
func (s BillStatus) IsTerminal() bool {
	return s == BillStatusCancelled || s == BillStatusRefunded
}

// CanTransitionTo validates a lifecycle transition:
// draft -> completed -> {cancelled, refunded, partial_refund}
func (s BillStatus) CanTransitionTo(target BillStatus) bool {
	switch s {
	case BillStatusDraft:
		return target == BillStatusCompleted || target == BillStatusCancelled
	case BillStatusCompleted:
		return target == BillStatusCancelled || target == BillStatusRefunded || target == BillStatusPartialRefund
	case BillStatusPartialRefund:
		// further partial refunds may accumulate into a full refund
		return target == BillStatusRefunded || target == BillStatusPartialRefund
	default:
		return false
	}
}

func (s BillStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *BillStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = BillStatus(i)
		return nil
	}
	switch str {
	case "draft":
		*s = BillStatusDraft
	case "completed":
		*s = BillStatusCompleted
	case "cancelled":
		*s = BillStatusCancelled
	case "refunded":
		*s = BillStatusRefunded
	case "partial_refund":
		*s = BillStatusPartialRefund
	}
	return nil
}

func (s BillStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *BillStatus) Scan(value interface{}) error {
	if value == nil {
		*s = BillStatusDraft
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = BillStatus(v)
	case int:
		*s = BillStatus(v)
	}
	return nil
}
