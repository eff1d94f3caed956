package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewUUID generates a new UUID
func NewUUID() uuid.UUID {
	return uuid.New()
}

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// FormatBillNo builds a date-encoded bill number: INV<YYYY><MM><DD><NNNN>.
// seq is the 1-based position of the bill within its day.
func FormatBillNo(date time.Time, seq int64) string {
	return fmt.Sprintf("INV%s%04d", date.Format("20060102"), seq)
}

// GeneratePaymentReference generates a reference for payments recorded
// without an external reference (cash at the till, for example)
func GeneratePaymentReference() string {
	return "PAY-" + strings.ToUpper(uuid.New().String()[:8])
}

// GenerateProductCode generates a unique product code
func GenerateProductCode() string {
	return "PROD-" + strings.ToUpper(uuid.New().String()[:8])
}
