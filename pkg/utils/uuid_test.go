package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatBillNo(t *testing.T) {
	date := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	assert.Equal(t, "INV202603150001", FormatBillNo(date, 1))
	assert.Equal(t, "INV202603150042", FormatBillNo(date, 42))

	// sequences past four digits widen rather than wrap
	assert.Equal(t, "INV2026031510000", FormatBillNo(date, 10000))
}

func TestGeneratePaymentReference(t *testing.T) {
	ref := GeneratePaymentReference()
	assert.True(t, strings.HasPrefix(ref, "PAY-"))
	assert.Len(t, ref, 12)
	assert.NotEqual(t, ref, GeneratePaymentReference())
}
