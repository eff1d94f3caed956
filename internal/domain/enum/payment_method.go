package enum

// PaymentMethod identifies how a payment was made. Stored as a plain string
// so new tender types can be added without a migration.
type PaymentMethod string

const (
	PaymentMethodCash    PaymentMethod = "cash"
	PaymentMethodCard    PaymentMethod = "card"
	PaymentMethodUPI     PaymentMethod = "upi"
	PaymentMethodWallet  PaymentMethod = "wallet"
	PaymentMethodCredit  PaymentMethod = "credit"
	PaymentMethodLoyalty PaymentMethod = "loyalty"
)

// Valid reports whether m is a known tender type
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodUPI,
		PaymentMethodWallet, PaymentMethodCredit, PaymentMethodLoyalty:
		return true
	}
	return false
}

// PaymentRecordStatus is the state of a single payment record
type PaymentRecordStatus string

const (
	PaymentRecordCompleted PaymentRecordStatus = "completed"
	PaymentRecordRefunded  PaymentRecordStatus = "refunded"
)
