package models

// Expense represents money paid by one member on behalf of the group,
// divided into per-member splits. Splits may use arbitrary amounts; they are
// not required to be equal shares.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// PayerID is the member who paid the full amount.
	PayerID string

	// Description is a short human-readable label (e.g., "Groceries").
	Description string

	// Amount is the total amount paid.
	Amount float64

	// Splits is the ordered division of the expense among members.
	Splits []Split

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64

	// CreatedBy is the user ID who recorded this expense.
	CreatedBy string
}

// Split is one member's share of an expense.
type Split struct {
	// MemberID is the member who owes this share.
	MemberID string

	// Amount is the share owed. Zero is legal and contributes nothing.
	Amount float64

	// Paid marks a share that was settled at the time of the expense
	// (e.g., the member handed over cash on the spot). Paid shares
	// contribute no debt.
	Paid bool
}
