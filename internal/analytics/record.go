package analytics

import "time"

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	// TransactionType discriminates the two ledger entry kinds.
	TransactionType string

	// Date is a calendar day. The time component is always midnight UTC.
	Date struct {
		time.Time
	}

	// TransactionRecord is a minimal, storage-agnostic transaction snapshot.
	// Amounts are non-negative magnitudes; the sign is implied by Type.
	TransactionRecord struct {
		Amount    float64
		Type      TransactionType
		Category  string
		Date      Date
		AccountID string
	}

	// AccountRecord is a minimal account snapshot with its current balance.
	AccountRecord struct {
		ID      string
		Balance float64
	}
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// Year returns the calendar year.
func (d Date) Year() int {
	return d.Time.Year()
}

// Month returns the calendar month, 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// ISO formats the date as YYYY-MM-DD.
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}
