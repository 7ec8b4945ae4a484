// Package categories holds the suggested transaction categories. Categories
// are free-text labels everywhere else in the system; these lists only seed
// pickers and defaults.
package categories

// Transfer is the reserved category written on both halves of a transfer.
const Transfer = "transfer"

var expense = []string{
	"food",
	"groceries",
	"restaurants",
	"transport",
	"fuel",
	"housing",
	"rent",
	"utilities",
	"electricity",
	"water",
	"internet",
	"phone",
	"entertainment",
	"streaming",
	"subscriptions",
	"health",
	"pharmacy",
	"education",
	"clothing",
	"gifts",
	"donations",
	"travel",
	"insurance",
	"taxes",
	"other",
}

var income = []string{
	"salary",
	"freelance",
	"investments",
	"dividends",
	"interest",
	"rental_income",
	"gift",
	"refund",
	"sale",
	"other",
}

// Suggested returns the suggested categories for a transaction type.
// Anything other than "income" gets the expense set.
func Suggested(txType string) []string {
	if txType == "income" {
		return append([]string(nil), income...)
	}
	return append([]string(nil), expense...)
}

// IsSuggested reports whether category is in the suggested set for txType.
// The transfer category counts for both types.
func IsSuggested(txType, category string) bool {
	if category == Transfer {
		return true
	}
	for _, c := range Suggested(txType) {
		if c == category {
			return true
		}
	}
	return false
}
