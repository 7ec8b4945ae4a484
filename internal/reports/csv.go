package reports

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"
)

var csvHeader = []string{"date", "account", "type", "category", "description", "amount", "currency"}

// WriteTransactionsCSV renders every transaction row of the report context
// as CSV, currencies in alphabetical order, rows in their report order.
func WriteTransactionsCSV(w io.Writer, rctx *Context) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	currencies := make([]string, 0, len(rctx.ByCurrency))
	for currency := range rctx.ByCurrency {
		currencies = append(currencies, currency)
	}
	sort.Strings(currencies)

	for _, currency := range currencies {
		for _, row := range rctx.ByCurrency[currency].Transactions {
			record := []string{
				row.Date,
				row.AccountName,
				row.Type,
				row.Category,
				row.Description,
				strconv.FormatFloat(row.Amount, 'f', 2, 64),
				currency,
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
