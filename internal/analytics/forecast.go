package analytics

import "time"

type (
	// ForecastPoint is the projected balance for one future month.
	ForecastPoint struct {
		Period string // YYYY-MM
		Value  float64
	}

	// ForecastResult holds the projected points and the per-month slope.
	ForecastResult struct {
		Points []ForecastPoint
		Slope  float64
	}
)

// nowFunc supplies the calendar anchor for forecasts without history.
// Tests override it to keep outputs deterministic.
var nowFunc = time.Now

// ForecastBalance projects the balance for the next monthsAhead months.
//
// The slope is the arithmetic mean of the historical monthly net flow,
// restricted to accountID when given. Projection starts from the current
// balance and continues from the month after the last bucket, wrapping
// December into January. Without any history the projection is flat at the
// current balance with slope zero, anchored at the month after the current
// calendar month. Point values are rounded to two decimals; the running
// total itself is never rounded.
func ForecastBalance(accounts []AccountRecord, transactions []TransactionRecord, accountID string, monthsAhead int) ForecastResult {
	flowTx := transactions
	if accountID != "" {
		flowTx = filterByAccount(transactions, accountID)
	}
	flow := MonthlyFlows(flowTx)

	current := currentBalance(accounts, transactions, accountID)

	if len(flow) == 0 {
		now := nowFunc()
		year, month := now.Year(), int(now.Month())
		points := make([]ForecastPoint, 0, monthsAhead)
		for i := 0; i < monthsAhead; i++ {
			year, month = nextMonth(year, month)
			points = append(points, ForecastPoint{Period: periodKey(year, month), Value: current})
		}
		return ForecastResult{Points: points, Slope: 0}
	}

	var sum float64
	for _, f := range flow {
		sum += f.Net
	}
	slope := sum / float64(len(flow))

	last := flow[len(flow)-1]
	year, month := last.Year, last.Month
	running := current
	points := make([]ForecastPoint, 0, monthsAhead)
	for i := 0; i < monthsAhead; i++ {
		year, month = nextMonth(year, month)
		running += slope
		points = append(points, ForecastPoint{Period: periodKey(year, month), Value: Round2(running)})
	}
	return ForecastResult{Points: points, Slope: slope}
}

// currentBalance derives the starting value for a projection. Transactions
// override stored balances only when there is at least one of them.
func currentBalance(accounts []AccountRecord, transactions []TransactionRecord, accountID string) float64 {
	var src []TransactionRecord
	if len(transactions) > 0 {
		src = transactions
	}
	balances := BalanceByAccount(accounts, src)
	if accountID != "" {
		return balances[accountID]
	}
	var total float64
	for _, v := range balances {
		total += v
	}
	return total
}

func filterByAccount(transactions []TransactionRecord, accountID string) []TransactionRecord {
	filtered := make([]TransactionRecord, 0, len(transactions))
	for _, tx := range transactions {
		if tx.AccountID == accountID {
			filtered = append(filtered, tx)
		}
	}
	return filtered
}

func nextMonth(year, month int) (int, int) {
	month++
	if month > 12 {
		month = 1
		year++
	}
	return year, month
}
