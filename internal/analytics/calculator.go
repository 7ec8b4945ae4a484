// Package analytics computes balances, monthly flow, category distribution,
// balance forecasts and anomaly detection over normalized transaction and
// account records.
//
// Every function in this package is pure: no I/O, no shared state, no
// clock access beyond the forecast anchor. Callers may invoke them
// concurrently over independent inputs without coordination.
package analytics

import (
	"fmt"
	"math"
	"sort"
)

const (
	MetricIncome  TrendMetric = "income"
	MetricExpense TrendMetric = "expense"
	MetricNet     TrendMetric = "net"
)

type (
	// TrendMetric selects which monthly flow figure a trend reports.
	// Anything other than income or expense falls back to net.
	TrendMetric string

	// BalanceSummary holds the total and per-account balances.
	BalanceSummary struct {
		Total     float64
		ByAccount map[string]float64
	}

	// MonthlyFlow aggregates income and expense for one calendar month.
	MonthlyFlow struct {
		Year    int
		Month   int // 1-12
		Income  float64
		Expense float64
		Net     float64
	}

	// CategoryDistribution sums amounts per category for one transaction type.
	CategoryDistribution struct {
		ByCategory map[string]float64
		Total      float64
	}

	// TrendPoint is one (period, value) pair of a monthly trend.
	TrendPoint struct {
		Period string // YYYY-MM
		Value  float64
	}

	// MonthlyTrend is a chronologically ordered flow series with its mean.
	MonthlyTrend struct {
		Monthly []TrendPoint
		Average float64
	}
)

// TotalBalance returns the overall balance. A nil transactions slice means
// "no transactions supplied" and the stored account balances are summed.
// A non-nil slice, even an empty one, overrides the stored balances: the
// total is recomputed from the transactions alone, income adding and
// expense subtracting, regardless of account identity.
func TotalBalance(accounts []AccountRecord, transactions []TransactionRecord) float64 {
	if transactions != nil {
		return signedTotal(transactions)
	}
	var total float64
	for _, a := range accounts {
		total += a.Balance
	}
	return total
}

// BalanceByAccount returns the balance per account id, with the same
// nil-versus-present override policy as TotalBalance. When recomputing from
// transactions, account ids appear as they are first seen and start at zero;
// when falling back, each account contributes its stored balance as is.
func BalanceByAccount(accounts []AccountRecord, transactions []TransactionRecord) map[string]float64 {
	result := make(map[string]float64)
	if transactions != nil {
		for _, tx := range transactions {
			if tx.Type == Income {
				result[tx.AccountID] += tx.Amount
			} else {
				result[tx.AccountID] -= tx.Amount
			}
		}
		return result
	}
	for _, a := range accounts {
		result[a.ID] = a.Balance
	}
	return result
}

// Balances combines TotalBalance and BalanceByAccount into one summary.
func Balances(accounts []AccountRecord, transactions []TransactionRecord) BalanceSummary {
	return BalanceSummary{
		Total:     TotalBalance(accounts, transactions),
		ByAccount: BalanceByAccount(accounts, transactions),
	}
}

func signedTotal(transactions []TransactionRecord) float64 {
	var total float64
	for _, tx := range transactions {
		if tx.Type == Income {
			total += tx.Amount
		} else {
			total -= tx.Amount
		}
	}
	return total
}

type monthKey struct {
	year  int
	month int
}

// MonthlyFlows groups transactions into (year, month) buckets and returns
// them in ascending chronological order. Net is income minus expense.
func MonthlyFlows(transactions []TransactionRecord) []MonthlyFlow {
	type sums struct {
		income  float64
		expense float64
	}
	byMonth := make(map[monthKey]*sums)
	for _, tx := range transactions {
		key := monthKey{year: tx.Date.Year(), month: tx.Date.Month()}
		s := byMonth[key]
		if s == nil {
			s = &sums{}
			byMonth[key] = s
		}
		if tx.Type == Income {
			s.income += tx.Amount
		} else {
			s.expense += tx.Amount
		}
	}

	keys := make([]monthKey, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	result := make([]MonthlyFlow, 0, len(keys))
	for _, k := range keys {
		s := byMonth[k]
		result = append(result, MonthlyFlow{
			Year:    k.year,
			Month:   k.month,
			Income:  s.income,
			Expense: s.expense,
			Net:     s.income - s.expense,
		})
	}
	return result
}

// SavingsRatio returns (income - expense) / income over the monthly flow.
// When year and month are both non-zero only that bucket is considered.
// The second return is false when there is no flow after filtering or no
// positive income to divide by; a negative ratio (expense above income) is
// still a valid result.
func SavingsRatio(transactions []TransactionRecord, year, month int) (float64, bool) {
	flow := MonthlyFlows(transactions)
	if year != 0 && month != 0 {
		filtered := make([]MonthlyFlow, 0, 1)
		for _, f := range flow {
			if f.Year == year && f.Month == month {
				filtered = append(filtered, f)
			}
		}
		flow = filtered
	}
	if len(flow) == 0 {
		return 0, false
	}
	var totalIncome, totalExpense float64
	for _, f := range flow {
		totalIncome += f.Income
		totalExpense += f.Expense
	}
	if totalIncome <= 0 {
		return 0, false
	}
	return (totalIncome - totalExpense) / totalIncome, true
}

// DistributionByCategory sums amounts per category for transactions of the
// given type. Year and month filter independently when non-zero. Total is
// the sum of the per-category values.
func DistributionByCategory(transactions []TransactionRecord, txType TransactionType, year, month int) CategoryDistribution {
	byCategory := make(map[string]float64)
	for _, tx := range transactions {
		if tx.Type != txType {
			continue
		}
		if year != 0 && tx.Date.Year() != year {
			continue
		}
		if month != 0 && tx.Date.Month() != month {
			continue
		}
		byCategory[tx.Category] += tx.Amount
	}
	var total float64
	for _, v := range byCategory {
		total += v
	}
	return CategoryDistribution{ByCategory: byCategory, Total: total}
}

// TrendByMonth reshapes the monthly flow into a (YYYY-MM, value) series for
// the requested metric. Average is the plain arithmetic mean of the series,
// zero when there are no buckets.
func TrendByMonth(transactions []TransactionRecord, metric TrendMetric) MonthlyTrend {
	flow := MonthlyFlows(transactions)
	monthly := make([]TrendPoint, 0, len(flow))
	var sum float64
	for _, f := range flow {
		var value float64
		switch metric {
		case MetricIncome:
			value = f.Income
		case MetricExpense:
			value = f.Expense
		default:
			value = f.Net
		}
		monthly = append(monthly, TrendPoint{Period: periodKey(f.Year, f.Month), Value: value})
		sum += value
	}
	average := 0.0
	if len(monthly) > 0 {
		average = sum / float64(len(monthly))
	}
	return MonthlyTrend{Monthly: monthly, Average: average}
}

func periodKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// Round2 rounds to two decimal places, ties to even. Rounding happens only
// at output boundaries, never on intermediate accumulation.
func Round2(x float64) float64 {
	return math.RoundToEven(x*100) / 100
}

// Round4 rounds to four decimal places, ties to even.
func Round4(x float64) float64 {
	return math.RoundToEven(x*10000) / 10000
}
