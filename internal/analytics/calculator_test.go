package analytics

import (
	"math"
	"testing"
)

func tx(amount float64, txType TransactionType, category string, year, month, day int, accountID string) TransactionRecord {
	return TransactionRecord{
		Amount:    amount,
		Type:      txType,
		Category:  category,
		Date:      NewDate(year, month, day),
		AccountID: accountID,
	}
}

func TestTotalBalanceFallsBackToAccounts(t *testing.T) {
	accounts := []AccountRecord{{ID: "a1", Balance: 120.5}, {ID: "a2", Balance: -20.5}}
	got := TotalBalance(accounts, nil)
	if got != 100.0 {
		t.Fatalf("expected 100.0, got %v", got)
	}
}

func TestTotalBalanceTransactionsOverride(t *testing.T) {
	accounts := []AccountRecord{{ID: "a1", Balance: 999}}
	transactions := []TransactionRecord{
		tx(100, Income, "salary", 2025, 1, 1, "a1"),
		tx(30, Expense, "food", 2025, 1, 2, "a2"),
	}
	if got := TotalBalance(accounts, transactions); got != 70.0 {
		t.Fatalf("expected 70.0, got %v", got)
	}

	// A present-but-empty list still overrides the stored balances.
	if got := TotalBalance(accounts, []TransactionRecord{}); got != 0.0 {
		t.Fatalf("expected 0.0 for empty non-nil list, got %v", got)
	}
}

func TestBalanceByAccount(t *testing.T) {
	accounts := []AccountRecord{{ID: "a1", Balance: 50}, {ID: "a2", Balance: 75}}

	stored := BalanceByAccount(accounts, nil)
	if stored["a1"] != 50 || stored["a2"] != 75 {
		t.Fatalf("expected stored balances, got %v", stored)
	}

	transactions := []TransactionRecord{
		tx(100, Income, "salary", 2025, 1, 1, "a1"),
		tx(40, Expense, "food", 2025, 1, 2, "a1"),
		tx(10, Expense, "food", 2025, 1, 3, "a3"),
	}
	computed := BalanceByAccount(accounts, transactions)
	if computed["a1"] != 60 {
		t.Fatalf("expected a1=60, got %v", computed["a1"])
	}
	if computed["a3"] != -10 {
		t.Fatalf("expected a3=-10, got %v", computed["a3"])
	}
	if _, ok := computed["a2"]; ok {
		t.Fatalf("a2 has no transactions and should not appear, got %v", computed)
	}
}

func TestMonthlyFlowsOrderAndTotals(t *testing.T) {
	transactions := []TransactionRecord{
		tx(80, Expense, "food", 2025, 2, 2, "a1"),
		tx(100, Income, "salary", 2024, 12, 1, "a1"),
		tx(60, Expense, "food", 2025, 1, 2, "a1"),
		tx(100, Income, "salary", 2025, 1, 1, "a1"),
		tx(100, Income, "salary", 2025, 2, 1, "a1"),
	}
	flow := MonthlyFlows(transactions)
	if len(flow) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(flow))
	}

	// Strictly chronological, ascending.
	for i := 1; i < len(flow); i++ {
		prev, cur := flow[i-1], flow[i]
		if cur.Year < prev.Year || (cur.Year == prev.Year && cur.Month <= prev.Month) {
			t.Fatalf("buckets out of order at %d: %+v then %+v", i, prev, cur)
		}
	}
	if flow[0].Year != 2024 || flow[0].Month != 12 {
		t.Fatalf("expected first bucket 2024-12, got %d-%d", flow[0].Year, flow[0].Month)
	}

	// Bucket sums must match a direct filter-and-sum over the whole set.
	var wantIncome, wantExpense, gotIncome, gotExpense float64
	for _, txn := range transactions {
		if txn.Type == Income {
			wantIncome += txn.Amount
		} else {
			wantExpense += txn.Amount
		}
	}
	for _, f := range flow {
		gotIncome += f.Income
		gotExpense += f.Expense
		if f.Net != f.Income-f.Expense {
			t.Fatalf("net mismatch in bucket %+v", f)
		}
	}
	if gotIncome != wantIncome || gotExpense != wantExpense {
		t.Fatalf("bucket totals %v/%v, want %v/%v", gotIncome, gotExpense, wantIncome, wantExpense)
	}
}

func TestSavingsRatio(t *testing.T) {
	transactions := []TransactionRecord{
		tx(100, Income, "s", 2025, 1, 1, "a1"),
		tx(60, Expense, "s", 2025, 1, 2, "a1"),
	}
	ratio, ok := SavingsRatio(transactions, 0, 0)
	if !ok || ratio != 0.4 {
		t.Fatalf("expected 0.4, got %v (ok=%v)", ratio, ok)
	}
}

func TestSavingsRatioNoResult(t *testing.T) {
	cases := []struct {
		name         string
		transactions []TransactionRecord
		year, month  int
	}{
		{"no transactions", nil, 0, 0},
		{"expense only", []TransactionRecord{tx(60, Expense, "s", 2025, 1, 2, "a1")}, 0, 0},
		{"filtered month absent", []TransactionRecord{tx(100, Income, "s", 2025, 1, 1, "a1")}, 2025, 2},
	}
	for i, tc := range cases {
		if _, ok := SavingsRatio(tc.transactions, tc.year, tc.month); ok {
			t.Fatalf("case %d (%s) expected no result", i, tc.name)
		}
	}
}

func TestSavingsRatioNegative(t *testing.T) {
	transactions := []TransactionRecord{
		tx(100, Income, "s", 2025, 1, 1, "a1"),
		tx(150, Expense, "s", 2025, 1, 2, "a1"),
	}
	ratio, ok := SavingsRatio(transactions, 0, 0)
	if !ok {
		t.Fatal("expected a result")
	}
	if ratio != -0.5 {
		t.Fatalf("expected -0.5, got %v", ratio)
	}
}

func TestSavingsRatioMonthFilter(t *testing.T) {
	transactions := []TransactionRecord{
		tx(100, Income, "s", 2025, 1, 1, "a1"),
		tx(60, Expense, "s", 2025, 1, 2, "a1"),
		tx(100, Income, "s", 2025, 2, 1, "a1"),
		tx(90, Expense, "s", 2025, 2, 2, "a1"),
	}
	ratio, ok := SavingsRatio(transactions, 2025, 2)
	if !ok {
		t.Fatal("expected a result")
	}
	if math.Abs(ratio-0.1) > 1e-12 {
		t.Fatalf("expected 0.1, got %v", ratio)
	}
}

func TestDistributionByCategory(t *testing.T) {
	transactions := []TransactionRecord{
		tx(30, Expense, "food", 2025, 1, 1, "a1"),
		tx(20, Expense, "food", 2025, 1, 15, "a1"),
		tx(50, Expense, "rent", 2025, 1, 1, "a1"),
		tx(40, Expense, "food", 2025, 2, 1, "a1"),
		tx(500, Income, "salary", 2025, 1, 1, "a1"),
	}

	dist := DistributionByCategory(transactions, Expense, 2025, 1)
	if dist.ByCategory["food"] != 50 || dist.ByCategory["rent"] != 50 {
		t.Fatalf("unexpected distribution %v", dist.ByCategory)
	}
	if len(dist.ByCategory) != 2 {
		t.Fatalf("expected 2 categories, got %v", dist.ByCategory)
	}

	// Total equals the sum of the per-category values.
	var sum float64
	for _, v := range dist.ByCategory {
		sum += v
	}
	if dist.Total != sum {
		t.Fatalf("total %v != sum %v", dist.Total, sum)
	}

	income := DistributionByCategory(transactions, Income, 0, 0)
	if income.Total != 500 || income.ByCategory["salary"] != 500 {
		t.Fatalf("unexpected income distribution %+v", income)
	}
}

func TestDistributionIndependentFilters(t *testing.T) {
	transactions := []TransactionRecord{
		tx(10, Expense, "food", 2024, 3, 1, "a1"),
		tx(20, Expense, "food", 2025, 3, 1, "a1"),
		tx(30, Expense, "food", 2025, 4, 1, "a1"),
	}
	// Month filter without a year matches that month in any year.
	dist := DistributionByCategory(transactions, Expense, 0, 3)
	if dist.Total != 30 {
		t.Fatalf("expected 30, got %v", dist.Total)
	}
}

func TestTrendByMonth(t *testing.T) {
	transactions := []TransactionRecord{
		tx(100, Income, "s", 2025, 1, 1, "a1"),
		tx(60, Expense, "s", 2025, 1, 2, "a1"),
		tx(100, Income, "s", 2025, 2, 1, "a1"),
		tx(80, Expense, "s", 2025, 2, 2, "a1"),
	}
	cases := []struct {
		metric TrendMetric
		values []float64
		avg    float64
	}{
		{MetricNet, []float64{40, 20}, 30},
		{MetricIncome, []float64{100, 100}, 100},
		{MetricExpense, []float64{60, 80}, 70},
		{"bogus", []float64{40, 20}, 30}, // unknown metric falls back to net
	}
	for i, tc := range cases {
		trend := TrendByMonth(transactions, tc.metric)
		if len(trend.Monthly) != len(tc.values) {
			t.Fatalf("case %d expected %d points, got %d", i, len(tc.values), len(trend.Monthly))
		}
		for j, want := range tc.values {
			if trend.Monthly[j].Value != want {
				t.Fatalf("case %d point %d expected %v, got %v", i, j, want, trend.Monthly[j].Value)
			}
		}
		if trend.Monthly[0].Period != "2025-01" || trend.Monthly[1].Period != "2025-02" {
			t.Fatalf("case %d unexpected periods %+v", i, trend.Monthly)
		}
		if trend.Average != tc.avg {
			t.Fatalf("case %d expected average %v, got %v", i, tc.avg, trend.Average)
		}
	}
}

func TestTrendByMonthEmpty(t *testing.T) {
	trend := TrendByMonth(nil, MetricNet)
	if len(trend.Monthly) != 0 || trend.Average != 0 {
		t.Fatalf("expected empty trend, got %+v", trend)
	}
}

func TestBalances(t *testing.T) {
	accounts := []AccountRecord{{ID: "a1", Balance: 10}, {ID: "a2", Balance: 5}}
	summary := Balances(accounts, nil)
	if summary.Total != 15 {
		t.Fatalf("expected total 15, got %v", summary.Total)
	}
	if summary.ByAccount["a1"] != 10 || summary.ByAccount["a2"] != 5 {
		t.Fatalf("unexpected per-account balances %v", summary.ByAccount)
	}
}
