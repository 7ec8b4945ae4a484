package reports

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"finsight/internal/ledger"
	"finsight/internal/ledger/memory"
)

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func buildStore(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	s := memory.New()
	usd, err := s.CreateAccount(ctx, "checking", "checking", "USD", 1000)
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	eur, err := s.CreateAccount(ctx, "travel", "checking", "EUR", 300)
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	for i, in := range []ledger.TransactionInput{
		{AccountID: usd.ID, Amount: 1200, Type: ledger.TypeIncome, Category: "salary", Description: "march pay", Date: date(2025, 3, 1)},
		{AccountID: usd.ID, Amount: 90, Type: ledger.TypeExpense, Category: "food", Description: "groceries", Date: date(2025, 3, 12)},
		{AccountID: usd.ID, Amount: 40, Type: ledger.TypeExpense, Category: "food", Description: "dinner", Date: date(2025, 3, 5)},
		{AccountID: eur.ID, Amount: 55, Type: ledger.TypeExpense, Category: "travel", Description: "train", Date: date(2025, 3, 8)},
		{AccountID: usd.ID, Amount: 10, Type: ledger.TypeExpense, Category: "food", Description: "outside range", Date: date(2025, 5, 1)},
	} {
		if _, err := s.RecordTransaction(ctx, in); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}
	return s
}

func TestBuildGroupsByCurrency(t *testing.T) {
	store := buildStore(t)
	svc := NewReportService(store, "", nil)

	rctx, err := svc.Build(context.Background(), date(2025, 3, 1), date(2025, 3, 31))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if rctx.FromDate != "2025-03-01" || rctx.ToDate != "2025-03-31" {
		t.Fatalf("unexpected range %s..%s", rctx.FromDate, rctx.ToDate)
	}
	if len(rctx.ByCurrency) != 2 {
		t.Fatalf("expected 2 currency groups, got %d", len(rctx.ByCurrency))
	}

	usd := rctx.ByCurrency["USD"]
	if usd == nil {
		t.Fatal("missing USD group")
	}
	if len(usd.Accounts) != 1 || usd.Accounts[0].Name != "checking" {
		t.Fatalf("unexpected USD accounts %+v", usd.Accounts)
	}
	// The May transaction is outside the range.
	if len(usd.Transactions) != 3 {
		t.Fatalf("expected 3 USD rows, got %d", len(usd.Transactions))
	}
	// Rows sorted by date, not insertion order.
	if usd.Transactions[1].Description != "dinner" {
		t.Fatalf("expected date order, got %+v", usd.Transactions)
	}
	if usd.TotalIncome != 1200 || usd.TotalExpenses != 130 {
		t.Fatalf("unexpected USD totals income=%v expenses=%v", usd.TotalIncome, usd.TotalExpenses)
	}

	// Expense totals equal the sum of the category map.
	var sum float64
	for _, v := range usd.ByCategory {
		sum += v
	}
	if sum != usd.TotalExpenses {
		t.Fatalf("category sum %v != total expenses %v", sum, usd.TotalExpenses)
	}

	eur := rctx.ByCurrency["EUR"]
	if eur == nil || len(eur.Transactions) != 1 || eur.Transactions[0].AccountName != "travel" {
		t.Fatalf("unexpected EUR group %+v", eur)
	}

	if len(rctx.MonthlyFlow) != 1 {
		t.Fatalf("expected one flow bucket, got %+v", rctx.MonthlyFlow)
	}
	flow := rctx.MonthlyFlow[0]
	if flow.Year != 2025 || flow.Month != 3 || flow.Income != 1200 || flow.Expense != 185 {
		t.Fatalf("unexpected flow %+v", flow)
	}
	if rctx.SavingsRatio == nil {
		t.Fatal("expected a savings ratio")
	}
}

func TestBuildAccountsWithoutTransactions(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	if _, err := store.CreateAccount(ctx, "idle", "savings", "GBP", 50); err != nil {
		t.Fatalf("create account: %v", err)
	}

	svc := NewReportService(store, "", nil)
	rctx, err := svc.Build(ctx, date(2025, 1, 1), date(2025, 12, 31))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	gbp := rctx.ByCurrency["GBP"]
	if gbp == nil || len(gbp.Accounts) != 1 || len(gbp.Transactions) != 0 {
		t.Fatalf("expected idle account in its group, got %+v", gbp)
	}
	if rctx.SavingsRatio != nil {
		t.Fatalf("expected no ratio without transactions, got %v", *rctx.SavingsRatio)
	}
}

func TestWriteTransactionsCSV(t *testing.T) {
	store := buildStore(t)
	svc := NewReportService(store, "", nil)
	rctx, err := svc.Build(context.Background(), date(2025, 3, 1), date(2025, 3, 31))
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteTransactionsCSV(&buf, rctx); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 { // header + 4 rows
		t.Fatalf("expected 5 lines, got %d:\n%s", len(lines), buf.String())
	}
	if lines[0] != "date,account,type,category,description,amount,currency" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	// EUR sorts before USD.
	if !strings.Contains(lines[1], "EUR") {
		t.Fatalf("expected EUR row first, got %q", lines[1])
	}
	if !strings.Contains(lines[1], "55.00") {
		t.Fatalf("expected 2-decimal amount, got %q", lines[1])
	}
}
