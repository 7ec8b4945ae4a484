// Package reports assembles the data behind exported reports: per-currency
// account and transaction groupings plus the monthly flow and savings ratio
// for a date range. Rendering beyond CSV is left to callers.
package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"finsight/internal/analytics"
	"finsight/internal/ledger"
	"finsight/internal/log"
)

type (
	// AccountSummary is one account line in a report.
	AccountSummary struct {
		ID       string  `json:"id"`
		Name     string  `json:"name"`
		Type     string  `json:"type"`
		Currency string  `json:"currency"`
		Balance  float64 `json:"balance"`
	}

	// TransactionRow is one transaction line in a report table.
	TransactionRow struct {
		Date        string  `json:"date"` // YYYY-MM-DD
		Description string  `json:"description"`
		Category    string  `json:"category"`
		Amount      float64 `json:"amount"`
		AccountName string  `json:"account_name"`
		Type        string  `json:"type"`
	}

	// CurrencyGroup is the report data for one currency.
	CurrencyGroup struct {
		Currency      string             `json:"currency"`
		Accounts      []AccountSummary   `json:"accounts"`
		Transactions  []TransactionRow   `json:"transactions"`
		ByCategory    map[string]float64 `json:"by_category"`
		TotalExpenses float64            `json:"total_expenses"`
		TotalIncome   float64            `json:"total_income"`
	}

	// FlowEntry mirrors one analytics monthly flow bucket.
	FlowEntry struct {
		Year    int     `json:"year"`
		Month   int     `json:"month"`
		Income  float64 `json:"income"`
		Expense float64 `json:"expense"`
		Net     float64 `json:"net"`
	}

	// Context is everything a report renderer needs for a date range.
	Context struct {
		FromDate     string                    `json:"from_date"`
		ToDate       string                    `json:"to_date"`
		GeneratedAt  string                    `json:"generated_at"`
		ByCurrency   map[string]*CurrencyGroup `json:"by_currency"`
		MonthlyFlow  []FlowEntry               `json:"monthly_flow"`
		SavingsRatio *float64                  `json:"savings_ratio"`
	}
)

// ReportService gathers report data from a ledger. Transactions whose
// account is unknown fall into the fallback currency's group.
type ReportService struct {
	ledger           ledger.Reader
	fallbackCurrency string
	logger           *log.Logger
}

func NewReportService(reader ledger.Reader, fallbackCurrency string, logger *log.Logger) *ReportService {
	if fallbackCurrency == "" {
		fallbackCurrency = "USD"
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentReports)
	}
	return &ReportService{ledger: reader, fallbackCurrency: fallbackCurrency, logger: logger}
}

// Build gathers all report data for [from, to], grouped by currency.
// Accounts appear in their currency's group even without transactions;
// transaction rows are sorted by date within each group.
func (s *ReportService) Build(ctx context.Context, from, to time.Time) (*Context, error) {
	accounts, err := s.ledger.Accounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	transactions, err := s.ledger.Transactions(ctx, ledger.Filter{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	accountNames := make(map[string]string, len(accounts))
	accountCurrencies := make(map[string]string, len(accounts))
	byCurrency := make(map[string]*CurrencyGroup)

	group := func(currency string) *CurrencyGroup {
		g := byCurrency[currency]
		if g == nil {
			g = &CurrencyGroup{Currency: currency, ByCategory: make(map[string]float64)}
			byCurrency[currency] = g
		}
		return g
	}

	for _, acc := range accounts {
		accountNames[acc.ID] = acc.Name
		accountCurrencies[acc.ID] = acc.Currency
		g := group(acc.Currency)
		g.Accounts = append(g.Accounts, AccountSummary{
			ID:       acc.ID,
			Name:     acc.Name,
			Type:     acc.Type,
			Currency: acc.Currency,
			Balance:  analytics.Round2(acc.Balance),
		})
	}

	for _, tx := range transactions {
		currency, ok := accountCurrencies[tx.AccountID]
		if !ok {
			currency = s.fallbackCurrency
		}
		g := group(currency)
		g.Transactions = append(g.Transactions, TransactionRow{
			Date:        tx.Date.Format("2006-01-02"),
			Description: tx.Description,
			Category:    tx.Category,
			Amount:      tx.Amount,
			AccountName: accountNames[tx.AccountID],
			Type:        tx.Type,
		})
		if tx.Type == ledger.TypeIncome {
			g.TotalIncome += tx.Amount
		} else {
			g.TotalExpenses += tx.Amount
			g.ByCategory[tx.Category] += tx.Amount
		}
	}

	for _, g := range byCurrency {
		sort.SliceStable(g.Transactions, func(i, j int) bool {
			return g.Transactions[i].Date < g.Transactions[j].Date
		})
	}

	txRecords := make([]analytics.TransactionRecord, 0, len(transactions))
	for _, tx := range transactions {
		txRecords = append(txRecords, analytics.TransactionRecord{
			Amount:    tx.Amount,
			Type:      analytics.TransactionType(tx.Type),
			Category:  tx.Category,
			Date:      analytics.DateOf(tx.Date),
			AccountID: tx.AccountID,
		})
	}

	flow := analytics.MonthlyFlows(txRecords)
	flowEntries := make([]FlowEntry, 0, len(flow))
	for _, f := range flow {
		flowEntries = append(flowEntries, FlowEntry{
			Year:    f.Year,
			Month:   f.Month,
			Income:  f.Income,
			Expense: f.Expense,
			Net:     f.Net,
		})
	}

	var ratioPtr *float64
	if ratio, ok := analytics.SavingsRatio(txRecords, 0, 0); ok {
		ratioPtr = &ratio
	}

	s.logger.InfoContext(ctx, "report context built",
		log.FieldOperation, log.OpReport,
		log.FieldFrom, from.Format("2006-01-02"),
		log.FieldTo, to.Format("2006-01-02"),
		log.FieldCount, len(transactions))

	return &Context{
		FromDate:     from.Format("2006-01-02"),
		ToDate:       to.Format("2006-01-02"),
		GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
		ByCurrency:   byCurrency,
		MonthlyFlow:  flowEntries,
		SavingsRatio: ratioPtr,
	}, nil
}
