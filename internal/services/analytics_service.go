// Package services orchestrates the analytics core over a ledger: it adapts
// persisted entities into records, runs the pure computations, and shapes
// rounded envelopes for callers to serialize.
package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"finsight/internal/analytics"
	"finsight/internal/ledger"
	"finsight/internal/log"
)

type (
	// AccountStatus is one account line in a financial status envelope.
	AccountStatus struct {
		ID       string  `json:"id"`
		Name     string  `json:"name"`
		Type     string  `json:"type"`
		Currency string  `json:"currency"`
		Balance  float64 `json:"balance"`
	}

	// MonthlyFlowEntry mirrors analytics.MonthlyFlow for serialization.
	MonthlyFlowEntry struct {
		Year    int     `json:"year"`
		Month   int     `json:"month"`
		Income  float64 `json:"income"`
		Expense float64 `json:"expense"`
		Net     float64 `json:"net"`
	}

	// CategoryBreakdown mirrors analytics.CategoryDistribution.
	CategoryBreakdown struct {
		ByCategory map[string]float64 `json:"by_category"`
		Total      float64            `json:"total"`
	}

	// FinancialStatus aggregates the overall financial picture.
	FinancialStatus struct {
		TotalBalance         float64            `json:"total_balance"`
		ByAccount            []AccountStatus    `json:"by_account"`
		ByCurrency           map[string]float64 `json:"by_currency"`
		SavingsRatio         *float64           `json:"savings_ratio"`
		MonthlyFlow          []MonthlyFlowEntry `json:"monthly_flow"`
		CategoryDistribution CategoryBreakdown  `json:"category_distribution"`
	}

	// MonthReport is the analysis of one calendar month.
	MonthReport struct {
		Year              int                `json:"year"`
		Month             int                `json:"month"`
		Flow              *MonthlyFlowEntry  `json:"flow"`
		ExpenseByCategory map[string]float64 `json:"expense_by_category"`
		IncomeByCategory  map[string]float64 `json:"income_by_category"`
		SavingsRatio      *float64           `json:"savings_ratio"`
	}

	// ForecastPointEntry is one projected month in a forecast envelope.
	ForecastPointEntry struct {
		Period string  `json:"period"`
		Value  float64 `json:"value"`
	}

	// Forecast is the balance projection envelope.
	Forecast struct {
		Points []ForecastPointEntry `json:"points"`
		Slope  float64              `json:"slope"`
	}

	// AnomalyEntry is one flagged transaction in an anomalies envelope.
	AnomalyEntry struct {
		Index     int     `json:"index"`
		Amount    float64 `json:"amount"`
		Type      string  `json:"type"`
		Category  string  `json:"category"`
		Date      string  `json:"date"`
		ZScore    float64 `json:"z_score"`
		AccountID string  `json:"account_id"`
	}

	// Anomalies is the anomaly detection envelope.
	Anomalies struct {
		Anomalies []AnomalyEntry `json:"anomalies"`
		Threshold float64        `json:"threshold"`
		Mean      float64        `json:"mean"`
		Std       float64        `json:"std"`
	}

	// AnomalyQuery narrows anomaly detection.
	AnomalyQuery struct {
		AccountID string
		Type      string
		Threshold float64
	}
)

// AnalyticsService runs the analytics engine over a ledger.
type AnalyticsService struct {
	ledger ledger.Reader
	logger *log.Logger
}

func NewAnalyticsService(reader ledger.Reader, logger *log.Logger) *AnalyticsService {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentAnalytics)
	}
	return &AnalyticsService{ledger: reader, logger: logger}
}

// FinancialStatus aggregates balances, savings ratio, monthly flow and the
// expense category distribution. Stored account balances are the source of
// truth for the total; the ledger keeps them in step with the transactions.
func (s *AnalyticsService) FinancialStatus(ctx context.Context) (*FinancialStatus, error) {
	accounts, transactions, err := s.fetch(ctx, ledger.Filter{})
	if err != nil {
		return nil, err
	}

	accRecords := toAccountRecords(accounts)
	txRecords := toTransactionRecords(transactions)

	total := analytics.TotalBalance(accRecords, nil)
	flow := analytics.MonthlyFlows(txRecords)
	dist := analytics.DistributionByCategory(txRecords, analytics.Expense, 0, 0)

	var ratioPtr *float64
	if ratio, ok := analytics.SavingsRatio(txRecords, 0, 0); ok {
		rounded := analytics.Round4(ratio)
		ratioPtr = &rounded
	}

	byAccount := make([]AccountStatus, 0, len(accounts))
	byCurrency := make(map[string]float64)
	for _, acc := range accounts {
		byAccount = append(byAccount, AccountStatus{
			ID:       acc.ID,
			Name:     acc.Name,
			Type:     acc.Type,
			Currency: acc.Currency,
			Balance:  analytics.Round2(acc.Balance),
		})
		byCurrency[acc.Currency] += acc.Balance
	}
	for currency, balance := range byCurrency {
		byCurrency[currency] = analytics.Round2(balance)
	}

	flowEntries := make([]MonthlyFlowEntry, 0, len(flow))
	for _, f := range flow {
		flowEntries = append(flowEntries, MonthlyFlowEntry{
			Year:    f.Year,
			Month:   f.Month,
			Income:  analytics.Round2(f.Income),
			Expense: analytics.Round2(f.Expense),
			Net:     analytics.Round2(f.Net),
		})
	}

	s.logger.InfoContext(ctx, "financial status computed",
		log.FieldOperation, log.OpStatus,
		log.FieldCount, len(transactions))

	return &FinancialStatus{
		TotalBalance: total,
		ByAccount:    byAccount,
		ByCurrency:   byCurrency,
		SavingsRatio: ratioPtr,
		MonthlyFlow:  flowEntries,
		CategoryDistribution: CategoryBreakdown{
			ByCategory: dist.ByCategory,
			Total:      analytics.Round2(dist.Total),
		},
	}, nil
}

// AnalyzeMonth reports one month's flow, per-category expense and income,
// and savings ratio. Flow and ratio are nil when the month has no data.
func (s *AnalyticsService) AnalyzeMonth(ctx context.Context, year, month int) (*MonthReport, error) {
	_, transactions, err := s.fetch(ctx, ledger.Filter{})
	if err != nil {
		return nil, err
	}
	txRecords := toTransactionRecords(transactions)

	var flowEntry *MonthlyFlowEntry
	for _, f := range analytics.MonthlyFlows(txRecords) {
		if f.Year == year && f.Month == month {
			flowEntry = &MonthlyFlowEntry{
				Year:    f.Year,
				Month:   f.Month,
				Income:  f.Income,
				Expense: f.Expense,
				Net:     f.Net,
			}
			break
		}
	}

	expenseDist := analytics.DistributionByCategory(txRecords, analytics.Expense, year, month)
	incomeDist := analytics.DistributionByCategory(txRecords, analytics.Income, year, month)

	var ratioPtr *float64
	if ratio, ok := analytics.SavingsRatio(txRecords, year, month); ok {
		ratioPtr = &ratio
	}

	s.logger.InfoContext(ctx, "month analyzed",
		log.FieldOperation, log.OpMonth,
		log.FieldYear, year,
		log.FieldMonth, month)

	return &MonthReport{
		Year:              year,
		Month:             month,
		Flow:              flowEntry,
		ExpenseByCategory: expenseDist.ByCategory,
		IncomeByCategory:  incomeDist.ByCategory,
		SavingsRatio:      ratioPtr,
	}, nil
}

// Forecast projects the balance for the next monthsAhead months, for one
// account or the total.
func (s *AnalyticsService) Forecast(ctx context.Context, accountID string, monthsAhead int) (*Forecast, error) {
	accounts, transactions, err := s.fetch(ctx, ledger.Filter{})
	if err != nil {
		return nil, err
	}

	result := analytics.ForecastBalance(
		toAccountRecords(accounts),
		toTransactionRecords(transactions),
		accountID,
		monthsAhead,
	)

	points := make([]ForecastPointEntry, 0, len(result.Points))
	for _, p := range result.Points {
		points = append(points, ForecastPointEntry{Period: p.Period, Value: p.Value})
	}

	s.logger.InfoContext(ctx, "forecast computed",
		log.FieldOperation, log.OpForecast,
		log.FieldAccountID, accountID,
		log.FieldMonthsAhead, monthsAhead)

	return &Forecast{Points: points, Slope: analytics.Round2(result.Slope)}, nil
}

// Anomalies flags transactions whose amount is a statistical outlier.
func (s *AnalyticsService) Anomalies(ctx context.Context, q AnomalyQuery) (*Anomalies, error) {
	_, transactions, err := s.fetch(ctx, ledger.Filter{})
	if err != nil {
		return nil, err
	}

	result := analytics.DetectAnomalies(
		toTransactionRecords(transactions),
		q.Threshold,
		q.AccountID,
		analytics.TransactionType(q.Type),
	)

	entries := make([]AnomalyEntry, 0, len(result.Anomalies))
	for _, a := range result.Anomalies {
		entries = append(entries, AnomalyEntry{
			Index:     a.Index,
			Amount:    a.Amount,
			Type:      string(a.Type),
			Category:  a.Category,
			Date:      a.Date,
			ZScore:    a.ZScore,
			AccountID: a.AccountID,
		})
	}

	s.logger.InfoContext(ctx, "anomaly detection finished",
		log.FieldOperation, log.OpAnomalies,
		log.FieldThreshold, q.Threshold,
		log.FieldCount, len(entries))

	return &Anomalies{
		Anomalies: entries,
		Threshold: result.Threshold,
		Mean:      result.Mean,
		Std:       result.Std,
	}, nil
}

// fetch loads accounts and transactions concurrently. The analytics core is
// pure, so the only shared-state discipline needed is a consistent snapshot
// per call, which the ledger provides.
func (s *AnalyticsService) fetch(ctx context.Context, f ledger.Filter) ([]ledger.Account, []ledger.Transaction, error) {
	var (
		accounts     []ledger.Account
		transactions []ledger.Transaction
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = s.ledger.Accounts(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		transactions, err = s.ledger.Transactions(ctx, f)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("load ledger: %w", err)
	}
	return accounts, transactions, nil
}

func toAccountRecords(accounts []ledger.Account) []analytics.AccountRecord {
	records := make([]analytics.AccountRecord, 0, len(accounts))
	for _, acc := range accounts {
		records = append(records, analytics.AccountRecord{ID: acc.ID, Balance: acc.Balance})
	}
	return records
}

func toTransactionRecords(transactions []ledger.Transaction) []analytics.TransactionRecord {
	records := make([]analytics.TransactionRecord, 0, len(transactions))
	for _, tx := range transactions {
		records = append(records, analytics.TransactionRecord{
			Amount:    tx.Amount,
			Type:      analytics.TransactionType(tx.Type),
			Category:  tx.Category,
			Date:      analytics.DateOf(tx.Date),
			AccountID: tx.AccountID,
		})
	}
	return records
}
