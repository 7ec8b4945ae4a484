package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"finsight/internal/config"
	"finsight/internal/ledger"
	"finsight/internal/ledger/memory"
	"finsight/internal/log"
	"finsight/internal/reports"
	"finsight/internal/services"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	op := flag.String("op", log.OpStatus, "operation: status, month, forecast, anomalies, report, export")
	year := flag.Int("year", 0, "year for the month operation")
	month := flag.Int("month", 0, "month (1-12) for the month operation")
	account := flag.String("account", "", "account id filter")
	txType := flag.String("type", "", "transaction type filter (income or expense)")
	threshold := flag.Float64("threshold", cfg.AnomalyThreshold, "anomaly z-score threshold")
	months := flag.Int("months", cfg.ForecastMonths, "months ahead to forecast")
	fromFlag := flag.String("from", "", "report range start (YYYY-MM-DD)")
	toFlag := flag.String("to", "", "report range end (YYYY-MM-DD), inclusive")
	snapshot := flag.String("snapshot", cfg.SnapshotPath, "ledger snapshot file (JSON)")
	flag.Parse()

	logger := log.New(log.Config{Level: cfg.SlogLevel(), Component: log.ComponentCLI})
	log.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", log.FieldError, err)
		os.Exit(1)
	}

	store, err := openStore(*snapshot)
	if err != nil {
		logger.Error("failed to open ledger", log.FieldError, err, log.FieldSnapshot, *snapshot)
		os.Exit(1)
	}

	svc := services.NewAnalyticsService(store, logger.WithComponent(log.ComponentAnalytics))
	rep := reports.NewReportService(store, cfg.DefaultCurrency, logger.WithComponent(log.ComponentReports))

	ctx := context.Background()
	if err := run(ctx, *op, svc, rep, runParams{
		year:      *year,
		month:     *month,
		account:   *account,
		txType:    *txType,
		threshold: *threshold,
		months:    *months,
		from:      *fromFlag,
		to:        *toFlag,
	}); err != nil {
		logger.Error("operation failed", log.FieldOperation, *op, log.FieldError, err)
		os.Exit(1)
	}
}

type runParams struct {
	year, month int
	account     string
	txType      string
	threshold   float64
	months      int
	from, to    string
}

// run performs the boundary validation the analytics core deliberately
// omits, then dispatches and serializes.
func run(ctx context.Context, op string, svc *services.AnalyticsService, rep *reports.ReportService, p runParams) error {
	switch op {
	case log.OpStatus:
		status, err := svc.FinancialStatus(ctx)
		if err != nil {
			return err
		}
		return emitJSON(status)

	case log.OpMonth:
		if p.year == 0 {
			return fmt.Errorf("the month operation requires -year")
		}
		if p.month < 1 || p.month > 12 {
			return fmt.Errorf("month must be between 1 and 12, got %d", p.month)
		}
		report, err := svc.AnalyzeMonth(ctx, p.year, p.month)
		if err != nil {
			return err
		}
		return emitJSON(report)

	case log.OpForecast:
		if p.months < 1 {
			return fmt.Errorf("months ahead must be at least 1, got %d", p.months)
		}
		forecast, err := svc.Forecast(ctx, p.account, p.months)
		if err != nil {
			return err
		}
		return emitJSON(forecast)

	case log.OpAnomalies:
		if p.threshold <= 0 {
			return fmt.Errorf("threshold must be positive, got %v", p.threshold)
		}
		if p.txType != "" && p.txType != ledger.TypeIncome && p.txType != ledger.TypeExpense {
			return fmt.Errorf("type must be %q or %q, got %q", ledger.TypeIncome, ledger.TypeExpense, p.txType)
		}
		anomalies, err := svc.Anomalies(ctx, services.AnomalyQuery{
			AccountID: p.account,
			Type:      p.txType,
			Threshold: p.threshold,
		})
		if err != nil {
			return err
		}
		return emitJSON(anomalies)

	case log.OpReport, log.OpExport:
		from, to, err := parseRange(p.from, p.to)
		if err != nil {
			return err
		}
		rctx, err := rep.Build(ctx, from, to)
		if err != nil {
			return err
		}
		if op == log.OpExport {
			return reports.WriteTransactionsCSV(os.Stdout, rctx)
		}
		return emitJSON(rctx)

	default:
		return fmt.Errorf("unknown operation %q", op)
	}
}

func openStore(snapshot string) (*memory.Store, error) {
	if snapshot == "" {
		return memory.New(), nil
	}
	return memory.FromSnapshotFile(snapshot)
}

func parseRange(fromStr, toStr string) (time.Time, time.Time, error) {
	if fromStr == "" || toStr == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("report operations require -from and -to")
	}
	from, err := time.Parse("2006-01-02", fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid from date %q: %w", fromStr, err)
	}
	to, err := time.Parse("2006-01-02", toStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid to date %q: %w", toStr, err)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("to date %s is before from date %s", toStr, fromStr)
	}
	return from, to, nil
}

func emitJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(out))
	return err
}
