package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldAccountID   = "account_id"
	FieldType        = "transaction_type"
	FieldYear        = "year"
	FieldMonth       = "month"
	FieldThreshold   = "threshold"
	FieldMonthsAhead = "months_ahead"
	FieldCount       = "count"
	FieldCurrency    = "currency"
	FieldFrom        = "from"
	FieldTo          = "to"
	FieldSnapshot    = "snapshot"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentAnalytics = "analytics"
	ComponentLedger    = "ledger"
	ComponentReports   = "reports"
	ComponentCLI       = "cli"
)

// Operations defines standard operation names
const (
	OpStatus    = "status"
	OpMonth     = "month"
	OpForecast  = "forecast"
	OpAnomalies = "anomalies"
	OpReport    = "report"
	OpExport    = "export"
	OpLoad      = "load"
)
