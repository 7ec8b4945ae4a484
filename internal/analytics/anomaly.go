package analytics

import "math"

type (
	// AnomalyPoint is one transaction flagged as a statistical outlier.
	// Index is the 0-based position within the filtered input sequence.
	AnomalyPoint struct {
		Index     int
		Amount    float64
		Type      TransactionType
		Category  string
		Date      string // ISO-8601
		ZScore    float64
		AccountID string
	}

	// AnomalyResult holds the flagged outliers and the distribution used.
	AnomalyResult struct {
		Anomalies []AnomalyPoint
		Threshold float64
		Mean      float64
		Std       float64
	}
)

// DetectAnomalies flags transactions whose amount deviates from the mean by
// at least threshold standard deviations. AccountID and txType narrow the
// input by exact equality when non-empty.
//
// Mean and standard deviation are population statistics (divide by N): the
// filtered set is the complete population under analysis, not a sample.
// Fewer than two filtered transactions yield an empty result with zero mean
// and deviation. When all amounts are identical the deviation is zero and
// every z-score is forced to zero, so nothing is flagged. Anomalies keep the
// filtered input order; mean, deviation and z-scores are rounded to two
// decimals.
func DetectAnomalies(transactions []TransactionRecord, threshold float64, accountID string, txType TransactionType) AnomalyResult {
	filtered := transactions
	if accountID != "" {
		filtered = filterByAccount(filtered, accountID)
	}
	if txType != "" {
		byType := make([]TransactionRecord, 0, len(filtered))
		for _, tx := range filtered {
			if tx.Type == txType {
				byType = append(byType, tx)
			}
		}
		filtered = byType
	}

	if len(filtered) < 2 {
		return AnomalyResult{Anomalies: []AnomalyPoint{}, Threshold: threshold}
	}

	var sum float64
	for _, tx := range filtered {
		sum += tx.Amount
	}
	mean := sum / float64(len(filtered))

	var variance float64
	for _, tx := range filtered {
		d := tx.Amount - mean
		variance += d * d
	}
	variance /= float64(len(filtered))
	std := 0.0
	if variance > 0 {
		std = math.Sqrt(variance)
	}

	anomalies := []AnomalyPoint{}
	for i, tx := range filtered {
		z := 0.0
		if std != 0 {
			z = (tx.Amount - mean) / std
		}
		if math.Abs(z) >= threshold {
			anomalies = append(anomalies, AnomalyPoint{
				Index:     i,
				Amount:    tx.Amount,
				Type:      tx.Type,
				Category:  tx.Category,
				Date:      tx.Date.ISO(),
				ZScore:    Round2(z),
				AccountID: tx.AccountID,
			})
		}
	}

	return AnomalyResult{
		Anomalies: anomalies,
		Threshold: threshold,
		Mean:      Round2(mean),
		Std:       Round2(std),
	}
}
