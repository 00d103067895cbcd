package settlement

import "github.com/shopspring/decimal"

type ClassificationResult struct {
	Status     FinancialStatus `json:"financial_status"`
	ProfitLoss decimal.Decimal `json:"profit_loss"`
	ROI        decimal.Decimal `json:"roi"`
}

var oneHundred = decimal.NewFromInt(100)

// Classify maps a settled ticket's money figures to a financial outcome.
// It never errors: an open ticket or a missing payout yields PENDING with
// zero profit and ROI. Safe for concurrent use.
func Classify(stake decimal.Decimal, actualPayout, potentialPayout *decimal.Decimal, status TicketStatus) ClassificationResult {
	if status == TicketStatusOpen || actualPayout == nil {
		return ClassificationResult{Status: FinancialStatusPending, ProfitLoss: decimal.Zero, ROI: decimal.Zero}
	}

	payout := *actualPayout
	profit := payout.Sub(stake)

	roi := decimal.Zero
	if !stake.IsZero() {
		roi = profit.Div(stake).Mul(oneHundred).Round(4)
	}

	return ClassificationResult{
		Status:     classifyStatus(stake, payout, potentialPayout),
		ProfitLoss: profit,
		ROI:        roi,
	}
}

// classifyStatus evaluates the outcome tree in a fixed order; the ordering
// matters because the branches overlap (a zero payout is also below stake).
func classifyStatus(stake, payout decimal.Decimal, potential *decimal.Decimal) FinancialStatus {
	switch {
	case payout.IsZero():
		return FinancialStatusTotalLoss
	case payout.LessThan(stake):
		return FinancialStatusPartialLoss
	case payout.Equal(stake):
		return FinancialStatusBreakEven
	case potential != nil && payout.GreaterThanOrEqual(*potential):
		// Payout above potential (provider bonuses) is still a full win.
		return FinancialStatusFullWin
	case payout.GreaterThan(stake):
		return FinancialStatusPartialWin
	}
	// Unreachable for a present payout; kept so every path returns a status.
	return FinancialStatusPending
}
