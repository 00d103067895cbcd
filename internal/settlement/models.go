package settlement

import (
	"time"

	"github.com/shopspring/decimal"
)

type TicketStatus string

const (
	TicketStatusOpen      TicketStatus = "OPEN"
	TicketStatusWon       TicketStatus = "WON"
	TicketStatusLost      TicketStatus = "LOST"
	TicketStatusVoid      TicketStatus = "VOID"
	TicketStatusCashedOut TicketStatus = "CASHED_OUT"
)

// FinancialStatus is the five-level monetary outcome of a settled ticket.
// PENDING is only valid for tickets that have not settled yet.
type FinancialStatus string

const (
	FinancialStatusPending     FinancialStatus = "PENDING"
	FinancialStatusFullWin     FinancialStatus = "FULL_WIN"
	FinancialStatusPartialWin  FinancialStatus = "PARTIAL_WIN"
	FinancialStatusBreakEven   FinancialStatus = "BREAK_EVEN"
	FinancialStatusPartialLoss FinancialStatus = "PARTIAL_LOSS"
	FinancialStatusTotalLoss   FinancialStatus = "TOTAL_LOSS"
)

const (
	SelectionOutcomeWon  = "WON"
	SelectionOutcomeLost = "LOST"
	SelectionOutcomeVoid = "VOID"
)

type Selection struct {
	MarketType       string     `json:"market_type"`
	TournamentID     *string    `json:"tournament_id,omitempty"`
	SelectionOutcome string     `json:"selection_outcome"`
	EventDate        *time.Time `json:"event_date,omitempty"`
}

// Event is the immutable settlement fact handed to the aggregation engine
// once a ticket leaves the open state.
type Event struct {
	TicketID        string          `json:"ticket_id"`
	UserID          string          `json:"user_id"`
	ProviderID      string          `json:"provider_id"`
	Stake           decimal.Decimal `json:"stake"`
	TotalOdd        decimal.Decimal `json:"total_odd"`
	ActualPayout    decimal.Decimal `json:"actual_payout"`
	ProfitLoss      decimal.Decimal `json:"profit_loss"`
	ROI             decimal.Decimal `json:"roi"`
	TicketStatus    TicketStatus    `json:"ticket_status"`
	FinancialStatus FinancialStatus `json:"financial_status"`
	SettledAt       time.Time       `json:"settled_at"`
	Selections      []Selection     `json:"selections"`
}
