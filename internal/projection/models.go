package projection

import (
	"time"

	"github.com/shopspring/decimal"
)

// Overall is the per-user lifetime summary row, including streak and record
// bookkeeping. One row per user, created lazily on the first settlement.
type Overall struct {
	ID               string          `gorm:"column:id;primaryKey;type:uuid;default:uuid_generate_v4()"`
	UserID           string          `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	TotalTickets     int             `gorm:"column:total_tickets;not null;default:0"`
	TicketsWon       int             `gorm:"column:tickets_won;not null;default:0"`
	TicketsLost      int             `gorm:"column:tickets_lost;not null;default:0"`
	TicketsVoid      int             `gorm:"column:tickets_void;not null;default:0"`
	TicketsCashedOut int             `gorm:"column:tickets_cashed_out;not null;default:0"`
	FullWins         int             `gorm:"column:full_wins;not null;default:0"`
	PartialWins      int             `gorm:"column:partial_wins;not null;default:0"`
	BreakEvens       int             `gorm:"column:break_evens;not null;default:0"`
	PartialLosses    int             `gorm:"column:partial_losses;not null;default:0"`
	TotalLosses      int             `gorm:"column:total_losses;not null;default:0"`
	TotalStake       decimal.Decimal `gorm:"column:total_stake;type:numeric(20,2);not null;default:0"`
	TotalReturn      decimal.Decimal `gorm:"column:total_return;type:numeric(20,2);not null;default:0"`
	TotalProfit      decimal.Decimal `gorm:"column:total_profit;type:numeric(20,2);not null;default:0"`
	TotalOdds        decimal.Decimal `gorm:"column:total_odds;type:numeric(20,4);not null;default:0"`
	ROI              decimal.Decimal `gorm:"column:roi;type:numeric(12,4);not null;default:0"`
	WinRate          decimal.Decimal `gorm:"column:win_rate;type:numeric(5,2);not null;default:0"`
	SuccessRate      decimal.Decimal `gorm:"column:success_rate;type:numeric(5,2);not null;default:0"`
	AvgOdd           decimal.Decimal `gorm:"column:avg_odd;type:numeric(10,2);not null;default:0"`
	AvgStake         decimal.Decimal `gorm:"column:avg_stake;type:numeric(20,2);not null;default:0"`

	CurrentStreak    int              `gorm:"column:current_streak;not null;default:0"`
	BestWinStreak    int              `gorm:"column:best_win_streak;not null;default:0"`
	WorstLossStreak  int              `gorm:"column:worst_loss_streak;not null;default:0"`
	BiggestWin       *decimal.Decimal `gorm:"column:biggest_win;type:numeric(20,2)"`
	BiggestLoss      *decimal.Decimal `gorm:"column:biggest_loss;type:numeric(20,2)"`
	BestROI          *decimal.Decimal `gorm:"column:best_roi;type:numeric(12,4)"`
	BestROITicketID  *string          `gorm:"column:best_roi_ticket_id;type:uuid"`
	FirstBetAt       *time.Time       `gorm:"column:first_bet_at"`
	LastSettledAt    *time.Time       `gorm:"column:last_settled_at"`

	Version   int       `gorm:"column:version;not null;default:1"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()"`
}

// Month is the per-user calendar-month summary row.
type Month struct {
	ID               string          `gorm:"column:id;primaryKey;type:uuid;default:uuid_generate_v4()"`
	UserID           string          `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_month_key"`
	Year             int             `gorm:"column:year;not null;uniqueIndex:idx_month_key"`
	Month            int             `gorm:"column:month;not null;uniqueIndex:idx_month_key"`
	TotalTickets     int             `gorm:"column:total_tickets;not null;default:0"`
	TicketsWon       int             `gorm:"column:tickets_won;not null;default:0"`
	TicketsLost      int             `gorm:"column:tickets_lost;not null;default:0"`
	TicketsVoid      int             `gorm:"column:tickets_void;not null;default:0"`
	TicketsCashedOut int             `gorm:"column:tickets_cashed_out;not null;default:0"`
	TotalStake       decimal.Decimal `gorm:"column:total_stake;type:numeric(20,2);not null;default:0"`
	TotalProfit      decimal.Decimal `gorm:"column:total_profit;type:numeric(20,2);not null;default:0"`
	ROI              decimal.Decimal `gorm:"column:roi;type:numeric(12,4);not null;default:0"`
	WinRate          decimal.Decimal `gorm:"column:win_rate;type:numeric(5,2);not null;default:0"`

	Version   int       `gorm:"column:version;not null;default:1"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()"`
}

// Provider is the per-user, per-bookmaker summary row.
type Provider struct {
	ID               string          `gorm:"column:id;primaryKey;type:uuid;default:uuid_generate_v4()"`
	UserID           string          `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_provider_key"`
	ProviderID       string          `gorm:"column:provider_id;type:varchar(64);not null;uniqueIndex:idx_provider_key"`
	TotalTickets     int             `gorm:"column:total_tickets;not null;default:0"`
	TicketsWon       int             `gorm:"column:tickets_won;not null;default:0"`
	TicketsLost      int             `gorm:"column:tickets_lost;not null;default:0"`
	TicketsVoid      int             `gorm:"column:tickets_void;not null;default:0"`
	TicketsCashedOut int             `gorm:"column:tickets_cashed_out;not null;default:0"`
	TotalStake       decimal.Decimal `gorm:"column:total_stake;type:numeric(20,2);not null;default:0"`
	TotalProfit      decimal.Decimal `gorm:"column:total_profit;type:numeric(20,2);not null;default:0"`
	TotalOdds        decimal.Decimal `gorm:"column:total_odds;type:numeric(20,4);not null;default:0"`
	ROI              decimal.Decimal `gorm:"column:roi;type:numeric(12,4);not null;default:0"`
	WinRate          decimal.Decimal `gorm:"column:win_rate;type:numeric(5,2);not null;default:0"`
	AvgOdd           decimal.Decimal `gorm:"column:avg_odd;type:numeric(10,2);not null;default:0"`
	AvgStake         decimal.Decimal `gorm:"column:avg_stake;type:numeric(20,2);not null;default:0"`

	Version   int       `gorm:"column:version;not null;default:1"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()"`
}

// Market is the per-user, per-market summary row. Counters here are per
// selection, not per ticket; UniqueTickets counts tickets touching the
// market at least once.
type Market struct {
	ID              string          `gorm:"column:id;primaryKey;type:uuid;default:uuid_generate_v4()"`
	UserID          string          `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_market_key"`
	MarketType      string          `gorm:"column:market_type;type:varchar(100);not null;uniqueIndex:idx_market_key"`
	TotalSelections int             `gorm:"column:total_selections;not null;default:0"`
	Wins            int             `gorm:"column:wins;not null;default:0"`
	Losses          int             `gorm:"column:losses;not null;default:0"`
	Voids           int             `gorm:"column:voids;not null;default:0"`
	UniqueTickets   int             `gorm:"column:unique_tickets;not null;default:0"`
	TotalStake      decimal.Decimal `gorm:"column:total_stake;type:numeric(20,2);not null;default:0"`
	TotalProfit     decimal.Decimal `gorm:"column:total_profit;type:numeric(20,2);not null;default:0"`
	WinRate         decimal.Decimal `gorm:"column:win_rate;type:numeric(5,2);not null;default:0"`

	Version   int       `gorm:"column:version;not null;default:1"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()"`
}

// Tournament is the per-user, per-tournament summary row. One increment per
// ticket touching the tournament, using the ticket's overall outcome.
type Tournament struct {
	ID           string          `gorm:"column:id;primaryKey;type:uuid;default:uuid_generate_v4()"`
	UserID       string          `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_tournament_key"`
	TournamentID string          `gorm:"column:tournament_id;type:varchar(64);not null;uniqueIndex:idx_tournament_key"`
	TotalTickets int             `gorm:"column:total_tickets;not null;default:0"`
	TicketsWon   int             `gorm:"column:tickets_won;not null;default:0"`
	TicketsLost  int             `gorm:"column:tickets_lost;not null;default:0"`
	TicketsVoid  int             `gorm:"column:tickets_void;not null;default:0"`
	TotalStake   decimal.Decimal `gorm:"column:total_stake;type:numeric(20,2);not null;default:0"`
	TotalProfit  decimal.Decimal `gorm:"column:total_profit;type:numeric(20,2);not null;default:0"`
	ROI          decimal.Decimal `gorm:"column:roi;type:numeric(12,4);not null;default:0"`
	WinRate      decimal.Decimal `gorm:"column:win_rate;type:numeric(5,2);not null;default:0"`

	Version   int       `gorm:"column:version;not null;default:1"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()"`
}
