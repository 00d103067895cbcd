package projection

import (
	"tracker_service/internal/settlement"

	"github.com/shopspring/decimal"
)

// Reducers take a projection snapshot by value and return the next snapshot.
// Derived rates are always recomputed from the post-increment totals; they
// are never carried forward as running averages.

var hundred = decimal.NewFromInt(100)

func ReduceOverall(p Overall, e settlement.Event) Overall {
	p.TotalTickets++
	countBucket(settlement.BucketOf(e.FinancialStatus), &p.TicketsWon, &p.TicketsLost, &p.TicketsVoid)
	if e.TicketStatus == settlement.TicketStatusCashedOut {
		p.TicketsCashedOut++
	}

	switch e.FinancialStatus {
	case settlement.FinancialStatusFullWin:
		p.FullWins++
	case settlement.FinancialStatusPartialWin:
		p.PartialWins++
	case settlement.FinancialStatusBreakEven:
		p.BreakEvens++
	case settlement.FinancialStatusPartialLoss:
		p.PartialLosses++
	case settlement.FinancialStatusTotalLoss:
		p.TotalLosses++
	}

	p.TotalStake = p.TotalStake.Add(e.Stake)
	p.TotalReturn = p.TotalReturn.Add(e.ActualPayout)
	p.TotalProfit = p.TotalProfit.Add(e.ProfitLoss)
	p.TotalOdds = p.TotalOdds.Add(e.TotalOdd)

	p.ROI = percentOf(p.TotalProfit, p.TotalStake, 4)
	p.WinRate = countRate(p.TicketsWon, p.TotalTickets)
	p.SuccessRate = countRate(p.TicketsWon, p.TicketsWon+p.TicketsLost)
	p.AvgOdd = averageOf(p.TotalOdds, p.TotalTickets)
	p.AvgStake = averageOf(p.TotalStake, p.TotalTickets)

	if p.FirstBetAt == nil {
		t := e.SettledAt
		p.FirstBetAt = &t
	}
	settled := e.SettledAt
	p.LastSettledAt = &settled

	return reduceGamification(p, e)
}

func reduceGamification(p Overall, e settlement.Event) Overall {
	switch settlement.BucketOf(e.FinancialStatus) {
	case settlement.BucketWon:
		if p.CurrentStreak >= 0 {
			p.CurrentStreak++
		} else {
			p.CurrentStreak = 1
		}
		if p.CurrentStreak > p.BestWinStreak {
			p.BestWinStreak = p.CurrentStreak
		}
	case settlement.BucketLost:
		if p.CurrentStreak <= 0 {
			p.CurrentStreak--
		} else {
			p.CurrentStreak = -1
		}
		if p.CurrentStreak < p.WorstLossStreak {
			p.WorstLossStreak = p.CurrentStreak
		}
	default:
		p.CurrentStreak = 0
	}

	if e.ProfitLoss.IsPositive() && (p.BiggestWin == nil || e.ProfitLoss.GreaterThan(*p.BiggestWin)) {
		v := e.ProfitLoss
		p.BiggestWin = &v
	}
	if e.ProfitLoss.IsNegative() && (p.BiggestLoss == nil || e.ProfitLoss.LessThan(*p.BiggestLoss)) {
		v := e.ProfitLoss
		p.BiggestLoss = &v
	}
	if e.ROI.IsPositive() && (p.BestROI == nil || e.ROI.GreaterThan(*p.BestROI)) {
		roi := e.ROI
		ticket := e.TicketID
		p.BestROI = &roi
		p.BestROITicketID = &ticket
	}

	return p
}

func ReduceMonth(p Month, e settlement.Event) Month {
	p.TotalTickets++
	countBucket(settlement.BucketOf(e.FinancialStatus), &p.TicketsWon, &p.TicketsLost, &p.TicketsVoid)
	if e.TicketStatus == settlement.TicketStatusCashedOut {
		p.TicketsCashedOut++
	}

	p.TotalStake = p.TotalStake.Add(e.Stake)
	p.TotalProfit = p.TotalProfit.Add(e.ProfitLoss)

	p.ROI = percentOf(p.TotalProfit, p.TotalStake, 4)
	p.WinRate = countRate(p.TicketsWon, p.TotalTickets)
	return p
}

func ReduceProvider(p Provider, e settlement.Event) Provider {
	p.TotalTickets++
	countBucket(settlement.BucketOf(e.FinancialStatus), &p.TicketsWon, &p.TicketsLost, &p.TicketsVoid)
	if e.TicketStatus == settlement.TicketStatusCashedOut {
		p.TicketsCashedOut++
	}

	p.TotalStake = p.TotalStake.Add(e.Stake)
	p.TotalProfit = p.TotalProfit.Add(e.ProfitLoss)
	p.TotalOdds = p.TotalOdds.Add(e.TotalOdd)

	p.ROI = percentOf(p.TotalProfit, p.TotalStake, 4)
	p.WinRate = countRate(p.TicketsWon, p.TotalTickets)
	p.AvgOdd = averageOf(p.TotalOdds, p.TotalTickets)
	p.AvgStake = averageOf(p.TotalStake, p.TotalTickets)
	return p
}

// ReduceMarket folds one ticket into the projection of a single market type.
// The ticket counts once for UniqueTickets and carries its full stake, while
// wins/losses/voids count every selection the ticket has in that market.
func ReduceMarket(p Market, e settlement.Event, marketType string) Market {
	p.UniqueTickets++
	p.TotalStake = p.TotalStake.Add(e.Stake)
	p.TotalProfit = p.TotalProfit.Add(e.ProfitLoss)

	for _, sel := range e.Selections {
		if sel.MarketType != marketType {
			continue
		}
		p.TotalSelections++
		switch sel.SelectionOutcome {
		case settlement.SelectionOutcomeWon:
			p.Wins++
		case settlement.SelectionOutcomeLost:
			p.Losses++
		case settlement.SelectionOutcomeVoid:
			p.Voids++
		}
	}

	p.WinRate = countRate(p.Wins, p.TotalSelections)
	return p
}

// ReduceTournament folds one ticket into a tournament projection using the
// ticket's overall outcome, one increment per ticket.
func ReduceTournament(p Tournament, e settlement.Event) Tournament {
	p.TotalTickets++
	countBucket(settlement.BucketOf(e.FinancialStatus), &p.TicketsWon, &p.TicketsLost, &p.TicketsVoid)

	p.TotalStake = p.TotalStake.Add(e.Stake)
	p.TotalProfit = p.TotalProfit.Add(e.ProfitLoss)

	p.ROI = percentOf(p.TotalProfit, p.TotalStake, 4)
	p.WinRate = countRate(p.TicketsWon, p.TotalTickets)
	return p
}

func countBucket(bucket settlement.OutcomeBucket, won, lost, void *int) {
	switch bucket {
	case settlement.BucketWon:
		*won++
	case settlement.BucketLost:
		*lost++
	case settlement.BucketVoid:
		*void++
	}
}

func percentOf(part, whole decimal.Decimal, places int32) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(places)
}

func countRate(part, whole int) decimal.Decimal {
	if whole == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part)).
		Div(decimal.NewFromInt(int64(whole))).
		Mul(hundred).
		Round(2)
}

func averageOf(total decimal.Decimal, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(count))).Round(2)
}
