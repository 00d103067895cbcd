package projection

import (
	"testing"
	"time"

	"tracker_service/internal/settlement"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var settledAt = time.Date(2026, time.March, 14, 18, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func requireDecimal(t *testing.T, expected string, actual decimal.Decimal, msg string) {
	t.Helper()
	require.True(t, actual.Equal(dec(expected)), "%s: expected %s, got %s", msg, expected, actual)
}

func testEvent(status settlement.FinancialStatus, stake, profit string) settlement.Event {
	stakeDec := dec(stake)
	profitDec := dec(profit)
	roi := decimal.Zero
	if !stakeDec.IsZero() {
		roi = profitDec.Div(stakeDec).Mul(decimal.NewFromInt(100)).Round(4)
	}
	return settlement.Event{
		TicketID:        "ticket-" + stake + "-" + profit,
		UserID:          "user-1",
		ProviderID:      "provider-1",
		Stake:           stakeDec,
		TotalOdd:        dec("2.50"),
		ActualPayout:    stakeDec.Add(profitDec),
		ProfitLoss:      profitDec,
		ROI:             roi,
		TicketStatus:    settlement.TicketStatusWon,
		FinancialStatus: status,
		SettledAt:       settledAt,
	}
}

func TestReduceOverallCountersAndRates(t *testing.T) {
	p := Overall{UserID: "user-1"}

	p = ReduceOverall(p, testEvent(settlement.FinancialStatusFullWin, "100", "50"))
	p = ReduceOverall(p, testEvent(settlement.FinancialStatusTotalLoss, "50", "-50"))

	require.Equal(t, 2, p.TotalTickets)
	require.Equal(t, 1, p.TicketsWon)
	require.Equal(t, 1, p.TicketsLost)
	require.Equal(t, 0, p.TicketsVoid)
	require.Equal(t, 1, p.FullWins)
	require.Equal(t, 1, p.TotalLosses)

	requireDecimal(t, "150", p.TotalStake, "totalStake")
	requireDecimal(t, "150", p.TotalReturn, "totalReturn")
	requireDecimal(t, "0", p.TotalProfit, "totalProfit")
	requireDecimal(t, "0", p.ROI, "roi")
	requireDecimal(t, "50.00", p.WinRate, "winRate")
	requireDecimal(t, "50.00", p.SuccessRate, "successRate")
	requireDecimal(t, "2.50", p.AvgOdd, "avgOdd")
	requireDecimal(t, "75.00", p.AvgStake, "avgStake")
}

func TestReduceOverallRatesComeFromTotalsNotRunningAverages(t *testing.T) {
	p := Overall{UserID: "user-1"}

	p = ReduceOverall(p, testEvent(settlement.FinancialStatusFullWin, "100", "100"))
	requireDecimal(t, "100.0000", p.ROI, "roi after one event")

	p = ReduceOverall(p, testEvent(settlement.FinancialStatusPartialLoss, "300", "-100"))
	// (100 - 100) / (100 + 300) = 0%, not the mean of 100% and -33.33%.
	requireDecimal(t, "0", p.ROI, "roi after two events")
}

func TestReduceOverallStreakSequence(t *testing.T) {
	p := Overall{UserID: "user-1"}
	win := testEvent(settlement.FinancialStatusFullWin, "10", "10")
	loss := testEvent(settlement.FinancialStatusTotalLoss, "10", "-10")

	var streaks []int
	for _, e := range []settlement.Event{win, win, win, loss} {
		p = ReduceOverall(p, e)
		streaks = append(streaks, p.CurrentStreak)
	}

	require.Equal(t, []int{1, 2, 3, -1}, streaks)
	require.Equal(t, 3, p.BestWinStreak)
	require.Equal(t, -1, p.WorstLossStreak)
}

func TestReduceOverallBreakEvenResetsStreak(t *testing.T) {
	p := Overall{UserID: "user-1"}

	p = ReduceOverall(p, testEvent(settlement.FinancialStatusFullWin, "10", "10"))
	p = ReduceOverall(p, testEvent(settlement.FinancialStatusFullWin, "10", "10"))
	p = ReduceOverall(p, testEvent(settlement.FinancialStatusBreakEven, "10", "0"))

	require.Equal(t, 0, p.CurrentStreak)
	require.Equal(t, 2, p.BestWinStreak)
}

func TestReduceOverallStreakBoundedByTickets(t *testing.T) {
	p := Overall{UserID: "user-1"}
	events := []settlement.Event{
		testEvent(settlement.FinancialStatusFullWin, "10", "10"),
		testEvent(settlement.FinancialStatusTotalLoss, "10", "-10"),
		testEvent(settlement.FinancialStatusTotalLoss, "10", "-10"),
		testEvent(settlement.FinancialStatusPartialWin, "10", "5"),
	}

	for _, e := range events {
		p = ReduceOverall(p, e)
		if p.CurrentStreak < 0 {
			require.LessOrEqual(t, -p.CurrentStreak, p.TotalTickets)
		} else {
			require.LessOrEqual(t, p.CurrentStreak, p.TotalTickets)
		}
	}
	require.Equal(t, 1, p.CurrentStreak)
	require.Equal(t, -2, p.WorstLossStreak)
}

func TestReduceOverallBiggestWinAndLossRecords(t *testing.T) {
	p := Overall{UserID: "user-1"}

	p = ReduceOverall(p, testEvent(settlement.FinancialStatusBreakEven, "10", "0"))
	require.Nil(t, p.BiggestWin)
	require.Nil(t, p.BiggestLoss)

	p = ReduceOverall(p, testEvent(settlement.FinancialStatusPartialWin, "10", "5"))
	require.NotNil(t, p.BiggestWin)
	requireDecimal(t, "5", *p.BiggestWin, "first positive profit sets biggestWin")

	p = ReduceOverall(p, testEvent(settlement.FinancialStatusFullWin, "10", "40"))
	requireDecimal(t, "40", *p.BiggestWin, "bigger win replaces record")

	p = ReduceOverall(p, testEvent(settlement.FinancialStatusPartialLoss, "10", "-3"))
	p = ReduceOverall(p, testEvent(settlement.FinancialStatusTotalLoss, "20", "-20"))
	requireDecimal(t, "-20", *p.BiggestLoss, "most negative profit wins")
	requireDecimal(t, "40", *p.BiggestWin, "losses do not move biggestWin")
}

func TestReduceOverallBestROITicket(t *testing.T) {
	p := Overall{UserID: "user-1"}

	p = ReduceOverall(p, testEvent(settlement.FinancialStatusTotalLoss, "10", "-10"))
	require.Nil(t, p.BestROI)
	require.Nil(t, p.BestROITicketID)

	p = ReduceOverall(p, testEvent(settlement.FinancialStatusPartialWin, "100", "50"))
	require.NotNil(t, p.BestROI)
	requireDecimal(t, "50", *p.BestROI, "bestROI")

	best := testEvent(settlement.FinancialStatusFullWin, "10", "90")
	p = ReduceOverall(p, best)
	requireDecimal(t, "900", *p.BestROI, "bestROI replaced")
	require.Equal(t, best.TicketID, *p.BestROITicketID)
}

func TestReduceOverallTimestamps(t *testing.T) {
	p := Overall{UserID: "user-1"}

	first := testEvent(settlement.FinancialStatusFullWin, "10", "10")
	p = ReduceOverall(p, first)
	require.NotNil(t, p.FirstBetAt)
	require.Equal(t, settledAt, *p.FirstBetAt)

	later := testEvent(settlement.FinancialStatusTotalLoss, "10", "-10")
	later.SettledAt = settledAt.Add(48 * time.Hour)
	p = ReduceOverall(p, later)
	require.Equal(t, settledAt, *p.FirstBetAt)
	require.Equal(t, later.SettledAt, *p.LastSettledAt)
}

func TestReduceOverallCashedOutCounter(t *testing.T) {
	p := Overall{UserID: "user-1"}

	e := testEvent(settlement.FinancialStatusPartialWin, "100", "20")
	e.TicketStatus = settlement.TicketStatusCashedOut
	p = ReduceOverall(p, e)

	require.Equal(t, 1, p.TicketsCashedOut)
	require.Equal(t, 1, p.TicketsWon)
}

func TestReduceMonth(t *testing.T) {
	p := Month{UserID: "user-1", Year: 2026, Month: 3}

	p = ReduceMonth(p, testEvent(settlement.FinancialStatusFullWin, "100", "50"))
	p = ReduceMonth(p, testEvent(settlement.FinancialStatusBreakEven, "100", "0"))

	require.Equal(t, 2, p.TotalTickets)
	require.Equal(t, 1, p.TicketsWon)
	require.Equal(t, 1, p.TicketsVoid)
	requireDecimal(t, "200", p.TotalStake, "totalStake")
	requireDecimal(t, "25.0000", p.ROI, "roi")
	requireDecimal(t, "50.00", p.WinRate, "winRate")
}

func TestReduceProviderAverages(t *testing.T) {
	p := Provider{UserID: "user-1", ProviderID: "provider-1"}

	first := testEvent(settlement.FinancialStatusFullWin, "100", "150")
	first.TotalOdd = dec("3.00")
	second := testEvent(settlement.FinancialStatusTotalLoss, "50", "-50")
	second.TotalOdd = dec("2.00")

	p = ReduceProvider(p, first)
	p = ReduceProvider(p, second)

	requireDecimal(t, "2.50", p.AvgOdd, "avgOdd")
	requireDecimal(t, "75.00", p.AvgStake, "avgStake")
	requireDecimal(t, "66.6667", p.ROI, "roi")
}

func TestReduceMarketFullStakePerMarket(t *testing.T) {
	// A 3-selection ticket across two markets carries its full stake into
	// each market projection; capital at risk overcounts across markets.
	e := testEvent(settlement.FinancialStatusPartialWin, "30.00", "15.00")
	e.Selections = []settlement.Selection{
		{MarketType: "Handicap", SelectionOutcome: settlement.SelectionOutcomeWon},
		{MarketType: "Handicap", SelectionOutcome: settlement.SelectionOutcomeLost},
		{MarketType: "Total de Gols", SelectionOutcome: settlement.SelectionOutcomeWon},
	}

	handicap := ReduceMarket(Market{UserID: e.UserID, MarketType: "Handicap"}, e, "Handicap")
	totals := ReduceMarket(Market{UserID: e.UserID, MarketType: "Total de Gols"}, e, "Total de Gols")

	require.Equal(t, 1, handicap.UniqueTickets)
	require.Equal(t, 2, handicap.TotalSelections)
	require.Equal(t, 1, handicap.Wins)
	require.Equal(t, 1, handicap.Losses)
	requireDecimal(t, "30.00", handicap.TotalStake, "handicap totalStake")

	require.Equal(t, 1, totals.UniqueTickets)
	require.Equal(t, 1, totals.TotalSelections)
	require.Equal(t, 1, totals.Wins)
	requireDecimal(t, "30.00", totals.TotalStake, "totals totalStake")
}

func TestReduceMarketSelectionOutcomes(t *testing.T) {
	e := testEvent(settlement.FinancialStatusBreakEven, "10", "0")
	e.Selections = []settlement.Selection{
		{MarketType: "1X2", SelectionOutcome: settlement.SelectionOutcomeVoid},
		{MarketType: "1X2", SelectionOutcome: settlement.SelectionOutcomeVoid},
	}

	p := ReduceMarket(Market{UserID: e.UserID, MarketType: "1X2"}, e, "1X2")

	assert.Equal(t, 2, p.Voids)
	assert.Equal(t, 0, p.Wins)
	assert.Equal(t, 2, p.TotalSelections)
}

func TestReduceTournamentUsesTicketOutcome(t *testing.T) {
	// Selections may individually lose; the tournament row counts the
	// ticket's overall outcome once.
	tournament := "tournament-1"
	e := testEvent(settlement.FinancialStatusPartialWin, "20", "5")
	e.Selections = []settlement.Selection{
		{MarketType: "1X2", TournamentID: &tournament, SelectionOutcome: settlement.SelectionOutcomeLost},
		{MarketType: "Handicap", TournamentID: &tournament, SelectionOutcome: settlement.SelectionOutcomeWon},
	}

	p := ReduceTournament(Tournament{UserID: e.UserID, TournamentID: tournament}, e)

	require.Equal(t, 1, p.TotalTickets)
	require.Equal(t, 1, p.TicketsWon)
	require.Equal(t, 0, p.TicketsLost)
	requireDecimal(t, "25.0000", p.ROI, "roi")
}
