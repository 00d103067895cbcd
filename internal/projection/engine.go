package projection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tracker_service/internal/settlement"
)

const (
	MaxSaveRetries = 3
	saveRetryDelay = 10 * time.Millisecond
)

// Engine folds one settlement event into the five summary projections.
// The five sub-updates run sequentially and are not a transaction: an error
// in a later sub-update leaves the earlier ones committed, and Apply
// surfaces the first error to the caller's retry policy.
type Engine struct {
	overall     OverallRepository
	months      MonthRepository
	providers   ProviderRepository
	markets     MarketRepository
	tournaments TournamentRepository
}

func NewEngine(overall OverallRepository, months MonthRepository, providers ProviderRepository, markets MarketRepository, tournaments TournamentRepository) *Engine {
	return &Engine{
		overall:     overall,
		months:      months,
		providers:   providers,
		markets:     markets,
		tournaments: tournaments,
	}
}

func (e *Engine) Apply(ctx context.Context, ev settlement.Event) error {
	if err := e.applyOverall(ctx, ev); err != nil {
		return fmt.Errorf("overall projection: %w", err)
	}
	if err := e.applyMonth(ctx, ev); err != nil {
		return fmt.Errorf("month projection: %w", err)
	}
	if err := e.applyProvider(ctx, ev); err != nil {
		return fmt.Errorf("provider projection: %w", err)
	}
	if err := e.applyMarkets(ctx, ev); err != nil {
		return fmt.Errorf("market projection: %w", err)
	}
	if err := e.applyTournaments(ctx, ev); err != nil {
		return fmt.Errorf("tournament projection: %w", err)
	}
	return nil
}

// Each sub-update is find-or-create, reduce, save. The save is a version CAS;
// on conflict the whole cycle re-runs against a fresh snapshot, bounded by
// MaxSaveRetries, mirroring the wallet-style optimistic retry loop.

func (e *Engine) applyOverall(ctx context.Context, ev settlement.Event) error {
	for attempt := 0; attempt < MaxSaveRetries; attempt++ {
		current, err := e.overall.FindByUser(ctx, ev.UserID)
		if err != nil && !errors.Is(err, ErrProjectionNotFound) {
			return err
		}

		snapshot := Overall{UserID: ev.UserID}
		if current != nil {
			snapshot = *current
		}

		next := ReduceOverall(snapshot, ev)
		err = e.overall.Save(ctx, &next)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrOptimisticLock) {
			time.Sleep(saveRetryDelay)
			continue
		}
		return err
	}
	return ErrOptimisticLock
}

func (e *Engine) applyMonth(ctx context.Context, ev settlement.Event) error {
	year, month := ev.SettledAt.Year(), int(ev.SettledAt.Month())

	for attempt := 0; attempt < MaxSaveRetries; attempt++ {
		current, err := e.months.FindByUserMonth(ctx, ev.UserID, year, month)
		if err != nil && !errors.Is(err, ErrProjectionNotFound) {
			return err
		}

		snapshot := Month{UserID: ev.UserID, Year: year, Month: month}
		if current != nil {
			snapshot = *current
		}

		next := ReduceMonth(snapshot, ev)
		err = e.months.Save(ctx, &next)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrOptimisticLock) {
			time.Sleep(saveRetryDelay)
			continue
		}
		return err
	}
	return ErrOptimisticLock
}

func (e *Engine) applyProvider(ctx context.Context, ev settlement.Event) error {
	for attempt := 0; attempt < MaxSaveRetries; attempt++ {
		current, err := e.providers.FindByUserProvider(ctx, ev.UserID, ev.ProviderID)
		if err != nil && !errors.Is(err, ErrProjectionNotFound) {
			return err
		}

		snapshot := Provider{UserID: ev.UserID, ProviderID: ev.ProviderID}
		if current != nil {
			snapshot = *current
		}

		next := ReduceProvider(snapshot, ev)
		err = e.providers.Save(ctx, &next)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrOptimisticLock) {
			time.Sleep(saveRetryDelay)
			continue
		}
		return err
	}
	return ErrOptimisticLock
}

func (e *Engine) applyMarkets(ctx context.Context, ev settlement.Event) error {
	for _, marketType := range distinctMarkets(ev.Selections) {
		if err := e.applyMarket(ctx, ev, marketType); err != nil {
			return fmt.Errorf("market %q: %w", marketType, err)
		}
	}
	return nil
}

func (e *Engine) applyMarket(ctx context.Context, ev settlement.Event, marketType string) error {
	for attempt := 0; attempt < MaxSaveRetries; attempt++ {
		current, err := e.markets.FindByUserMarket(ctx, ev.UserID, marketType)
		if err != nil && !errors.Is(err, ErrProjectionNotFound) {
			return err
		}

		snapshot := Market{UserID: ev.UserID, MarketType: marketType}
		if current != nil {
			snapshot = *current
		}

		next := ReduceMarket(snapshot, ev, marketType)
		err = e.markets.Save(ctx, &next)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrOptimisticLock) {
			time.Sleep(saveRetryDelay)
			continue
		}
		return err
	}
	return ErrOptimisticLock
}

func (e *Engine) applyTournaments(ctx context.Context, ev settlement.Event) error {
	for _, tournamentID := range distinctTournaments(ev.Selections) {
		if err := e.applyTournament(ctx, ev, tournamentID); err != nil {
			return fmt.Errorf("tournament %q: %w", tournamentID, err)
		}
	}
	return nil
}

func (e *Engine) applyTournament(ctx context.Context, ev settlement.Event, tournamentID string) error {
	for attempt := 0; attempt < MaxSaveRetries; attempt++ {
		current, err := e.tournaments.FindByUserTournament(ctx, ev.UserID, tournamentID)
		if err != nil && !errors.Is(err, ErrProjectionNotFound) {
			return err
		}

		snapshot := Tournament{UserID: ev.UserID, TournamentID: tournamentID}
		if current != nil {
			snapshot = *current
		}

		next := ReduceTournament(snapshot, ev)
		err = e.tournaments.Save(ctx, &next)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrOptimisticLock) {
			time.Sleep(saveRetryDelay)
			continue
		}
		return err
	}
	return ErrOptimisticLock
}

// distinctMarkets returns the market types touched by the ticket, first
// occurrence order, each once. A ticket with two selections in the same
// market still touches it once.
func distinctMarkets(selections []settlement.Selection) []string {
	seen := make(map[string]bool, len(selections))
	var markets []string
	for _, sel := range selections {
		if sel.MarketType == "" || seen[sel.MarketType] {
			continue
		}
		seen[sel.MarketType] = true
		markets = append(markets, sel.MarketType)
	}
	return markets
}

// distinctTournaments returns the tournaments touched by the ticket,
// null-filtered and deduplicated within the ticket.
func distinctTournaments(selections []settlement.Selection) []string {
	seen := make(map[string]bool, len(selections))
	var tournaments []string
	for _, sel := range selections {
		if sel.TournamentID == nil || *sel.TournamentID == "" || seen[*sel.TournamentID] {
			continue
		}
		seen[*sel.TournamentID] = true
		tournaments = append(tournaments, *sel.TournamentID)
	}
	return tournaments
}
