package projection

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrProjectionNotFound = errors.New("projection not found")
	ErrOptimisticLock     = errors.New("optimistic lock error")
)

// One find/save pair per projection kind. Save inserts new rows and
// otherwise performs a compare-and-swap on the version column, returning
// ErrOptimisticLock when a concurrent writer got there first.

type OverallRepository interface {
	FindByUser(ctx context.Context, userID string) (*Overall, error)
	Save(ctx context.Context, p *Overall) error
}

type MonthRepository interface {
	FindByUserMonth(ctx context.Context, userID string, year, month int) (*Month, error)
	Save(ctx context.Context, p *Month) error
}

type ProviderRepository interface {
	FindByUserProvider(ctx context.Context, userID, providerID string) (*Provider, error)
	Save(ctx context.Context, p *Provider) error
}

type MarketRepository interface {
	FindByUserMarket(ctx context.Context, userID, marketType string) (*Market, error)
	Save(ctx context.Context, p *Market) error
}

type TournamentRepository interface {
	FindByUserTournament(ctx context.Context, userID, tournamentID string) (*Tournament, error)
	Save(ctx context.Context, p *Tournament) error
}

type OverallRepositoryImpl struct {
	db *gorm.DB
}

func NewOverallRepositoryImpl(db *gorm.DB) OverallRepository {
	return &OverallRepositoryImpl{db: db}
}

func (r *OverallRepositoryImpl) FindByUser(ctx context.Context, userID string) (*Overall, error) {
	var p Overall
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectionNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *OverallRepositoryImpl) Save(ctx context.Context, p *Overall) error {
	if p.ID == "" {
		return createRow(ctx, r.db, p, &p.ID, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	}
	return casUpdate(ctx, r.db, &Overall{}, p.ID, &p.Version, &p.UpdatedAt, p)
}

type MonthRepositoryImpl struct {
	db *gorm.DB
}

func NewMonthRepositoryImpl(db *gorm.DB) MonthRepository {
	return &MonthRepositoryImpl{db: db}
}

func (r *MonthRepositoryImpl) FindByUserMonth(ctx context.Context, userID string, year, month int) (*Month, error) {
	var p Month
	err := r.db.WithContext(ctx).Where("user_id = ? AND year = ? AND month = ?", userID, year, month).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectionNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *MonthRepositoryImpl) Save(ctx context.Context, p *Month) error {
	if p.ID == "" {
		return createRow(ctx, r.db, p, &p.ID, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	}
	return casUpdate(ctx, r.db, &Month{}, p.ID, &p.Version, &p.UpdatedAt, p)
}

type ProviderRepositoryImpl struct {
	db *gorm.DB
}

func NewProviderRepositoryImpl(db *gorm.DB) ProviderRepository {
	return &ProviderRepositoryImpl{db: db}
}

func (r *ProviderRepositoryImpl) FindByUserProvider(ctx context.Context, userID, providerID string) (*Provider, error) {
	var p Provider
	err := r.db.WithContext(ctx).Where("user_id = ? AND provider_id = ?", userID, providerID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectionNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProviderRepositoryImpl) Save(ctx context.Context, p *Provider) error {
	if p.ID == "" {
		return createRow(ctx, r.db, p, &p.ID, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	}
	return casUpdate(ctx, r.db, &Provider{}, p.ID, &p.Version, &p.UpdatedAt, p)
}

type MarketRepositoryImpl struct {
	db *gorm.DB
}

func NewMarketRepositoryImpl(db *gorm.DB) MarketRepository {
	return &MarketRepositoryImpl{db: db}
}

func (r *MarketRepositoryImpl) FindByUserMarket(ctx context.Context, userID, marketType string) (*Market, error) {
	var p Market
	err := r.db.WithContext(ctx).Where("user_id = ? AND market_type = ?", userID, marketType).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectionNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *MarketRepositoryImpl) Save(ctx context.Context, p *Market) error {
	if p.ID == "" {
		return createRow(ctx, r.db, p, &p.ID, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	}
	return casUpdate(ctx, r.db, &Market{}, p.ID, &p.Version, &p.UpdatedAt, p)
}

type TournamentRepositoryImpl struct {
	db *gorm.DB
}

func NewTournamentRepositoryImpl(db *gorm.DB) TournamentRepository {
	return &TournamentRepositoryImpl{db: db}
}

func (r *TournamentRepositoryImpl) FindByUserTournament(ctx context.Context, userID, tournamentID string) (*Tournament, error) {
	var p Tournament
	err := r.db.WithContext(ctx).Where("user_id = ? AND tournament_id = ?", userID, tournamentID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectionNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *TournamentRepositoryImpl) Save(ctx context.Context, p *Tournament) error {
	if p.ID == "" {
		return createRow(ctx, r.db, p, &p.ID, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	}
	return casUpdate(ctx, r.db, &Tournament{}, p.ID, &p.Version, &p.UpdatedAt, p)
}

func createRow(ctx context.Context, db *gorm.DB, row interface{}, id *string, version *int, createdAt, updatedAt *time.Time) error {
	*id = uuid.New().String()
	*version = 1
	now := time.Now()
	*createdAt = now
	*updatedAt = now
	err := db.WithContext(ctx).Create(row).Error
	if err != nil {
		// Two first events for the same key can both take the insert path;
		// the unique index rejects the loser. Surface that as a version
		// conflict so the caller re-reads and updates the winner's row.
		// Requires gorm.Config{TranslateError: true} on the connection.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrOptimisticLock
		}
		return err
	}
	return nil
}

func casUpdate(ctx context.Context, db *gorm.DB, model interface{}, id string, version *int, updatedAt *time.Time, row interface{}) error {
	prev := *version
	*version = prev + 1
	*updatedAt = time.Now()

	result := db.WithContext(ctx).Model(model).
		Where("id = ? AND version = ?", id, prev).
		Select("*").Omit("id", "created_at").
		Updates(row)
	if result.Error != nil {
		*version = prev
		return result.Error
	}
	if result.RowsAffected == 0 {
		*version = prev
		return ErrOptimisticLock
	}
	return nil
}
