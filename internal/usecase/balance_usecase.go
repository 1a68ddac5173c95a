package usecase

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/iho/splitledger/internal/domain"
)

// BalanceUseCase aggregates a user's open transfers into net balances per
// counterparty and currency.
type BalanceUseCase struct {
	transferRepo TransferRepository
	cache        Cache
}

// NewBalanceUseCase creates a new BalanceUseCase. cache may be nil.
func NewBalanceUseCase(transferRepo TransferRepository, cache Cache) *BalanceUseCase {
	return &BalanceUseCase{
		transferRepo: transferRepo,
		cache:        cache,
	}
}

// BalancesFor nets every unsettled transfer touching the user, grouped by
// counterparty and currency. Amounts owed to the user count positive,
// amounts the user owes count negative; zero nets are omitted. Self
// transfers record self-coverage, not debt, and are excluded.
func (uc *BalanceUseCase) BalancesFor(ctx context.Context, userID string) ([]*domain.CounterpartyBalance, error) {
	if cached, ok := uc.fromCache(ctx, userID); ok {
		return cached, nil
	}

	rows, err := uc.transferRepo.ListOpenByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	type key struct {
		counterparty string
		currency     string
	}

	nets := make(map[key]decimal.Decimal)

	for _, row := range rows {
		if row.FromUserID == row.ToUserID {
			continue
		}

		switch userID {
		case row.ToUserID:
			k := key{counterparty: row.FromUserID, currency: row.Currency}
			nets[k] = nets[k].Add(row.Amount)
		case row.FromUserID:
			k := key{counterparty: row.ToUserID, currency: row.Currency}
			nets[k] = nets[k].Sub(row.Amount)
		}
	}

	balances := make([]*domain.CounterpartyBalance, 0, len(nets))
	for k, net := range nets {
		if net.IsZero() {
			continue
		}

		balances = append(balances, &domain.CounterpartyBalance{
			CounterpartyID: k.counterparty,
			Currency:       k.currency,
			Balance:        net,
		})
	}

	sort.Slice(balances, func(i, j int) bool {
		if balances[i].CounterpartyID != balances[j].CounterpartyID {
			return balances[i].CounterpartyID < balances[j].CounterpartyID
		}

		return balances[i].Currency < balances[j].Currency
	})

	uc.toCache(ctx, userID, balances)

	return balances, nil
}

func (uc *BalanceUseCase) fromCache(ctx context.Context, userID string) ([]*domain.CounterpartyBalance, bool) {
	if uc.cache == nil {
		return nil, false
	}

	data, err := uc.cache.Get(ctx, balanceCacheKey(userID))
	if err != nil {
		return nil, false
	}

	var balances []*domain.CounterpartyBalance
	if err := json.Unmarshal(data, &balances); err != nil {
		return nil, false
	}

	return balances, true
}

func (uc *BalanceUseCase) toCache(ctx context.Context, userID string, balances []*domain.CounterpartyBalance) {
	if uc.cache == nil {
		return
	}

	data, err := json.Marshal(balances)
	if err != nil {
		return
	}

	_ = uc.cache.Set(ctx, balanceCacheKey(userID), data, BalanceCacheTTL)
}

func balanceCacheKey(userID string) string {
	return "balances:" + userID
}
