package balance

import (
	"context"
	"sort"

	"billshare/internal/money"
)

// Source supplies the open items the aggregator nets. Bill obligations
// and direct debts both feed it.
type Source interface {
	// UnpaidOwedByUser returns items where the user owes the counterparty
	UnpaidOwedByUser(ctx context.Context, userID int64) ([]*Item, error)
	// UnpaidOwedToUser returns items where the counterparty owes the user
	UnpaidOwedToUser(ctx context.Context, userID int64) ([]*Item, error)
}

// Service computes net balances from open items
type Service struct {
	source Source
	cache  *Cache
}

// NewService creates a new balance service with dependencies injected
func NewService(source Source, cache *Cache) *Service {
	return &Service{source: source, cache: cache}
}

// GetUserBalance nets every open item the user is part of, grouped by
// contact. The result does not depend on item order: each item adjusts
// exactly one contact entry, keyed by the counterparty.
func (s *Service) GetUserBalance(ctx context.Context, userID int64) (*UserBalance, error) {
	if cached, ok := s.cache.Get(ctx, userID); ok {
		return cached, nil
	}

	owedBy, err := s.source.UnpaidOwedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	owedTo, err := s.source.UnpaidOwedToUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := aggregate(userID, owedBy, owedTo, false)
	s.cache.Set(ctx, result)
	return result, nil
}

// GetContactBalance nets the open items between the user and one
// contact, with the individual items included
func (s *Service) GetContactBalance(ctx context.Context, userID, contactID int64) (*ContactBalance, error) {
	owedBy, err := s.source.UnpaidOwedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	owedTo, err := s.source.UnpaidOwedToUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ub := aggregate(userID, filterByContact(owedBy, contactID), filterByContact(owedTo, contactID), true)
	for _, c := range ub.Contacts {
		if c.UserID == contactID {
			return c, nil
		}
	}

	// no open items with this contact
	return &ContactBalance{
		UserID:   contactID,
		Owed:     money.Zero(),
		OwedToMe: money.Zero(),
		Net:      money.Zero(),
	}, nil
}

// aggregate runs the two-pass netting: pass one walks what the user
// owes, pass two walks what is owed to the user. Contacts are sorted by
// ID so the output is deterministic.
func aggregate(userID int64, owedBy, owedTo []*Item, keepItems bool) *UserBalance {
	contacts := make(map[int64]*ContactBalance)

	entry := func(it *Item) *ContactBalance {
		c, ok := contacts[it.CounterpartyID]
		if !ok {
			c = &ContactBalance{
				UserID:   it.CounterpartyID,
				UserName: it.CounterpartyName,
				Owed:     money.Zero(),
				OwedToMe: money.Zero(),
				Net:      money.Zero(),
			}
			contacts[it.CounterpartyID] = c
		}
		if c.UserName == "" {
			c.UserName = it.CounterpartyName
		}
		c.ItemCount++
		if keepItems {
			c.Items = append(c.Items, it)
		}
		return c
	}

	totalOwed := money.Zero()
	for _, it := range owedBy {
		c := entry(it)
		c.Owed = c.Owed.Add(it.Amount)
		c.Net = c.Net.Sub(it.Amount)
		totalOwed = totalOwed.Add(it.Amount)
	}

	totalOwedTo := money.Zero()
	for _, it := range owedTo {
		c := entry(it)
		c.OwedToMe = c.OwedToMe.Add(it.Amount)
		c.Net = c.Net.Add(it.Amount)
		totalOwedTo = totalOwedTo.Add(it.Amount)
	}

	sorted := make([]*ContactBalance, 0, len(contacts))
	for _, c := range contacts {
		sorted = append(sorted, c)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].UserID < sorted[j].UserID })

	return &UserBalance{
		UserID:      userID,
		TotalOwed:   totalOwed,
		TotalOwedTo: totalOwedTo,
		Net:         totalOwedTo.Sub(totalOwed),
		Contacts:    sorted,
	}
}

func filterByContact(items []*Item, contactID int64) []*Item {
	var out []*Item
	for _, it := range items {
		if it.CounterpartyID == contactID {
			out = append(out, it)
		}
	}
	return out
}
