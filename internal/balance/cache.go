package balance

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"billshare/internal/event"
)

const cacheTTL = 5 * time.Minute

// Cache keeps computed user balances in redis. A nil client disables
// caching; every method degrades to a no-op so the service never has to
// care whether redis is configured.
type Cache struct {
	client *redis.Client
}

// NewCache creates a balance cache backed by the given client
func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func cacheKey(userID int64) string {
	return fmt.Sprintf("balance:user:%d", userID)
}

// Get returns the cached balance for the user, if present
func (c *Cache) Get(ctx context.Context, userID int64) (*UserBalance, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, cacheKey(userID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("balance cache get failed: %v", err)
		}
		return nil, false
	}

	var ub UserBalance
	if err := json.Unmarshal(data, &ub); err != nil {
		log.Printf("balance cache decode failed: %v", err)
		return nil, false
	}
	return &ub, true
}

// Set stores the computed balance
func (c *Cache) Set(ctx context.Context, ub *UserBalance) {
	if c == nil || c.client == nil {
		return
	}

	data, err := json.Marshal(ub)
	if err != nil {
		log.Printf("balance cache encode failed: %v", err)
		return
	}
	if err := c.client.Set(ctx, cacheKey(ub.UserID), data, cacheTTL).Err(); err != nil {
		log.Printf("balance cache set failed: %v", err)
	}
}

// Invalidate drops the cached balances of the given users
func (c *Cache) Invalidate(ctx context.Context, userIDs ...int64) {
	if c == nil || c.client == nil || len(userIDs) == 0 {
		return
	}

	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = cacheKey(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("balance cache invalidate failed: %v", err)
	}
}

// SubscribeInvalidation wires the cache to the event bus so every event
// that moves money drops the affected users' cached balances
func (c *Cache) SubscribeInvalidation(bus *event.Bus) {
	bus.Subscribe(func(ctx context.Context, e event.Event) {
		c.Invalidate(ctx, e.UserIDs()...)
	}, event.TypeBillCreated, event.TypeObligationPaid, event.TypeDebtPaid, event.TypeBillOverdue)
}
