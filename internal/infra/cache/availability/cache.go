package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/PetBoardingService/internal/domain"
)

const (
	keyPrefix = "availability"
	scanBatch = 100
)

var (
	// ErrDecode поврежденное значение в кеше
	ErrDecode = errors.New("availability.cache: failed to decode cached value")

	// ErrRedis ошибка обращения к Redis
	ErrRedis = errors.New("availability.cache: redis error")
)

// Cache кеш календаря доступности по диапазонам дат.
// Nil-кеш или кеш без клиента работает как всегда пустой.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Get возвращает сохраненный диапазон. ok=false при промахе.
func (c *Cache) Get(ctx context.Context, petType domain.PetType, from, to time.Time) ([]domain.AvailabilitySummary, bool, error) {
	if !c.enabled() {
		return nil, false, nil
	}

	raw, err := c.client.Get(ctx, Key(petType, from, to)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: Get: %v", ErrRedis, err)
	}

	var days []domain.AvailabilitySummary
	if err := json.Unmarshal(raw, &days); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return days, true, nil
}

func (c *Cache) Set(ctx context.Context, petType domain.PetType, from, to time.Time, days []domain.AvailabilitySummary) error {
	if !c.enabled() {
		return nil
	}

	payload, err := json.Marshal(days)
	if err != nil {
		return fmt.Errorf("%w: Set - encode: %v", ErrRedis, err)
	}

	if err := c.client.Set(ctx, Key(petType, from, to), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: Set: %v", ErrRedis, err)
	}
	return nil
}

// Invalidate удаляет все закешированные диапазоны типа питомца
func (c *Cache) Invalidate(ctx context.Context, petType domain.PetType) error {
	if !c.enabled() {
		return nil
	}

	iter := c.client.Scan(ctx, 0, fmt.Sprintf("%s:%s:*", keyPrefix, petType), scanBatch).Iterator()
	keys := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("%w: Invalidate - scan: %v", ErrRedis, err)
	}
	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: Invalidate - del: %v", ErrRedis, err)
	}
	return nil
}

func (c *Cache) enabled() bool {
	return c != nil && c.client != nil
}

// Key availability:{petType}:{from}:{to}
func Key(petType domain.PetType, from, to time.Time) string {
	return fmt.Sprintf("%s:%s:%s:%s", keyPrefix, petType,
		from.Format(domain.DateFormat), to.Format(domain.DateFormat))
}
