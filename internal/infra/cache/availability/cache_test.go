package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/PetBoardingService/internal/domain"
)

func TestKey(t *testing.T) {
	from := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "availability:dog:2026-07-01:2026-07-31", Key(domain.PetTypeDog, from, to))
}

func TestCache_DisabledIsNoop(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	for name, c := range map[string]*Cache{"nil cache": nil, "nil client": New(nil, time.Minute)} {
		t.Run(name, func(t *testing.T) {
			days, ok, err := c.Get(ctx, domain.PetTypeCat, now, now)
			assert.NoError(t, err)
			assert.False(t, ok)
			assert.Nil(t, days)

			assert.NoError(t, c.Set(ctx, domain.PetTypeCat, now, now, []domain.AvailabilitySummary{{Total: 1}}))
			assert.NoError(t, c.Invalidate(ctx, domain.PetTypeCat))
		})
	}
}
