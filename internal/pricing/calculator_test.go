package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PetBoardingService/internal/domain"
)

func defaultRules(policy domain.DiscountPolicy) domain.DiscountRules {
	return domain.DiscountRules{
		MultiPetRate:   0.10,
		LongStayRate:   0.05,
		LongStayNights: 7,
		Policy:         policy,
	}
}

func TestCalculate_Scenarios(t *testing.T) {
	tests := []struct {
		name  string
		input Input
		want  float64
	}{
		{
			name:  "cat boarding one pet three nights",
			input: Input{Rate: 25, Units: 3, PetCount: 1, Discounts: defaultRules(domain.DiscountStacked)},
			want:  75.00,
		},
		{
			name:  "cat boarding two pets three nights",
			input: Input{Rate: 25, Units: 3, PetCount: 2, Discounts: defaultRules(domain.DiscountStacked)},
			want:  135.00,
		},
		{
			name:  "dog boarding one pet seven nights",
			input: Input{Rate: 40, Units: 7, PetCount: 1, Discounts: defaultRules(domain.DiscountStacked)},
			want:  266.00,
		},
		{
			name:  "stacked discounts",
			input: Input{Rate: 40, Units: 7, PetCount: 2, Discounts: defaultRules(domain.DiscountStacked)},
			want:  478.80, // 560 * 0.9 * 0.95
		},
		{
			name:  "best-of applies the larger discount only",
			input: Input{Rate: 40, Units: 7, PetCount: 2, Discounts: defaultRules(domain.DiscountBestOf)},
			want:  504.00, // 560 * 0.9
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Calculate(tt.input)
			assert.Equal(t, tt.want, q.Total)
			assert.True(t, q.Pricing().IsConsistent())
		})
	}
}

func TestCalculate_DegenerateInput(t *testing.T) {
	rules := defaultRules(domain.DiscountStacked)

	assert.Equal(t, Quote{}, Calculate(Input{Rate: 25, Units: 0, PetCount: 1, Discounts: rules}))
	assert.Equal(t, Quote{}, Calculate(Input{Rate: 25, Units: 3, PetCount: 0, Discounts: rules}))
	assert.Equal(t, Quote{}, Calculate(Input{Rate: 25, Units: -2, PetCount: 1, Discounts: rules}))
	assert.True(t, Calculate(Input{}).IsZero())
}

func TestCalculate_AddOns(t *testing.T) {
	q := Calculate(Input{
		Rate:     25,
		Units:    3,
		PetCount: 2,
		AddOns: []AddOn{
			{ID: "grooming", Name: "Grooming", Price: 35},
			{ID: "photo_updates", Name: "Photos", Price: 5, PerDay: true},
		},
		Discounts: defaultRules(domain.DiscountStacked),
	})

	require.Len(t, q.AddOns, 2)
	assert.Equal(t, 35.00, q.AddOns[0].LineTotal)
	assert.Equal(t, 15.00, q.AddOns[1].LineTotal)
	assert.Equal(t, 50.00, q.AddOnsTotal)
	// скидка не затрагивает add-on
	assert.Equal(t, 150.00, q.Subtotal)
	assert.Equal(t, 15.00, q.Discount)
	assert.Equal(t, 185.00, q.Total)
	assert.Equal(t, "multi-pet", q.DiscountReason)
}

func TestCalculate_MultiPetIsNinetyPercent(t *testing.T) {
	rules := defaultRules(domain.DiscountStacked)
	for pets := 2; pets <= 4; pets++ {
		for nights := 1; nights < 7; nights++ {
			q := Calculate(Input{Rate: 33.33, Units: nights, PetCount: pets, Discounts: rules})
			undiscounted := 33.33 * float64(nights) * float64(pets)
			assert.Equal(t, domain.RoundMoney(undiscounted*0.90), q.Total, "pets=%d nights=%d", pets, nights)
		}
	}
}

func TestCalculate_LongStayIsNinetyFivePercent(t *testing.T) {
	rules := defaultRules(domain.DiscountStacked)
	for nights := 7; nights <= 21; nights++ {
		q := Calculate(Input{Rate: 40, Units: nights, PetCount: 1, Discounts: rules})
		assert.Equal(t, domain.RoundMoney(40*float64(nights)*0.95), q.Total, "nights=%d", nights)
	}
}

func TestCalculate_Monotonic(t *testing.T) {
	for _, policy := range []domain.DiscountPolicy{domain.DiscountStacked, domain.DiscountBestOf} {
		rules := defaultRules(policy)
		addOns := []AddOn{{ID: "walk", Price: 10, PerDay: true}}

		for pets := 1; pets <= 5; pets++ {
			prev := 0.0
			for nights := 1; nights <= 30; nights++ {
				q := Calculate(Input{Rate: 25, Units: nights, PetCount: pets, AddOns: addOns, Discounts: rules})
				assert.GreaterOrEqual(t, q.Total, prev, "policy=%s pets=%d nights=%d", policy, pets, nights)
				prev = q.Total
			}
		}

		for nights := 1; nights <= 14; nights++ {
			prev := 0.0
			for pets := 1; pets <= 6; pets++ {
				q := Calculate(Input{Rate: 25, Units: nights, PetCount: pets, AddOns: addOns, Discounts: rules})
				assert.GreaterOrEqual(t, q.Total, prev, "policy=%s pets=%d nights=%d", policy, pets, nights)
				prev = q.Total
			}
		}
	}
}

func TestCalculate_DailyRatesAndTax(t *testing.T) {
	q := Calculate(Input{
		Rate:       25,
		Units:      3,
		PetCount:   1,
		DailyRates: []float64{25, 30, 37.5},
		Discounts:  defaultRules(domain.DiscountStacked),
		TaxRate:    0.08,
	})

	assert.Equal(t, 92.50, q.Subtotal)
	assert.Equal(t, 30.83, q.DailyRate)
	assert.Equal(t, 7.40, q.Tax)
	assert.Equal(t, 99.90, q.Total)
	assert.True(t, q.Pricing().IsConsistent())
}

func TestCalculate_RoundsHalfAwayFromZero(t *testing.T) {
	// 12.5 центов -> 13
	q := Calculate(Input{Rate: 0.125, Units: 1, PetCount: 1, Discounts: defaultRules(domain.DiscountStacked)})
	assert.Equal(t, 0.13, q.Total)

	// 1.005*100 в float64 равно 100.4999...
	q = Calculate(Input{Rate: 1.005, Units: 1, PetCount: 1, Discounts: defaultRules(domain.DiscountStacked)})
	assert.Equal(t, 1.01, q.Total)

	assert.Equal(t, -1.01, domain.RoundMoney(-1.005))
	assert.Equal(t, int64(101), domain.ToCents(1.005))
	assert.Equal(t, 2.68, domain.RoundMoney(2.675))
}

func TestBuildInput(t *testing.T) {
	settings := domain.DefaultSystemSettings()

	t.Run("resolves service rate and add-ons", func(t *testing.T) {
		in, err := BuildInput(settings, Selection{
			ServiceType: domain.ServiceCatBoarding,
			Units:       3,
			PetCount:    1,
			AddOnIDs:    []string{"grooming", "grooming", "photo_updates"},
		})
		require.NoError(t, err)
		assert.Equal(t, 25.0, in.Rate)
		assert.Len(t, in.AddOns, 2)
		assert.Equal(t, settings.Discounts, in.Discounts)
	})

	t.Run("unknown service", func(t *testing.T) {
		_, err := BuildInput(settings, Selection{ServiceType: "horse_boarding", Units: 1, PetCount: 1})
		assert.ErrorIs(t, err, ErrUnknownService)
	})

	t.Run("unknown add-on", func(t *testing.T) {
		_, err := BuildInput(settings, Selection{
			ServiceType: domain.ServiceDogDaycare,
			Units:       1,
			PetCount:    1,
			AddOnIDs:    []string{"spa"},
		})
		assert.ErrorIs(t, err, ErrUnknownAddOn)
	})
}
