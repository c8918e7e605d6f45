package pricing

import "github.com/m04kA/PetBoardingService/internal/domain"

// AddOn selected add-on with its pricing metadata
type AddOn struct {
	ID     string
	Name   string
	Price  float64
	PerDay bool
}

// Input данные для расчета стоимости
type Input struct {
	Rate     float64 // цена за ночь (или день для daycare)
	Units    int     // ночи или дни
	PetCount int     // питомцы с заполненным именем
	// DailyRates цена на каждую дату с учетом override/multiplier.
	// Используется вместо Rate*Units, если длина совпадает с Units.
	DailyRates []float64
	AddOns     []AddOn
	Discounts  domain.DiscountRules
	TaxRate    float64
}

// AddOnLine рассчитанная строка add-on
type AddOnLine struct {
	ID        string
	Name      string
	Price     float64
	PerDay    bool
	LineTotal float64
}

// Quote разбивка стоимости. Total == Subtotal + AddOnsTotal + Tax - Discount
type Quote struct {
	DailyRate      float64
	Days           int
	PetCount       int
	Subtotal       float64
	Discount       float64
	DiscountReason string
	AddOns         []AddOnLine
	AddOnsTotal    float64
	Tax            float64
	Total          float64
}

// IsZero пустой расчет (незаполненное бронирование)
func (q Quote) IsZero() bool {
	return q.Days == 0 || q.PetCount == 0
}

// Pricing преобразует в модель бронирования
func (q Quote) Pricing() domain.BookingPricing {
	return domain.BookingPricing{
		DailyRate:      q.DailyRate,
		Days:           q.Days,
		Subtotal:       q.Subtotal,
		AddOnsTotal:    q.AddOnsTotal,
		Discount:       q.Discount,
		DiscountReason: q.DiscountReason,
		Tax:            q.Tax,
		Total:          q.Total,
	}
}

// BookingAddOns строки add-on для снимка в бронировании
func (q Quote) BookingAddOns() []domain.BookingAddOn {
	res := make([]domain.BookingAddOn, 0, len(q.AddOns))
	for _, a := range q.AddOns {
		res = append(res, domain.BookingAddOn{
			ID:        a.ID,
			Name:      a.Name,
			Price:     a.Price,
			PerDay:    a.PerDay,
			LineTotal: a.LineTotal,
		})
	}
	return res
}

// Calculate чистая функция расчета стоимости. Никогда не возвращает ошибку:
// нулевые ночи или питомцы дают нулевой Quote.
func Calculate(in Input) Quote {
	if in.Units <= 0 || in.PetCount <= 0 {
		return Quote{}
	}

	perPet, dailyRate := basePerPet(in)
	base := perPet * float64(in.PetCount)
	subtotal := domain.RoundMoney(base)

	factor, reason := discountFactor(in)
	discounted := domain.RoundMoney(base * factor)
	discount := domain.RoundMoney(subtotal - discounted)

	lines := make([]AddOnLine, 0, len(in.AddOns))
	var addOnsTotal float64
	for _, a := range in.AddOns {
		line := a.Price
		if a.PerDay {
			line = a.Price * float64(in.Units)
		}
		line = domain.RoundMoney(line)
		addOnsTotal += line
		lines = append(lines, AddOnLine{
			ID:        a.ID,
			Name:      a.Name,
			Price:     a.Price,
			PerDay:    a.PerDay,
			LineTotal: line,
		})
	}
	addOnsTotal = domain.RoundMoney(addOnsTotal)

	var tax float64
	if in.TaxRate > 0 {
		tax = domain.RoundMoney((discounted + addOnsTotal) * in.TaxRate)
	}

	total := domain.RoundMoney(subtotal + addOnsTotal + tax - discount)
	if total < 0 {
		total = 0
	}

	return Quote{
		DailyRate:      dailyRate,
		Days:           in.Units,
		PetCount:       in.PetCount,
		Subtotal:       subtotal,
		Discount:       discount,
		DiscountReason: reason,
		AddOns:         lines,
		AddOnsTotal:    addOnsTotal,
		Tax:            tax,
		Total:          total,
	}
}

// basePerPet стоимость проживания одного питомца и средняя ставка
func basePerPet(in Input) (perPet float64, dailyRate float64) {
	if len(in.DailyRates) == in.Units {
		for _, r := range in.DailyRates {
			perPet += r
		}
		return perPet, domain.RoundMoney(perPet / float64(in.Units))
	}
	return in.Rate * float64(in.Units), in.Rate
}

// discountFactor множитель к базовой стоимости по политике скидок
func discountFactor(in Input) (float64, string) {
	rules := in.Discounts

	multiPet := in.PetCount > 1 && rules.MultiPetRate > 0
	longStay := rules.LongStayNights > 0 && in.Units >= rules.LongStayNights && rules.LongStayRate > 0

	switch {
	case !multiPet && !longStay:
		return 1, ""
	case multiPet && !longStay:
		return 1 - rules.MultiPetRate, "multi-pet"
	case !multiPet && longStay:
		return 1 - rules.LongStayRate, "long-stay"
	}

	if rules.Policy == domain.DiscountBestOf {
		if rules.LongStayRate > rules.MultiPetRate {
			return 1 - rules.LongStayRate, "long-stay"
		}
		return 1 - rules.MultiPetRate, "multi-pet"
	}

	return (1 - rules.MultiPetRate) * (1 - rules.LongStayRate), "multi-pet+long-stay"
}
