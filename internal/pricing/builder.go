package pricing

import (
	"errors"
	"fmt"

	"github.com/m04kA/PetBoardingService/internal/domain"
)

var (
	// ErrUnknownService услуга не найдена в настройках или выключена
	ErrUnknownService = errors.New("pricing: unknown service type")

	// ErrUnknownAddOn add-on не найден в настройках или выключен
	ErrUnknownAddOn = errors.New("pricing: unknown add-on")
)

// Selection выбор клиента, из которого строится Input
type Selection struct {
	ServiceType domain.ServiceType
	Units       int
	PetCount    int
	AddOnIDs    []string
	DailyRates  []float64
}

// BuildInput собирает Input из настроек: ставка услуги, add-on и правила скидок
func BuildInput(settings *domain.SystemSettings, sel Selection) (Input, error) {
	svc, ok := settings.Service(sel.ServiceType)
	if !ok {
		return Input{}, fmt.Errorf("%w: %q", ErrUnknownService, sel.ServiceType)
	}

	seen := make(map[string]bool, len(sel.AddOnIDs))
	addOns := make([]AddOn, 0, len(sel.AddOnIDs))
	for _, id := range sel.AddOnIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		def, ok := settings.AddOn(id)
		if !ok {
			return Input{}, fmt.Errorf("%w: %q", ErrUnknownAddOn, id)
		}
		addOns = append(addOns, AddOn{
			ID:     def.ID,
			Name:   def.Name,
			Price:  def.Price,
			PerDay: def.PerDay,
		})
	}

	return Input{
		Rate:       svc.Price,
		Units:      sel.Units,
		PetCount:   sel.PetCount,
		DailyRates: sel.DailyRates,
		AddOns:     addOns,
		Discounts:  settings.Discounts,
		TaxRate:    settings.TaxRate,
	}, nil
}
