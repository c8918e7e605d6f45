package models

import (
	"strings"
	"time"

	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/internal/pricing"
)

// QuoteRequest выбор клиента для расчета стоимости
type QuoteRequest struct {
	ServiceType domain.ServiceType
	PetType     domain.PetType
	StartDate   time.Time
	EndDate     time.Time
	Pets        []domain.PetSnapshot
	AddOnIDs    []string
}

// NamedPets питомцы с заполненным именем, только они участвуют в расчете
func (r *QuoteRequest) NamedPets() []domain.PetSnapshot {
	res := make([]domain.PetSnapshot, 0, len(r.Pets))
	for _, p := range r.Pets {
		if strings.TrimSpace(p.Name) != "" {
			res = append(res, p)
		}
	}
	return res
}

// AddOnLineResponse строка add-on в ответе
type AddOnLineResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	PerDay    bool    `json:"perDay"`
	LineTotal float64 `json:"lineTotal"`
}

// QuoteResponse разбивка стоимости
type QuoteResponse struct {
	ServiceType    domain.ServiceType  `json:"serviceType"`
	PetType        domain.PetType      `json:"petType"`
	StartDate      string              `json:"startDate"`
	EndDate        string              `json:"endDate"`
	Unit           domain.ServiceUnit  `json:"unit"`
	PetCount       int                 `json:"petCount"`
	DailyRate      float64             `json:"dailyRate"`
	Days           int                 `json:"days"`
	Subtotal       float64             `json:"subtotal"`
	Discount       float64             `json:"discount"`
	DiscountReason string              `json:"discountReason,omitempty"`
	AddOns         []AddOnLineResponse `json:"addOns"`
	AddOnsTotal    float64             `json:"addOnsTotal"`
	Tax            float64             `json:"tax"`
	Total          float64             `json:"total"`
	Deposit        float64             `json:"deposit"`
	Currency       string              `json:"currency"`
}

// Prepared проверенный выбор и рассчитанная стоимость, используется оформлением заказа
type Prepared struct {
	Request  *QuoteRequest
	Settings *domain.SystemSettings
	Service  *domain.ServiceDefinition
	Dates    []time.Time
	Pets     []domain.PetSnapshot
	Quote    pricing.Quote
}

// Deposit сумма предоплаты по настройкам
func (p *Prepared) Deposit() float64 {
	return domain.RoundMoney(p.Quote.Total * p.Settings.DepositPercent)
}

func FromPrepared(p *Prepared) *QuoteResponse {
	lines := make([]AddOnLineResponse, 0, len(p.Quote.AddOns))
	for _, a := range p.Quote.AddOns {
		lines = append(lines, AddOnLineResponse{
			ID:        a.ID,
			Name:      a.Name,
			Price:     a.Price,
			PerDay:    a.PerDay,
			LineTotal: a.LineTotal,
		})
	}

	return &QuoteResponse{
		ServiceType:    p.Request.ServiceType,
		PetType:        p.Request.PetType,
		StartDate:      p.Request.StartDate.Format(domain.DateFormat),
		EndDate:        p.Request.EndDate.Format(domain.DateFormat),
		Unit:           p.Service.Unit,
		PetCount:       p.Quote.PetCount,
		DailyRate:      p.Quote.DailyRate,
		Days:           p.Quote.Days,
		Subtotal:       p.Quote.Subtotal,
		Discount:       p.Quote.Discount,
		DiscountReason: p.Quote.DiscountReason,
		AddOns:         lines,
		AddOnsTotal:    p.Quote.AddOnsTotal,
		Tax:            p.Quote.Tax,
		Total:          p.Quote.Total,
		Deposit:        p.Deposit(),
		Currency:       p.Settings.Currency,
	}
}
