package models

import (
	"time"

	"github.com/m04kA/PetBoardingService/internal/domain"
)

// CatalogResponse публичный каталог услуг и дополнительных опций
type CatalogResponse struct {
	Services       []domain.ServiceDefinition `json:"services"`
	AddOns         []domain.AddOnDefinition   `json:"addOns"`
	Currency       string                     `json:"currency"`
	DepositPercent float64                    `json:"depositPercent"`
}

// SettingsResponse настройки для администратора
type SettingsResponse struct {
	*domain.SystemSettings
	UpdatedBy *int64     `json:"updatedBy,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// FromDomainCatalog оставляет только активные услуги и опции
func FromDomainCatalog(s *domain.SystemSettings) *CatalogResponse {
	resp := &CatalogResponse{
		Services:       make([]domain.ServiceDefinition, 0, len(s.Services)),
		AddOns:         make([]domain.AddOnDefinition, 0, len(s.AddOns)),
		Currency:       s.Currency,
		DepositPercent: s.DepositPercent,
	}
	for _, svc := range s.Services {
		if svc.Active {
			resp.Services = append(resp.Services, svc)
		}
	}
	for _, a := range s.AddOns {
		if a.Active {
			resp.AddOns = append(resp.AddOns, a)
		}
	}
	return resp
}

func FromDomainSettings(s *domain.SystemSettings) *SettingsResponse {
	resp := &SettingsResponse{SystemSettings: s, UpdatedBy: s.UpdatedBy}
	if !s.UpdatedAt.IsZero() {
		updatedAt := s.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}
