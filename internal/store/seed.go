package store

import (
	"aruanda-service/internal/model"

	"go.uber.org/zap"
)

// SeedDemoTemple creates the default demo temple when the temple directory
// is empty, so a fresh deployment has a selectable tenant at the login
// screen.
func SeedDemoTemple(s Store, log *zap.Logger) error {
	temples, err := s.ListTemples()
	if err != nil {
		return err
	}
	if len(temples) > 0 {
		return nil
	}

	demo := model.Temple{
		Name:      "Templo Aruanda Demo",
		Address:   "Rua dos Orixás, 123",
		Phone:     "(11) 99999-9999",
		Email:     "contato@temploaruanda.com.br",
		Status:    model.StatusActive,
		Subdomain: "demo",
	}
	if err := s.CreateTemple(&demo); err != nil {
		return err
	}
	log.Info("Seeded demo temple",
		zap.String("id", demo.ID),
		zap.String("name", demo.Name))
	return nil
}
