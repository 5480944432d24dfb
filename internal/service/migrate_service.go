package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/SplendidSupplies/shop_api/internal/repository"
	"github.com/SplendidSupplies/shop_api/internal/utils"
)

// MigrateService copies the flat-file catalog into the hosted KV store.
// One-shot: a populated KV catalog is never overwritten.
type MigrateService struct {
	file repository.CatalogRepository
	kv   repository.CatalogRepository
}

// NewMigrateService constructs a MigrateService.
func NewMigrateService(file, kv repository.CatalogRepository) *MigrateService {
	return &MigrateService{file: file, kv: kv}
}

// MigrateToKV moves the file catalog into KV and returns the number of
// products migrated. Returns 0 without error when KV already has data or
// the file catalog is empty.
func (s *MigrateService) MigrateToKV(ctx context.Context) (int, error) {
	existing, err := s.kv.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", utils.ErrPersistence, err)
	}
	if len(existing.Products) > 0 {
		log.Info().Int("products", len(existing.Products)).Msg("kv already has catalog data, skipping migration")
		return 0, nil
	}

	local, err := s.file.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", utils.ErrPersistence, err)
	}
	if len(local.Products) == 0 {
		log.Info().Msg("file catalog is empty, nothing to migrate")
		return 0, nil
	}

	if err := s.kv.Save(ctx, local); err != nil {
		return 0, fmt.Errorf("%w: %v", utils.ErrPersistence, err)
	}

	log.Info().Int("products", len(local.Products)).Msg("catalog migrated to kv")
	return len(local.Products), nil
}
