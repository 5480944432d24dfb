package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/SplendidSupplies/shop_api/internal/service"
	"github.com/SplendidSupplies/shop_api/internal/utils"
)

// MigrateHandler triggers the one-shot file-to-KV catalog migration. The
// service is only wired when the process runs with the KV backend.
type MigrateHandler struct {
	migrateService *service.MigrateService
}

// NewMigrateHandler constructs a MigrateHandler. migrateService may be nil
// when the KV backend is not in use.
func NewMigrateHandler(migrateService *service.MigrateService) *MigrateHandler {
	return &MigrateHandler{migrateService: migrateService}
}

// Migrate handles POST /api/admin/migrate (admin).
func (h *MigrateHandler) Migrate(c *gin.Context) {
	if h.migrateService == nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Migration only runs with the KV backend")
		return
	}

	migrated, err := h.migrateService.MigrateToKV(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "PERSISTENCE_ERROR", "Migration failed")
		return
	}

	utils.Success(c, 200, "Migration completed", gin.H{
		"migrated": migrated,
	})
}
