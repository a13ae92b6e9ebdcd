// Package quotations provides the quotation pricing domain module.
package quotations

import (
	"sales_quotation_backend/internal/quotations/pricing"
	"sales_quotation_backend/internal/quotations/repository"
	"sales_quotation_backend/internal/quotations/service"
	"sales_quotation_backend/internal/quotations/snapshot"
	"sales_quotation_backend/platform/lock"
	"sales_quotation_backend/platform/logger"
	"sales_quotation_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the quotations domain module
type Module struct {
	repo    *repository.Repository
	service *service.Service
}

// NewModule creates a new quotations module with all dependencies wired.
// archive may be nil when snapshots are disabled.
func NewModule(pool *pgxpool.Pool, rates pricing.RateTable, locker lock.Locker, archive *snapshot.Archive, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	calc := pricing.NewCalculator(repo, rates, log)
	svc := service.New(repo, calc, locker, val, log)
	if archive != nil {
		svc.SetArchive(archive)
	}

	return &Module{
		repo:    repo,
		service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "quotations"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for bulk jobs that need to enumerate quotations
func (m *Module) Repository() *repository.Repository {
	return m.repo
}
