package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"sales_quotation_backend/internal/quotations/model"
	"sales_quotation_backend/internal/quotations/pricing"
	"sales_quotation_backend/internal/quotations/transport"
	"sales_quotation_backend/platform/apperr"
	"sales_quotation_backend/platform/lock"
	"sales_quotation_backend/platform/logger"
	"sales_quotation_backend/platform/validator"

	"golang.org/x/sync/singleflight"
)

const (
	recalculateOp = "quotations.recalculate"
	previewOp     = "quotations.preview"
)

// Repository is the persistence surface the service needs.
type Repository interface {
	pricing.Store
	GetQuotation(ctx context.Context, id int64) (*model.Quotation, error)
	SaveCalculation(ctx context.Context, res *pricing.Result) error
}

// Archiver stores a snapshot of a calculation run and returns its key.
type Archiver interface {
	Save(ctx context.Context, res *pricing.Result) (string, error)
}

// Service provides the recalculation use-cases for quotations
type Service struct {
	repo    Repository
	calc    *pricing.Calculator
	locker  lock.Locker
	archive Archiver // nil means no snapshots
	val     *validator.Validator
	log     *logger.Logger
	flights singleflight.Group
}

// New creates a new quotations service. locker may be nil when only one
// process ever calculates; in-process callers are still de-duplicated.
func New(repo Repository, calc *pricing.Calculator, locker lock.Locker, val *validator.Validator, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		calc:   calc,
		locker: locker,
		val:    val,
		log:    log,
	}
}

// SetArchive injects the snapshot archive.
func (s *Service) SetArchive(a Archiver) {
	s.archive = a
}

// LockKey is the distributed lock key guarding calculations of one quotation.
func LockKey(quotationID int64) string {
	return fmt.Sprintf("quotation:calc:%d", quotationID)
}

// Recalculate prices a quotation and persists the result. Concurrent calls for the
// same quotation in this process share one run; across processes the second caller
// gets a conflict error.
func (s *Service) Recalculate(ctx context.Context, quotationID int64) (*transport.CalculationSummary, error) {
	v, err, _ := s.flights.Do(strconv.FormatInt(quotationID, 10), func() (interface{}, error) {
		return s.recalculate(ctx, quotationID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*transport.CalculationSummary), nil
}

func (s *Service) recalculate(ctx context.Context, quotationID int64) (*transport.CalculationSummary, error) {
	log := s.log.WithContext(ctx).WithQuotation(quotationID)

	if s.locker != nil {
		lease, err := s.locker.Acquire(ctx, LockKey(quotationID))
		if err != nil {
			if errors.Is(err, lock.ErrHeld) {
				return nil, apperr.Conflict("calculation already running for this quotation").WithOp(recalculateOp)
			}
			return nil, apperr.Wrap(apperr.KindInternal, "acquire calculation lock", err).WithOp(recalculateOp)
		}
		defer func() {
			if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
				log.Warn("failed to release calculation lock", "error", err)
			}
		}()
	}

	q, res, err := s.calculate(ctx, quotationID, recalculateOp)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveCalculation(ctx, res); err != nil {
		log.DatabaseError("save_calculation", err)
		if apperr.GetKind(err) != apperr.KindUnknown {
			return nil, err
		}
		return nil, apperr.Wrap(apperr.KindInternal, "save calculation", err).WithOp(recalculateOp)
	}

	if s.archive != nil {
		key, err := s.archive.Save(ctx, res)
		if err != nil {
			log.Warn("calculation snapshot failed", "run_id", res.RunID, "error", err)
		} else {
			log.Debug("calculation snapshot stored", "run_id", res.RunID, "key", key)
		}
	}

	summary := transport.FromResult(q, res)
	return &summary, nil
}

// Preview prices a quotation without persisting anything except default wage rows.
func (s *Service) Preview(ctx context.Context, quotationID int64) (*transport.CalculationSummary, error) {
	q, res, err := s.calculate(ctx, quotationID, previewOp)
	if err != nil {
		return nil, err
	}
	summary := transport.FromResult(q, res)
	return &summary, nil
}

// calculate loads and validates the quotation, then runs the engine.
func (s *Service) calculate(ctx context.Context, quotationID int64, op string) (*model.Quotation, *pricing.Result, error) {
	q, err := s.repo.GetQuotation(ctx, quotationID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, nil, err
		}
		return nil, nil, apperr.Wrap(apperr.KindInternal, "load quotation", err).WithOp(op)
	}

	if err := s.val.Check(q, "quotation configuration"); err != nil {
		return nil, nil, err
	}

	res, err := s.calc.Calculate(ctx, q)
	if err != nil {
		return nil, nil, err
	}
	return q, res, nil
}
