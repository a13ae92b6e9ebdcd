package repository

import (
	"context"
	"errors"
	"fmt"

	"sales_quotation_backend/internal/quotations/model"
	"sales_quotation_backend/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ── Repository ────────────────────────────────────────────────────────────────

const quotationNotFoundMsg = "quotation not found"

// Repository provides database operations for quotations and their pricing graph.
// It implements pricing.Store.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new quotations repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const getQuotationQuery = `
	SELECT q.id, q.nomor, q.management_fee_id, q.persentase, q.is_ppn, q.ppn_pph_dipotong,
		q.program_bpjs, q.resiko, q.persen_bunga_bank, q.persen_insentif, q.top, q.durasi_kerjasama,
		COALESCE(mf.nama, '') AS management_fee_label
	FROM quotations q
	LEFT JOIN management_fees mf ON mf.id = q.management_fee_id
	WHERE q.id = $1 AND q.deleted_at IS NULL`

// GetQuotation retrieves a quotation with its management fee label
func (r *Repository) GetQuotation(ctx context.Context, id int64) (*model.Quotation, error) {
	rows, err := r.pool.Query(ctx, getQuotationQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotation: %w", err)
	}
	q, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.Quotation])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(quotationNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}
	return q, nil
}

// ListQuotationIDs returns the ids of every live quotation, oldest first
func (r *Repository) ListQuotationIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM quotations WHERE deleted_at IS NULL ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotation ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("failed to scan quotation ids: %w", err)
	}
	return ids, nil
}

// ListSites retrieves the sites of a quotation
func (r *Repository) ListSites(ctx context.Context, quotationID int64) ([]model.Site, error) {
	query := `
		SELECT id, quotation_id, nama_site, umk, ump
		FROM quotation_sites
		WHERE quotation_id = $1 AND deleted_at IS NULL
		ORDER BY id ASC`

	rows, err := r.pool.Query(ctx, query, quotationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sites: %w", err)
	}
	sites, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Site])
	if err != nil {
		return nil, fmt.Errorf("failed to scan sites: %w", err)
	}
	return sites, nil
}
