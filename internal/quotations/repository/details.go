package repository

import (
	"context"
	"errors"
	"fmt"

	"sales_quotation_backend/internal/quotations/model"

	"github.com/jackc/pgx/v5"
)

const (
	detailColumns = `id, quotation_id, quotation_site_id, jabatan_kebutuhan, jumlah_hc, nominal_upah,
		umk, ump, is_bpjs_jkk, is_bpjs_jkm, is_bpjs_jht, is_bpjs_jp, penjamin_kesehatan, nominal_takaful`

	wageColumns = `id, quotation_id, quotation_detail_id, lembur, nominal_lembur, jenis_bayar_lembur,
		jam_per_bulan_lembur, lembur_ditagihkan, kompensasi, thr, tunjangan_holiday,
		nominal_tunjangan_holiday, jenis_bayar_tunjangan_holiday`

	hppColumns = `h.id, h.quotation_detail_id, h.total_tunjangan, h.tunjangan_hari_raya, h.kompensasi,
		h.tunjangan_hari_libur_nasional, h.lembur, h.takaful,
		h.bpjs_jkk, h.persen_bpjs_jkk, h.bpjs_jkm, h.persen_bpjs_jkm, h.bpjs_jht, h.persen_bpjs_jht,
		h.bpjs_jp, h.persen_bpjs_jp, h.bpjs_ks, h.persen_bpjs_ks,
		h.provisi_seragam, h.provisi_peralatan, h.provisi_chemical, h.provisi_ohc,
		h.bunga_bank, h.insentif, h.ppn, h.pph`

	cossColumns = `c.id, c.quotation_detail_id, c.provisi_seragam, c.provisi_peralatan, c.provisi_chemical,
		c.provisi_ohc, c.ppn, c.pph`
)

// ListDetails retrieves the details of a quotation with their wage terms, allowances
// and override rows attached. Details without a wage row come back with Wage nil.
func (r *Repository) ListDetails(ctx context.Context, quotationID int64) ([]model.Detail, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+detailColumns+`
		FROM quotation_details
		WHERE quotation_id = $1 AND deleted_at IS NULL
		ORDER BY id ASC`, quotationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query details: %w", err)
	}
	details, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Detail])
	if err != nil {
		return nil, fmt.Errorf("failed to scan details: %w", err)
	}
	if len(details) == 0 {
		return details, nil
	}

	index := make(map[int64]*model.Detail, len(details))
	for i := range details {
		index[details[i].ID] = &details[i]
	}

	wages, err := r.listWages(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	for i := range wages {
		if d, ok := index[wages[i].DetailID]; ok && d.Wage == nil {
			d.Wage = &wages[i]
		}
	}

	allowances, err := r.listAllowances(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	for _, a := range allowances {
		if d, ok := index[a.DetailID]; ok {
			d.Allowances = append(d.Allowances, a)
		}
	}

	hpps, err := r.listHppOverrides(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	for i := range hpps {
		if d, ok := index[hpps[i].DetailID]; ok {
			d.HppOverride = &hpps[i]
		}
	}

	cosses, err := r.listCossOverrides(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	for i := range cosses {
		if d, ok := index[cosses[i].DetailID]; ok {
			d.CossOverride = &cosses[i]
		}
	}

	return details, nil
}

func (r *Repository) listWages(ctx context.Context, quotationID int64) ([]model.Wage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+wageColumns+`
		FROM quotation_detail_wages
		WHERE quotation_id = $1 AND deleted_at IS NULL
		ORDER BY id ASC`, quotationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query wages: %w", err)
	}
	wages, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Wage])
	if err != nil {
		return nil, fmt.Errorf("failed to scan wages: %w", err)
	}
	return wages, nil
}

func (r *Repository) listAllowances(ctx context.Context, quotationID int64) ([]model.Allowance, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT t.id, t.quotation_detail_id, t.nama_tunjangan, t.nominal
		FROM quotation_detail_tunjangans t
		JOIN quotation_details d ON d.id = t.quotation_detail_id
		WHERE d.quotation_id = $1 AND t.deleted_at IS NULL AND d.deleted_at IS NULL
		ORDER BY t.id ASC`, quotationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query allowances: %w", err)
	}
	allowances, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Allowance])
	if err != nil {
		return nil, fmt.Errorf("failed to scan allowances: %w", err)
	}
	return allowances, nil
}

func (r *Repository) listHppOverrides(ctx context.Context, quotationID int64) ([]model.HppOverride, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+hppColumns+`
		FROM quotation_detail_hpps h
		JOIN quotation_details d ON d.id = h.quotation_detail_id
		WHERE d.quotation_id = $1 AND h.deleted_at IS NULL AND d.deleted_at IS NULL`, quotationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query hpp overrides: %w", err)
	}
	hpps, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.HppOverride])
	if err != nil {
		return nil, fmt.Errorf("failed to scan hpp overrides: %w", err)
	}
	return hpps, nil
}

func (r *Repository) listCossOverrides(ctx context.Context, quotationID int64) ([]model.CossOverride, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+cossColumns+`
		FROM quotation_detail_cosses c
		JOIN quotation_details d ON d.id = c.quotation_detail_id
		WHERE d.quotation_id = $1 AND c.deleted_at IS NULL AND d.deleted_at IS NULL`, quotationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query coss overrides: %w", err)
	}
	cosses, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.CossOverride])
	if err != nil {
		return nil, fmt.Errorf("failed to scan coss overrides: %w", err)
	}
	return cosses, nil
}

// CreateWage inserts a default wage row. An existing live row for the detail is left alone.
func (r *Repository) CreateWage(ctx context.Context, wage *model.Wage) error {
	query := `
		INSERT INTO quotation_detail_wages (
			quotation_id, quotation_detail_id, lembur, nominal_lembur, jenis_bayar_lembur,
			jam_per_bulan_lembur, lembur_ditagihkan, kompensasi, thr, tunjangan_holiday,
			nominal_tunjangan_holiday, jenis_bayar_tunjangan_holiday
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (quotation_detail_id) WHERE deleted_at IS NULL DO NOTHING
		RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		wage.QuotationID, wage.DetailID, wage.Overtime, wage.OvertimeAmount, wage.OvertimePayType,
		wage.OvertimeHoursPerMonth, wage.OvertimeBilling, wage.Compensation, wage.THR, wage.HolidayAllowance,
		wage.HolidayAllowanceAmount, wage.HolidayAllowancePay,
	).Scan(&wage.ID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to insert wage: %w", err)
	}
	return nil
}
