package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"sales_quotation_backend/internal/quotations/pricing"
	"sales_quotation_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SaveCalculation replaces the stored calculation of a quotation with res in a single
// transaction: quotation-level gross-up fields, both cost views and every line.
func (r *Repository) SaveCalculation(ctx context.Context, res *pricing.Result) error {
	runID, err := uuid.Parse(res.RunID)
	if err != nil {
		return fmt.Errorf("invalid run id %q: %w", res.RunID, err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	s := res.Summary
	result, err := tx.Exec(ctx, `
		UPDATE quotations SET
			bunga_bank_total = $2, insentif_total = $3,
			persen_bpjs_ketenagakerjaan = $4, persen_bpjs_kesehatan = $5,
			total_potongan_bpu = $6, potongan_bpu_per_orang = $7,
			calculation_run_id = $8, calculated_at = now(), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`,
		res.QuotationID, s.BankFeeTotal, s.IncentiveTotal,
		s.PersenBPJSKetenagakerjaan, s.PersenBPJSKesehatan,
		s.TotalBPUDeduction, s.BPUDeductionPerPerson, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to update quotation totals: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(quotationNotFoundMsg)
	}

	if err := saveView(ctx, tx, res.QuotationID, runID, "hpp", s.HPP); err != nil {
		return err
	}
	if err := saveView(ctx, tx, res.QuotationID, runID, "coss", s.COSS); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM quotation_detail_calculations WHERE quotation_id = $1`, res.QuotationID); err != nil {
		return fmt.Errorf("failed to clear line calculations: %w", err)
	}
	if err := saveLines(ctx, tx, res.QuotationID, runID, res.Lines); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func saveView(ctx context.Context, tx pgx.Tx, quotationID int64, runID uuid.UUID, view string, v pricing.CostView) error {
	query := `
		INSERT INTO quotation_calculations (
			quotation_id, cost_view, run_id, total_sebelum_management_fee, total_base_manpower,
			upah_pokok, total_bpjs, total_bpjs_kesehatan, nominal_management_fee,
			grand_total_sebelum_pajak, dpp, ppn, pph, total_invoice, pembulatan, margin, gpm, calculated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, now())
		ON CONFLICT (quotation_id, cost_view) DO UPDATE SET
			run_id = EXCLUDED.run_id,
			total_sebelum_management_fee = EXCLUDED.total_sebelum_management_fee,
			total_base_manpower = EXCLUDED.total_base_manpower,
			upah_pokok = EXCLUDED.upah_pokok,
			total_bpjs = EXCLUDED.total_bpjs,
			total_bpjs_kesehatan = EXCLUDED.total_bpjs_kesehatan,
			nominal_management_fee = EXCLUDED.nominal_management_fee,
			grand_total_sebelum_pajak = EXCLUDED.grand_total_sebelum_pajak,
			dpp = EXCLUDED.dpp,
			ppn = EXCLUDED.ppn,
			pph = EXCLUDED.pph,
			total_invoice = EXCLUDED.total_invoice,
			pembulatan = EXCLUDED.pembulatan,
			margin = EXCLUDED.margin,
			gpm = EXCLUDED.gpm,
			calculated_at = EXCLUDED.calculated_at`

	if _, err := tx.Exec(ctx, query,
		quotationID, view, runID, v.TotalBeforeFee, v.TotalBaseManpower,
		v.BaseWageTotal, v.TotalBPJS, v.TotalBPJSKesehatan, v.ManagementFee,
		v.GrandTotalBeforeTax, v.DPP, v.PPN, v.PPH, v.TotalInvoice, v.Rounded, v.Margin, v.GPM,
	); err != nil {
		return fmt.Errorf("failed to save %s calculation: %w", view, err)
	}
	return nil
}

const lineCalculationColumns = `quotation_detail_id, quotation_id, run_id, nominal_upah, tunjangan, total_tunjangan,
	bpjs_jkk, persen_bpjs_jkk, bpjs_jkm, persen_bpjs_jkm, bpjs_jht, persen_bpjs_jht,
	bpjs_jp, persen_bpjs_jp, bpjs_kes, persen_bpjs_kes, bpjs_ketenagakerjaan, bpjs_kesehatan,
	tunjangan_hari_raya, kompensasi, tunjangan_holiday, lembur, nominal_takaful,
	personil_kaporlap, personil_devices, personil_chemical, personil_ohc,
	personil_kaporlap_coss, personil_devices_coss, personil_chemical_coss, personil_ohc_coss,
	bunga_bank, insentif, potongan_bpu, total_personil, sub_total_personil,
	total_base_manpower, total_exclude_base_manpower, total_personil_coss, sub_total_personil_coss`

var insertLineQuery = `INSERT INTO quotation_detail_calculations (` + lineCalculationColumns + `) VALUES (` +
	placeholders(len(strings.Split(lineCalculationColumns, ","))) + `)`

// placeholders renders "$1, $2, ..., $n".
func placeholders(n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		if i > 1 {
			b.WriteString(", ")
		}
		b.WriteString("$" + strconv.Itoa(i))
	}
	return b.String()
}

// lineValues lists the arguments of insertLineQuery in column order.
func lineValues(quotationID int64, runID uuid.UUID, l pricing.Line) []any {
	return []any{
		l.DetailID, quotationID, runID, l.BaseWage, l.Allowances, l.TotalAllowance,
		l.BPJS.JKK, l.BPJS.JKKPercent, l.BPJS.JKM, l.BPJS.JKMPercent, l.BPJS.JHT, l.BPJS.JHTPercent,
		l.BPJS.JP, l.BPJS.JPPercent, l.BPJS.KES, l.BPJS.KESPercent, l.BPJSKetenagakerjaan, l.BPJSKesehatan,
		l.THR, l.Compensation, l.HolidayAllowance, l.Overtime, l.Takaful,
		l.Goods.Kaporlap, l.Goods.Devices, l.Goods.Chemical, l.Goods.OHC,
		l.GoodsCoss.Kaporlap, l.GoodsCoss.Devices, l.GoodsCoss.Chemical, l.GoodsCoss.OHC,
		l.BankFee, l.Incentive, l.BPUDeduction, l.TotalPersonil, l.SubTotalPersonil,
		l.TotalBaseManpower, l.TotalExcludeBaseManpower, l.TotalPersonilCoss, l.SubTotalPersonilCoss,
	}
}

func saveLines(ctx context.Context, tx pgx.Tx, quotationID int64, runID uuid.UUID, lines []pricing.Line) error {
	if len(lines) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, l := range lines {
		batch.Queue(insertLineQuery, lineValues(quotationID, runID, l)...)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for i := 0; i < len(lines); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to save line calculation: %w", err)
		}
	}
	return nil
}
