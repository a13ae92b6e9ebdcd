package repository

import (
	"context"
	"fmt"

	"sales_quotation_backend/internal/quotations/model"

	"github.com/jackc/pgx/v5"
)

// goodsQuery selects one goods table in GoodsItem shape. Only chemicals carry a service life.
func goodsQuery(table, serviceLife string) string {
	return `
		SELECT id, quotation_id, quotation_detail_id, quotation_site_id, nama, jumlah, harga,
			` + serviceLife + ` AS masa_pakai
		FROM ` + table + `
		WHERE quotation_id = $1 AND deleted_at IS NULL
		ORDER BY id ASC`
}

// ListGoods retrieves the kaporlap, devices, chemical and OHC rows of a quotation
func (r *Repository) ListGoods(ctx context.Context, quotationID int64) (model.Goods, error) {
	var goods model.Goods
	var err error

	if goods.Kaporlap, err = r.listGoodsTable(ctx, goodsQuery("quotation_kaporlaps", "0::numeric"), quotationID); err != nil {
		return model.Goods{}, err
	}
	if goods.Devices, err = r.listGoodsTable(ctx, goodsQuery("quotation_devices", "0::numeric"), quotationID); err != nil {
		return model.Goods{}, err
	}
	if goods.Chemical, err = r.listGoodsTable(ctx, goodsQuery("quotation_chemicals", "masa_pakai"), quotationID); err != nil {
		return model.Goods{}, err
	}
	if goods.OHC, err = r.listGoodsTable(ctx, goodsQuery("quotation_ohcs", "0::numeric"), quotationID); err != nil {
		return model.Goods{}, err
	}

	return goods, nil
}

func (r *Repository) listGoodsTable(ctx context.Context, query string, quotationID int64) ([]model.GoodsItem, error) {
	rows, err := r.pool.Query(ctx, query, quotationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goods: %w", err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.GoodsItem])
	if err != nil {
		return nil, fmt.Errorf("failed to scan goods: %w", err)
	}
	return items, nil
}
