package pricing

import (
	"fmt"

	"sales_quotation_backend/internal/quotations/model"
)

// appliesTo reports whether a goods row belongs to a detail: detail-scoped rows
// match by detail, site-scoped rows by site, unscoped rows apply everywhere.
func appliesTo(item model.GoodsItem, d *model.Detail) bool {
	switch {
	case item.DetailID != nil:
		return *item.DetailID == d.ID
	case item.SiteID != nil:
		return *item.SiteID == d.SiteID
	default:
		return true
	}
}

// amortized spreads harga × jumlah over the contract months, then over divider heads.
func (c *componentCalculator) amortized(items []model.GoodsItem, d *model.Detail, divider float64, kind string) (float64, error) {
	var total float64
	for _, item := range items {
		if !appliesTo(item, d) {
			continue
		}
		monthly, err := divide(item.Price*item.Quantity, float64(c.contractMonths), "provisi")
		if err != nil {
			return 0, fmt.Errorf("%s %d: %w", kind, item.ID, err)
		}
		perHead, err := divide(monthly, divider, "jumlah_hc")
		if err != nil {
			return 0, fmt.Errorf("%s %d: %w", kind, item.ID, err)
		}
		total += perHead
	}
	return total, nil
}

// chemical amortizes each row over its own service life, then over total headcount.
func (c *componentCalculator) chemical(d *model.Detail) (float64, error) {
	var total float64
	for _, item := range c.goods.Chemical {
		if !appliesTo(item, d) {
			continue
		}
		monthly, err := divide(item.Quantity*item.Price, item.ServiceLife, "masa_pakai")
		if err != nil {
			return 0, fmt.Errorf("chemical %d: %w", item.ID, err)
		}
		perHead, err := divide(monthly, float64(c.headcount), "jumlah_hc")
		if err != nil {
			return 0, fmt.Errorf("chemical %d: %w", item.ID, err)
		}
		total += perHead
	}
	return total, nil
}

// pinnedGoods resolves one goods kind for both views. A pinned HPP figure
// replaces the computation; COSS follows HPP unless pinned itself.
func pinnedGoods(hpp, coss *float64, compute func() (float64, error)) (float64, float64, error) {
	var h float64
	if hpp != nil {
		h = *hpp
	} else {
		v, err := compute()
		if err != nil {
			return 0, 0, err
		}
		h = v
	}
	return h, resolve(coss, h), nil
}

func (c *componentCalculator) computeGoods(d *model.Detail) (GoodsCost, GoodsCost, error) {
	var hp model.HppOverride
	if d.HppOverride != nil {
		hp = *d.HppOverride
	}
	var cp model.CossOverride
	if d.CossOverride != nil {
		cp = *d.CossOverride
	}

	var hpp, coss GoodsCost
	var err error

	hpp.Kaporlap, coss.Kaporlap, err = pinnedGoods(hp.Kaporlap, cp.Kaporlap, func() (float64, error) {
		return c.amortized(c.goods.Kaporlap, d, 1, "kaporlap")
	})
	if err != nil {
		return GoodsCost{}, GoodsCost{}, err
	}

	hpp.Devices, coss.Devices, err = pinnedGoods(hp.Devices, cp.Devices, func() (float64, error) {
		return c.amortized(c.goods.Devices, d, float64(c.headcount), "devices")
	})
	if err != nil {
		return GoodsCost{}, GoodsCost{}, err
	}

	hpp.Chemical, coss.Chemical, err = pinnedGoods(hp.Chemical, cp.Chemical, func() (float64, error) {
		return c.chemical(d)
	})
	if err != nil {
		return GoodsCost{}, GoodsCost{}, err
	}

	hpp.OHC, coss.OHC, err = pinnedGoods(hp.OHC, cp.OHC, func() (float64, error) {
		return c.amortized(c.goods.OHC, d, float64(c.headcount), "ohc")
	})
	if err != nil {
		return GoodsCost{}, GoodsCost{}, err
	}

	return hpp, coss, nil
}
