package pricing

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// JKK risk tiers
const (
	RiskVeryLow  = "Sangat Rendah"
	RiskLow      = "Rendah"
	RiskMedium   = "Sedang"
	RiskHigh     = "Tinggi"
	RiskVeryHigh = "Sangat Tinggi"
)

// RateTable holds the statutory contribution percentages and the BPU flat deduction.
type RateTable struct {
	JKKByRisk    map[string]float64 `yaml:"jkk_by_risk"`
	JKKDefault   float64            `yaml:"jkk_default"`
	JKM          float64            `yaml:"jkm"`
	JHT          float64            `yaml:"jht"`
	JP           float64            `yaml:"jp"`
	KES          float64            `yaml:"kes"`
	BPUDeduction float64            `yaml:"bpu_deduction"`
}

// DefaultRates returns the rates currently in force.
func DefaultRates() RateTable {
	return RateTable{
		JKKByRisk: map[string]float64{
			RiskVeryLow:  0.24,
			RiskLow:      0.54,
			RiskMedium:   0.89,
			RiskHigh:     1.27,
			RiskVeryHigh: 1.74,
		},
		JKKDefault:   0.24,
		JKM:          0.3,
		JHT:          3.7,
		JP:           2.0,
		KES:          4.0,
		BPUDeduction: 16000,
	}
}

// JKKPercent returns the workplace-accident rate for a risk tier.
func (r RateTable) JKKPercent(risk string) float64 {
	if pct, ok := r.JKKByRisk[strings.TrimSpace(risk)]; ok {
		return pct
	}
	return r.JKKDefault
}

// LoadRates reads a YAML rate file on top of DefaultRates. Keys absent from the
// file keep their default; an empty path returns the defaults.
func LoadRates(path string) (RateTable, error) {
	rates := DefaultRates()
	if strings.TrimSpace(path) == "" {
		return rates, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return RateTable{}, fmt.Errorf("read rates file: %w", err)
	}
	return parseRates(raw, rates)
}

func parseRates(raw []byte, base RateTable) (RateTable, error) {
	var file struct {
		JKKByRisk    map[string]float64 `yaml:"jkk_by_risk"`
		JKKDefault   *float64           `yaml:"jkk_default"`
		JKM          *float64           `yaml:"jkm"`
		JHT          *float64           `yaml:"jht"`
		JP           *float64           `yaml:"jp"`
		KES          *float64           `yaml:"kes"`
		BPUDeduction *float64           `yaml:"bpu_deduction"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return RateTable{}, fmt.Errorf("parse rates file: %w", err)
	}

	for tier, pct := range file.JKKByRisk {
		if pct < 0 {
			return RateTable{}, fmt.Errorf("jkk rate for %q is negative", tier)
		}
		base.JKKByRisk[tier] = pct
	}
	overlay(&base.JKKDefault, file.JKKDefault)
	overlay(&base.JKM, file.JKM)
	overlay(&base.JHT, file.JHT)
	overlay(&base.JP, file.JP)
	overlay(&base.KES, file.KES)
	overlay(&base.BPUDeduction, file.BPUDeduction)

	return base, nil
}

func overlay(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}
