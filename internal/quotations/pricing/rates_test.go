package pricing

import (
	"os"
	"path/filepath"
	"testing"
)

func TestJKKPercent_UnknownTierUsesDefault(t *testing.T) {
	rates := DefaultRates()

	if got := rates.JKKPercent(" Tinggi "); got != 1.27 {
		t.Fatalf("expected 1.27 for Tinggi, got %v", got)
	}
	if got := rates.JKKPercent("Ekstrem"); got != 0.24 {
		t.Fatalf("expected default 0.24 for unknown tier, got %v", got)
	}
	if got := rates.JKKPercent(""); got != 0.24 {
		t.Fatalf("expected default 0.24 for empty tier, got %v", got)
	}
}

func TestParseRates_OverlaysDefaults(t *testing.T) {
	raw := []byte(`
jkk_by_risk:
  Tinggi: 1.3
jkm: 0.35
bpu_deduction: 20000
`)

	rates, err := parseRates(raw, DefaultRates())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rates.JKKPercent(RiskHigh) != 1.3 {
		t.Fatalf("expected overridden Tinggi rate 1.3, got %v", rates.JKKPercent(RiskHigh))
	}
	if rates.JKKPercent(RiskMedium) != 0.89 {
		t.Fatalf("expected Sedang to keep 0.89, got %v", rates.JKKPercent(RiskMedium))
	}
	if rates.JKM != 0.35 || rates.BPUDeduction != 20000 {
		t.Fatalf("expected jkm 0.35 and bpu 20000, got %v and %v", rates.JKM, rates.BPUDeduction)
	}
	if rates.JHT != 3.7 || rates.KES != 4.0 {
		t.Fatalf("expected untouched defaults, got jht %v kes %v", rates.JHT, rates.KES)
	}
}

func TestParseRates_RejectsNegativeJKK(t *testing.T) {
	if _, err := parseRates([]byte("jkk_by_risk:\n  Rendah: -1\n"), DefaultRates()); err == nil {
		t.Fatal("expected error for negative jkk rate")
	}
}

func TestParseRates_RejectsMalformedYAML(t *testing.T) {
	if _, err := parseRates([]byte("jkm: [not a number"), DefaultRates()); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadRates(t *testing.T) {
	rates, err := LoadRates("")
	if err != nil {
		t.Fatalf("unexpected error for empty path: %v", err)
	}
	if rates.JP != 2.0 {
		t.Fatalf("expected default jp 2.0, got %v", rates.JP)
	}

	path := filepath.Join(t.TempDir(), "rates.yaml")
	if err := os.WriteFile(path, []byte("kes: 5\n"), 0o600); err != nil {
		t.Fatalf("write rates file: %v", err)
	}
	rates, err = LoadRates(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rates.KES != 5 {
		t.Fatalf("expected kes 5 from file, got %v", rates.KES)
	}

	if _, err := LoadRates(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
