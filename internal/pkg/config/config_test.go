package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ougirez/rdatlas/internal/domain"
	"github.com/spf13/viper"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rdatlas.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":8080" || cfg.Fetch.Retries != 3 || cfg.Fetch.RetryInterval != 500*time.Millisecond {
		t.Errorf("defaults = %+v", cfg)
	}
	if len(cfg.Datasets) != 4 {
		t.Fatalf("datasets = %d, want the 4 built-in ones", len(cfg.Datasets))
	}

	d, ok := cfg.Dataset("eu-intensity")
	if !ok {
		t.Fatal("eu-intensity missing")
	}
	if d.Schema.EntityKind != domain.EntityCountry || d.Schema.Decimal != "point" {
		t.Errorf("schema = %+v", d.Schema)
	}
	if len(d.Schema.YearFields) == 0 {
		t.Error("schema not merged with the default header candidates")
	}

	// INE exports write thousands with dots
	for _, id := range []string{"researchers", "patents"} {
		d, ok := cfg.Dataset(id)
		if !ok {
			t.Fatalf("%s missing", id)
		}
		if d.Schema.Decimal != "comma" {
			t.Errorf("%s decimal = %q, want comma", id, d.Schema.Decimal)
		}
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("RDATLAS_SERVER_LISTEN_ADDR", ":9999")

	path := writeConfig(t, `
log:
  level: debug
fetch:
  retries: 7
  retry_interval: 2s
datasets:
  - id: ccaa
    locations:
      - https://www.ine.es/jaxiT3/files/t/es/csv_bdsc/9949.csv
      - https://www.ine.es/jaxiT3/files/t/es/csv_bdsc/9950.csv
    fallback: ES
    schema:
      entity_fields: ["Comunidades y Ciudades Autónomas"]
      monetary_unit: euros
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":9999" {
		t.Errorf("listen addr = %s, want env override", cfg.ListenAddr)
	}
	if cfg.LogLevel != "debug" || cfg.Fetch.Retries != 7 || cfg.Fetch.RetryInterval != 2*time.Second {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.Datasets) != 1 {
		t.Fatalf("datasets = %+v", cfg.Datasets)
	}

	d := cfg.Datasets[0]
	if len(d.Locations) != 2 || d.Fallback != "ES" {
		t.Errorf("dataset = %+v", d)
	}
	if d.Schema.EntityFields[0] != "Comunidades y Ciudades Autónomas" || d.Schema.MonetaryUnit != "euros" {
		t.Errorf("schema overrides lost: %+v", d.Schema)
	}
	if d.Schema.Measure != domain.MeasureShare {
		t.Errorf("measure = %s, want default", d.Schema.Measure)
	}
}

func TestLoadRejectsBadDatasets(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "missing id",
			body: "datasets:\n  - locations: [a.csv]\n",
		},
		{
			name: "duplicate id",
			body: "datasets:\n  - id: a\n    locations: [a.csv]\n  - id: a\n    locations: [b.csv]\n",
		},
		{
			name: "no location",
			body: "datasets:\n  - id: a\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
