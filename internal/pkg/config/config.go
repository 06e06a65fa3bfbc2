// Package config loads rdatlas settings from a YAML file and RDATLAS_*
// environment variables into the global viper instance.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ougirez/rdatlas/internal/domain"
	"github.com/ougirez/rdatlas/internal/pkg/constants"
	"github.com/spf13/viper"
)

// Dataset describes where a dataset is published and how to read it.
type Dataset struct {
	ID    string `mapstructure:"id"`
	Title string `mapstructure:"title"`
	// Format is csv, html or store. Guessed from the location when empty.
	Format string `mapstructure:"format"`
	// Locations are the parts of the dataset, concatenated in order.
	Locations []string      `mapstructure:"locations"`
	Selector  string        `mapstructure:"selector"`
	Schema    domain.Schema `mapstructure:"schema"`
	// Fallback is the nation whose historical table backs national totals ("ES").
	Fallback string `mapstructure:"fallback"`
}

type Fetch struct {
	Retries       uint64
	RetryInterval time.Duration
	Timeout       time.Duration
	Concurrency   int
}

type Config struct {
	ListenAddr     string
	AllowOrigins   []string
	LogLevel       string
	LogDevelopment bool
	Fetch          Fetch
	CountryFlags   string
	CommunityFlags string
	// GeoLayers maps a layer name ("communities", "europe") to a GeoJSON location.
	GeoLayers   map[string]string
	Datasets    []Dataset
	PostgresDSN string
	SQLitePath  string
	ExportDir   string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(constants.ViperListenAddr, ":8080")
	v.SetDefault(constants.ViperAllowOrigins, []string{"http://localhost:3000"})
	v.SetDefault(constants.ViperLogLevel, "info")
	v.SetDefault(constants.ViperLogDevelopment, false)
	v.SetDefault(constants.ViperFetchRetries, 3)
	v.SetDefault(constants.ViperFetchInterval, "500ms")
	v.SetDefault(constants.ViperFetchTimeout, "30s")
	v.SetDefault(constants.ViperFetchConcurrency, 4)
	v.SetDefault(constants.ViperExportDir, "site/data")
	v.SetDefault(constants.ViperGeoLayers, map[string]string{
		"communities": "data/spain-communities.geojson",
		"europe":      "data/europe.geojson",
	})
	v.SetDefault(constants.ViperDatasets, defaultDatasets)
}

var defaultDatasets = []map[string]interface{}{
	{
		"id":        "rd-intensity",
		"title":     "Gasto en I+D sobre el PIB por comunidad autónoma",
		"locations": []string{"data/gasto_id_ccaa.csv"},
		"fallback":  "ES",
		"schema":    map[string]interface{}{"entity_kind": "community", "measure": "share"},
	},
	{
		"id":        "eu-intensity",
		"title":     "GERD by sector of performance, % of GDP",
		"locations": []string{"data/rd_e_gerdtot.csv"},
		"schema":    map[string]interface{}{"entity_kind": "country", "measure": "share", "decimal": "point"},
	},
	{
		"id":        "researchers",
		"title":     "Personal investigador por comunidad autónoma",
		"locations": []string{"data/investigadores_ccaa.csv"},
		"schema": map[string]interface{}{
			"entity_kind":  "community",
			"measure":      "additive",
			"value_fields": []string{"Investigadores", "Total", "Valor"},
			"decimal":      "comma",
		},
	},
	{
		"id":        "patents",
		"title":     "Solicitudes de patentes por provincia",
		"locations": []string{"data/patentes_provincias.csv"},
		"schema": map[string]interface{}{
			"entity_kind":  "community",
			"measure":      "additive",
			"value_fields": []string{"Patentes", "Solicitudes", "Total"},
			"decimal":      "comma",
		},
	},
}

// Load reads path (skipped when empty) and the environment into the global
// viper instance and returns the resolved settings.
func Load(path string) (*Config, error) {
	v := viper.GetViper()
	setDefaults(v)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = v.GetString(constants.ViperConfigFile)
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("viper.ReadInConfig, path-%s: %w", path, err)
		}
	}

	cfg := &Config{
		ListenAddr:     v.GetString(constants.ViperListenAddr),
		AllowOrigins:   v.GetStringSlice(constants.ViperAllowOrigins),
		LogLevel:       v.GetString(constants.ViperLogLevel),
		LogDevelopment: v.GetBool(constants.ViperLogDevelopment),
		Fetch: Fetch{
			Retries:       uint64(v.GetInt(constants.ViperFetchRetries)),
			RetryInterval: v.GetDuration(constants.ViperFetchInterval),
			Timeout:       v.GetDuration(constants.ViperFetchTimeout),
			Concurrency:   v.GetInt(constants.ViperFetchConcurrency),
		},
		CountryFlags:   v.GetString(constants.ViperCountryFlags),
		CommunityFlags: v.GetString(constants.ViperCommunityFlags),
		GeoLayers:      v.GetStringMapString(constants.ViperGeoLayers),
		PostgresDSN:    v.GetString(constants.ViperPostgresDSN),
		SQLitePath:     v.GetString(constants.ViperSQLitePath),
		ExportDir:      v.GetString(constants.ViperExportDir),
	}

	if err := v.UnmarshalKey(constants.ViperDatasets, &cfg.Datasets); err != nil {
		return nil, fmt.Errorf("viper.UnmarshalKey, key-%s: %w", constants.ViperDatasets, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	for i := range cfg.Datasets {
		cfg.Datasets[i].Schema = cfg.Datasets[i].Schema.Merge(domain.DefaultSchema)
	}
	if cfg.Fetch.Concurrency <= 0 {
		cfg.Fetch.Concurrency = 1
	}

	return cfg, nil
}

func (c *Config) validate() error {
	seen := make(map[string]struct{}, len(c.Datasets))
	for i, d := range c.Datasets {
		if d.ID == "" {
			return fmt.Errorf("dataset %d: id is required", i)
		}
		if _, dup := seen[d.ID]; dup {
			return fmt.Errorf("dataset %s: duplicate id", d.ID)
		}
		seen[d.ID] = struct{}{}
		if len(d.Locations) == 0 {
			return fmt.Errorf("dataset %s: at least one location is required", d.ID)
		}
	}
	return nil
}

// Dataset finds a dataset definition by id.
func (c *Config) Dataset(id string) (Dataset, bool) {
	for _, d := range c.Datasets {
		if d.ID == id {
			return d, true
		}
	}
	return Dataset{}, false
}
