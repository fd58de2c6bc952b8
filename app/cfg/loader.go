package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Database configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./newsriver.db" description:"Path to the sqlite database file"`

	// Import configuration
	ImportDir       string `long:"import-dir" env:"IMPORT_DIR" default:"./opml" description:"Directory containing OPML subscription files"`
	ImportExtension string `long:"import-extension" env:"IMPORT_EXTENSION" default:"opml" description:"File extension of OPML files to import"`
	MappingsFile    string `long:"mappings-file" env:"MAPPINGS_FILE" description:"YAML file with OPML attribute mapping overrides (optional)"`
	ForceImport     bool   `long:"force" env:"FORCE_IMPORT" description:"Reassign existing sources to the publishers named in the import files"`
	ImportOnly      bool   `long:"import-only" env:"IMPORT_ONLY" description:"Run the import and exit without starting the server"`

	// Application configuration
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"5" description:"Number of background workers for source syncing"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"30" description:"Scheduler interval in seconds"`
	SyncInterval      int    `long:"sync-interval" env:"SYNC_INTERVAL" default:"3600" description:"Seconds between syncs of the same source"`
	SyncDelayStep     int    `long:"sync-delay-step" env:"SYNC_DELAY_STEP" default:"60" description:"Seconds between initial syncs of newly imported sources"`
	FetchTimeout      int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"120" description:"HTTP fetch timeout in seconds"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"NewsRiver/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:            raw.DBPath,
		ImportDir:         raw.ImportDir,
		ImportExtension:   raw.ImportExtension,
		MappingsFile:      raw.MappingsFile,
		ForceImport:       raw.ForceImport,
		ImportOnly:        raw.ImportOnly,
		Port:              raw.Port,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: raw.SchedulerInterval,
		SyncInterval:      raw.SyncInterval,
		SyncDelayStep:     raw.SyncDelayStep,
		FetchTimeout:      raw.FetchTimeout,
		APIAccessKey:      raw.APIAccessKey,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
