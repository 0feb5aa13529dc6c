package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/medmatch/pkg/domain/model"
	"github.com/secmon-lab/medmatch/pkg/service/mockai"
	"github.com/secmon-lab/medmatch/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// AppConfig is the optional TOML application configuration
type AppConfig struct {
	Analysis   Analysis   `toml:"analysis"`
	Extraction Extraction `toml:"extraction"`
	Dashboard  Dashboard  `toml:"dashboard"`
	State      State      `toml:"state"`
	TimeZone   string     `toml:"time_zone"`
}

// Analysis holds the simulated analysis delays, as Go duration strings
type Analysis struct {
	VerifyDelay  string `toml:"verify_delay"`
	ExtractDelay string `toml:"extract_delay"`
}

// Extraction is the canned result of the simulated prescription extraction
type Extraction struct {
	Name         string `toml:"name"`
	Dosage       string `toml:"dosage"`
	Frequency    string `toml:"frequency"`
	Instructions string `toml:"instructions"`
}

type Dashboard struct {
	UserID int `toml:"user_id"`
}

// State names the two persisted snapshot keys
type State struct {
	PrescriptionsKey string `toml:"prescriptions_key"`
	LogsKey          string `toml:"logs_key"`
}

// DefaultAppConfig returns the configuration used when no file is given
func DefaultAppConfig() *AppConfig {
	ext := mockai.DefaultExtraction()
	keys := usecase.DefaultStateKeys()
	return &AppConfig{
		Analysis: Analysis{
			VerifyDelay:  mockai.DefaultVerifyDelay.String(),
			ExtractDelay: mockai.DefaultExtractDelay.String(),
		},
		Extraction: Extraction{
			Name:         ext.Name,
			Dosage:       ext.Dosage,
			Frequency:    ext.Frequency,
			Instructions: ext.Instructions,
		},
		Dashboard: Dashboard{UserID: usecase.DefaultUserID},
		State: State{
			PrescriptionsKey: keys.Prescriptions,
			LogsKey:          keys.Logs,
		},
		TimeZone: "Local",
	}
}

// Validate checks durations, time zone and keys
func (a *AppConfig) Validate() error {
	for field, v := range map[string]string{
		"analysis.verify_delay":  a.Analysis.VerifyDelay,
		"analysis.extract_delay": a.Analysis.ExtractDelay,
	} {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return goerr.Wrap(ErrInvalidDuration, "delay must be a non-negative duration",
				goerr.V(FieldKey, field), goerr.V("value", v))
		}
	}

	if _, err := time.LoadLocation(a.TimeZone); err != nil {
		return goerr.Wrap(ErrInvalidTimeZone, "unknown time zone", goerr.V("time_zone", a.TimeZone))
	}
	if a.State.PrescriptionsKey == "" || a.State.LogsKey == "" {
		return goerr.Wrap(ErrInvalidConfig, "state keys must not be empty")
	}
	if a.State.PrescriptionsKey == a.State.LogsKey {
		return goerr.Wrap(ErrInvalidConfig, "state keys must differ", goerr.V("key", a.State.LogsKey))
	}
	if a.Dashboard.UserID <= 0 {
		return goerr.Wrap(ErrInvalidConfig, "dashboard user_id must be positive", goerr.V("user_id", a.Dashboard.UserID))
	}
	return nil
}

// VerifyDelay returns the parsed verifier delay. Call after Validate.
func (a *AppConfig) VerifyDelay() time.Duration {
	d, _ := time.ParseDuration(a.Analysis.VerifyDelay)
	return d
}

// ExtractDelay returns the parsed extractor delay. Call after Validate.
func (a *AppConfig) ExtractDelay() time.Duration {
	d, _ := time.ParseDuration(a.Analysis.ExtractDelay)
	return d
}

// Location returns the configured time zone. Call after Validate.
func (a *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(a.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

// StateKeys returns the snapshot keys
func (a *AppConfig) StateKeys() usecase.StateKeys {
	return usecase.StateKeys{
		Prescriptions: a.State.PrescriptionsKey,
		Logs:          a.State.LogsKey,
	}
}

// CannedExtraction returns the extraction defaults as a model value
func (a *AppConfig) CannedExtraction() model.ExtractedPrescription {
	return model.ExtractedPrescription{
		Name:         a.Extraction.Name,
		Dosage:       a.Extraction.Dosage,
		Frequency:    a.Extraction.Frequency,
		Instructions: a.Extraction.Instructions,
	}
}

// LoadAppConfiguration reads a TOML file on top of the defaults. A missing
// file yields the defaults.
func LoadAppConfiguration(path string) (*AppConfig, error) {
	config := DefaultAppConfig()
	if path == "" {
		return config, nil
	}

	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config, nil
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML config",
			goerr.V(ConfigPathKey, path), goerr.V("cause", err.Error()))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, path))
	}

	return config, nil
}

// App holds the --config flag
type App struct {
	path string
}

func (x *App) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Application TOML config file",
			Sources:     cli.EnvVars("MEDMATCH_CONFIG"),
			Destination: &x.path,
		},
	}
}

func (x *App) Configure() (*AppConfig, error) {
	return LoadAppConfiguration(x.path)
}
