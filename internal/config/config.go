package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"tarediiran-industries.com/train-dispatch/internal/register"
)

type DepartureEntry struct {
	Time         string `toml:"time" yaml:"time"`
	Line         string `toml:"line" yaml:"line"`
	TrainNumber  int    `toml:"train_number" yaml:"train_number"`
	Destination  string `toml:"destination" yaml:"destination"`
	Track        int    `toml:"track" yaml:"track"`
	DelayMinutes int    `toml:"delay_minutes" yaml:"delay_minutes"`
}

type ConfigFile struct {
	// Initial clock, hh:mm. Empty means midnight.
	Clock            string           `toml:"clock" yaml:"clock"`
	MaxTrainNumber   int              `toml:"max_train_number" yaml:"max_train_number"`
	TelemetryAddress string           `toml:"telemetry_address" yaml:"telemetry_address"`
	Departures       []DepartureEntry `toml:"departures" yaml:"departures"`
}

func LoadConfigFromToml(path string) (ConfigFile, error) {
	var cfg ConfigFile
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return ConfigFile{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return ConfigFile{}, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}

	return cfg, nil
}

func LoadConfigFromYaml(path string) (ConfigFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return ConfigFile{}, err
	}
	defer file.Close()

	var cfg ConfigFile
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return ConfigFile{}, err
	}

	return cfg, nil
}

// Load picks the decoder from the file extension and validates the result.
func Load(path string) (ConfigFile, error) {
	var (
		cfg ConfigFile
		err error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		cfg, err = LoadConfigFromToml(path)
		if err != nil {
			return ConfigFile{}, fmt.Errorf("LoadConfigFromToml: %w", err)
		}
	case ".yaml", ".yml":
		cfg, err = LoadConfigFromYaml(path)
		if err != nil {
			return ConfigFile{}, fmt.Errorf("LoadConfigFromYaml: %w", err)
		}
	case ".csv":
		cfg, err = LoadConfigFromCsv(path)
		if err != nil {
			return ConfigFile{}, fmt.Errorf("LoadConfigFromCsv: %w", err)
		}
	default:
		return ConfigFile{}, fmt.Errorf("unsupported config format %q (want .toml, .yaml, .yml or .csv)", filepath.Ext(path))
	}

	if err := cfg.Validate(); err != nil {
		return ConfigFile{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (cfg ConfigFile) Validate() error {
	if cfg.MaxTrainNumber < 0 {
		return fmt.Errorf("max_train_number must not be negative")
	}
	if cfg.Clock != "" {
		if _, err := register.ParseTimeOfDay(cfg.Clock); err != nil {
			return fmt.Errorf("clock: %w", err)
		}
	}

	maxTrainNumber := cfg.MaxTrainNumber
	if maxTrainNumber == 0 {
		maxTrainNumber = register.DefaultMaxTrainNumber
	}

	seen := make(map[int]bool, len(cfg.Departures))
	for i, entry := range cfg.Departures {
		if _, err := entry.departure(); err != nil {
			return fmt.Errorf("departures[%d]: %w", i, err)
		}
		if entry.TrainNumber > maxTrainNumber {
			return fmt.Errorf("departures[%d]: train number %d is above max_train_number %d", i, entry.TrainNumber, maxTrainNumber)
		}
		if seen[entry.TrainNumber] {
			return fmt.Errorf("departures[%d]: train number %d listed twice", i, entry.TrainNumber)
		}
		seen[entry.TrainNumber] = true
	}
	return nil
}

func (entry DepartureEntry) departure() (*register.Departure, error) {
	at, err := register.ParseTimeOfDay(entry.Time)
	if err != nil {
		return nil, err
	}
	if entry.DelayMinutes < 0 || entry.DelayMinutes > register.MaxDelayMinutes {
		return nil, &register.ValidationError{
			Field:  "delay_minutes",
			Reason: fmt.Sprintf("%d is outside 0-%d", entry.DelayMinutes, register.MaxDelayMinutes),
		}
	}
	return register.NewDeparture(
		at,
		entry.Line,
		entry.TrainNumber,
		entry.Destination,
		entry.Track,
		time.Duration(entry.DelayMinutes)*time.Minute,
	)
}

// NewRegister builds a register holding the configured clock and departures.
func (cfg ConfigFile) NewRegister() (*register.Register, error) {
	opts := []register.Option{}
	if cfg.MaxTrainNumber > 0 {
		opts = append(opts, register.WithMaxTrainNumber(cfg.MaxTrainNumber))
	}
	if cfg.Clock != "" {
		clock, err := register.ParseTimeOfDay(cfg.Clock)
		if err != nil {
			return nil, fmt.Errorf("clock: %w", err)
		}
		opts = append(opts, register.WithClock(register.Timestamp{Time: clock}))
	}

	reg := register.New(opts...)
	for i, entry := range cfg.Departures {
		departure, err := entry.departure()
		if err != nil {
			return nil, fmt.Errorf("departures[%d]: %w", i, err)
		}
		if err := reg.Add(departure); err != nil {
			return nil, fmt.Errorf("departures[%d]: %w", i, err)
		}
	}
	return reg, nil
}

// Default is used when no config file is given: a demo timetable, not
// added in departure order.
func Default() ConfigFile {
	return ConfigFile{
		Departures: []DepartureEntry{
			{Time: "12:00", Line: "L2", TrainNumber: 100, Destination: "Oslo", Track: 2},
			{Time: "15:30", Line: "L3", TrainNumber: 150, Destination: "Bergen", Track: 3, DelayMinutes: 10},
			{Time: "17:15", Line: "L4", TrainNumber: 200, Destination: "Stavanger", Track: 4, DelayMinutes: 2},
			{Time: "09:00", Line: "L5", TrainNumber: 250, Destination: "Bodø", Track: 5, DelayMinutes: 7},
			{Time: "18:45", Line: "L6", TrainNumber: 300, Destination: "Tromsø", Track: 6, DelayMinutes: 20},
			{Time: "05:30", Line: "L7", TrainNumber: 350, Destination: "Arendal", Track: 7},
			{Time: "20:00", Line: "L8", TrainNumber: 400, Destination: "Oslo", Track: 8, DelayMinutes: 5},
		},
	}
}
