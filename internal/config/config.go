// Package config loads kineuron parameter files.
// A parameter file is YAML; missing sections keep the values of Default(),
// and a few environment variables override the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alexini-mv/kinetic-neurotransmission/kinetic"
	"github.com/alexini-mv/kinetic-neurotransmission/solver"
	"github.com/alexini-mv/kinetic-neurotransmission/stimulation"
)

// Environment variables read by Load.
const (
	EnvSeed      = "KINEURON_SEED"
	EnvLogLevel  = "KINEURON_LOG_LEVEL"
	EnvLogFormat = "KINEURON_LOG_FORMAT"
	EnvDatabase  = "KINEURON_DB"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is a complete simulation experiment.
type Config struct {
	// Model describes the kinetic network.
	Model ModelConfig `yaml:"model"`

	// Stimulation is the protocol applied during Run. Nil disables stimulation.
	Stimulation *StimulationConfig `yaml:"stimulation,omitempty"`

	// Resting controls the resting-state search.
	Resting RestingConfig `yaml:"resting"`

	// Run controls the stimulated simulation.
	Run RunConfig `yaml:"run"`

	// Seed is the base random seed; 0 selects the solver default.
	Seed int64 `yaml:"seed"`

	// Logging configures operational output.
	Logging LoggingConfig `yaml:"logging"`

	// Storage configures experiment persistence.
	Storage StorageConfig `yaml:"storage"`
}

// ModelConfig describes states, rate constants and transitions.
type ModelConfig struct {
	Name          string               `yaml:"name"`
	Vesicles      int                  `yaml:"vesicles"`
	SeedState     string               `yaml:"seed_state"`
	States        []string             `yaml:"states"`
	RateConstants []RateConstantConfig `yaml:"rate_constants"`
	Transitions   []TransitionConfig   `yaml:"transitions"`

	// RestingState, when set, is used as the rest point and skips the search.
	RestingState map[string]int `yaml:"resting_state,omitempty"`
}

// RateConstantConfig is one rate constant in s⁻¹.
type RateConstantConfig struct {
	Name             string  `yaml:"name"`
	Value            float64 `yaml:"value"`
	CalciumDependent bool    `yaml:"calcium_dependent"`
}

// TransitionConfig is one transition; RateConstant refers to a RateConstantConfig by name.
type TransitionConfig struct {
	Name         string `yaml:"name"`
	RateConstant string `yaml:"rate_constant"`
	Origin       string `yaml:"origin"`
	Destination  string `yaml:"destination"`
	Quantity     int    `yaml:"quantity,omitempty"`
}

// StimulationConfig mirrors stimulation.Params.
type StimulationConfig struct {
	Name               string  `yaml:"name"`
	Profile            string  `yaml:"profile"`
	StartTime          float64 `yaml:"start_time"`
	ConditioningPulses int     `yaml:"conditioning_pulses"`
	Period             float64 `yaml:"period"`
	Tau                float64 `yaml:"tau"`
	WaitTest           float64 `yaml:"wait_test"`
	Intensity          float64 `yaml:"intensity"`
}

// RestingConfig mirrors solver.RestingOptions plus the number of search attempts.
type RestingConfig struct {
	TimeEnd      float64 `yaml:"time_end"`
	WindowWidth  int     `yaml:"window_width"`
	Tolerance    float64 `yaml:"tolerance"`
	SaveInterval float64 `yaml:"save_interval"`
	Attempts     int     `yaml:"attempts"`
}

// RunConfig mirrors solver.RunOptions.
type RunConfig struct {
	Repeat          int      `yaml:"repeat"`
	TimeEnd         float64  `yaml:"time_end"`
	TimeSave        float64  `yaml:"time_save"`
	Method          string   `yaml:"method"`
	SaveTransitions []string `yaml:"save_transitions"`
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	// Level is "debug", "info" (default), "warn" or "error".
	Level string `yaml:"level"`
	// Format is "text" (default) or "json".
	Format string `yaml:"format"`
}

// StorageConfig configures the SQLite experiment store.
type StorageConfig struct {
	// Path is the database file; empty disables persistence.
	Path string `yaml:"path"`
}

// Default returns a Config with the solver defaults and no model.
func Default() *Config {
	ro := solver.DefaultRestingOptions()
	rn := solver.DefaultRunOptions()

	return &Config{
		Model: ModelConfig{Name: "Kinetic Model"},
		Resting: RestingConfig{
			TimeEnd:      ro.TimeEnd,
			WindowWidth:  ro.WindowWidth,
			Tolerance:    ro.Tolerance,
			SaveInterval: ro.SaveInterval,
			Attempts:     3,
		},
		Run: RunConfig{
			Repeat:   rn.Repeat,
			TimeEnd:  rn.TimeEnd,
			TimeSave: rn.TimeSave,
			Method:   rn.Method,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load reads the parameter file at path over Default() and applies environment
// overrides. An empty path yields the defaults with overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvSeed, v, err)
		}
		cfg.Seed = seed
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv(EnvDatabase); v != "" {
		cfg.Storage.Path = v
	}

	return nil
}

// Validate checks the fields that can be judged without building the model.
func (c *Config) Validate() error {
	m := c.Model
	switch {
	case m.Vesicles <= 0:
		return fmt.Errorf("%w: model.vesicles must be > 0, got %d", ErrInvalidConfig, m.Vesicles)
	case len(m.States) == 0:
		return fmt.Errorf("%w: model.states is empty", ErrInvalidConfig)
	case m.SeedState == "":
		return fmt.Errorf("%w: model.seed_state is empty", ErrInvalidConfig)
	case c.Resting.Attempts < 1:
		return fmt.Errorf("%w: resting.attempts must be >= 1, got %d", ErrInvalidConfig, c.Resting.Attempts)
	}

	validLevels := map[string]bool{"": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("%w: invalid log level %q (valid: debug, info, warn, error)", ErrInvalidConfig, c.Logging.Level)
	}
	validFormats := map[string]bool{"": true, "text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("%w: invalid log format %q (valid: text, json)", ErrInvalidConfig, c.Logging.Format)
	}

	return nil
}

// BuildModel constructs and initializes the kinetic model. When
// Model.RestingState is set it is recorded as the rest point.
func (c *Config) BuildModel() (*kinetic.Model, error) {
	mc := c.Model
	m := kinetic.NewModel(mc.Vesicles, kinetic.WithName(mc.Name))

	states := make([]*kinetic.TransitionState, len(mc.States))
	for i, name := range mc.States {
		states[i] = kinetic.NewTransitionState(name)
	}
	if err := m.AddTransitionStates(states...); err != nil {
		return nil, err
	}

	rates := make(map[string]*kinetic.RateConstant, len(mc.RateConstants))
	ordered := make([]*kinetic.RateConstant, 0, len(mc.RateConstants))
	for _, rc := range mc.RateConstants {
		r, err := kinetic.NewRateConstant(rc.Name, rc.Value, rc.CalciumDependent)
		if err != nil {
			return nil, err
		}
		rates[rc.Name] = r
		ordered = append(ordered, r)
	}
	if err := m.AddRateConstants(ordered...); err != nil {
		return nil, err
	}

	transitions := make([]*kinetic.Transition, 0, len(mc.Transitions))
	for _, tc := range mc.Transitions {
		r, ok := rates[tc.RateConstant]
		if !ok {
			return nil, fmt.Errorf("transition %q: rate constant %q: %w", tc.Name, tc.RateConstant, kinetic.ErrRateConstantNotFound)
		}
		var opts []kinetic.TransitionOption
		if tc.Quantity != 0 {
			opts = append(opts, kinetic.WithTransferQuantity(tc.Quantity))
		}
		t, err := kinetic.NewTransition(tc.Name, r, tc.Origin, tc.Destination, opts...)
		if err != nil {
			return nil, err
		}
		transitions = append(transitions, t)
	}
	if err := m.AddTransitions(transitions...); err != nil {
		return nil, err
	}

	if err := m.Init(mc.SeedState); err != nil {
		return nil, err
	}
	if len(mc.RestingState) > 0 {
		if err := m.SetRestingState(mc.RestingState); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// BuildStimulation returns the configured protocol, or nil when the file has none.
func (c *Config) BuildStimulation() (*stimulation.Stimulation, error) {
	sc := c.Stimulation
	if sc == nil {
		return nil, nil
	}

	return stimulation.New(stimulation.Params{
		Name:               sc.Name,
		StartTime:          sc.StartTime,
		ConditioningPulses: sc.ConditioningPulses,
		Period:             sc.Period,
		Tau:                sc.Tau,
		WaitTest:           sc.WaitTest,
		Intensity:          sc.Intensity,
		Profile:            stimulation.Profile(sc.Profile),
	})
}

// RestingOptions converts the resting section for the solver.
func (c *Config) RestingOptions() solver.RestingOptions {
	return solver.RestingOptions{
		TimeEnd:      c.Resting.TimeEnd,
		WindowWidth:  c.Resting.WindowWidth,
		Tolerance:    c.Resting.Tolerance,
		SaveInterval: c.Resting.SaveInterval,
	}
}

// RunOptions converts the run section for the solver.
func (c *Config) RunOptions() solver.RunOptions {
	return solver.RunOptions{
		Repeat:          c.Run.Repeat,
		TimeEnd:         c.Run.TimeEnd,
		TimeSave:        c.Run.TimeSave,
		Method:          c.Run.Method,
		SaveTransitions: append([]string(nil), c.Run.SaveTransitions...),
	}
}
