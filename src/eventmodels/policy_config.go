package eventmodels

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type BuyWindow struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

func (w BuyWindow) Contains(buyCount int) bool {
	return buyCount >= w.Min && buyCount <= w.Max
}

func (w BuyWindow) validate(name string) error {
	if w.Min < 1 || w.Max < w.Min {
		return fmt.Errorf("%w: %s must satisfy 1 <= min <= max, got [%d,%d]", ErrInvalidPolicyConfig, name, w.Min, w.Max)
	}

	return nil
}

// PolicyConfig holds the tunables of the tracker, the sweeps and the command poller.
type PolicyConfig struct {
	ModerateWindow         BuyWindow     `yaml:"moderate_window"`
	HighWindow             BuyWindow     `yaml:"high_window"`
	MilestoneUSDT          float64       `yaml:"milestone_usdt"`
	ValuationSweepInterval time.Duration `yaml:"valuation_sweep_interval"`
	ExpirySweepInterval    time.Duration `yaml:"expiry_sweep_interval"`
	IdleWindow             time.Duration `yaml:"idle_window"`
	MaxAssetAge            time.Duration `yaml:"max_asset_age"`
	ValuationCacheTTL      time.Duration `yaml:"valuation_cache_ttl"`
	DispatcherShards       int           `yaml:"dispatcher_shards"`
	DispatcherMailboxSize  int           `yaml:"dispatcher_mailbox_size"`
	CommandPollInterval    time.Duration `yaml:"command_poll_interval"`
}

func DefaultPolicyConfig() PolicyConfig {
	return PolicyConfig{
		ModerateWindow:         BuyWindow{Min: 10, Max: 15},
		HighWindow:             BuyWindow{Min: 25, Max: 30},
		MilestoneUSDT:          50000,
		ValuationSweepInterval: 60 * time.Second,
		ExpirySweepInterval:    60 * time.Second,
		IdleWindow:             180 * time.Second,
		MaxAssetAge:            0,
		ValuationCacheTTL:      10 * time.Second,
		DispatcherShards:       8,
		DispatcherMailboxSize:  1024,
		CommandPollInterval:    time.Second,
	}
}

func (c PolicyConfig) Validate() error {
	if err := c.ModerateWindow.validate("moderate_window"); err != nil {
		return err
	}

	if err := c.HighWindow.validate("high_window"); err != nil {
		return err
	}

	if c.HighWindow.Min <= c.ModerateWindow.Max {
		return fmt.Errorf("%w: high_window must start after moderate_window ends", ErrInvalidPolicyConfig)
	}

	if c.MilestoneUSDT <= 0 {
		return fmt.Errorf("%w: milestone_usdt must be positive", ErrInvalidPolicyConfig)
	}

	if c.ValuationSweepInterval <= 0 || c.ExpirySweepInterval <= 0 || c.CommandPollInterval <= 0 {
		return fmt.Errorf("%w: sweep and poll intervals must be positive", ErrInvalidPolicyConfig)
	}

	if c.IdleWindow <= 0 {
		return fmt.Errorf("%w: idle_window must be positive", ErrInvalidPolicyConfig)
	}

	if c.MaxAssetAge < 0 || c.ValuationCacheTTL < 0 {
		return fmt.Errorf("%w: max_asset_age and valuation_cache_ttl cannot be negative", ErrInvalidPolicyConfig)
	}

	if c.DispatcherShards < 1 || c.DispatcherMailboxSize < 1 {
		return fmt.Errorf("%w: dispatcher needs at least one shard and a mailbox of one", ErrInvalidPolicyConfig)
	}

	return nil
}

// LoadPolicyConfig reads a YAML policy file over the defaults. An empty path returns the defaults.
func LoadPolicyConfig(path string) (PolicyConfig, error) {
	config := DefaultPolicyConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return PolicyConfig{}, fmt.Errorf("LoadPolicyConfig: failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return PolicyConfig{}, fmt.Errorf("LoadPolicyConfig: failed to unmarshal %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return PolicyConfig{}, err
	}

	return config, nil
}
