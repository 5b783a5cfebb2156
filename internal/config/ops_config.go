package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// OpsConfig carries operational guardrails for ledger mutations. These are
// deployment knobs, not business rules, so they live in a hot-reloadable
// file instead of the database.
type OpsConfig struct {
	// MaxCutLines caps the number of lines accepted in one cash cut.
	MaxCutLines int `mapstructure:"maxCutLines"`
	// MaxAdjustDelta caps the absolute delta of a single manual adjustment.
	MaxAdjustDelta int64 `mapstructure:"maxAdjustDelta"`
	// MaxReplenishQuantity caps a single stock replenishment.
	MaxReplenishQuantity int64 `mapstructure:"maxReplenishQuantity"`
}

func DefaultOpsConfig() OpsConfig {
	return OpsConfig{
		MaxCutLines:          50,
		MaxAdjustDelta:       1000,
		MaxReplenishQuantity: 100000,
	}
}

type OpsConfigHolder struct {
	current atomic.Value // holds OpsConfig
}

func NewOpsConfigHolder() (*OpsConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("fichas")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/fichas")
	v.AddConfigPath(".")

	v.SetEnvPrefix("FICHAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultOpsConfig()
	v.SetDefault("ops.maxCutLines", defaults.MaxCutLines)
	v.SetDefault("ops.maxAdjustDelta", defaults.MaxAdjustDelta)
	v.SetDefault("ops.maxReplenishQuantity", defaults.MaxReplenishQuantity)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg OpsConfig
	if err := v.UnmarshalKey("ops", &cfg); err != nil {
		return nil, err
	}
	if err := validateOpsConfig(cfg); err != nil {
		return nil, err
	}

	holder := &OpsConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated OpsConfig
		if err := v.UnmarshalKey("ops", &updated); err != nil {
			log.Printf("[ops-config] reload failed: %v", err)
			return
		}
		if err := validateOpsConfig(updated); err != nil {
			log.Printf("[ops-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[ops-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *OpsConfigHolder) Get() OpsConfig {
	return h.current.Load().(OpsConfig)
}

// NewStaticOpsConfigHolder returns a holder pinned to cfg, for tests.
func NewStaticOpsConfigHolder(cfg OpsConfig) *OpsConfigHolder {
	holder := &OpsConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func validateOpsConfig(cfg OpsConfig) error {
	if cfg.MaxCutLines <= 0 {
		return errors.New("ops.maxCutLines must be positive")
	}
	if cfg.MaxAdjustDelta <= 0 {
		return errors.New("ops.maxAdjustDelta must be positive")
	}
	if cfg.MaxReplenishQuantity <= 0 {
		return errors.New("ops.maxReplenishQuantity must be positive")
	}
	return nil
}
