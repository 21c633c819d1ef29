package cmd

import (
	"math/rand/v2"
	"time"

	"github.com/guelfoweb/diga/internal/checker"
	consts "github.com/guelfoweb/diga/internal/shared/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const defaultLogLevel = "warn"

// CLIConfig captures runtime configuration for a diga run.
type CLIConfig struct {
	Scan ScanRuntimeConfig
}

// ScanRuntimeConfig consolidates flag-driven settings for a scan.
type ScanRuntimeConfig struct {
	Domain      string
	File        string
	Nameserver  string
	UserAgent   string
	TimeoutSecs float64
	Threads     int
	RateLimit   int
	Pretty      bool
	Progress    bool
	LogLevel    string
}

type defaultOverrides struct {
	Nameserver  string
	UserAgent   string
	TimeoutSecs *float64
	Threads     *int
	RateLimit   *int
	Pretty      *bool
	LogLevel    string
}

var cliConfig = newCLIConfig()

func newCLIConfig() *CLIConfig {
	return &CLIConfig{
		Scan: ScanRuntimeConfig{
			Nameserver:  consts.DefaultNameserver,
			TimeoutSecs: consts.DefaultTimeout.Seconds(),
			Threads:     consts.DefaultConcurrency,
			LogLevel:    defaultLogLevel,
		},
	}
}

func loadDefaultOverrides() defaultOverrides {
	overrides := defaultOverrides{}

	if viper.IsSet("defaults.nameserver") {
		overrides.Nameserver = viper.GetString("defaults.nameserver")
	}

	if viper.IsSet("defaults.useragent") {
		overrides.UserAgent = viper.GetString("defaults.useragent")
	}

	if viper.IsSet("defaults.timeout") {
		val := viper.GetFloat64("defaults.timeout")
		overrides.TimeoutSecs = &val
	}

	if viper.IsSet("defaults.threads") {
		val := viper.GetInt("defaults.threads")
		overrides.Threads = &val
	}

	if viper.IsSet("defaults.rate_limit") {
		val := viper.GetInt("defaults.rate_limit")
		overrides.RateLimit = &val
	}

	if viper.IsSet("defaults.pretty") {
		val := viper.GetBool("defaults.pretty")
		overrides.Pretty = &val
	}

	if viper.IsSet("defaults.log_level") {
		overrides.LogLevel = viper.GetString("defaults.log_level")
	}

	return overrides
}

// applyConfigDefaults merges config file defaults into the runtime config when the user
// did not explicitly override the corresponding flag.
func applyConfigDefaults(cmd *cobra.Command) {
	overrides := loadDefaultOverrides()
	flags := cmd.Flags()
	scan := &cliConfig.Scan

	if overrides.Nameserver != "" {
		applyDefault(flags, "dns", overrides.Nameserver, func(v string) { scan.Nameserver = v })
	}
	if overrides.UserAgent != "" {
		applyDefault(flags, "useragent", overrides.UserAgent, func(v string) { scan.UserAgent = v })
	}
	if overrides.TimeoutSecs != nil {
		applyDefault(flags, "timeout", *overrides.TimeoutSecs, func(v float64) { scan.TimeoutSecs = v })
	}
	if overrides.Threads != nil {
		applyDefault(flags, "threads", *overrides.Threads, func(v int) { scan.Threads = v })
	}
	if overrides.RateLimit != nil {
		applyDefault(flags, "rate-limit", *overrides.RateLimit, func(v int) { scan.RateLimit = v })
	}
	if overrides.Pretty != nil {
		applyDefault(flags, "pretty", *overrides.Pretty, func(v bool) { scan.Pretty = v })
	}
	if overrides.LogLevel != "" {
		applyDefault(flags, "log-level", overrides.LogLevel, func(v string) { scan.LogLevel = v })
	}
}

// applyDefault runs setter unless the named flag was set on the command line.
func applyDefault[T any](flags *pflag.FlagSet, name string, value T, setter func(T)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

// checkerConfig turns the runtime settings into the immutable scan config.
// An unset user agent is drawn from the built-in pool once per run.
func (c ScanRuntimeConfig) checkerConfig(pick func(n int) int) checker.Config {
	userAgent := c.UserAgent
	if userAgent == "" {
		if pick == nil {
			pick = rand.IntN
		}
		userAgent = consts.UserAgents[pick(len(consts.UserAgents))]
	}

	return checker.Config{
		Nameserver: c.Nameserver,
		UserAgent:  userAgent,
		Timeout:    time.Duration(c.TimeoutSecs * float64(time.Second)),
	}.WithDefaults()
}
