package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var cfgFile string
var logger *zap.Logger

var rootCmd = &cobra.Command{
	Use:   "diga",
	Short: "Domain Inspector Global Audit: DNS, HTTP(S) and certificate expiry for domains",
	Long: `Audit the external posture of one domain or a list of domains.

For every domain diga will:
- Resolve A records against the chosen nameserver
- Probe http:// and https:// without following redirects
- Retry HTTPS on the redirect target when only HTTP answered
- Read the TLS certificate expiry date

Results are printed as JSON on stdout.`,
	Example: `  diga -d example.com
  diga -f domains.txt --threads 20 --timeout 1.5 --pretty`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// init config
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		} else {
			viper.AddConfigPath("$HOME")
			viper.SetConfigName(".diga")
			viper.SetConfigType("yaml")
		}
		viper.SetEnvPrefix("DIGA")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
			return fmt.Errorf("failed to read config file: %w", err)
		}

		applyConfigDefaults(cmd)

		// init logger
		l, err := newLogger(cliConfig.Scan.LogLevel)
		if err != nil {
			return err
		}
		logger = l

		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("config loaded", zap.String("path", used))
		}

		return nil
	},
	RunE: runScan,
}

// newLogger builds a production JSON logger on stderr; stdout carries results.
func newLogger(level string) (*zap.Logger, error) {
	atomicLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = atomicLevel
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, colorError("error:"), err)
		os.Exit(1)
	}
}

func init() {
	// config file flag
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.diga.yaml)")
	rootCmd.PersistentFlags().StringVar(&cliConfig.Scan.LogLevel, "log-level", cliConfig.Scan.LogLevel, "log level (debug, info, warn, error)")

	flags := rootCmd.Flags()
	flags.StringVarP(&cliConfig.Scan.Domain, "domain", "d", "", "domain to analyze")
	flags.StringVarP(&cliConfig.Scan.File, "file", "f", "", "domain list from file path")
	flags.StringVar(&cliConfig.Scan.Nameserver, "dns", cliConfig.Scan.Nameserver, "custom dns nameserver")
	flags.StringVar(&cliConfig.Scan.UserAgent, "useragent", "", "custom user agent (default: picked from a built-in list)")
	flags.Float64Var(&cliConfig.Scan.TimeoutSecs, "timeout", cliConfig.Scan.TimeoutSecs, "per request timeout in seconds")
	flags.IntVar(&cliConfig.Scan.Threads, "threads", cliConfig.Scan.Threads, "number of domains scanned concurrently")
	flags.IntVar(&cliConfig.Scan.RateLimit, "rate-limit", 0, "maximum scans started per second (0 = unlimited)")
	flags.BoolVar(&cliConfig.Scan.Pretty, "pretty", false, "json pretty print")
	flags.BoolVar(&cliConfig.Scan.Progress, "progress", false, "show progress on stderr while scanning a list")
	rootCmd.MarkFlagsMutuallyExclusive("domain", "file")

	// add subcommands
	rootCmd.AddCommand(versionCmd)
}
