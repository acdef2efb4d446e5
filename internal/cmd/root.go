package cmd

import (
	"github.com/fulmenhq/gofulmen/telemetry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/sitepulse/sitepulse/internal/config"
	"github.com/sitepulse/sitepulse/internal/observability"
)

const appName = "sitepulse"

var (
	cfgFile string
	verbose bool

	// Version info set by main package
	versionInfo struct {
		Version   string
		Commit    string
		BuildDate string
	}
)

// SetVersionInfo is called by main package to set version information
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Website health scanner",
	Long: `SitePulse runs a battery of diagnostic checks against a website and
produces a weighted 0-100 health score.

Checks cover certificate lifecycle, DNS resolution, server response,
page performance, mobile readiness, HTTPS usage, availability, and
email (MX) configuration.

Use the subcommands to perform specific operations.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Disable global telemetry early to prevent config loading from emitting
	// metrics to stdout. Server mode will initialize proper telemetry later.
	disabledConfig := &telemetry.Config{Enabled: false}
	if sys, err := telemetry.NewSystem(disabledConfig); err == nil {
		telemetry.SetGlobalSystem(sys)
	}

	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/sitepulse/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (sets log level to debug)")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Initialize CLI logger early so we can use it in config loading
	observability.InitCLILogger(appName, verbose)

	if cfgFile != "" {
		// Use config file from flag
		viper.SetConfigFile(cfgFile)
	} else {
		if appConfigDir := config.DefaultConfigDir(); appConfigDir != "" {
			viper.AddConfigPath(appConfigDir)
		}

		// Also search in current directory
		viper.AddConfigPath("./config")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Read in environment variables with the SITEPULSE_ prefix
	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(config.EnvKeyReplacer())
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			observability.CLILogger.Debug("Using config file", zap.String("path", viper.ConfigFileUsed()))
		}
	} else {
		// It's OK if config file doesn't exist, we have defaults
		if verbose {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				observability.CLILogger.Debug("No config file found, using defaults and environment variables")
			} else {
				observability.CLILogger.Warn("Error reading config file", zap.Error(err))
			}
		}
	}

	config.SetDefaults(viper.GetViper())
}
