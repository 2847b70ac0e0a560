/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Shared utilities for the Akaylee RuleMiner commands. Provides common
configuration loading, logging setup, and input reading used across all command
implementations.
*/

package commands

import (
	"fmt"
	"os"

	"github.com/kleascm/akaylee-ruleminer/pkg/interfaces"
	"github.com/kleascm/akaylee-ruleminer/pkg/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// LoadConfig loads configuration from files and environment
func LoadConfig() error {
	// Set config file if specified
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("RULEMINER")
	viper.AutomaticEnv()

	return nil
}

// SetupLogging builds the file-backed logger from the bound logging flags.
// The caller owns the returned logger and must Close it when the command ends.
func SetupLogging() (*logging.Logger, error) {
	logLevel := viper.GetString("log_level")
	if _, err := logrus.ParseLevel(logLevel); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	format := logging.LogFormat(viper.GetString("log_format"))
	if viper.GetBool("json_logs") {
		format = logging.LogFormatJSON
	}

	config := &logging.LoggerConfig{
		Level:     logging.LogLevel(logLevel),
		Format:    format,
		OutputDir: viper.GetString("log_dir"),
		MaxFiles:  viper.GetInt("log_max_files"),
		MaxSize:   viper.GetInt64("log_max_size"),
		Timestamp: true,
		Colors:    !viper.GetBool("json_logs"),
		Compress:  viper.GetBool("log_compress"),
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logging configuration: %w", err)
	}

	return logging.NewLogger(config)
}

// BuildAnalyzerConfig assembles the pipeline policy from defaults overlaid
// with flag and config-file values
func BuildAnalyzerConfig() (*interfaces.AnalyzerConfig, error) {
	config := interfaces.DefaultConfig()

	config.MinRunChars = viper.GetInt("min_run_chars")
	config.PureNullThreshold = viper.GetFloat64("pure_null_threshold")
	config.SparseThreshold = viper.GetFloat64("sparse_threshold")
	config.StructuredEntropy = viper.GetFloat64("structured_entropy")
	config.MinConfidence = viper.GetFloat64("min_confidence")
	config.MaxChainDepth = viper.GetInt("max_chain_depth")
	config.TopChains = viper.GetInt("top_chains")
	config.ClusterWindow = viper.GetInt("cluster_window")
	config.MinDeclaredLength = viper.GetInt("min_declared_length")
	config.MaxDeclaredLength = viper.GetInt("max_declared_length")
	config.MinPrintableRatio = viper.GetFloat64("min_printable_ratio")
	config.HeaderWindow = viper.GetInt("header_window")
	config.IncludeStrings = viper.GetBool("include_strings")

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analyzer configuration: %w", err)
	}

	return config, nil
}

// ReadInput reads the binary file named by the input_path configuration key
func ReadInput() (string, []byte, error) {
	path := viper.GetString("input_path")
	if path == "" {
		return "", nil, fmt.Errorf("input path not configured")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read input file: %w", err)
	}
	if len(data) == 0 {
		return "", nil, fmt.Errorf("input file is empty: %s", path)
	}

	return path, data, nil
}
