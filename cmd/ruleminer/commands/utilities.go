/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utilities.go
Description: Utility commands for the Akaylee RuleMiner. Provides self-check and
log analysis functionality for system validation and run monitoring.
*/

package commands

import (
	"fmt"
	"os"
	"syscall"

	"github.com/kleascm/akaylee-ruleminer/pkg/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// PerformSelfCheck performs comprehensive system validation
func PerformSelfCheck(cmd *cobra.Command, args []string) error {
	fmt.Println("🔍 Akaylee RuleMiner - System Self-Check")
	fmt.Println("========================================")
	fmt.Println()

	// Load configuration so checks see flag and env values
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	checks := []struct {
		name     string
		function func() error
	}{
		{"Disk Space", checkDiskSpace},
		{"File System Permissions", checkFileSystemPermissions},
		{"Log Directory", checkLogDirectory},
		{"Input Accessibility", checkInputAccessibility},
		{"Configuration Validation", checkConfigurationValidation},
	}

	passed := 0
	total := len(checks)

	for _, check := range checks {
		fmt.Printf("🔍 %s... ", check.name)
		if err := check.function(); err != nil {
			fmt.Printf("❌ FAILED: %v\n", err)
		} else {
			fmt.Println("✅ PASSED")
			passed++
		}
	}

	fmt.Println()
	fmt.Printf("📊 Results: %d/%d checks passed\n", passed, total)

	if passed == total {
		fmt.Println("✨ All checks passed! System is ready for analysis.")
		return nil
	}
	fmt.Println("⚠️  Some checks failed. Please address the issues before analyzing.")
	return fmt.Errorf("%d/%d checks failed", total-passed, total)
}

// PerformLogAnalysis scans accumulated run logs and prints statistics
func PerformLogAnalysis(cmd *cobra.Command, args []string) error {
	fmt.Println("📈 Akaylee RuleMiner - Log Analysis")
	fmt.Println("===================================")
	fmt.Println()

	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logDir := viper.GetString("log_dir")
	if logDir == "" {
		logDir = "./logs"
	}

	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		fmt.Printf("❌ Log directory not found: %s\n", logDir)
		fmt.Println("   Run an analysis first to generate logs.")
		return nil
	}

	// File retention statistics
	manager := logging.NewLogManager(logDir,
		viper.GetInt("log_max_files"), viper.GetInt64("log_max_size"),
		viper.GetBool("log_compress"))
	stats, err := manager.GetLogStats()
	if err != nil {
		return fmt.Errorf("failed to collect log stats: %w", err)
	}

	fmt.Printf("📁 Log directory: %s\n", logDir)
	fmt.Printf("   Files: %d (%d compressed), total %d bytes\n",
		stats.TotalFiles, stats.CompressedFiles, stats.TotalSize)
	if stats.TotalFiles > 0 {
		fmt.Printf("   Oldest: %s\n", stats.OldestFile.Format("2006-01-02 15:04:05"))
		fmt.Printf("   Newest: %s\n", stats.NewestFile.Format("2006-01-02 15:04:05"))
	}
	fmt.Println()

	// Per-line event statistics
	analyzer := logging.NewLogAnalyzer(logDir)
	analysis, err := analyzer.AnalyzeLogs()
	if err != nil {
		return fmt.Errorf("failed to analyze logs: %w", err)
	}

	fmt.Println(analysis.GetLogSummary())
	return nil
}

// checkDiskSpace validates available disk space
func checkDiskSpace() error {
	var stat syscall.Statfs_t
	if err := syscall.Statfs("/", &stat); err != nil {
		return fmt.Errorf("failed to check filesystem: %w", err)
	}

	// Calculate available space in GB
	availableGB := (stat.Bavail * uint64(stat.Bsize)) / (1024 * 1024 * 1024)
	if availableGB < 1 {
		return fmt.Errorf("insufficient disk space: %d GB available (minimum 1 GB recommended)", availableGB)
	}

	return nil
}

// checkFileSystemPermissions validates file system permissions
func checkFileSystemPermissions() error {
	// Check if we can write to current directory
	testFile := "./ruleminer_test_write"
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		return fmt.Errorf("cannot write to current directory: %w", err)
	}
	os.Remove(testFile)

	// Check if we can create directories
	testDir := "./ruleminer_test_dir"
	if err := os.Mkdir(testDir, 0755); err != nil {
		return fmt.Errorf("cannot create directories: %w", err)
	}
	os.Remove(testDir)

	return nil
}

// checkLogDirectory validates the log directory is writable
func checkLogDirectory() error {
	logDir := viper.GetString("log_dir")
	if logDir == "" {
		logDir = "./logs"
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("cannot create log directory: %w", err)
	}

	testFile := logDir + "/ruleminer_test_write"
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		return fmt.Errorf("cannot write to log directory: %w", err)
	}
	os.Remove(testFile)

	return nil
}

// checkInputAccessibility validates the configured input file, if any
func checkInputAccessibility() error {
	inputPath := viper.GetString("input_path")
	if inputPath == "" {
		// Not configured for this invocation; nothing to check
		return nil
	}

	info, err := os.Stat(inputPath)
	if err != nil {
		return fmt.Errorf("input file not accessible: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("input path is a directory: %s", inputPath)
	}
	if info.Size() == 0 {
		return fmt.Errorf("input file is empty: %s", inputPath)
	}

	return nil
}

// checkConfigurationValidation validates the analyzer policy
func checkConfigurationValidation() error {
	_, err := BuildAnalyzerConfig()
	return err
}
