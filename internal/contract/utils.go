package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/archivepulse/schema"
)

// Tier label constants.
const (
	HighValue   = "High"   // High value
	MediumValue = "Medium" // Medium value
	LowValue    = "Low"    // Low value
)

// Color variables for console output.
var (
	HighColor   = color.New(color.FgGreen, color.Bold) // highColor represents a strong, healthy signal.
	MediumColor = color.New(color.FgYellow)            // mediumColor represents standard caution, not bold.
	LowColor    = color.New(color.FgRed)               // lowColor represents a weak signal worth a look.
)

// Status class colors for console output.
var statusColors = map[schema.StatusClass]*color.Color{
	schema.Status2xx: color.New(color.FgGreen),
	schema.Status3xx: color.New(color.FgCyan),
	schema.Status4xx: color.New(color.FgYellow),
	schema.Status5xx: color.New(color.FgRed, color.Bold),
}

// GetPlainLabel returns a plain text tier label for a score in [0, 1].
// This is the core logic used for narratives, CSV, JSON, and table printing.
func GetPlainLabel(score float64) string {
	switch {
	case score > 0.7:
		return HighValue
	case score > 0.3:
		return MediumValue
	default:
		return LowValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(score float64) string {
	text := GetPlainLabel(score)

	switch text {
	case HighValue:
		return HighColor.Sprint(text)
	case MediumValue:
		return MediumColor.Sprint(text)
	default: // "Low"
		return LowColor.Sprint(text)
	}
}

// GetColorStatus renders a status class with its console color.
func GetColorStatus(s schema.StatusClass) string {
	if c, ok := statusColors[s]; ok {
		return c.Sprint(s.String())
	}
	return s.String()
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".archivepulse_cache.db"
	}
	return filepath.Join(homeDir, ".archivepulse_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for run history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".archivepulse_history.db"
	}
	return filepath.Join(homeDir, ".archivepulse_history.db")
}

// TruncateText truncates a string to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for "..." and at least one character.
func TruncateText(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return s
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
