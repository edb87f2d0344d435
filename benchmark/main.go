// Package main provides a performance benchmarking tool for the ArchivePulse CLI.
// It measures pipeline times for a set of URLs and commands, running each test
// multiple times without a cache and then with the SQLite cache, treating the
// first cached run as cold and averaging the rest as warm. Results are written
// as CSV for performance analysis and documentation.
//
// Prerequisites:
// - archivepulse binary installed and available in PATH
// - Network access to the configured index endpoint
//
// Usage: go run benchmark/main.go [url...]
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	URL         string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	URLs        []string
	Commands    []string
	ExtraArgs   map[string][]string
}

func main() {
	urls := []string{"example.com", "iana.org", "w3.org"}
	if len(os.Args) > 1 {
		urls = os.Args[1:]
	}

	config := BenchmarkConfig{
		Timeout:     10 * time.Minute,
		NoCacheRuns: 2,
		CacheRuns:   4,
		URLs:        urls,
		Commands:    []string{"daily", "summary"},
		ExtraArgs: map[string][]string{
			"daily":   {"--fill", "-1", "--policy", "closest"},
			"summary": {"--output", "json"},
		},
	}

	if _, err := exec.LookPath("archivepulse"); err != nil {
		fmt.Printf("Prerequisites check failed: archivepulse binary not found in PATH\n")
		os.Exit(1)
	}

	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("archivepulse", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// runBenchmarks executes all benchmark tests across configured URLs
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d urls, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.URLs), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, url := range config.URLs {
		fmt.Printf("Benchmarking %s\n", url)
		for _, command := range config.Commands {
			results = append(results, runBenchmarkSuite(config, url, command))
		}
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, url, command string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, url)

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, url, command, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		URL:         url,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a command multiple times with the specified cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, url, command, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append([]string{command, url, "--cache-backend", cacheBackend, "--color", "no"}, config.ExtraArgs[command]...)

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()
		cmd := exec.Command("archivepulse", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output, command) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte, command string) bool {
	outputStr := string(output)
	if command == "daily" {
		return strings.Contains(outputStr, "Pipeline completed in")
	}
	return strings.Contains(outputStr, `"summary"`) || strings.Contains(outputStr, "Captures read:")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/archivepulse_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"url", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.URL, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range config.Commands {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-20s: No-cache: %s, Cold: %s, Warm: %s\n", result.URL, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
}
