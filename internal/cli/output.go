package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/agbru/primepipe/internal/orchestration"
	"github.com/agbru/primepipe/internal/ui"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path the primes are saved to; empty disables it.
	OutputFile string
	// Quiet prints only the prime count, for scripting.
	Quiet bool
	// Verbose adds gap and density statistics.
	Verbose bool
	// ShowPrimes prints every prime instead of a preview.
	ShowPrimes bool
}

// WritePrimesToFile writes a commented header followed by one prime per
// line, in ascending order. It is a no-op when cfg.OutputFile is empty.
func WritePrimesToFile(result orchestration.RunResult, opts orchestration.PresentationOptions, cfg OutputConfig) error {
	if cfg.OutputFile == "" {
		return nil
	}

	if dir := filepath.Dir(cfg.OutputFile); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	primes := sortedPrimes(result.Primes)
	fmt.Fprintf(w, "# primepipe result\n")
	fmt.Fprintf(w, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(w, "# Strategy: %s\n", result.Name)
	fmt.Fprintf(w, "# Range: %s\n", opts.Range)
	fmt.Fprintf(w, "# Workers: %d\n", opts.Workers)
	fmt.Fprintf(w, "# Duration: %s\n", result.Duration)
	fmt.Fprintf(w, "# Count: %d\n", len(primes))
	for _, p := range primes {
		w.WriteString(strconv.FormatUint(p, 10))
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return file.Close()
}

// FormatQuietResult returns the prime count, or the primes themselves one
// per line when showPrimes is set.
func FormatQuietResult(primes []uint64, showPrimes bool) string {
	if !showPrimes {
		return strconv.Itoa(len(primes))
	}
	sorted := sortedPrimes(primes)
	buf := make([]byte, 0, len(sorted)*10)
	for i, p := range sorted {
		if i > 0 {
			buf = append(buf, '\n')
		}
		buf = strconv.AppendUint(buf, p, 10)
	}
	return string(buf)
}

// DisplayQuietResult prints FormatQuietResult followed by a newline.
func DisplayQuietResult(out io.Writer, primes []uint64, showPrimes bool) {
	fmt.Fprintln(out, FormatQuietResult(primes, showPrimes))
}

// DisplayResultWithConfig prints the result in the mode selected by cfg and
// saves it when an output file is configured.
func DisplayResultWithConfig(out io.Writer, result orchestration.RunResult, opts orchestration.PresentationOptions, cfg OutputConfig) error {
	if cfg.Quiet {
		DisplayQuietResult(out, result.Primes, cfg.ShowPrimes)
	} else {
		opts.Verbose, opts.ShowPrimes = cfg.Verbose, cfg.ShowPrimes
		DisplayResult(result, opts, out)
	}

	if cfg.OutputFile == "" {
		return nil
	}
	if err := WritePrimesToFile(result, opts, cfg); err != nil {
		return err
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "\n%s✓ Primes saved to: %s%s%s\n",
			ui.ColorGreen(), ui.ColorCyan(), cfg.OutputFile, ui.ColorReset())
	}
	return nil
}
