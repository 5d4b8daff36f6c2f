// # Naming Conventions
//
// Functions in this package follow consistent naming patterns:
//
//   - Display* functions write formatted, colorized output to an [io.Writer].
//     Examples: [DisplayResult], [DisplayQuietResult], [DisplayProgress].
//
//   - Format* functions return a string without performing I/O.
//     Examples: [FormatQuietResult], [FormatPrimeList].
//
//   - Write* functions write data to the filesystem.
//     Example: [WritePrimesToFile].

package cli

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/agbru/primepipe/internal/format"
	"github.com/agbru/primepipe/internal/orchestration"
	"github.com/agbru/primepipe/internal/ui"
)

// DisplayResult prints the verified result of a run: the prime count, the
// extreme primes, the timing and either a preview or the full prime list.
func DisplayResult(result orchestration.RunResult, opts orchestration.PresentationOptions, out io.Writer) {
	primes := sortedPrimes(result.Primes)

	fmt.Fprintf(out, "\n--- Results ---\n")
	fmt.Fprintf(out, "Strategy:         %s%s%s\n", ui.ColorGreen(), result.Description, ui.ColorReset())
	fmt.Fprintf(out, "Range:            %s%s%s (%s candidates)\n",
		ui.ColorCyan(), opts.Range, ui.ColorReset(), format.FormatCount(opts.Range.Len()))
	if opts.Workers > 0 {
		fmt.Fprintf(out, "Workers:          %s%d%s\n", ui.ColorCyan(), opts.Workers, ui.ColorReset())
	}
	fmt.Fprintf(out, "Calculation time: %s%s%s (%s)\n", ui.ColorYellow(),
		format.FormatExecutionDuration(result.Duration), ui.ColorReset(),
		format.FormatRate(opts.Range.Len(), result.Duration))
	fmt.Fprintf(out, "Primes found:     %s%s%s\n", ui.ColorBold(), format.FormatCount(uint64(len(primes))), ui.ColorReset())

	if len(primes) == 0 {
		fmt.Fprintf(out, "%sNo primes in this range.%s\n", ui.ColorDim(), ui.ColorReset())
		return
	}

	fmt.Fprintf(out, "Smallest prime:   %s%d%s\n", ui.ColorGreen(), primes[0], ui.ColorReset())
	fmt.Fprintf(out, "Largest prime:    %s%d%s\n", ui.ColorGreen(), primes[len(primes)-1], ui.ColorReset())
	if opts.Verbose {
		if gap, at := largestGap(primes); gap > 0 {
			fmt.Fprintf(out, "Largest gap:      %d (after %d)\n", gap, at)
		}
		if opts.Range.Len() > 0 {
			fmt.Fprintf(out, "Prime density:    %.4f%%\n", float64(len(primes))/float64(opts.Range.Len())*100)
		}
	}

	fmt.Fprintf(out, "\nPrimes:\n%s\n", FormatPrimeList(primes, opts.ShowPrimes))
	if !opts.ShowPrimes && len(primes) > 2*PreviewEdges {
		fmt.Fprintf(out, "%sTip: use -primes to print every prime, or -o to save them.%s\n", ui.ColorDim(), ui.ColorReset())
	}
}

// FormatPrimeList joins primes with spaces. Unless full is set, lists
// longer than 2*PreviewEdges are shortened to their edges.
func FormatPrimeList(primes []uint64, full bool) string {
	if full || len(primes) <= 2*PreviewEdges {
		return joinUints(primes)
	}
	return fmt.Sprintf("%s ... %s (truncated, %d hidden)",
		joinUints(primes[:PreviewEdges]),
		joinUints(primes[len(primes)-PreviewEdges:]),
		len(primes)-2*PreviewEdges)
}

func joinUints(values []uint64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatUint(v, 10)
	}
	return strings.Join(parts, " ")
}

func sortedPrimes(primes []uint64) []uint64 {
	if slices.IsSorted(primes) {
		return primes
	}
	out := slices.Clone(primes)
	slices.Sort(out)
	return out
}

// largestGap returns the widest distance between consecutive primes and the
// prime that opens it. primes must be sorted.
func largestGap(primes []uint64) (gap, at uint64) {
	for i := 1; i < len(primes); i++ {
		if d := primes[i] - primes[i-1]; d > gap {
			gap, at = d, primes[i-1]
		}
	}
	return gap, at
}
