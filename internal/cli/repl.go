package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/agbru/primepipe/internal/format"
	"github.com/agbru/primepipe/internal/orchestration"
	"github.com/agbru/primepipe/internal/progress"
	"github.com/agbru/primepipe/internal/sieve"
	"github.com/agbru/primepipe/internal/strategy"
	"github.com/agbru/primepipe/internal/ui"
)

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// DefaultStrategy is the strategy used by "range" until changed.
	DefaultStrategy string
	// Timeout bounds each command.
	Timeout time.Duration
	// Workers is the worker count passed to strategies.
	Workers int
	// QueueDepth sizes the pipeline queues.
	QueueDepth int
	// ShowPrimes prints the full prime list instead of a preview.
	ShowPrimes bool
}

// REPL is an interactive prompt over the strategy registry.
type REPL struct {
	config          REPLConfig
	factory         strategy.Factory
	currentStrategy string
	in              io.Reader
	out             io.Writer
}

// NewREPL creates a REPL reading from stdin and writing to stdout.
// An empty or "all" default selects the first registered strategy.
func NewREPL(factory strategy.Factory, config REPLConfig) *REPL {
	current := config.DefaultStrategy
	if _, err := factory.Get(current); err != nil {
		current = ""
		if names := factory.List(); len(names) > 0 {
			current = names[0]
		}
	}
	return &REPL{
		config:          config,
		factory:         factory,
		currentStrategy: current,
		in:              os.Stdin,
		out:             os.Stdout,
	}
}

// SetInput sets a custom input reader.
func (r *REPL) SetInput(in io.Reader) { r.in = in }

// SetOutput sets a custom output writer.
func (r *REPL) SetOutput(out io.Writer) { r.out = out }

// Start reads and executes commands until "exit" or EOF.
func (r *REPL) Start() {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)
	for {
		fmt.Fprint(r.out, ui.ColorGreen()+"primes> "+ui.ColorReset())

		input, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			continue
		}
		eof := errors.Is(err, io.EOF)

		if line := strings.TrimSpace(input); line != "" {
			if !r.processCommand(line) {
				return
			}
		}
		if eof {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}
	}
}

func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════════════════════╗%s\n", ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s║%s        %sPrime Pipeline - Interactive Mode%s                 %s║%s\n",
		ui.ColorCyan(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════════════════════╝%s\n\n", ui.ColorCyan(), ui.ColorReset())
}

func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %scheck <n>%s          - Test n for primality\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %srange <lo> <hi>%s    - Find the primes of [lo, hi)\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %scompare <lo> <hi>%s  - Run every strategy over [lo, hi)\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sstrategy <name>%s    - Change strategy (%s)\n", ui.ColorYellow(), ui.ColorReset(), strings.Join(r.factory.List(), ", "))
	fmt.Fprintf(r.out, "  %sworkers <n>%s        - Change the worker count\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %slist%s               - List available strategies\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sstatus%s             - Display current configuration\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %shelp%s               - Display this help\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sexit%s / %squit%s        - Exit interactive mode\n", ui.ColorYellow(), ui.ColorReset(), ui.ColorYellow(), ui.ColorReset())
}

// processCommand executes one command line. It returns false on exit.
func (r *REPL) processCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "check", "isprime":
		r.cmdCheck(args)
	case "range", "r":
		r.cmdRange(args)
	case "compare", "cmp":
		r.cmdCompare(args)
	case "strategy", "s":
		r.cmdStrategy(args)
	case "workers", "w":
		r.cmdWorkers(args)
	case "list", "ls":
		r.cmdList()
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	default:
		// A bare number is a primality check.
		if _, err := strconv.ParseUint(cmd, 10, 64); err == nil {
			r.cmdCheck([]string{cmd})
			return true
		}
		fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ui.ColorRed(), cmd, ui.ColorReset())
		fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ui.ColorYellow(), ui.ColorReset())
	}
	return true
}

func (r *REPL) cmdCheck(args []string) {
	if len(args) != 1 {
		fmt.Fprintf(r.out, "%sUsage: check <n>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	n, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(r.out, "%sInvalid value: %s%s\n", ui.ColorRed(), args[0], ui.ColorReset())
		return
	}
	if sieve.IsPrime(n) {
		fmt.Fprintf(r.out, "  %d is %sprime%s\n", n, ui.ColorGreen(), ui.ColorReset())
	} else {
		fmt.Fprintf(r.out, "  %d is %snot prime%s\n", n, ui.ColorYellow(), ui.ColorReset())
	}
}

// parseRange reads "<lo> <hi>" and reports usage errors itself.
func (r *REPL) parseRange(cmd string, args []string) (sieve.Range, bool) {
	if len(args) != 2 {
		fmt.Fprintf(r.out, "%sUsage: %s <lo> <hi>%s\n", ui.ColorRed(), cmd, ui.ColorReset())
		return sieve.Range{}, false
	}
	lo, errLo := strconv.ParseUint(args[0], 10, 64)
	hi, errHi := strconv.ParseUint(args[1], 10, 64)
	if errLo != nil || errHi != nil {
		fmt.Fprintf(r.out, "%sInvalid bounds: %s %s%s\n", ui.ColorRed(), args[0], args[1], ui.ColorReset())
		return sieve.Range{}, false
	}
	rng, err := sieve.NewRange(lo, hi)
	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return sieve.Range{}, false
	}
	return rng, true
}

func (r *REPL) options() strategy.Options {
	return strategy.Options{Workers: r.config.Workers, QueueDepth: r.config.QueueDepth, Sorted: true}
}

func (r *REPL) cmdRange(args []string) {
	rng, ok := r.parseRange("range", args)
	if !ok {
		return
	}
	s, err := r.factory.Get(r.currentStrategy)
	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
	defer cancel()

	fmt.Fprintf(r.out, "Scanning %s%s%s with %s%s%s...\n",
		ui.ColorMagenta(), rng, ui.ColorReset(), ui.ColorCyan(), s.Description(), ui.ColorReset())

	progressChan := make(chan progress.ProgressUpdate, orchestration.ProgressBufferMultiplier)
	var wg sync.WaitGroup
	wg.Add(1)
	go DisplayProgress(&wg, progressChan, 1, r.out)

	start := time.Now()
	primes, err := s.FindPrimes(ctx, progressChan, 0, rng, r.options())
	duration := time.Since(start)
	close(progressChan)
	wg.Wait()

	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}

	fmt.Fprintf(r.out, "\n%sResult:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Time:   %s%s%s\n", ui.ColorGreen(), format.FormatExecutionDuration(duration), ui.ColorReset())
	fmt.Fprintf(r.out, "  Primes: %s%s%s\n", ui.ColorCyan(), format.FormatCount(uint64(len(primes))), ui.ColorReset())
	if len(primes) > 0 {
		fmt.Fprintf(r.out, "  %s\n", FormatPrimeList(primes, r.config.ShowPrimes))
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdCompare(args []string) {
	rng, ok := r.parseRange("compare", args)
	if !ok {
		return
	}

	fmt.Fprintf(r.out, "\n%sComparison for %s:%s\n", ui.ColorBold(), rng, ui.ColorReset())
	fmt.Fprintf(r.out, "%s─────────────────────────────────────────────%s\n", ui.ColorCyan(), ui.ColorReset())

	var reference []uint64
	haveReference := false
	for _, s := range r.factory.GetAll() {
		ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
		start := time.Now()
		primes, err := s.FindPrimes(ctx, nil, 0, rng, r.options())
		duration := time.Since(start)
		cancel()

		if err != nil {
			fmt.Fprintf(r.out, "  %s%-12s%s: %sError - %v%s\n",
				ui.ColorYellow(), s.Name(), ui.ColorReset(), ui.ColorRed(), err, ui.ColorReset())
			continue
		}
		if !haveReference {
			reference, haveReference = primes, true
		}

		status := ui.ColorGreen() + "✓" + ui.ColorReset()
		if !orchestration.SamePrimeSet(reference, primes) {
			status = ui.ColorRed() + "✗ INCONSISTENT" + ui.ColorReset()
		}
		fmt.Fprintf(r.out, "  %s%-12s%s: %s%12s%s %8d primes %s\n",
			ui.ColorYellow(), s.Name(), ui.ColorReset(),
			ui.ColorCyan(), format.FormatExecutionDuration(duration), ui.ColorReset(),
			len(primes), status)
	}

	fmt.Fprintf(r.out, "%s─────────────────────────────────────────────%s\n\n", ui.ColorCyan(), ui.ColorReset())
}

func (r *REPL) cmdStrategy(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: strategy <name>%s\n", ui.ColorRed(), ui.ColorReset())
		fmt.Fprintf(r.out, "Available strategies: %s\n", strings.Join(r.factory.List(), ", "))
		return
	}
	name := strings.ToLower(args[0])
	s, err := r.factory.Get(name)
	if err != nil {
		fmt.Fprintf(r.out, "%sUnknown strategy: %s%s\n", ui.ColorRed(), name, ui.ColorReset())
		fmt.Fprintf(r.out, "Available strategies: %s\n", strings.Join(r.factory.List(), ", "))
		return
	}
	r.currentStrategy = name
	fmt.Fprintf(r.out, "Strategy changed to: %s%s%s\n", ui.ColorGreen(), s.Description(), ui.ColorReset())
}

func (r *REPL) cmdWorkers(args []string) {
	if len(args) != 1 {
		fmt.Fprintf(r.out, "%sUsage: workers <n>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		fmt.Fprintf(r.out, "%sInvalid worker count: %s%s\n", ui.ColorRed(), args[0], ui.ColorReset())
		return
	}
	r.config.Workers = n
	fmt.Fprintf(r.out, "Workers set to: %s%d%s\n", ui.ColorGreen(), n, ui.ColorReset())
}

func (r *REPL) cmdList() {
	fmt.Fprintf(r.out, "\n%sAvailable strategies:%s\n", ui.ColorBold(), ui.ColorReset())
	for _, s := range r.factory.GetAll() {
		marker := "  "
		if s.Name() == r.currentStrategy {
			marker = ui.ColorGreen() + "► " + ui.ColorReset()
		}
		fmt.Fprintf(r.out, "%s%s%-12s%s - %s\n", marker, ui.ColorYellow(), s.Name(), ui.ColorReset(), s.Description())
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdStatus() {
	workers := "auto"
	if r.config.Workers > 0 {
		workers = strconv.Itoa(r.config.Workers)
	}
	fmt.Fprintf(r.out, "\n%sCurrent configuration:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Strategy:  %s%s%s\n", ui.ColorCyan(), r.currentStrategy, ui.ColorReset())
	fmt.Fprintf(r.out, "  Workers:   %s%s%s\n", ui.ColorCyan(), workers, ui.ColorReset())
	fmt.Fprintf(r.out, "  Timeout:   %s%s%s\n", ui.ColorCyan(), r.config.Timeout, ui.ColorReset())
	fmt.Fprintln(r.out)
}
