package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/agbru/primepipe/internal/config"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// Every shell script is generated from flagRegistry, so a new flag only
// needs an entry there.
type FlagCompletion struct {
	Long       string   // flag name without the dash (e.g. "workers")
	Short      string   // one-letter alias without the dash, if any
	Help       string   // description text
	Values     []string // suggested values; nil for booleans and free input
	ValueName  string   // value label in zsh (e.g. "number"); empty for booleans
	IsFile     bool     // the flag takes a file path
	IsStrategy bool     // values come from the strategy registry
}

var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Help: "Show version information"},
	{Long: "lo", Help: "Inclusive lower bound of the range", ValueName: "number"},
	{Long: "hi", Help: "Exclusive upper bound of the range", ValueName: "number"},
	{Long: "workers", Short: "w", Help: "Number of workers", Values: []string{"1", "2", "4", "8", "16"}, ValueName: "count"},
	{Long: "queue-depth", Help: "Capacity of the queues", ValueName: "slots"},
	{Long: "strategy", Help: "Strategy to run", IsStrategy: true, ValueName: "strategy"},
	{Long: "timeout", Help: "Maximum execution time", Values: []string{"30s", "1m", "5m", "10m"}, ValueName: "duration"},
	{Long: "sorted", Help: "Sort primes ascending"},
	{Long: "primes", Short: "p", Help: "Print every prime"},
	{Long: "quiet", Short: "q", Help: "Print only the result"},
	{Long: "verbose", Short: "v", Help: "Show gap and density statistics"},
	{Long: "output", Short: "o", Help: "Write the primes to a file", IsFile: true, ValueName: "file"},
	{Long: "calibrate", Help: "Sweep worker counts"},
	{Long: "auto-calibrate", Help: "Use the fastest worker count"},
	{Long: "calibration-profile", Help: "Calibration profile file", IsFile: true, ValueName: "file"},
	{Long: "kernel", Help: "Run a numeric kernel benchmark", Values: config.Kernels, ValueName: "kernel"},
	{Long: "samples", Help: "Kernel sample count", ValueName: "number"},
	{Long: "tui", Help: "Launch the interactive dashboard"},
	{Long: "interactive", Short: "i", Help: "Start the interactive prompt"},
	{Long: "serve", Help: "Run the HTTP server"},
	{Long: "addr", Help: "Listen address", Values: []string{":8080", "127.0.0.1:8080"}, ValueName: "address"},
	{Long: "log-level", Help: "Log level", Values: []string{"debug", "info", "warn", "error"}, ValueName: "level"},
	{Long: "no-color", Help: "Disable colored output"},
	{Long: "completion", Help: "Generate a completion script", Values: config.Shells, ValueName: "shell"},
}

// CompletionShells lists the shells GenerateCompletion supports.
var CompletionShells = config.Shells

// GenerateCompletion writes a completion script for shell to out.
func GenerateCompletion(out io.Writer, shell string, strategies []string) error {
	var script string
	switch shell {
	case "bash":
		script = bashCompletion(strategies)
	case "zsh":
		script = zshCompletion(strategies)
	case "fish":
		script = fishCompletion(strategies)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: %s)", shell, strings.Join(CompletionShells, ", "))
	}
	if _, err := io.WriteString(out, script); err != nil {
		return fmt.Errorf("completion %s generation failed: %w", shell, err)
	}
	return nil
}

func flagValues(f FlagCompletion, strategies []string) []string {
	if f.IsStrategy {
		return append(append([]string(nil), strategies...), "all")
	}
	return f.Values
}

func bashCompletion(strategies []string) string {
	var opts []string
	var cases strings.Builder
	for _, f := range flagRegistry {
		patterns := []string{"-" + f.Long}
		if f.Short != "" {
			patterns = append(patterns, "-"+f.Short)
		}
		opts = append(opts, patterns...)

		var body string
		switch {
		case f.IsFile:
			body = `COMPREPLY=( $(compgen -f -- "${cur}") )`
		case len(flagValues(f, strategies)) > 0:
			body = fmt.Sprintf(`COMPREPLY=( $(compgen -W "%s" -- "${cur}") )`, strings.Join(flagValues(f, strategies), " "))
		default:
			continue
		}
		fmt.Fprintf(&cases, "        %s)\n            %s\n            return 0\n            ;;\n", strings.Join(patterns, "|"), body)
	}

	return fmt.Sprintf(`# Bash completion script for primepipe
# Add this to your ~/.bashrc or ~/.bash_completion

_primepipe_completions() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    opts="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _primepipe_completions primepipe
`, strings.Join(opts, " "), cases.String())
}

func zshCompletion(strategies []string) string {
	args := make([]string, 0, len(flagRegistry))
	for _, f := range flagRegistry {
		spec := "-" + f.Long
		if f.Short != "" {
			spec = fmt.Sprintf("(-%s -%s)'{-%s,-%s}'", f.Long, f.Short, f.Long, f.Short)
		}
		entry := fmt.Sprintf("%s[%s]", spec, f.Help)
		switch {
		case f.IsFile:
			entry += fmt.Sprintf(":%s:_files", f.ValueName)
		case len(flagValues(f, strategies)) > 0:
			entry += fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(flagValues(f, strategies), " "))
		case f.ValueName != "":
			entry += fmt.Sprintf(":%s:", f.ValueName)
		}
		args = append(args, "        '"+entry+"'")
	}

	return fmt.Sprintf(`#compdef primepipe

# Zsh completion script for primepipe
# Place this file in a directory of $fpath

_primepipe() {
    _arguments -s \
%s
}

_primepipe "$@"
`, strings.Join(args, " \\\n"))
}

func fishCompletion(strategies []string) string {
	var b strings.Builder
	b.WriteString("# Fish completion script for primepipe\n")
	b.WriteString("# Save as ~/.config/fish/completions/primepipe.fish\n\n")
	for _, f := range flagRegistry {
		line := "complete -c primepipe -o " + f.Long
		if f.Short != "" {
			line += " -s " + f.Short
		}
		line += fmt.Sprintf(" -d '%s'", f.Help)
		switch {
		case f.IsFile:
			line += " -r -F"
		case len(flagValues(f, strategies)) > 0:
			line += fmt.Sprintf(" -x -a '%s'", strings.Join(flagValues(f, strategies), " "))
		case f.ValueName != "":
			line += " -x"
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
