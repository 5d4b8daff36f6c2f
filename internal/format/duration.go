package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatExecutionDuration prints microseconds below one millisecond,
// milliseconds below one second, and time.Duration's own format otherwise.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

// FormatNumberString inserts thousands separators into a decimal string.
// A leading minus sign is preserved.
func FormatNumberString(s string) string {
	if s == "" {
		return ""
	}
	sign := ""
	if s[0] == '-' {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}

	var b strings.Builder
	b.Grow(len(sign) + len(s) + len(s)/3)
	b.WriteString(sign)
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > len(sign) {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatCount formats n with thousands separators.
func FormatCount(n uint64) string {
	return FormatNumberString(strconv.FormatUint(n, 10))
}

// FormatRate formats a throughput in candidates per second, e.g. "1.25M/s".
func FormatRate(count uint64, d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	rate := float64(count) / d.Seconds()
	switch {
	case rate >= 1e9:
		return fmt.Sprintf("%.2fG/s", rate/1e9)
	case rate >= 1e6:
		return fmt.Sprintf("%.2fM/s", rate/1e6)
	case rate >= 1e3:
		return fmt.Sprintf("%.2fk/s", rate/1e3)
	}
	return fmt.Sprintf("%.0f/s", rate)
}
