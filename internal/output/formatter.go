package output

import (
	"fmt"
	"strings"

	"github.com/healthsim/cea-calculator/internal/domain"
)

// Formatter defines a pluggable output formatter that returns a byte slice.
// Implementations should be pure (no side effects besides deterministic
// formatting).
type Formatter interface {
	Format(result *domain.Result) ([]byte, error)
	// Name returns a short identifier for logging / debugging.
	Name() string
}

// FormatterFunc adapter to allow ordinary functions to act as a Formatter.
type FormatterFunc struct {
	ID string
	F  func(*domain.Result) ([]byte, error)
}

func (ff FormatterFunc) Format(r *domain.Result) ([]byte, error) { return ff.F(r) }
func (ff FormatterFunc) Name() string                            { return ff.ID }

// builtInFormatters stores available formatters (extended incrementally).
var builtInFormatters = []Formatter{
	ConsoleFormatter{},
	ConsoleFormatter{Verbose: true},
	JSONFormatter{},
}

// NormalizeFormatName maps user-supplied aliases onto registered names.
func NormalizeFormatName(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "console", "text", "table":
		return "console"
	case "verbose", "console-verbose":
		return "console-verbose"
	case "json":
		return "json"
	default:
		return strings.ToLower(strings.TrimSpace(name))
	}
}

// GetFormatterByName fetches a registered formatter.
func GetFormatterByName(name string) (Formatter, error) {
	n := NormalizeFormatName(name)
	for _, f := range builtInFormatters {
		if f.Name() == n {
			return f, nil
		}
	}
	return nil, fmt.Errorf("unknown output format %q", name)
}
