package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/jtl/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// The YAML document is converted as follows:
//   - Nested mappings are flattened, joining keys with hyphens, so
//     "log: {level: debug}" sets --log-level
//   - Flag names with hyphens (e.g., "log-level") may use underscores
//     in the config file (e.g., "log_level")
//   - Sequences are joined with commas
//   - Numbers are formatted as strings
//   - Boolean values are kept as is
//
// Example config file:
//
//	log-level: debug
//	log:
//	  format: json
//	context:
//	  - ~/.config/jtl/site.yaml
//
// Command-line flags override config file values. A file that is not valid
// YAML is ignored with a warning.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		err := yaml.NewDecoder(r).DecodeContext(ctx, &doc)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.WarnContext(ctx, "ignoring invalid configuration",
					slog.Any("error", err),
				)
			}

			return config{}, nil
		}

		cfg := config{}
		cfg.flatten("", doc)

		return cfg, nil
	}
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g., "log-level") but config keys
	// may use underscores. Try both forms.
	name := flag.Name

	if value, ok := r[name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}

// flatten stores the values of m in r, prefixing each key with prefix.
func (r config) flatten(prefix string, m map[string]any) {
	for key, value := range m {
		if prefix != "" {
			key = prefix + "-" + key
		}

		if sub, ok := value.(map[string]any); ok {
			r.flatten(key, sub)

			continue
		}

		if value = scalar(value); value != nil {
			r[key] = value
		}
	}
}

// scalar converts a decoded YAML value to a form kong can parse.
func scalar(value any) any {
	switch v := value.(type) {
	case nil, bool, string:
		return v

	case int:
		return strconv.Itoa(v)

	case int64:
		return strconv.FormatInt(v, 10)

	case uint64:
		return strconv.FormatUint(v, 10)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case []any:
		elems := make([]string, 0, len(v))

		for _, e := range v {
			if s := scalar(e); s != nil {
				elems = append(elems, fmt.Sprint(s))
			}
		}

		return strings.Join(elems, ",")

	default:
		return fmt.Sprint(v)
	}
}
