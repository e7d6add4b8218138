package adapter

import (
	"log/slog"
	"strconv"
	"strings"

	m "gooze.dev/pkg/fuzzgen/internal/model"
)

const (
	directivePrefix = "fuzzgen:"
	ignoreDirective = "ignore"
	rangeDirective  = "range"
)

// directives are the fuzzgen annotations found in the comment block directly
// above a function.
type directives struct {
	ignore bool
	ranges map[string]m.IntBounds
}

// parseDirectives reads comment lines ("// ...", "# ...") for fuzzgen annotations:
//
//	fuzzgen:ignore
//	fuzzgen:range x=-5..5 y=0..10
func parseDirectives(lines []string) directives {
	var d directives

	for _, line := range lines {
		text := strings.TrimSpace(line)
		text = strings.TrimLeft(text, "/#")
		text = strings.TrimSpace(text)

		if !strings.HasPrefix(text, directivePrefix) {
			continue
		}

		fields := strings.Fields(strings.TrimPrefix(text, directivePrefix))
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case ignoreDirective:
			d.ignore = true
		case rangeDirective:
			for _, spec := range fields[1:] {
				name, bounds, ok := parseRangeSpec(spec)
				if !ok {
					slog.Warn("ignoring malformed range directive", "directive", spec)
					continue
				}

				if d.ranges == nil {
					d.ranges = make(map[string]m.IntBounds)
				}

				d.ranges[name] = bounds
			}
		default:
			slog.Warn("unknown fuzzgen directive", "directive", fields[0])
		}
	}

	return d
}

// parseRangeSpec parses "name=min..max".
func parseRangeSpec(spec string) (string, m.IntBounds, bool) {
	name, rng, ok := strings.Cut(spec, "=")
	if !ok || name == "" {
		return "", m.IntBounds{}, false
	}

	lo, hi, ok := strings.Cut(rng, "..")
	if !ok {
		return "", m.IntBounds{}, false
	}

	minValue, err := strconv.ParseInt(strings.TrimSpace(lo), 10, 64)
	if err != nil {
		return "", m.IntBounds{}, false
	}

	maxValue, err := strconv.ParseInt(strings.TrimSpace(hi), 10, 64)
	if err != nil || minValue > maxValue {
		return "", m.IntBounds{}, false
	}

	return name, m.IntBounds{Min: minValue, Max: maxValue}, true
}

// apply copies range overrides onto the matching parameters.
func (d directives) apply(params []m.Parameter) []m.Parameter {
	if len(d.ranges) == 0 {
		return params
	}

	for i := range params {
		if bounds, ok := d.ranges[params[i].Name]; ok {
			b := bounds
			params[i].Bounds = &b
		}
	}

	return params
}
