package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// parseValues parses a sweep axis. It accepts a comma separated list
// ("0.1,0.3,0.5"), an inclusive range "start:stop:step" ("0:0.5:0.1"), or a
// mix of both. Every value must lie in [0, 1].
func parseValues(s string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if strings.Contains(part, ":") {
			vals, err := parseRange(part)
			if err != nil {
				return nil, err
			}
			out = append(out, vals...)
			continue
		}

		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", part, err)
		}
		out = append(out, v)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no values in %q", s)
	}
	for _, v := range out {
		if v < 0 || v > 1 || math.IsNaN(v) {
			return nil, fmt.Errorf("value %v outside [0, 1]", v)
		}
	}
	return out, nil
}

func parseRange(s string) ([]float64, error) {
	fields := strings.Split(s, ":")
	if len(fields) != 3 {
		return nil, fmt.Errorf("invalid range %q: want start:stop:step", s)
	}
	var nums [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid range %q: %w", s, err)
		}
		nums[i] = v
	}
	start, stop, step := nums[0], nums[1], nums[2]
	if step <= 0 {
		return nil, fmt.Errorf("invalid range %q: step must be positive", s)
	}
	if stop < start {
		return nil, fmt.Errorf("invalid range %q: stop before start", s)
	}

	// Index-based stepping; the small epsilon keeps stop inclusive.
	n := int(math.Floor((stop-start)/step+1e-9)) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Round((start+float64(i)*step)*1e9) / 1e9
	}
	return out, nil
}
