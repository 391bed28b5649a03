package service

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/sartorproj/regionforecast/timeseries"
)

// Entity type filters.
const (
	TipeAll       = "all"
	TipeKota      = "kota"
	TipeKabupaten = "kabupaten"
)

// Filter restricts a table to a subset of entities.
type Filter struct {
	// Tipe selects cities ("kota"), regencies ("kabupaten") or both ("all").
	Tipe  string
	Codes []int
}

// NormalizeTipe lower-cases t and maps the empty string to TipeAll.
func NormalizeTipe(t string) (string, error) {
	t = strings.ToLower(strings.TrimSpace(t))
	switch t {
	case "":
		return TipeAll, nil
	case TipeAll, TipeKota, TipeKabupaten:
		return t, nil
	}
	return "", fmt.Errorf("%w: tipe must be kota, kabupaten, or all", ErrInvalidRequest)
}

// ParseCodes parses a comma-separated list of numeric entity codes.
func ParseCodes(raw string) ([]int, error) {
	var codes []int
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		code, err := strconv.Atoi(item)
		if err != nil || code < 0 {
			return nil, fmt.Errorf("%w: entity codes must be numeric, got %q", ErrInvalidRequest, item)
		}
		codes = append(codes, code)
	}
	return codes, nil
}

// Apply returns the rows matching f.
func (f Filter) Apply(rows []timeseries.Observation) []timeseries.Observation {
	out := make([]timeseries.Observation, 0, len(rows))
	for _, r := range rows {
		if len(f.Codes) > 0 && !slices.Contains(f.Codes, r.EntityCode) {
			continue
		}
		switch f.Tipe {
		case TipeKota:
			if !strings.HasPrefix(r.EntityName, "KOTA ") {
				continue
			}
		case TipeKabupaten:
			if !strings.HasPrefix(r.EntityName, "KABUPATEN ") {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}
