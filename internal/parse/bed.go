package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// "01A", "12-B", "Leito 7", "L7 c"
	bedRe    = regexp.MustCompile(`(?i)^(?:leito|l)?\s*(\d+)\s*-?\s*([a-z]?)$`)
	spacesRe = regexp.MustCompile(`\s+`)
)

// ParsedBed holds the structured data parsed from a bed code.
type ParsedBed struct {
	Number int
	Wing   string
}

// String renders the bed in the canonical "01A" form.
func (b ParsedBed) String() string {
	return fmt.Sprintf("%02d%s", b.Number, b.Wing)
}

// ParseBed extracts the bed number and optional wing letter from a raw bed code.
func ParseBed(raw string) (ParsedBed, error) {
	s := strings.TrimSpace(spacesRe.ReplaceAllString(raw, " "))

	m := bedRe.FindStringSubmatch(s)
	if m == nil {
		return ParsedBed{}, fmt.Errorf("unable to parse bed code: %q", raw)
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return ParsedBed{}, fmt.Errorf("unable to parse bed number from %q: %w", raw, err)
	}
	if n == 0 {
		return ParsedBed{}, fmt.Errorf("bed number must be positive: %q", raw)
	}

	return ParsedBed{Number: n, Wing: strings.ToUpper(m[2])}, nil
}
