package optionmodels

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePositionSpec parses the compact "side:strike:quantity[:entry]" form
// used by CLI flags and query parameters, e.g. "call:100:2:3.50" or
// "put:95:-1". A missing entry price is zero; both the scenario engine and the
// workbook export substitute the contract's mid for zero entries.
func ParsePositionSpec(spec string) (OptionType, float64, Position, error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return "", 0, Position{}, fmt.Errorf("ParsePositionSpec: expected side:strike:quantity[:entry], got %q", spec)
	}

	side := OptionType(strings.ToLower(strings.TrimSpace(parts[0])))
	if err := side.Validate(); err != nil {
		return "", 0, Position{}, fmt.Errorf("ParsePositionSpec: %w", err)
	}

	strike, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", 0, Position{}, fmt.Errorf("ParsePositionSpec: invalid strike %q: %w", parts[1], err)
	}

	quantity, err := strconv.Atoi(parts[2])
	if err != nil {
		return "", 0, Position{}, fmt.Errorf("ParsePositionSpec: invalid quantity %q: %w", parts[2], err)
	}

	position := Position{Quantity: quantity}
	if len(parts) == 4 {
		entry, err := strconv.ParseFloat(parts[3], 64)
		if err != nil {
			return "", 0, Position{}, fmt.Errorf("ParsePositionSpec: invalid entry price %q: %w", parts[3], err)
		}

		position.EntryPrice = entry
	}

	return side, strike, position, nil
}

// ParsePositionSpecs builds a position book from multiple specs.
func ParsePositionSpecs(specs []string) (*PositionBook, error) {
	book := NewPositionBook()

	for _, spec := range specs {
		side, strike, position, err := ParsePositionSpec(spec)
		if err != nil {
			return nil, err
		}

		book.Set(side, strike, position)
	}

	return book, nil
}
