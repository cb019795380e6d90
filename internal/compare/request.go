// Package compare runs one comparison: resolve tickers, fetch and summarise
// news, fetch prices, then score and recommend.
package compare

import (
	"errors"
	"fmt"
	"strings"

	"github.com/seenimoa/stockcompare/pkg/models"
)

var (
	// ErrNoCompanies is returned when no non-empty name was supplied.
	ErrNoCompanies = errors.New("at least one company name is required")
	// ErrTooManyCompanies is returned when more than models.MaxCompanies names were supplied.
	ErrTooManyCompanies = fmt.Errorf("at most %d companies can be compared", models.MaxCompanies)
)

// Request is the input of one comparison run.
type Request struct {
	Names []string `json:"names"`
}

// Normalize trims names and drops empty slots. Order and duplicates are kept.
func (r Request) Normalize() (Request, error) {
	names := make([]string, 0, len(r.Names))
	for _, n := range r.Names {
		n = strings.TrimSpace(n)
		if n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return Request{}, ErrNoCompanies
	}
	if len(names) > models.MaxCompanies {
		return Request{}, fmt.Errorf("%w: got %d", ErrTooManyCompanies, len(names))
	}
	return Request{Names: names}, nil
}

// FallbackTicker is the placeholder used when a name cannot be resolved.
// It is not validated against any market.
func FallbackTicker(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
