package detect

import "strings"

// FilterChain builds video filter graphs for diagnostic runs.
type FilterChain struct {
	filters []string
}

// NewFilterChain creates a new empty filter chain.
func NewFilterChain() *FilterChain {
	return &FilterChain{}
}

// Add appends a filter to the chain.
func (c *FilterChain) Add(filter string) *FilterChain {
	if filter != "" {
		c.filters = append(c.filters, filter)
	}
	return c
}

// Build builds the filter chain into a single filter string.
// Returns empty string if no filters are present.
func (c *FilterChain) Build() string {
	if len(c.filters) == 0 {
		return ""
	}
	return strings.Join(c.filters, ",")
}

// IsEmpty returns true if no filters are present.
func (c *FilterChain) IsEmpty() bool {
	return len(c.filters) == 0
}
