package pagination

import "context"

// Counter is the visitor of the counting pass: it draws nothing and only
// counts page breaks.
type Counter struct {
	Breaks int
}

func (c *Counter) PageBreak(context.Context, Break) error {
	c.Breaks++
	return nil
}

func (c *Counter) Visit(context.Context, *Frame) error { return nil }

// Pages returns the page count implied by the counted breaks.
func (c *Counter) Pages() int {
	return c.Breaks + 1
}
