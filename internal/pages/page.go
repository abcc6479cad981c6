// Package pages implements the dashboard's views: each page composes entity
// stores, mock fixtures and the market feed into a render-ready state
// snapshot. Pages hold all per-view state; nothing here is persisted.
package pages

import (
	"context"
	"strconv"
)

// basePage carries the identity shared by every page. Pages with background
// work override Mount and Unmount.
type basePage struct {
	key   string
	title string
}

func (p basePage) Key() string               { return p.key }
func (p basePage) Title() string             { return p.title }
func (p basePage) Mount(ctx context.Context) {}
func (p basePage) Unmount()                  {}

// formatNumber renders a float the way a form field holds it, without
// trailing zeros.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
