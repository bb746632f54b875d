package view

import (
	"github.com/dustin/go-humanize"

	"covidtracker/internal/models"
)

const NotAvailable = "N/A"

// FormatCount renders a total with thousands separators.
func FormatCount(c models.Count) string {
	if !c.Known {
		return NotAvailable
	}
	return humanize.Comma(c.Value)
}

// FormatDelta renders a daily figure as "+1,234".
func FormatDelta(c models.Count) string {
	if !c.Known {
		return NotAvailable
	}
	if c.Value < 0 {
		return humanize.Comma(c.Value)
	}
	return "+" + humanize.Comma(c.Value)
}
