// Package ui provides terminal styling for bgwire output.
// Uses an adaptive palette so both light and dark terminals stay readable.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bgwire/bgwire/internal/transaction"
)

// Semantic status colors, adaptive light/dark.
var (
	ColorOK = lipgloss.AdaptiveColor{
		Light: "#86b300",
		Dark:  "#c2d94c",
	}
	ColorWarn = lipgloss.AdaptiveColor{
		Light: "#f2ae49",
		Dark:  "#ffb454",
	}
	ColorFail = lipgloss.AdaptiveColor{
		Light: "#f07171",
		Dark:  "#f07178",
	}
	ColorMuted = lipgloss.AdaptiveColor{
		Light: "#828c99",
		Dark:  "#6c7680",
	}
)

// Status styles - consistent across all commands.
var (
	OKStyle     = lipgloss.NewStyle().Foreground(ColorOK)
	WarnStyle   = lipgloss.NewStyle().Foreground(ColorWarn)
	FailStyle   = lipgloss.NewStyle().Foreground(ColorFail)
	MutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	HeaderStyle = lipgloss.NewStyle().Bold(true)
)

// RenderOK renders text with success (green) styling.
func RenderOK(s string) string {
	return OKStyle.Render(s)
}

// RenderWarn renders text with warning (yellow) styling.
func RenderWarn(s string) string {
	return WarnStyle.Render(s)
}

// RenderFail renders text with failure (red) styling.
func RenderFail(s string) string {
	return FailStyle.Render(s)
}

// RenderMuted renders text with muted (gray) styling.
func RenderMuted(s string) string {
	return MutedStyle.Render(s)
}

// TransactionTable renders a batch for operator review.
func TransactionTable(batch []transaction.Request) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("%-30s %12s %-4s %s", "Recipient", "Amount", "Ccy", "Description")))
	b.WriteString("\n")
	for _, tx := range batch {
		b.WriteString(fmt.Sprintf("%-30s %12s %-4s %s\n",
			truncate(tx.Recipient.Name, 30), tx.Amount, tx.Currency, tx.Description))
	}
	return b.String()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
