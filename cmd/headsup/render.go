package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/headsup/poker"
)

var (
	redCard   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	blackCard = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	winStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	headStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
)

func renderCard(c poker.Card) string {
	if c.Color() == poker.Red {
		return redCard.Render(c.String())
	}
	return blackCard.Render(c.String())
}

func renderCards(cards []poker.Card) string {
	if len(cards) == 0 {
		return dimStyle.Render("-")
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = renderCard(c)
	}
	return strings.Join(parts, " ")
}
