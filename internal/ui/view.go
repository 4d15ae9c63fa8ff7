package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"bookpet/internal/pet"
)

var gameStyles = struct {
	title   lipgloss.Style
	status  lipgloss.Style
	alert   lipgloss.Style
	menu    lipgloss.Style
	menuBox lipgloss.Style
	stats   lipgloss.Style
}{
	title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7AA2F7")).
		Padding(0, 1),

	status: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7AA2F7")).
		Width(40),

	alert: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F7768E")).
		Width(40),

	stats: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#9ECE6A")).
		Width(40),

	menu: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7AA2F7")),

	menuBox: lipgloss.NewStyle().
		Padding(0, 2),
}

var moodEmoji = map[pet.Mood]string{
	pet.MoodHappy:   "😊",
	pet.MoodNeutral: "😐",
	pet.MoodSad:     "😢",
	pet.MoodDying:   "🥀",
	pet.MoodDead:    "💀",
}

// View implements tea.Model
func (m Model) View() string {
	if m.Quitting {
		return "Happy reading!\n"
	}
	if !m.Pet.Alive {
		return m.deadView()
	}

	emoji := moodEmoji[m.Status.Mood]
	title := gameStyles.title.Render(emoji + " " + m.Pet.Name + " the " + pet.StageName(m.Pet.Stage) + " " + emoji)

	sections := []string{
		title,
		"",
		m.renderStats(),
	}

	if alerts := m.renderAlerts(); alerts != "" {
		sections = append(sections, "", alerts)
	}

	if m.Message != "" && m.now().Before(m.MessageExpires) {
		sections = append(sections, "", gameStyles.status.Render(m.Message))
	}

	sections = append(sections,
		"",
		m.renderMenu(),
		"",
		gameStyles.status.Render("Use arrows to move, enter to select, q to quit"),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// deadView keeps the full menu available: only the shop (revival item)
// and inventory paths will succeed, the rest answer with a hint.
func (m Model) deadView() string {
	lines := []string{
		gameStyles.title.Render("💀 " + m.Pet.Name + " has passed away..."),
		"",
		gameStyles.status.Render("A Phoenix Bookmark from the shop can bring them back."),
		"",
		m.renderMenu(),
	}
	if m.Message != "" && m.now().Before(m.MessageExpires) {
		lines = append(lines, "", gameStyles.status.Render(m.Message))
	}
	lines = append(lines, "", gameStyles.status.Render("Use arrows to move, enter to select, q to quit"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderStats() string {
	bar := func(value int) string {
		filled := value / 10
		var b strings.Builder
		for i := 0; i < 10; i++ {
			if i < filled {
				b.WriteString("█")
			} else {
				b.WriteString("░")
			}
		}
		return b.String()
	}

	var s strings.Builder
	s.WriteString(fmt.Sprintf("Level %d  (%d/%d XP)   Books: %d\n",
		m.Pet.Level, m.Pet.Experience, m.Pet.ExperienceToNext, m.Pet.TotalBooksRead))
	s.WriteString(fmt.Sprintf("Points: %d   Coins: %d\n\n", m.Pet.Points, m.Pet.Coins))
	s.WriteString(fmt.Sprintf("Hunger      [%s] %3d%%\n", bar(m.Pet.Hunger), m.Pet.Hunger))
	s.WriteString(fmt.Sprintf("Happiness   [%s] %3d%%\n", bar(m.Pet.Happiness), m.Pet.Happiness))
	s.WriteString(fmt.Sprintf("Energy      [%s] %3d%%\n", bar(m.Pet.Energy), m.Pet.Energy))
	s.WriteString(fmt.Sprintf("Health      [%s] %3d%%\n", bar(m.Pet.Health), m.Pet.Health))
	s.WriteString(fmt.Sprintf("Cleanliness [%s] %3d%%\n", bar(m.Pet.Cleanliness), m.Pet.Cleanliness))
	if m.Pet.Sickness > 0 {
		s.WriteString(fmt.Sprintf("Sickness    [%s] %3d%%\n", bar(m.Pet.Sickness), m.Pet.Sickness))
	}
	return gameStyles.stats.Render(s.String())
}

func (m Model) renderAlerts() string {
	if len(m.Status.Alerts) == 0 {
		return ""
	}
	var parts []string
	for _, a := range m.Status.Alerts {
		label := a.Kind
		if a.Severity == pet.SeverityCritical {
			label = strings.ToUpper(a.Kind) + "!"
		}
		parts = append(parts, label)
	}
	return gameStyles.alert.Render("⚠ " + strings.Join(parts, ", "))
}

func (m Model) renderMenu() string {
	var b strings.Builder
	switch m.Screen {
	case screenReading:
		b.WriteString("How long did you read?\n\n")
		for i, opt := range readingOptions {
			b.WriteString(menuLine(i == m.Choice, opt.Label))
		}
	case screenShop:
		b.WriteString("Shop\n\n")
		items := m.shopItems()
		for i, item := range items {
			label := fmt.Sprintf("%-18s %3dp  [%s]", item.Name, item.Price, item.Rarity)
			b.WriteString(menuLine(i == m.Choice, label))
		}
		b.WriteString(menuLine(m.Choice == len(items), "Back"))
	case screenInventory:
		b.WriteString("Inventory\n\n")
		ids := m.inventoryIDs()
		for i, id := range ids {
			entry := m.Pet.Inventory[id]
			label := fmt.Sprintf("%-18s x%d", entry.Name, entry.Quantity)
			b.WriteString(menuLine(i == m.Choice, label))
		}
		if len(ids) == 0 {
			b.WriteString("  (nothing yet)\n")
		}
		b.WriteString(menuLine(m.Choice == len(ids), "Back"))
	default:
		for i, opt := range mainMenu {
			b.WriteString(menuLine(i == m.Choice, opt))
		}
	}
	return gameStyles.menuBox.Render(gameStyles.menu.Render(b.String()))
}

func menuLine(selected bool, label string) string {
	if selected {
		return "> " + label + "\n"
	}
	return "  " + label + "\n"
}
