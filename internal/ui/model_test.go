package ui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"bookpet/internal/game"
	"bookpet/internal/pet"
	"bookpet/internal/shop"
	"bookpet/internal/store"
)

func newTestModel(t *testing.T, mutate func(p *pet.Pet)) Model {
	t.Helper()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	st, err := store.NewJSONStore(filepath.Join(t.TempDir(), "pet.json"))
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}
	p := pet.New(pet.DefaultPetName, now)
	if mutate != nil {
		mutate(&p)
	}
	if err := st.SavePet("local", p); err != nil {
		t.Fatalf("seed pet: %v", err)
	}

	svc := game.NewService(st, shop.Default())
	svc.SetClock(func() time.Time { return now })

	m := NewModel(svc, "local")
	m.now = func() time.Time { return now }
	return m
}

func key(s string) tea.KeyMsg {
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	if s == "down" {
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	if s == "up" {
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	if s == "esc" {
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		var ok bool
		m, ok = next.(Model)
		if !ok {
			t.Fatalf("Update returned %T", next)
		}
	}
	return m
}

func TestMenuNavigationClampsAtEdges(t *testing.T) {
	t.Parallel()
	m := newTestModel(t, nil)

	m = update(t, m, "up")
	if m.Choice != 0 {
		t.Errorf("choice = %d after up at top, want 0", m.Choice)
	}
	for i := 0; i < len(mainMenu)+3; i++ {
		m = update(t, m, "down")
	}
	if m.Choice != len(mainMenu)-1 {
		t.Errorf("choice = %d after overshooting down, want %d", m.Choice, len(mainMenu)-1)
	}
}

func TestFeedFromMenu(t *testing.T) {
	t.Parallel()
	m := newTestModel(t, func(p *pet.Pet) {
		p.Points = 10
		p.Hunger = 50
	})

	m = update(t, m, "enter") // Feed is the first entry
	if m.Pet.Hunger != 70 {
		t.Errorf("hunger = %d, want 70", m.Pet.Hunger)
	}
	if m.Pet.Points != 7 {
		t.Errorf("points = %d, want 7", m.Pet.Points)
	}
	if m.Message == "" {
		t.Error("expected a feedback message")
	}
}

func TestFeedWithoutPointsShowsError(t *testing.T) {
	t.Parallel()
	m := newTestModel(t, func(p *pet.Pet) {
		p.Points = 0
	})

	m = update(t, m, "enter")
	if !strings.Contains(m.Message, "points") {
		t.Errorf("message = %q, want an insufficient-points hint", m.Message)
	}
}

func TestReadingMenuFlow(t *testing.T) {
	t.Parallel()
	m := newTestModel(t, nil)

	// Navigate to Log Reading, pick the 30 minute option.
	m = update(t, m, "down", "down", "down", "enter")
	if m.Screen != screenReading {
		t.Fatalf("screen = %v, want reading menu", m.Screen)
	}
	m = update(t, m, "down", "enter")
	if m.Screen != screenMain {
		t.Errorf("screen = %v, want main after logging", m.Screen)
	}
	if m.Pet.TotalReadingMinutes != 30 {
		t.Errorf("totalReadingMinutes = %d, want 30", m.Pet.TotalReadingMinutes)
	}
	if m.Pet.Points != 30/pet.MinutesPerPoint {
		t.Errorf("points = %d, want %d", m.Pet.Points, 30/pet.MinutesPerPoint)
	}
}

func TestEscReturnsToMainMenu(t *testing.T) {
	t.Parallel()
	m := newTestModel(t, nil)
	m = update(t, m, "down", "down", "down", "enter") // into reading menu
	m = update(t, m, "esc")
	if m.Screen != screenMain {
		t.Errorf("screen = %v, want main after esc", m.Screen)
	}
	if m.Choice != 0 {
		t.Errorf("choice = %d, want 0 after esc", m.Choice)
	}
}

func TestQuitKey(t *testing.T) {
	t.Parallel()
	m := newTestModel(t, nil)
	next, cmd := m.Update(key("q"))
	m = next.(Model)
	if !m.Quitting {
		t.Error("q did not set Quitting")
	}
	if cmd == nil {
		t.Error("q did not produce a quit command")
	}
}

func TestDeadPetView(t *testing.T) {
	t.Parallel()
	m := newTestModel(t, func(p *pet.Pet) {
		p.Health = 0
		p.Die(time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC))
	})

	view := m.View()
	if !strings.Contains(view, "passed away") {
		t.Errorf("dead view missing death notice:\n%s", view)
	}
	if !strings.Contains(view, "Phoenix Bookmark") {
		t.Errorf("dead view missing revival hint:\n%s", view)
	}
}

func TestViewShowsAlerts(t *testing.T) {
	t.Parallel()
	m := newTestModel(t, func(p *pet.Pet) {
		p.Hunger = 5
	})

	view := m.View()
	if !strings.Contains(view, "HUNGER!") {
		t.Errorf("view missing critical hunger alert:\n%s", view)
	}
}
