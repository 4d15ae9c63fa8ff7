// Package ui is the terminal front end. It issues plain command calls
// against the game service and re-reads the snapshot to render; all rules
// live in the core.
package ui

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"bookpet/internal/game"
	"bookpet/internal/pet"
	"bookpet/internal/shop"
)

// screen selects which menu the model is showing.
type screen int

const (
	screenMain screen = iota
	screenReading
	screenShop
	screenInventory
)

var mainMenu = []string{
	"Feed",
	"Play",
	"Sleep",
	"Log Reading",
	"Shop",
	"Use Item",
	"Evolve",
	"Quit",
}

// readingOptions are the session lengths offered by the Log Reading menu.
// The last entry marks a finished book on top of the session.
var readingOptions = []struct {
	Label     string
	Minutes   int
	Completed bool
}{
	{"15 minutes", 15, false},
	{"30 minutes", 30, false},
	{"1 hour", 60, false},
	{"Finished a book! (30 min)", 30, true},
	{"Back", 0, false},
}

// Model is the Bubble Tea state for the pet screen.
type Model struct {
	UserID string

	Pet      pet.Pet
	Status   pet.Status
	Screen   screen
	Choice   int
	Quitting bool

	Message        string
	MessageExpires time.Time

	svc *game.Service
	now func() time.Time
}

type tickMsg time.Time

// NewModel builds the model around an already-constructed service.
func NewModel(svc *game.Service, userID string) Model {
	m := Model{
		UserID: userID,
		svc:    svc,
		now:    time.Now,
	}
	m.refresh()
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.Quitting = true
			return m, tea.Quit
		case "esc":
			if m.Screen != screenMain {
				m.Screen = screenMain
				m.Choice = 0
			}
			return m, nil
		case "up", "k":
			if m.Choice > 0 {
				m.Choice--
			}
		case "down", "j":
			if m.Choice < m.menuLen()-1 {
				m.Choice++
			}
		case "enter", " ":
			return m.selectChoice()
		}

	case tickMsg:
		m.refresh()
		return m, tick()
	}

	return m, nil
}

func (m Model) menuLen() int {
	switch m.Screen {
	case screenReading:
		return len(readingOptions)
	case screenShop:
		return len(m.shopItems()) + 1 // plus Back
	case screenInventory:
		return len(m.inventoryIDs()) + 1
	default:
		return len(mainMenu)
	}
}

func (m Model) selectChoice() (tea.Model, tea.Cmd) {
	switch m.Screen {
	case screenMain:
		return m.selectMain()
	case screenReading:
		return m.selectReading()
	case screenShop:
		return m.selectShop()
	case screenInventory:
		return m.selectInventory()
	}
	return m, nil
}

func (m Model) selectMain() (tea.Model, tea.Cmd) {
	switch mainMenu[m.Choice] {
	case "Feed":
		m.runAction(func() (pet.Pet, error) { return m.svc.Feed(m.UserID) }, "Yum!")
	case "Play":
		m.runAction(func() (pet.Pet, error) { return m.svc.Play(m.UserID) }, "Wheee!")
	case "Sleep":
		m.runAction(func() (pet.Pet, error) { return m.svc.Sleep(m.UserID) }, "Zzz...")
	case "Log Reading":
		m.Screen = screenReading
		m.Choice = 0
	case "Shop":
		m.Screen = screenShop
		m.Choice = 0
	case "Use Item":
		m.Screen = screenInventory
		m.Choice = 0
	case "Evolve":
		before := m.Pet.Stage
		m.runAction(func() (pet.Pet, error) { return m.svc.EvolvePet(m.UserID) }, "")
		if m.Pet.Stage != before {
			m.setMessage("Evolved into " + pet.StageName(m.Pet.Stage) + "!")
		}
	case "Quit":
		m.Quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) selectReading() (tea.Model, tea.Cmd) {
	opt := readingOptions[m.Choice]
	if opt.Label == "Back" {
		m.Screen = screenMain
		m.Choice = 0
		return m, nil
	}
	success := "Reading logged!"
	if opt.Completed {
		success = "Book finished, great job!"
	}
	m.runAction(func() (pet.Pet, error) {
		return m.svc.RewardForReading(m.UserID, opt.Minutes, opt.Completed)
	}, success)
	m.Screen = screenMain
	m.Choice = 0
	return m, nil
}

func (m Model) selectShop() (tea.Model, tea.Cmd) {
	items := m.shopItems()
	if m.Choice >= len(items) {
		m.Screen = screenMain
		m.Choice = 0
		return m, nil
	}
	item := items[m.Choice]
	m.runAction(func() (pet.Pet, error) { return m.svc.Buy(m.UserID, item.ID) }, "Bought "+item.Name+"!")
	return m, nil
}

func (m Model) selectInventory() (tea.Model, tea.Cmd) {
	ids := m.inventoryIDs()
	if m.Choice >= len(ids) {
		m.Screen = screenMain
		m.Choice = 0
		return m, nil
	}
	id := ids[m.Choice]
	m.runAction(func() (pet.Pet, error) { return m.svc.UseItem(m.UserID, id) }, "Used it!")
	if m.Choice >= m.menuLen() {
		m.Choice = m.menuLen() - 1
	}
	return m, nil
}

// runAction invokes a service call, refreshes the snapshot, and surfaces
// either the success message or a human translation of the error.
func (m *Model) runAction(op func() (pet.Pet, error), success string) {
	p, err := op()
	m.Pet = p
	m.Status = pet.Classify(&m.Pet)
	if err != nil {
		m.setMessage(errorMessage(err))
		return
	}
	if success != "" {
		m.setMessage(success)
	}
}

func (m *Model) refresh() {
	m.Pet, m.Status = m.svc.Status(m.UserID)
}

func (m *Model) setMessage(msg string) {
	m.Message = msg
	m.MessageExpires = m.now().Add(3 * time.Second)
}

func (m Model) shopItems() []shop.Item {
	return m.svc.UnlockedItems(m.UserID)
}

// inventoryIDs returns owned item ids in catalog order so the menu is
// stable between renders.
func (m Model) inventoryIDs() []string {
	var ids []string
	for _, item := range m.svc.Catalog().Items() {
		if m.Pet.ItemQuantity(item.ID) > 0 {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, game.ErrInsufficientFunds):
		return "Not enough points!"
	case errors.Is(err, game.ErrItemLocked):
		return "That item is still locked."
	case errors.Is(err, game.ErrItemNotOwned):
		return "You don't have that item."
	case errors.Is(err, game.ErrPetIsDead), errors.Is(err, game.ErrPetMustBeAlive):
		return "Your pet needs reviving first..."
	case errors.Is(err, game.ErrPetAlreadyAlive):
		return "Your pet is alive and well!"
	case errors.Is(err, game.ErrCannotEvolve):
		return "Not ready to evolve yet."
	default:
		return err.Error()
	}
}
