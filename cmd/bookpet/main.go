// Command bookpet runs the terminal pet. State lives in a JSON file under
// the user's config directory, shared with nothing else.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"bookpet/internal/game"
	"bookpet/internal/shop"
	"bookpet/internal/store"
	"bookpet/internal/ui"
)

const localUserID = "local"

func statePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Printf("resolve home dir failed, using working dir: %v", err)
		return "bookpet.json"
	}
	return filepath.Join(home, ".config", "bookpet", "pet.json")
}

func main() {
	// The alternate screen owns stdout; keep stray log output away from it.
	if f, err := os.OpenFile(filepath.Join(os.TempDir(), "bookpet.log"),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644); err == nil {
		log.SetOutput(f)
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	st, err := store.NewJSONStore(statePath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening pet state: %v\n", err)
		os.Exit(1)
	}

	svc := game.NewService(st, shop.Default())
	model := ui.NewModel(svc, localUserID)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
