// Package store persists pet records and minigame play stats. Two engines
// are provided: a single-file JSON store and a SQLite store.
package store

import (
	"bookpet/internal/minigame"
	"bookpet/internal/pet"
)

// Store is the persistence collaborator. Durability and cross-device
// propagation are its problem; the simulation core treats writes as
// fire-and-forget.
type Store interface {
	LoadPet(userID string) (pet.Pet, bool, error)
	SavePet(userID string, p pet.Pet) error
	ListUserIDs() ([]string, error)

	GetGameStats(userID, gameID string) (minigame.Stats, bool, error)
	SaveGameStats(stats minigame.Stats) error
}
