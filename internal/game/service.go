// Package game wires the pet simulation together: it owns the per-user
// pet records, serializes mutations behind a per-pet lock, and pushes
// every change to the persistence collaborator.
package game

import (
	"log"
	"strings"
	"sync"
	"time"

	"bookpet/internal/pet"
	"bookpet/internal/shop"
	"bookpet/internal/store"
)

// petEntry serializes all read-modify-write sequences for one user's pet.
// Decay ticks, actions, purchases and coin credits all go through the
// same lock.
type petEntry struct {
	mu  sync.Mutex
	pet pet.Pet
}

// Service is the simulation core. One instance serves all users.
type Service struct {
	store   store.Store
	catalog *shop.Catalog

	mu      sync.Mutex
	entries map[string]*petEntry

	now func() time.Time
}

func NewService(st store.Store, catalog *shop.Catalog) *Service {
	return &Service{
		store:   st,
		catalog: catalog,
		entries: make(map[string]*petEntry),
		now:     time.Now,
	}
}

// SetClock replaces the time source, for tests.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

func (s *Service) Catalog() *shop.Catalog { return s.catalog }

// entry returns the cached record for userID, loading it from the store
// on first access. A load failure or corrupt record falls back to a
// fresh default pet rather than failing the caller.
func (s *Service) entry(userID string) *petEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[userID]; ok {
		return e
	}

	e := &petEntry{}
	p, found, err := s.store.LoadPet(userID)
	if err != nil {
		log.Printf("game: load pet for %s failed, starting fresh: %v", userID, err)
		found = false
	}
	if found {
		e.pet = p
		if e.pet.Inventory == nil {
			e.pet.Inventory = make(map[string]pet.InventoryEntry)
		}
	} else {
		e.pet = pet.New(pet.DefaultPetName, s.now())
	}
	s.entries[userID] = e
	return e
}

// withPet runs fn against the user's pet under its lock. Elapsed decay is
// applied before fn so every caller observes an up-to-date needs vector.
// The record is persisted after any change; a failed save is logged and
// never rolls back the in-memory state.
func (s *Service) withPet(userID string, fn func(p *pet.Pet) error) (pet.Pet, error) {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	dirty := pet.ApplyDecay(&e.pet, s.now()) > 0
	err := fn(&e.pet)
	if err == nil {
		dirty = true
	}
	if dirty {
		if saveErr := s.store.SavePet(userID, e.pet); saveErr != nil {
			log.Printf("game: save pet for %s failed: %v", userID, saveErr)
		}
	}
	return e.pet, err
}

// Snapshot returns a copy of the pet with elapsed decay applied. It only
// writes to the store when decay actually changed something.
func (s *Service) Snapshot(userID string) pet.Pet {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	if pet.ApplyDecay(&e.pet, s.now()) > 0 {
		if err := s.store.SavePet(userID, e.pet); err != nil {
			log.Printf("game: save pet for %s failed: %v", userID, err)
		}
	}
	return e.pet
}

// Status returns the pet snapshot together with its classification.
func (s *Service) Status(userID string) (pet.Pet, pet.Status) {
	p := s.Snapshot(userID)
	return p, pet.Classify(&p)
}

// Level reports the pet's current level, for minigame unlock checks.
func (s *Service) Level(userID string) int {
	return s.Snapshot(userID).Level
}

func (s *Service) Feed(userID string) (pet.Pet, error) {
	return s.withPet(userID, func(p *pet.Pet) error {
		if !p.Alive {
			return ErrPetIsDead
		}
		if p.Points < pet.FeedCost {
			return ErrInsufficientFunds
		}
		p.Points -= pet.FeedCost
		p.Hunger = pet.Clamp(p.Hunger + pet.FeedHungerGain)
		p.Happiness = pet.Clamp(p.Happiness + pet.FeedHappinessGain)
		p.LastFed = s.now()
		return nil
	})
}

func (s *Service) Play(userID string) (pet.Pet, error) {
	return s.withPet(userID, func(p *pet.Pet) error {
		if !p.Alive {
			return ErrPetIsDead
		}
		if p.Points < pet.PlayCost {
			return ErrInsufficientFunds
		}
		p.Points -= pet.PlayCost
		p.Happiness = pet.Clamp(p.Happiness + pet.PlayHappinessGain)
		p.Energy = pet.Clamp(p.Energy - pet.PlayEnergyDrain)
		return nil
	})
}

func (s *Service) Sleep(userID string) (pet.Pet, error) {
	return s.withPet(userID, func(p *pet.Pet) error {
		if !p.Alive {
			return ErrPetIsDead
		}
		p.Energy = pet.Clamp(p.Energy + pet.SleepEnergyGain)
		p.Happiness = pet.Clamp(p.Happiness + pet.SleepHappinessGain)
		return nil
	})
}

func (s *Service) Rename(userID, name string) (pet.Pet, error) {
	name = strings.TrimSpace(name)
	return s.withPet(userID, func(p *pet.Pet) error {
		if !p.Alive {
			return ErrPetIsDead
		}
		if name == "" {
			return ErrEmptyName
		}
		p.Name = name
		return nil
	})
}

// RewardForReading converts a finished reading session into experience
// and care points, with a flat bonus when a book was completed. Level-up
// cascades and badge checks run before returning.
func (s *Service) RewardForReading(userID string, minutes int, completedBook bool) (pet.Pet, error) {
	if minutes < 0 {
		minutes = 0
	}
	if minutes > pet.MaxSessionMinutes {
		minutes = pet.MaxSessionMinutes
	}
	return s.withPet(userID, func(p *pet.Pet) error {
		if !p.Alive {
			return ErrPetIsDead
		}
		xp := minutes / pet.MinutesPerXP
		points := minutes / pet.MinutesPerPoint
		if completedBook {
			xp += pet.BookBonusXP
			points += pet.BookBonusPoints
			p.TotalBooksRead++
		}
		p.TotalReadingMinutes += minutes
		p.Points += points
		pet.GrantExperience(p, xp)
		pet.EvaluateBadges(p)
		return nil
	})
}

// Buy purchases a catalog item into the inventory. The revival item may
// be bought while the pet is dead; everything else requires a live pet.
func (s *Service) Buy(userID, itemID string) (pet.Pet, error) {
	return s.withPet(userID, func(p *pet.Pet) error {
		item, ok := s.catalog.Get(itemID)
		if !ok {
			return ErrItemNotFound
		}
		if !p.Alive && item.ID != shop.RevivalItemID {
			return ErrPetMustBeAlive
		}
		if !item.Unlocked(p) {
			return ErrItemLocked
		}
		if p.Points < item.Price {
			return ErrInsufficientFunds
		}
		p.Points -= item.Price
		p.AddItem(item.ID, item.Name, item.Category, 1)
		pet.EvaluateBadges(p)
		return nil
	})
}

// UseItem consumes one unit of an owned item and applies its effect.
// The revival item is the only item usable on a dead pet, and the only
// one refused on a live pet.
func (s *Service) UseItem(userID, itemID string) (pet.Pet, error) {
	return s.withPet(userID, func(p *pet.Pet) error {
		item, ok := s.catalog.Get(itemID)
		if !ok || p.ItemQuantity(item.ID) < 1 {
			return ErrItemNotOwned
		}
		if item.ID == shop.RevivalItemID {
			if p.Alive {
				return ErrPetAlreadyAlive
			}
		} else if !p.Alive {
			return ErrPetMustBeAlive
		}

		p.RemoveItem(item.ID)
		if item.ID == shop.RevivalItemID {
			p.Revive()
			// Needs did not accrue while dead; decay restarts from the
			// moment of revival.
			p.LastDecayTick = s.now()
			p.LastFed = s.now()
		}
		applyEffect(p, item.Effect)
		pet.EvaluateBadges(p)
		return nil
	})
}

// EvolvePet advances the pet one evolution stage when it is eligible.
func (s *Service) EvolvePet(userID string) (pet.Pet, error) {
	return s.withPet(userID, func(p *pet.Pet) error {
		if !p.Alive {
			return ErrPetIsDead
		}
		if !pet.Evolve(p) {
			return ErrCannotEvolve
		}
		pet.EvaluateBadges(p)
		return nil
	})
}

// CreditCoins adds minigame winnings to the pet's coin balance. It is
// the credit callback handed to the minigame manager.
func (s *Service) CreditCoins(userID string, coins int) error {
	if coins <= 0 {
		return nil
	}
	_, err := s.withPet(userID, func(p *pet.Pet) error {
		p.Coins += coins
		pet.EvaluateBadges(p)
		return nil
	})
	return err
}

// UnlockedItems lists the catalog entries the pet currently qualifies for.
func (s *Service) UnlockedItems(userID string) []shop.Item {
	p := s.Snapshot(userID)
	return s.catalog.Unlocked(&p)
}

// RunDecay ticks every known pet on a fixed interval until done is
// closed. Each tick goes through the per-pet lock, so it cannot race
// with a user action.
func (s *Service) RunDecay(done <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			ids, err := s.store.ListUserIDs()
			if err != nil {
				log.Printf("game: decay tick: list users: %v", err)
				continue
			}
			for _, id := range ids {
				s.Snapshot(id)
			}
		}
	}
}

func applyEffect(p *pet.Pet, e shop.Effect) {
	p.Hunger = pet.Clamp(p.Hunger + e.Hunger)
	p.Happiness = pet.Clamp(p.Happiness + e.Happiness)
	p.Energy = pet.Clamp(p.Energy + e.Energy)
	p.Health = pet.Clamp(p.Health + e.Health)
	p.Cleanliness = pet.Clamp(p.Cleanliness + e.Cleanliness)
	p.Sickness = pet.Clamp(p.Sickness + e.Sickness)
	if e.Experience > 0 {
		pet.GrantExperience(p, e.Experience)
	}
}
