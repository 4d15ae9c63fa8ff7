package pet

import "time"

// InventoryEntry is an owned item: quantity plus a small metadata snapshot
// cached at purchase time so the record renders without a catalog lookup.
type InventoryEntry struct {
	Quantity int    `json:"quantity"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Pet is the canonical record of one user's companion. All needs values are
// clamped to [0,100] after every mutation; sickness is inverse-sense
// (higher is worse). Points and coins never go negative: any operation that
// would overdraw them must be rejected before touching the record.
type Pet struct {
	Name             string `json:"name"`
	Level            int    `json:"level"`
	Experience       int    `json:"experience"`
	ExperienceToNext int    `json:"experience_to_next"`
	Stage            Stage  `json:"stage"`

	Hunger      int `json:"hunger"`
	Happiness   int `json:"happiness"`
	Energy      int `json:"energy"`
	Health      int `json:"health"`
	Cleanliness int `json:"cleanliness"`
	Sickness    int `json:"sickness"`

	Alive     bool       `json:"alive"`
	DeathDate *time.Time `json:"death_date,omitempty"`

	Points int `json:"points"`
	Coins  int `json:"coins"`

	Inventory map[string]InventoryEntry `json:"inventory,omitempty"`
	Badges    []string                  `json:"badges,omitempty"`

	TotalBooksRead      int `json:"total_books_read"`
	TotalReadingMinutes int `json:"total_reading_minutes"`

	LastFed       time.Time `json:"last_fed"`
	LastDecayTick time.Time `json:"last_decay_tick"`
	CreatedAt     time.Time `json:"created_at"`
}

// New creates a pet with comfortable default needs. An empty name falls
// back to DefaultPetName.
func New(name string, now time.Time) Pet {
	if name == "" {
		name = DefaultPetName
	}
	return Pet{
		Name:             name,
		Level:            1,
		Experience:       0,
		ExperienceToNext: ExperienceToNext(1),
		Stage:            StageBaby,
		Hunger:           DefaultNeedLevel,
		Happiness:        DefaultNeedLevel,
		Energy:           DefaultNeedLevel,
		Health:           MaxStat,
		Cleanliness:      DefaultNeedLevel,
		Sickness:         0,
		Alive:            true,
		Inventory:        make(map[string]InventoryEntry),
		LastFed:          now,
		LastDecayTick:    now,
		CreatedAt:        now,
	}
}

// HasBadge reports whether the badge id has been earned.
func (p *Pet) HasBadge(id string) bool {
	for _, b := range p.Badges {
		if b == id {
			return true
		}
	}
	return false
}

// AddBadge appends a badge id if not already present. The badge set is
// append-only; nothing ever removes an earned badge.
func (p *Pet) AddBadge(id string) bool {
	if p.HasBadge(id) {
		return false
	}
	p.Badges = append(p.Badges, id)
	return true
}

// ItemQuantity returns the owned quantity of an item, zero if absent.
func (p *Pet) ItemQuantity(itemID string) int {
	return p.Inventory[itemID].Quantity
}

// AddItem increments an inventory entry, creating it if absent.
func (p *Pet) AddItem(itemID, name, category string, qty int) {
	if p.Inventory == nil {
		p.Inventory = make(map[string]InventoryEntry)
	}
	entry := p.Inventory[itemID]
	entry.Quantity += qty
	entry.Name = name
	entry.Category = category
	p.Inventory[itemID] = entry
}

// RemoveItem decrements an inventory entry, deleting it at zero. It reports
// false when the item is not owned.
func (p *Pet) RemoveItem(itemID string) bool {
	entry, ok := p.Inventory[itemID]
	if !ok || entry.Quantity < 1 {
		return false
	}
	entry.Quantity--
	if entry.Quantity == 0 {
		delete(p.Inventory, itemID)
	} else {
		p.Inventory[itemID] = entry
	}
	return true
}

// Die marks the pet dead exactly once, recording the time of death.
func (p *Pet) Die(now time.Time) {
	if !p.Alive {
		return
	}
	p.Alive = false
	t := now
	p.DeathDate = &t
}

// Revive brings a dead pet back with health restored to a floor value.
// Reviving a living pet is a no-op.
func (p *Pet) Revive() {
	if p.Alive {
		return
	}
	p.Alive = true
	p.DeathDate = nil
	if p.Health < ReviveHealth {
		p.Health = ReviveHealth
	}
	if p.Sickness > SicknessWarningThreshold {
		p.Sickness = SicknessWarningThreshold
	}
}

// Clamp bounds a needs value to [0,100].
func Clamp(v int) int {
	if v < MinStat {
		return MinStat
	}
	if v > MaxStat {
		return MaxStat
	}
	return v
}
