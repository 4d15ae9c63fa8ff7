package shop

import (
	"sort"

	"bookpet/internal/pet"
)

// Item categories.
const (
	CategoryFood       = "food"
	CategoryToy        = "toy"
	CategoryMedicine   = "medicine"
	CategoryDecoration = "decoration"
	CategorySpecial    = "special"
)

// Item rarities.
const (
	RarityCommon    = "common"
	RarityRare      = "rare"
	RarityEpic      = "epic"
	RarityLegendary = "legendary"
)

// RevivalItemID is the only item usable or purchasable while the pet is
// dead.
const RevivalItemID = "phoenix_bookmark"

// Effect is an item's delta vector. Absent fields are zero deltas; each
// delta may be positive or negative and is clamped on application.
type Effect struct {
	Hunger      int `yaml:"hunger,omitempty" json:"hunger,omitempty"`
	Happiness   int `yaml:"happiness,omitempty" json:"happiness,omitempty"`
	Energy      int `yaml:"energy,omitempty" json:"energy,omitempty"`
	Health      int `yaml:"health,omitempty" json:"health,omitempty"`
	Cleanliness int `yaml:"cleanliness,omitempty" json:"cleanliness,omitempty"`
	Sickness    int `yaml:"sickness,omitempty" json:"sickness,omitempty"`
	Experience  int `yaml:"experience,omitempty" json:"experience,omitempty"`
}

// Unlock gates an item behind progression. Zero values mean no gate.
type Unlock struct {
	MinLevel int    `yaml:"min_level,omitempty" json:"min_level,omitempty"`
	MinBooks int    `yaml:"min_books,omitempty" json:"min_books,omitempty"`
	Badge    string `yaml:"badge,omitempty" json:"badge,omitempty"`
}

// Item is one static catalog entry, immutable at runtime.
type Item struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Category string `yaml:"category" json:"category"`
	Rarity   string `yaml:"rarity" json:"rarity"`
	Price    int    `yaml:"price" json:"price"`
	Effect   Effect `yaml:"effect" json:"effect"`
	Unlock   Unlock `yaml:"unlock,omitempty" json:"unlock,omitempty"`
}

// Unlocked reports whether the pet meets the item's unlock requirement.
func (it Item) Unlocked(p *pet.Pet) bool {
	if it.Unlock.MinLevel > 0 && p.Level < it.Unlock.MinLevel {
		return false
	}
	if it.Unlock.MinBooks > 0 && p.TotalBooksRead < it.Unlock.MinBooks {
		return false
	}
	if it.Unlock.Badge != "" && !p.HasBadge(it.Unlock.Badge) {
		return false
	}
	return true
}

// Catalog is an id-indexed set of shop items.
type Catalog struct {
	items map[string]Item
}

// NewCatalog builds a catalog from a list of items. Later duplicates of an
// id replace earlier ones.
func NewCatalog(items []Item) *Catalog {
	c := &Catalog{items: make(map[string]Item, len(items))}
	for _, it := range items {
		c.items[it.ID] = it
	}
	return c
}

// Get looks up an item by id.
func (c *Catalog) Get(id string) (Item, bool) {
	it, ok := c.items[id]
	return it, ok
}

// Items returns the full catalog sorted by price, then id.
func (c *Catalog) Items() []Item {
	out := make([]Item, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Price != out[j].Price {
			return out[i].Price < out[j].Price
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Unlocked filters the catalog down to items the pet has unlocked.
func (c *Catalog) Unlocked(p *pet.Pet) []Item {
	var out []Item
	for _, it := range c.Items() {
		if it.Unlocked(p) {
			out = append(out, it)
		}
	}
	return out
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return NewCatalog(defaultItems())
}

func defaultItems() []Item {
	return []Item{
		{
			ID:       "kibble",
			Name:     "Paper Kibble",
			Category: CategoryFood,
			Rarity:   RarityCommon,
			Price:    2,
			Effect:   Effect{Hunger: 15},
		},
		{
			ID:       "sandwich",
			Name:     "Library Sandwich",
			Category: CategoryFood,
			Rarity:   RarityCommon,
			Price:    5,
			Effect:   Effect{Hunger: 30, Happiness: 5},
		},
		{
			ID:       "feast",
			Name:     "Midnight Feast",
			Category: CategoryFood,
			Rarity:   RarityRare,
			Price:    12,
			Effect:   Effect{Hunger: 60, Happiness: 10, Energy: 10},
			Unlock:   Unlock{MinLevel: 3},
		},
		{
			ID:       "ball",
			Name:     "Yarn Ball",
			Category: CategoryToy,
			Rarity:   RarityCommon,
			Price:    4,
			Effect:   Effect{Happiness: 20, Energy: -5},
		},
		{
			ID:       "puzzle",
			Name:     "Word Puzzle",
			Category: CategoryToy,
			Rarity:   RarityRare,
			Price:    10,
			Effect:   Effect{Happiness: 25, Experience: 10},
			Unlock:   Unlock{MinBooks: 3},
		},
		{
			ID:       "soap",
			Name:     "Bubble Soap",
			Category: CategoryMedicine,
			Rarity:   RarityCommon,
			Price:    4,
			Effect:   Effect{Cleanliness: 40},
		},
		{
			ID:       "tonic",
			Name:     "Herbal Tonic",
			Category: CategoryMedicine,
			Rarity:   RarityRare,
			Price:    8,
			Effect:   Effect{Sickness: -40, Health: 10},
		},
		{
			ID:       "elixir",
			Name:     "Golden Elixir",
			Category: CategoryMedicine,
			Rarity:   RarityEpic,
			Price:    20,
			Effect:   Effect{Sickness: -100, Health: 50},
			Unlock:   Unlock{MinLevel: 8},
		},
		{
			ID:       "lamp",
			Name:     "Reading Lamp",
			Category: CategoryDecoration,
			Rarity:   RarityCommon,
			Price:    6,
			Effect:   Effect{Happiness: 10},
		},
		{
			ID:       "shelf",
			Name:     "Oak Bookshelf",
			Category: CategoryDecoration,
			Rarity:   RarityEpic,
			Price:    25,
			Effect:   Effect{Happiness: 20, Experience: 15},
			Unlock:   Unlock{MinBooks: 10},
		},
		{
			ID:       RevivalItemID,
			Name:     "Phoenix Bookmark",
			Category: CategorySpecial,
			Rarity:   RarityLegendary,
			Price:    50,
			Effect:   Effect{Health: ReviveHealthBonus, Happiness: 10},
		},
		{
			ID:       "sage_quill",
			Name:     "Sage's Quill",
			Category: CategorySpecial,
			Rarity:   RarityLegendary,
			Price:    40,
			Effect:   Effect{Experience: 100},
			Unlock:   Unlock{MinLevel: 10, Badge: pet.BadgeTenBooks},
		},
	}
}

// ReviveHealthBonus is applied on top of the revival health floor when the
// phoenix bookmark is consumed.
const ReviveHealthBonus = 20
