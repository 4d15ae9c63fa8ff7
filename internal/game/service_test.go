package game

import (
	"errors"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"bookpet/internal/minigame"
	"bookpet/internal/pet"
	"bookpet/internal/shop"
	"bookpet/internal/store"
)

var testTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, store.Store) {
	t.Helper()
	st, err := store.NewJSONStore(filepath.Join(t.TempDir(), "pets.json"))
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}
	svc := NewService(st, shop.Default())
	svc.SetClock(func() time.Time { return testTime })
	return svc, st
}

func seedPet(t *testing.T, st store.Store, userID string, mutate func(p *pet.Pet)) {
	t.Helper()
	p := pet.New(pet.DefaultPetName, testTime)
	if mutate != nil {
		mutate(&p)
	}
	if err := st.SavePet(userID, p); err != nil {
		t.Fatalf("seed pet: %v", err)
	}
}

func TestFeedHappyPath(t *testing.T) {
	t.Parallel()
	svc, st := newTestService(t)
	seedPet(t, st, "u1", func(p *pet.Pet) {
		p.Points = 10
		p.Hunger = 50
	})

	p, err := svc.Feed("u1")
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if p.Points != 7 {
		t.Errorf("points = %d, want 7", p.Points)
	}
	if p.Hunger != 70 {
		t.Errorf("hunger = %d, want 70", p.Hunger)
	}
}

func TestFeedClampsHunger(t *testing.T) {
	t.Parallel()
	svc, st := newTestService(t)
	seedPet(t, st, "u1", func(p *pet.Pet) {
		p.Points = 10
		p.Hunger = 98
	})

	p, err := svc.Feed("u1")
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if p.Hunger != pet.MaxStat {
		t.Errorf("hunger = %d, want %d", p.Hunger, pet.MaxStat)
	}
}

func TestPlayInsufficientFunds(t *testing.T) {
	t.Parallel()
	svc, st := newTestService(t)
	seedPet(t, st, "u1", func(p *pet.Pet) {
		p.Points = 2
	})
	before := svc.Snapshot("u1")

	_, err := svc.Play("u1")
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("Play error = %v, want ErrInsufficientFunds", err)
	}
	after := svc.Snapshot("u1")
	if !reflect.DeepEqual(after, before) {
		t.Errorf("pet changed on failed play:\n before %+v\n after %+v", before, after)
	}
}

func TestSleepIsFree(t *testing.T) {
	t.Parallel()
	svc, st := newTestService(t)
	seedPet(t, st, "u1", func(p *pet.Pet) {
		p.Points = 0
		p.Energy = 30
	})

	p, err := svc.Sleep("u1")
	if err != nil {
		t.Fatalf("Sleep: %v", err)
	}
	if p.Energy != 80 {
		t.Errorf("energy = %d, want 80", p.Energy)
	}
}

func TestRename(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	p, err := svc.Rename("u1", "  Folio  ")
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if p.Name != "Folio" {
		t.Errorf("name = %q, want Folio", p.Name)
	}

	if _, err := svc.Rename("u1", "   "); !errors.Is(err, ErrEmptyName) {
		t.Errorf("blank rename error = %v, want ErrEmptyName", err)
	}
}

func TestDeadPetRejectsActions(t *testing.T) {
	t.Parallel()
	svc, st := newTestService(t)
	seedPet(t, st, "u1", func(p *pet.Pet) {
		p.Points = 100
		p.Health = 0
		p.Die(testTime)
	})

	for name, op := range map[string]func() error{
		"feed":   func() error { _, err := svc.Feed("u1"); return err },
		"play":   func() error { _, err := svc.Play("u1"); return err },
		"sleep":  func() error { _, err := svc.Sleep("u1"); return err },
		"rename": func() error { _, err := svc.Rename("u1", "Zed"); return err },
		"read":   func() error { _, err := svc.RewardForReading("u1", 30, false); return err },
		"evolve": func() error { _, err := svc.EvolvePet("u1"); return err },
	} {
		if err := op(); !errors.Is(err, ErrPetIsDead) {
			t.Errorf("%s on dead pet: error = %v, want ErrPetIsDead", name, err)
		}
	}
}

func TestRevivalFlow(t *testing.T) {
	t.Parallel()
	svc, st := newTestService(t)
	seedPet(t, st, "u1", func(p *pet.Pet) {
		p.Points = 100
		p.Health = 0
		p.Die(testTime)
	})

	// Non-revival purchases are refused while dead, the revival item is not.
	if _, err := svc.Buy("u1", "kibble"); !errors.Is(err, ErrPetMustBeAlive) {
		t.Fatalf("Buy kibble while dead: error = %v, want ErrPetMustBeAlive", err)
	}
	if _, err := svc.Buy("u1", shop.RevivalItemID); err != nil {
		t.Fatalf("Buy revival item: %v", err)
	}

	p, err := svc.UseItem("u1", shop.RevivalItemID)
	if err != nil {
		t.Fatalf("UseItem revival: %v", err)
	}
	if !p.Alive {
		t.Fatal("pet should be alive after revival")
	}
	if want := pet.ReviveHealth + shop.ReviveHealthBonus; p.Health != want {
		t.Errorf("health = %d, want %d", p.Health, want)
	}

	// A live pet cannot use the revival item again.
	if _, err := svc.Buy("u1", shop.RevivalItemID); err != nil {
		t.Fatalf("Buy second revival item: %v", err)
	}
	if _, err := svc.UseItem("u1", shop.RevivalItemID); !errors.Is(err, ErrPetAlreadyAlive) {
		t.Errorf("UseItem revival while alive: error = %v, want ErrPetAlreadyAlive", err)
	}
}

func TestRevivalResetsDecayClock(t *testing.T) {
	t.Parallel()
	svc, st := newTestService(t)
	died := testTime.Add(-30 * 24 * time.Hour)
	seedPet(t, st, "u1", func(p *pet.Pet) {
		p.Points = 100
		p.Health = 0
		p.LastDecayTick = died
		p.Die(died)
	})

	clock := testTime
	svc.SetClock(func() time.Time { return clock })

	if _, err := svc.Buy("u1", shop.RevivalItemID); err != nil {
		t.Fatalf("Buy revival item: %v", err)
	}
	p, err := svc.UseItem("u1", shop.RevivalItemID)
	if err != nil {
		t.Fatalf("UseItem revival: %v", err)
	}
	if !p.Alive {
		t.Fatal("pet should be alive after revival")
	}
	if !p.LastDecayTick.Equal(testTime) {
		t.Errorf("lastDecayTick = %v, want %v", p.LastDecayTick, testTime)
	}

	// The weeks spent dead must not replay as decay on the next tick.
	clock = clock.Add(time.Hour)
	after := svc.Snapshot("u1")
	if !after.Alive {
		t.Fatalf("pet died again after revival: health=%d", after.Health)
	}
	if after.Health != p.Health {
		t.Errorf("health = %d, want %d", after.Health, p.Health)
	}
}

func TestUseItemNotOwned(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	if _, err := svc.UseItem("u1", "soap"); !errors.Is(err, ErrItemNotOwned) {
		t.Errorf("UseItem unowned: error = %v, want ErrItemNotOwned", err)
	}
	if _, err := svc.UseItem("u1", "no_such_item"); !errors.Is(err, ErrItemNotOwned) {
		t.Errorf("UseItem unknown id: error = %v, want ErrItemNotOwned", err)
	}
}

func TestBuyLockedItem(t *testing.T) {
	t.Parallel()
	svc, st := newTestService(t)
	seedPet(t, st, "u1", func(p *pet.Pet) {
		p.Points = 1000
		p.Level = 1
	})
	if _, err := svc.Buy("u1", "elixir"); !errors.Is(err, ErrItemLocked) {
		t.Errorf("Buy locked item: error = %v, want ErrItemLocked", err)
	}
	if _, err := svc.Buy("u1", "no_such_item"); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("Buy unknown item: error = %v, want ErrItemNotFound", err)
	}
}

func TestUseItemAppliesEffect(t *testing.T) {
	t.Parallel()
	svc, st := newTestService(t)
	seedPet(t, st, "u1", func(p *pet.Pet) {
		p.Points = 50
		p.Sickness = 60
		p.Health = 50
	})

	if _, err := svc.Buy("u1", "tonic"); err != nil {
		t.Fatalf("Buy tonic: %v", err)
	}
	p, err := svc.UseItem("u1", "tonic")
	if err != nil {
		t.Fatalf("UseItem tonic: %v", err)
	}
	if p.Sickness != 20 {
		t.Errorf("sickness = %d, want 20", p.Sickness)
	}
	if p.Health != 60 {
		t.Errorf("health = %d, want 60", p.Health)
	}
	if p.ItemQuantity("tonic") != 0 {
		t.Errorf("tonic quantity = %d, want 0", p.ItemQuantity("tonic"))
	}
}

func TestRewardForReadingCascade(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	// 1 XP per 5 minutes; enough minutes to vault several levels at once.
	minutes := pet.MaxSessionMinutes
	p, err := svc.RewardForReading("u1", minutes, true)
	if err != nil {
		t.Fatalf("RewardForReading: %v", err)
	}
	if p.Level < 3 {
		t.Errorf("level = %d, want at least 3", p.Level)
	}
	if p.Experience >= p.ExperienceToNext {
		t.Errorf("cascade left experience %d >= experienceToNext %d", p.Experience, p.ExperienceToNext)
	}
	if p.TotalBooksRead != 1 {
		t.Errorf("totalBooksRead = %d, want 1", p.TotalBooksRead)
	}
	if p.TotalReadingMinutes != minutes {
		t.Errorf("totalReadingMinutes = %d, want %d", p.TotalReadingMinutes, minutes)
	}
	if !p.HasBadge(pet.BadgeFirstBook) {
		t.Error("expected first-book badge after completing a book")
	}
}

func TestEvolutionGating(t *testing.T) {
	t.Parallel()
	svc, st := newTestService(t)
	seedPet(t, st, "u1", func(p *pet.Pet) {
		p.Level = 2
		p.TotalBooksRead = 1
	})

	if _, err := svc.EvolvePet("u1"); !errors.Is(err, ErrCannotEvolve) {
		t.Fatalf("EvolvePet below threshold: error = %v, want ErrCannotEvolve", err)
	}

	// Enough reading to cross the level threshold for the next stage.
	if _, err := svc.RewardForReading("u1", 1200, false); err != nil {
		t.Fatalf("RewardForReading: %v", err)
	}
	p, err := svc.EvolvePet("u1")
	if err != nil {
		t.Fatalf("EvolvePet at threshold: %v", err)
	}
	if p.Stage != pet.StageChild {
		t.Errorf("stage = %v, want StageChild", p.Stage)
	}

	// Exactly one step per call: the stage after needs far more progress.
	if _, err := svc.EvolvePet("u1"); !errors.Is(err, ErrCannotEvolve) {
		t.Errorf("second EvolvePet: error = %v, want ErrCannotEvolve", err)
	}
}

func TestConcurrentBuyNoLostUpdate(t *testing.T) {
	t.Parallel()
	svc, st := newTestService(t)
	seedPet(t, st, "u1", func(p *pet.Pet) {
		p.Points = 5 // enough for exactly two kibbles at price 2
	})

	const workers = 16
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Buy("u1", "kibble")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var bought, refused int
	for err := range results {
		switch {
		case err == nil:
			bought++
		case errors.Is(err, ErrInsufficientFunds):
			refused++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if bought != 2 || refused != workers-2 {
		t.Errorf("bought=%d refused=%d, want 2 and %d", bought, refused, workers-2)
	}

	p := svc.Snapshot("u1")
	if p.Points < 0 {
		t.Errorf("points went negative: %d", p.Points)
	}
	if p.Points != 1 {
		t.Errorf("points = %d, want 1", p.Points)
	}
	if p.ItemQuantity("kibble") != 2 {
		t.Errorf("kibble quantity = %d, want 2", p.ItemQuantity("kibble"))
	}
}

func TestCreditCoins(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	if err := svc.CreditCoins("u1", 12); err != nil {
		t.Fatalf("CreditCoins: %v", err)
	}
	p := svc.Snapshot("u1")
	if p.Coins != 12 {
		t.Errorf("coins = %d, want 12", p.Coins)
	}
	if !p.HasBadge(pet.BadgeFirstCoin) {
		t.Error("expected first-coin badge after crediting coins")
	}
}

func TestSnapshotAppliesElapsedDecay(t *testing.T) {
	t.Parallel()
	svc, st := newTestService(t)
	seedPet(t, st, "u1", nil)

	clock := testTime
	svc.SetClock(func() time.Time { return clock })
	clock = clock.Add(3 * 24 * time.Hour)

	p := svc.Snapshot("u1")
	if want := pet.DefaultNeedLevel - 3*pet.HungerDecayPerDay; p.Hunger != want {
		t.Errorf("hunger after 3 days = %d, want %d", p.Hunger, want)
	}

	// Decayed state must be visible on a reload through the store.
	stored, ok, err := st.LoadPet("u1")
	if err != nil || !ok {
		t.Fatalf("LoadPet: ok=%v err=%v", ok, err)
	}
	if stored.Hunger != p.Hunger {
		t.Errorf("stored hunger = %d, want %d", stored.Hunger, p.Hunger)
	}
}

func TestCorruptLoadFallsBackToFreshPet(t *testing.T) {
	t.Parallel()
	st := failingStore{}
	svc := NewService(st, shop.Default())
	svc.SetClock(func() time.Time { return testTime })

	p := svc.Snapshot("u1")
	if p.Name != pet.DefaultPetName || !p.Alive {
		t.Errorf("expected fresh default pet, got %+v", p)
	}
	if p.Hunger != pet.DefaultNeedLevel {
		t.Errorf("hunger = %d, want %d", p.Hunger, pet.DefaultNeedLevel)
	}
}

type failingStore struct{}

func (failingStore) LoadPet(string) (pet.Pet, bool, error) {
	return pet.Pet{}, false, errors.New("corrupt record")
}
func (failingStore) SavePet(string, pet.Pet) error  { return nil }
func (failingStore) ListUserIDs() ([]string, error) { return nil, nil }
func (failingStore) GetGameStats(string, string) (minigame.Stats, bool, error) {
	return minigame.Stats{}, false, nil
}
func (failingStore) SaveGameStats(minigame.Stats) error { return nil }
