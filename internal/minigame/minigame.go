// Package minigame manages reward-granting minigame sessions: daily play
// caps, completion validation tokens, and coin payout bookkeeping.
package minigame

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrGameNotFound      = errors.New("minigame not found")
	ErrGameLocked        = errors.New("minigame locked")
	ErrDailyLimitReached = errors.New("daily play limit reached")
	ErrSessionNotFound   = errors.New("session not found")
	ErrInvalidToken      = errors.New("invalid validation token")
	ErrAlreadyCompleted  = errors.New("session already completed")
)

// SessionRetention is how long an abandoned (started, never completed)
// session survives before Sweep removes it.
const SessionRetention = 24 * time.Hour

// Game is one static minigame definition.
type Game struct {
	ID              string  `yaml:"id" json:"id"`
	Name            string  `yaml:"name" json:"name"`
	MaxPlaysPerDay  int     `yaml:"max_plays_per_day" json:"max_plays_per_day"`
	BaseReward      int     `yaml:"base_reward" json:"base_reward"`
	BonusMultiplier float64 `yaml:"bonus_multiplier" json:"bonus_multiplier"`
	MinLevel        int     `yaml:"min_level,omitempty" json:"min_level,omitempty"`
	Active          bool    `yaml:"active" json:"active"`
}

// Session is one play of a minigame. Created on Start, finalized exactly
// once by Complete.
type Session struct {
	ID           string     `json:"id"`
	GameID       string     `json:"game_id"`
	UserID       string     `json:"user_id"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	Score        int        `json:"score"`
	Completed    bool       `json:"completed"`
	CoinsAwarded int        `json:"coins_awarded"`
	Token        string     `json:"-"`
}

// Stats is the per-user-per-game play record.
type Stats struct {
	UserID      string    `json:"user_id"`
	GameID      string    `json:"game_id"`
	PlaysToday  int       `json:"plays_today"`
	TotalPlays  int       `json:"total_plays"`
	HighScore   int       `json:"high_score"`
	TotalCoins  int       `json:"total_coins"`
	LastPlayed  time.Time `json:"last_played"`
}

// StatsStore persists play records. The JSON and SQLite stores implement
// it; tests use an in-memory map.
type StatsStore interface {
	GetGameStats(userID, gameID string) (Stats, bool, error)
	SaveGameStats(stats Stats) error
}

// CreditFunc credits minigame coins to the user's pet. Called exactly once
// per completed session.
type CreditFunc func(userID string, coins int) error

// Manager owns the session lifecycle. All session state transitions happen
// under its lock, so concurrent completion attempts for one session resolve
// to a single winner.
type Manager struct {
	mu       sync.Mutex
	games    map[string]Game
	sessions map[string]*Session
	stats    StatsStore
	credit   CreditFunc
	now      func() time.Time

	// level gate, supplied by the owning service; nil means no gating
	userLevel func(userID string) int
}

// NewManager builds a manager over the given game definitions. credit must
// not be nil.
func NewManager(games []Game, stats StatsStore, credit CreditFunc) *Manager {
	m := &Manager{
		games:    make(map[string]Game, len(games)),
		sessions: make(map[string]*Session),
		stats:    stats,
		credit:   credit,
		now:      time.Now,
	}
	for _, g := range games {
		m.games[g.ID] = g
	}
	return m
}

// SetClock overrides the manager's clock. Test hook.
func (m *Manager) SetClock(now func() time.Time) { m.now = now }

// SetLevelLookup installs the unlock-gate level source.
func (m *Manager) SetLevelLookup(fn func(userID string) int) { m.userLevel = fn }

// Games returns all active game definitions.
func (m *Manager) Games() []Game {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Game, 0, len(m.games))
	for _, g := range m.games {
		if g.Active {
			out = append(out, g)
		}
	}
	return out
}

// CanPlay reports whether the user may start the game right now, and the
// reason when they may not.
func (m *Manager) CanPlay(userID, gameID string) (bool, error) {
	level := m.levelOf(userID)
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.canPlayLocked(userID, gameID, level)
}

// levelOf samples the unlock-gate level before the manager lock is taken;
// the lookup may block on pet state I/O.
func (m *Manager) levelOf(userID string) int {
	if m.userLevel == nil {
		return 0
	}
	return m.userLevel(userID)
}

func (m *Manager) canPlayLocked(userID, gameID string, level int) (bool, error) {
	game, ok := m.games[gameID]
	if !ok || !game.Active {
		return false, ErrGameNotFound
	}
	if game.MinLevel > 0 && m.userLevel != nil && level < game.MinLevel {
		return false, ErrGameLocked
	}
	stats, found, err := m.stats.GetGameStats(userID, gameID)
	if err != nil {
		return false, err
	}
	if found && game.MaxPlaysPerDay > 0 {
		if sameDay(stats.LastPlayed, m.now()) && stats.PlaysToday >= game.MaxPlaysPerDay {
			return false, ErrDailyLimitReached
		}
	}
	return true, nil
}

// Start creates a session with a fresh validation token and bumps the
// day's play counter. The token deters forged completion reports; it is
// not a security boundary.
func (m *Manager) Start(userID, gameID string) (*Session, error) {
	level := m.levelOf(userID)
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.canPlayLocked(userID, gameID, level); err != nil {
		return nil, err
	}

	now := m.now()
	id := uuid.NewString()
	session := &Session{
		ID:        id,
		GameID:    gameID,
		UserID:    userID,
		StartedAt: now,
		Token:     newToken(id, now),
	}
	m.sessions[id] = session

	stats, found, err := m.stats.GetGameStats(userID, gameID)
	if err != nil {
		return nil, err
	}
	if !found {
		stats = Stats{UserID: userID, GameID: gameID}
	}
	if !sameDay(stats.LastPlayed, now) {
		stats.PlaysToday = 0
	}
	stats.PlaysToday++
	stats.TotalPlays++
	stats.LastPlayed = now
	if err := m.stats.SaveGameStats(stats); err != nil {
		log.Printf("minigame: save stats failed for %s/%s: %v", userID, gameID, err)
	}

	copied := *session
	return &copied, nil
}

// Complete finalizes a session exactly once. Exactly one of N concurrent
// calls with the correct token succeeds; the rest get ErrAlreadyCompleted.
// On success the coin award is computed, recorded, and credited via the
// callback.
func (m *Manager) Complete(sessionID string, score int, token string) (*Session, error) {
	m.mu.Lock()
	session, ok := m.sessions[sessionID]
	if !ok {
		m.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if session.Token != token {
		m.mu.Unlock()
		return nil, ErrInvalidToken
	}
	if session.Completed {
		m.mu.Unlock()
		return nil, ErrAlreadyCompleted
	}

	game := m.games[session.GameID]
	if score < 0 {
		score = 0
	}
	coins := game.BaseReward + int(float64(score)*game.BonusMultiplier)

	now := m.now()
	session.Completed = true
	session.CompletedAt = &now
	session.Score = score
	session.CoinsAwarded = coins

	stats, found, err := m.stats.GetGameStats(session.UserID, session.GameID)
	if err == nil {
		if !found {
			stats = Stats{UserID: session.UserID, GameID: session.GameID, LastPlayed: now}
		}
		if score > stats.HighScore {
			stats.HighScore = score
		}
		stats.TotalCoins += coins
		if err := m.stats.SaveGameStats(stats); err != nil {
			log.Printf("minigame: save stats failed for %s/%s: %v", session.UserID, session.GameID, err)
		}
	} else {
		log.Printf("minigame: load stats failed for %s/%s: %v", session.UserID, session.GameID, err)
	}

	copied := *session
	userID := session.UserID
	m.mu.Unlock()

	// Credit outside the lock; the session stays completed even if the
	// credit fails, so a retry can never double-award.
	if err := m.credit(userID, coins); err != nil {
		log.Printf("minigame: coin credit failed for %s: %v", userID, err)
		return &copied, err
	}
	return &copied, nil
}

// StatsFor returns the play record for one user and game.
func (m *Manager) StatsFor(userID, gameID string) (Stats, bool, error) {
	return m.stats.GetGameStats(userID, gameID)
}

// Sweep drops abandoned sessions older than the retention window and
// returns how many were removed. Completed sessions are retained until
// they age out the same way.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := m.now().Add(-SessionRetention)
	removed := 0
	for id, session := range m.sessions {
		if session.StartedAt.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// RunSweeper sweeps on an interval until done is closed.
func (m *Manager) RunSweeper(done <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				log.Printf("minigame: swept %d abandoned sessions", n)
			}
		}
	}
}

// newToken derives an opaque per-session token from the session id, the
// start timestamp, and a random salt.
func newToken(sessionID string, now time.Time) string {
	salt := uuid.NewString()
	sum := sha1.Sum([]byte(sessionID + strconv.FormatInt(now.UnixNano(), 10) + salt))
	return hex.EncodeToString(sum[:])
}

// sameDay compares local calendar dates.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}

// DefaultGames returns the built-in minigame catalog.
func DefaultGames() []Game {
	return []Game{
		{
			ID:              "word_sprint",
			Name:            "Word Sprint",
			MaxPlaysPerDay:  3,
			BaseReward:      5,
			BonusMultiplier: 0.1,
			Active:          true,
		},
		{
			ID:              "page_jump",
			Name:            "Page Jump",
			MaxPlaysPerDay:  3,
			BaseReward:      4,
			BonusMultiplier: 0.05,
			Active:          true,
		},
		{
			ID:              "quote_quiz",
			Name:            "Quote Quiz",
			MaxPlaysPerDay:  2,
			BaseReward:      8,
			BonusMultiplier: 0.2,
			MinLevel:        5,
			Active:          true,
		},
	}
}
