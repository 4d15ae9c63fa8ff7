package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"bookpet/internal/minigame"
	"bookpet/internal/pet"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(filePath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", filePath)
	if err != nil {
		return nil, err
	}
	st := &SQLiteStore{db: db}
	if err := st.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return st, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SavePet(userID string, p pet.Pet) error {
	inventory, err := json.Marshal(p.Inventory)
	if err != nil {
		return err
	}
	badges, err := json.Marshal(p.Badges)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO pets
		(user_id, name, level, experience, experience_to_next, stage,
		 hunger, happiness, energy, health, cleanliness, sickness,
		 alive, death_date, points, coins, inventory, badges,
		 total_books_read, total_reading_minutes, last_fed, last_decay_tick, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID,
		p.Name,
		p.Level,
		p.Experience,
		p.ExperienceToNext,
		int(p.Stage),
		p.Hunger,
		p.Happiness,
		p.Energy,
		p.Health,
		p.Cleanliness,
		p.Sickness,
		boolToInt(p.Alive),
		nullableTS(p.DeathDate),
		p.Points,
		p.Coins,
		string(inventory),
		string(badges),
		p.TotalBooksRead,
		p.TotalReadingMinutes,
		toTS(p.LastFed),
		toTS(p.LastDecayTick),
		toTS(p.CreatedAt),
	)
	return err
}

func (s *SQLiteStore) LoadPet(userID string) (pet.Pet, bool, error) {
	row := s.db.QueryRow(`
		SELECT name, level, experience, experience_to_next, stage,
		       hunger, happiness, energy, health, cleanliness, sickness,
		       alive, death_date, points, coins, inventory, badges,
		       total_books_read, total_reading_minutes, last_fed, last_decay_tick, created_at
		FROM pets
		WHERE user_id = ?`,
		userID,
	)

	var p pet.Pet
	var stage int
	var alive int
	var deathDate sql.NullString
	var inventory, badges string
	var lastFed, lastDecay, createdAt string
	err := row.Scan(
		&p.Name,
		&p.Level,
		&p.Experience,
		&p.ExperienceToNext,
		&stage,
		&p.Hunger,
		&p.Happiness,
		&p.Energy,
		&p.Health,
		&p.Cleanliness,
		&p.Sickness,
		&alive,
		&deathDate,
		&p.Points,
		&p.Coins,
		&inventory,
		&badges,
		&p.TotalBooksRead,
		&p.TotalReadingMinutes,
		&lastFed,
		&lastDecay,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return pet.Pet{}, false, nil
	}
	if err != nil {
		return pet.Pet{}, false, err
	}

	p.Stage = pet.Stage(stage)
	p.Alive = intToBool(alive)
	if deathDate.Valid && deathDate.String != "" {
		t := fromTS(deathDate.String)
		p.DeathDate = &t
	}
	if err := json.Unmarshal([]byte(inventory), &p.Inventory); err != nil {
		return pet.Pet{}, false, err
	}
	if err := json.Unmarshal([]byte(badges), &p.Badges); err != nil {
		return pet.Pet{}, false, err
	}
	if p.Inventory == nil {
		p.Inventory = make(map[string]pet.InventoryEntry)
	}
	p.LastFed = fromTS(lastFed)
	p.LastDecayTick = fromTS(lastDecay)
	p.CreatedAt = fromTS(createdAt)
	return p, true, nil
}

func (s *SQLiteStore) ListUserIDs() ([]string, error) {
	rows, err := s.db.Query(`SELECT user_id FROM pets ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *SQLiteStore) GetGameStats(userID, gameID string) (minigame.Stats, bool, error) {
	row := s.db.QueryRow(`
		SELECT plays_today, total_plays, high_score, total_coins, last_played
		FROM game_stats
		WHERE user_id = ? AND game_id = ?`,
		userID,
		gameID,
	)
	stats := minigame.Stats{UserID: userID, GameID: gameID}
	var lastPlayed string
	err := row.Scan(
		&stats.PlaysToday,
		&stats.TotalPlays,
		&stats.HighScore,
		&stats.TotalCoins,
		&lastPlayed,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return minigame.Stats{}, false, nil
	}
	if err != nil {
		return minigame.Stats{}, false, err
	}
	stats.LastPlayed = fromTS(lastPlayed)
	return stats, true, nil
}

func (s *SQLiteStore) SaveGameStats(stats minigame.Stats) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO game_stats
		(user_id, game_id, plays_today, total_plays, high_score, total_coins, last_played)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		stats.UserID,
		stats.GameID,
		stats.PlaysToday,
		stats.TotalPlays,
		stats.HighScore,
		stats.TotalCoins,
		toTS(stats.LastPlayed),
	)
	return err
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
		PRAGMA journal_mode=WAL;
		CREATE TABLE IF NOT EXISTS pets (
			user_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			level INTEGER NOT NULL,
			experience INTEGER NOT NULL,
			experience_to_next INTEGER NOT NULL,
			stage INTEGER NOT NULL,
			hunger INTEGER NOT NULL,
			happiness INTEGER NOT NULL,
			energy INTEGER NOT NULL,
			health INTEGER NOT NULL,
			cleanliness INTEGER NOT NULL,
			sickness INTEGER NOT NULL,
			alive INTEGER NOT NULL,
			death_date TEXT,
			points INTEGER NOT NULL,
			coins INTEGER NOT NULL,
			inventory TEXT NOT NULL DEFAULT '{}',
			badges TEXT NOT NULL DEFAULT '[]',
			total_books_read INTEGER NOT NULL,
			total_reading_minutes INTEGER NOT NULL,
			last_fed TEXT NOT NULL,
			last_decay_tick TEXT NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS game_stats (
			user_id TEXT NOT NULL,
			game_id TEXT NOT NULL,
			plays_today INTEGER NOT NULL,
			total_plays INTEGER NOT NULL,
			high_score INTEGER NOT NULL,
			total_coins INTEGER NOT NULL,
			last_played TEXT NOT NULL,
			PRIMARY KEY (user_id, game_id)
		);
	`)
	return err
}

func toTS(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func nullableTS(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return toTS(*t)
}

func fromTS(v string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func intToBool(v int) bool {
	return v != 0
}
