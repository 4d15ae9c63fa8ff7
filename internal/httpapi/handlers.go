package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"bookpet/internal/game"
	"bookpet/internal/minigame"
	"bookpet/internal/pet"
)

// DefaultUserID serves clients that do not send a user_id, such as the
// single-user terminal client.
const DefaultUserID = "default"

type Handler struct {
	svc   *game.Service
	games *minigame.Manager
}

func NewHandler(svc *game.Service, games *minigame.Manager) *Handler {
	return &Handler{svc: svc, games: games}
}

func userID(r *http.Request) string {
	if id := strings.TrimSpace(r.URL.Query().Get("user_id")); id != "" {
		return id
	}
	return DefaultUserID
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) getPet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Snapshot(userID(r)))
}

func (h *Handler) getStatus(w http.ResponseWriter, r *http.Request) {
	p, status := h.svc.Status(userID(r))
	writeJSON(w, http.StatusOK, statusResponse{Pet: p, Mood: status.Mood, Alerts: status.Alerts})
}

type statusResponse struct {
	Pet    pet.Pet     `json:"pet"`
	Mood   pet.Mood    `json:"mood"`
	Alerts []pet.Alert `json:"alerts"`
}

func (h *Handler) feed(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, "feed", h.svc.Feed)
}

func (h *Handler) play(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, "play", h.svc.Play)
}

func (h *Handler) sleep(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, "sleep", h.svc.Sleep)
}

func (h *Handler) evolve(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, "evolve", h.svc.EvolvePet)
}

func (h *Handler) action(w http.ResponseWriter, r *http.Request, name string, op func(string) (pet.Pet, error)) {
	user := userID(r)
	p, err := op(user)
	if err != nil {
		log.Printf("%s rejected: user_id=%s err=%v", name, user, err)
		writeBusinessError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type renameRequest struct {
	Name string `json:"name"`
}

func (h *Handler) rename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user := userID(r)
	p, err := h.svc.Rename(user, req.Name)
	if err != nil {
		log.Printf("rename rejected: user_id=%s err=%v", user, err)
		writeBusinessError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type readingRequest struct {
	Minutes       int  `json:"minutes"`
	CompletedBook bool `json:"completed_book"`
}

func (h *Handler) recordReading(w http.ResponseWriter, r *http.Request) {
	var req readingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user := userID(r)
	p, err := h.svc.RewardForReading(user, req.Minutes, req.CompletedBook)
	if err != nil {
		log.Printf("reading reward rejected: user_id=%s minutes=%d err=%v", user, req.Minutes, err)
		writeBusinessError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) listShop(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"items":    h.svc.Catalog().Items(),
		"unlocked": h.svc.UnlockedItems(userID(r)),
	})
}

type itemRequest struct {
	ItemID string `json:"item_id"`
}

func (h *Handler) buyItem(w http.ResponseWriter, r *http.Request) {
	h.itemAction(w, r, "buy", h.svc.Buy)
}

func (h *Handler) useItem(w http.ResponseWriter, r *http.Request) {
	h.itemAction(w, r, "use", h.svc.UseItem)
}

func (h *Handler) itemAction(w http.ResponseWriter, r *http.Request, name string, op func(string, string) (pet.Pet, error)) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user := userID(r)
	p, err := op(user, req.ItemID)
	if err != nil {
		log.Printf("%s rejected: user_id=%s item_id=%s err=%v", name, user, req.ItemID, err)
		writeBusinessError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) listGames(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"games": h.games.Games()})
}

func (h *Handler) startGame(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	gameID := chi.URLParam(r, "gameID")
	session, err := h.games.Start(user, gameID)
	if err != nil {
		log.Printf("minigame start rejected: user_id=%s game_id=%s err=%v", user, gameID, err)
		writeBusinessError(w, err)
		return
	}
	// The token goes out only here; the session's JSON encoding hides it.
	writeJSON(w, http.StatusOK, map[string]any{
		"session":          session,
		"validation_token": session.Token,
	})
}

type completeRequest struct {
	Score int    `json:"score"`
	Token string `json:"validation_token"`
}

func (h *Handler) completeGame(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sessionID := chi.URLParam(r, "sessionID")
	session, err := h.games.Complete(sessionID, req.Score, req.Token)
	if err != nil {
		log.Printf("minigame complete rejected: session_id=%s err=%v", sessionID, err)
		writeBusinessError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *Handler) gameStats(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	gameID := chi.URLParam(r, "gameID")
	stats, found, err := h.games.StatsFor(user, gameID)
	if err != nil {
		log.Printf("minigame stats error: user_id=%s game_id=%s err=%v", user, gameID, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		stats = minigame.Stats{UserID: user, GameID: gameID}
	}
	writeJSON(w, http.StatusOK, stats)
}

// writeBusinessError maps core error kinds onto HTTP statuses.
func writeBusinessError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrItemNotFound),
		errors.Is(err, minigame.ErrGameNotFound),
		errors.Is(err, minigame.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, minigame.ErrAlreadyCompleted),
		errors.Is(err, minigame.ErrDailyLimitReached),
		errors.Is(err, game.ErrPetAlreadyAlive):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, game.ErrItemLocked),
		errors.Is(err, minigame.ErrGameLocked),
		errors.Is(err, minigame.ErrInvalidToken):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, game.ErrInsufficientFunds):
		writeError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, game.ErrItemNotOwned),
		errors.Is(err, game.ErrPetIsDead),
		errors.Is(err, game.ErrPetMustBeAlive),
		errors.Is(err, game.ErrCannotEvolve),
		errors.Is(err, game.ErrEmptyName):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
