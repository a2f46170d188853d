package game

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gokatarajesh/extreme-startup/internal/question"
)

var (
	ErrInvalidPlayer  = errors.New("invalid player")
	ErrPlayerNotFound = errors.New("player not found")
	ErrDuplicateName  = errors.New("player name already taken")
)

// Player is a registered team and the endpoint the game master quizzes.
type Player struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// Target is the view of p that questions are asked against.
func (p Player) Target() question.Player {
	return question.Player{Name: p.Name, URL: p.URL}
}

func validatePlayer(name, rawURL string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidPlayer)
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: url must be an absolute http(s) url", ErrInvalidPlayer)
	}
	return nil
}

// Registry holds the registered players in memory.
type Registry struct {
	mu      sync.RWMutex
	players map[uuid.UUID]Player
}

func NewRegistry() *Registry {
	return &Registry{players: make(map[uuid.UUID]Player)}
}

// Add validates and registers a new player.
func (r *Registry) Add(name, rawURL string) (Player, error) {
	p := Player{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		URL:       strings.TrimSpace(rawURL),
		CreatedAt: time.Now().UTC(),
	}
	if err := r.Put(p); err != nil {
		return Player{}, err
	}
	return p, nil
}

// Put registers an existing player, e.g. one restored from storage.
func (r *Registry) Put(p Player) error {
	if err := validatePlayer(p.Name, p.URL); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.players {
		if existing.ID != p.ID && strings.EqualFold(existing.Name, p.Name) {
			return fmt.Errorf("%w: %s", ErrDuplicateName, p.Name)
		}
	}
	r.players[p.ID] = p
	return nil
}

func (r *Registry) Remove(id uuid.UUID) (Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[id]
	delete(r.players, id)
	return p, ok
}

func (r *Registry) Get(id uuid.UUID) (Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.players[id]
	return p, ok
}

// List returns players in registration order.
func (r *Registry) List() []Player {
	r.mu.RLock()
	out := make([]Player, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, p)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}
