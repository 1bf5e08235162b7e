package repository

import (
	"context"
	"sync"
	"time"

	"github.com/Dan9191/abas-api/internal/models"
)

// MemoryRepository keeps users in process memory.
// Lookups return copies so callers cannot mutate stored records.
type MemoryRepository struct {
	mu         sync.RWMutex
	nextID     int64
	byUsername map[string]*models.User
	byEmail    map[string]*models.User
}

// NewMemoryRepository initializes an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byUsername: make(map[string]*models.User),
		byEmail:    make(map[string]*models.User),
	}
}

// CreateUser stores the user, rejecting a taken username or email
func (r *MemoryRepository) CreateUser(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUsername[user.Username]; ok {
		return ErrDuplicateUsername
	}
	if _, ok := r.byEmail[user.Email]; ok {
		return ErrDuplicateEmail
	}

	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now().UTC()

	stored := *user
	r.byUsername[stored.Username] = &stored
	r.byEmail[stored.Email] = &stored
	return nil
}

// FindUserByUsername retrieves a user by username
func (r *MemoryRepository) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.find(ctx, r.byUsername, username)
}

// FindUserByEmail retrieves a user by email
func (r *MemoryRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(ctx, r.byEmail, email)
}

func (r *MemoryRepository) find(ctx context.Context, index map[string]*models.User, key string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := index[key]
	if !ok {
		return nil, ErrUserNotFound
	}
	found := *u
	return &found, nil
}
