package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/signupsvc/signup-service/internal/signup"
)

// MemoryRepo keeps users in process memory. It backs unit tests and local
// development when no MONGODB_URI is configured.
type MemoryRepo struct {
	mu    sync.RWMutex
	seq   int
	users []signup.User
}

// NewMemoryRepo returns an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (m *MemoryRepo) InsertOne(ctx context.Context, u *signup.User) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	id := fmt.Sprintf("user_%06d", m.seq)
	stored := *u
	stored.ID = id
	m.users = append(m.users, stored)
	return id, nil
}

// List returns a copy of every stored user in insertion order.
func (m *MemoryRepo) List() []signup.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]signup.User, len(m.users))
	copy(out, m.users)
	return out
}

// Len returns the number of stored users.
func (m *MemoryRepo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}
