package repotest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/CPU-commits/CareerNest/models"
	"github.com/CPU-commits/CareerNest/repositories"
	"github.com/CPU-commits/CareerNest/res"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository keeps users in a map and counts every call so tests can
// assert that validation failures never reach the store.
type UserRepository struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
	Calls int
}

func NewUserRepository(users ...*models.User) *UserRepository {
	r := &UserRepository{users: make(map[primitive.ObjectID]*models.User)}
	for _, user := range users {
		if user.ID.IsZero() {
			user.ID = primitive.NewObjectID()
		}
		r.users[user.ID] = user
	}
	return r
}

func (r *UserRepository) find(match func(*models.User) bool) (*models.User, error) {
	for _, user := range r.users {
		if match(user) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("user: %w", res.ErrNotFound)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	email = repositories.NormalizeEmail(email)
	return r.find(func(u *models.User) bool { return u.Email == email })
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	return r.find(func(u *models.User) bool { return u.ID == id })
}

func (r *UserRepository) Insert(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	user.Email = repositories.NormalizeEmail(user.Email)
	if _, err := r.find(func(u *models.User) bool { return u.Email == user.Email }); err == nil {
		return primitive.NilObjectID, fmt.Errorf("email already registered: %w", res.ErrConflict)
	}
	copied := *user
	copied.ID = primitive.NewObjectID()
	r.users[copied.ID] = &copied
	return copied.ID, nil
}

func (r *UserRepository) UpdatePreferences(
	ctx context.Context,
	id primitive.ObjectID,
	preferences models.Preferences,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	user, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user: %w", res.ErrNotFound)
	}
	user.Preferences = &preferences
	user.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	email = repositories.NormalizeEmail(email)
	for _, user := range r.users {
		if user.Email == email {
			user.Password = passwordHash
			user.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return fmt.Errorf("user: %w", res.ErrNotFound)
}

func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	if _, ok := r.users[id]; !ok {
		return fmt.Errorf("user: %w", res.ErrNotFound)
	}
	delete(r.users, id)
	return nil
}
