package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/roach88/rxtrace/internal/collection"
	"github.com/roach88/rxtrace/internal/model"
	"github.com/roach88/rxtrace/internal/store"
)

// CreateUser registers a user. The username must be non-empty and the role
// must name one of the four roles.
func (s *Service) CreateUser(ctx context.Context, p model.UserPayload) (user model.User, err error) {
	defer s.track("create_user", time.Now(), &err)

	if !validText(p.Username) {
		return model.User{}, invalidInput("text fields must be valid UTF-8")
	}
	p = p.Normalize()
	if p.Username == "" {
		return model.User{}, invalidInput("username is required")
	}
	role, err := model.ParseRole(string(p.Role))
	if err != nil {
		return model.User{}, invalidInput(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.update(ctx, "create user", func(tx *store.Tx) error {
		id, err := s.ids.Next(tx)
		if err != nil {
			return err
		}
		user = model.User{ID: id, Username: p.Username, Role: role}
		return s.users.Insert(tx, id, user)
	})
	if err != nil {
		return model.User{}, err
	}

	s.logger.Debug("user created", "id", user.ID, "role", user.Role)
	return user, nil
}

// UpdateUserRole replaces a user's role. Applying the same role twice leaves
// the record unchanged.
func (s *Service) UpdateUserRole(ctx context.Context, id uint64, role model.Role) (user model.User, err error) {
	defer s.track("update_user_role", time.Now(), &err)

	parsed, err := model.ParseRole(string(role))
	if err != nil {
		return model.User{}, invalidInput(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.update(ctx, "update user role", func(tx *store.Tx) error {
		existing, err := s.users.Get(tx, id)
		if errors.Is(err, collection.ErrNotFound) {
			return notFound("user", id, "user not found")
		}
		if err != nil {
			return err
		}
		existing.Role = parsed
		user = existing
		return s.users.Insert(tx, id, user)
	})
	if err != nil {
		return model.User{}, err
	}

	s.logger.Debug("user role updated", "id", id, "role", parsed)
	return user, nil
}

// DeleteUser removes a user. Pharmaceuticals owned by the user are kept.
func (s *Service) DeleteUser(ctx context.Context, id uint64) (err error) {
	defer s.track("delete_user", time.Now(), &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.update(ctx, "delete user", func(tx *store.Tx) error {
		removed, err := s.users.Remove(tx, id)
		if err != nil {
			return err
		}
		if !removed {
			return notFound("user", id, "user not found")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug("user deleted", "id", id)
	return nil
}

// GetUser returns the user with the given id.
func (s *Service) GetUser(ctx context.Context, id uint64) (user model.User, err error) {
	defer s.track("get_user", time.Now(), &err)

	s.mu.RLock()
	defer s.mu.RUnlock()

	err = s.view(ctx, "get user", func(tx *store.Tx) error {
		user, err = s.users.Get(tx, id)
		if errors.Is(err, collection.ErrNotFound) {
			return notFound("user", id, "user not found")
		}
		return err
	})
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}

// UsersByRole returns every user with role, in id order.
// An empty result is a NOT_FOUND error.
func (s *Service) UsersByRole(ctx context.Context, role model.Role) (users []model.User, err error) {
	defer s.track("users_by_role", time.Now(), &err)

	parsed, err := model.ParseRole(string(role))
	if err != nil {
		return nil, invalidInput(err.Error())
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	err = s.view(ctx, "users by role", func(tx *store.Tx) error {
		users, err = s.users.Filter(tx, func(u model.User) bool { return u.Role == parsed })
		return err
	})
	if err != nil {
		return nil, err
	}
	return nonEmptyList(users, "user", "no users found with the specified role")
}
