package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/roach88/rxtrace/internal/collection"
	"github.com/roach88/rxtrace/internal/model"
	"github.com/roach88/rxtrace/internal/store"
)

// CreateReward issues points to a participant directly.
// The participant must be non-empty and points non-zero.
func (s *Service) CreateReward(ctx context.Context, p model.RewardPayload) (reward model.Reward, err error) {
	defer s.track("create_reward", time.Now(), &err)

	if !validText(p.Participant) {
		return model.Reward{}, invalidInput("text fields must be valid UTF-8")
	}
	p = p.Normalize()
	if p.Participant == "" || p.Points == 0 {
		return model.Reward{}, invalidInput("all fields are required")
	}
	rewardType, err := model.ParseRewardType(string(p.RewardType))
	if err != nil {
		return model.Reward{}, invalidInput(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.update(ctx, "create reward", func(tx *store.Tx) error {
		id, err := s.ids.Next(tx)
		if err != nil {
			return err
		}
		reward = model.Reward{
			ID:          id,
			Participant: p.Participant,
			Points:      p.Points,
			RewardType:  rewardType,
		}
		return s.rewards.Insert(tx, id, reward)
	})
	if err != nil {
		return model.Reward{}, err
	}

	s.metrics.addPoints(reward.Points)
	s.logger.Debug("reward created", "id", reward.ID, "points", reward.Points, "type", reward.RewardType)
	return reward, nil
}

// DeleteReward removes a reward.
func (s *Service) DeleteReward(ctx context.Context, id uint64) (err error) {
	defer s.track("delete_reward", time.Now(), &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.update(ctx, "delete reward", func(tx *store.Tx) error {
		removed, err := s.rewards.Remove(tx, id)
		if err != nil {
			return err
		}
		if !removed {
			return notFound("reward", id, "reward not found")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug("reward deleted", "id", id)
	return nil
}

// GetReward returns the reward with the given id.
func (s *Service) GetReward(ctx context.Context, id uint64) (reward model.Reward, err error) {
	defer s.track("get_reward", time.Now(), &err)

	s.mu.RLock()
	defer s.mu.RUnlock()

	err = s.view(ctx, "get reward", func(tx *store.Tx) error {
		reward, err = s.rewards.Get(tx, id)
		if errors.Is(err, collection.ErrNotFound) {
			return notFound("reward", id, "reward not found")
		}
		return err
	})
	if err != nil {
		return model.Reward{}, err
	}
	return reward, nil
}

// ListRewards returns every reward in id order.
// An empty collection is a NOT_FOUND error.
func (s *Service) ListRewards(ctx context.Context) (rewards []model.Reward, err error) {
	defer s.track("list_rewards", time.Now(), &err)

	s.mu.RLock()
	defer s.mu.RUnlock()

	err = s.view(ctx, "list rewards", func(tx *store.Tx) error {
		rewards, err = s.rewards.All(tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return nonEmptyList(rewards, "reward", "no rewards found")
}
