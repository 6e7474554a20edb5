package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/roach88/rxtrace/internal/collection"
	"github.com/roach88/rxtrace/internal/model"
	"github.com/roach88/rxtrace/internal/store"
)

// CreateEvent logs a supply-chain event against an existing pharmaceutical
// and awards the participant EventRewardPoints.
//
// The event date comes from the service clock. The event and its reward get
// two consecutive fresh identifiers and are committed together.
func (s *Service) CreateEvent(ctx context.Context, p model.EventPayload) (event model.SupplyChainEvent, err error) {
	defer s.track("create_event", time.Now(), &err)

	if !validText(p.Location, p.Participant) {
		return model.SupplyChainEvent{}, invalidInput("text fields must be valid UTF-8")
	}
	p = p.Normalize()
	if p.Location == "" || p.Participant == "" {
		return model.SupplyChainEvent{}, invalidInput("all fields are required")
	}
	eventType, err := model.ParseEventType(string(p.EventType))
	if err != nil {
		return model.SupplyChainEvent{}, invalidInput(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var reward model.Reward
	err = s.update(ctx, "create event", func(tx *store.Tx) error {
		exists, err := s.pharmas.Exists(tx, p.PharmaceuticalID)
		if err != nil {
			return err
		}
		if !exists {
			return &Error{
				Code:    ErrCodeInvalidInput,
				Message: "pharmaceutical with the provided id does not exist",
				Entity:  "pharmaceutical",
				ID:      p.PharmaceuticalID,
			}
		}

		eventID, err := s.ids.Next(tx)
		if err != nil {
			return err
		}
		event = model.SupplyChainEvent{
			ID:               eventID,
			PharmaceuticalID: p.PharmaceuticalID,
			EventType:        eventType,
			Location:         p.Location,
			Date:             s.now(),
			Participant:      p.Participant,
		}
		if err := s.events.Insert(tx, eventID, event); err != nil {
			return err
		}

		rewardID, err := s.ids.Next(tx)
		if err != nil {
			return err
		}
		reward = model.Reward{
			ID:          rewardID,
			Participant: p.Participant,
			Points:      EventRewardPoints,
			RewardType:  model.RewardSupplyChainEvent,
		}
		return s.rewards.Insert(tx, rewardID, reward)
	})
	if err != nil {
		return model.SupplyChainEvent{}, err
	}

	s.metrics.addPoints(reward.Points)
	s.logger.Debug("supply chain event created",
		"id", event.ID,
		"pharmaceutical_id", event.PharmaceuticalID,
		"type", event.EventType,
		"reward_id", reward.ID,
	)
	return event, nil
}

// DeleteEvent removes a supply-chain event. Its reward is kept.
func (s *Service) DeleteEvent(ctx context.Context, id uint64) (err error) {
	defer s.track("delete_event", time.Now(), &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.update(ctx, "delete event", func(tx *store.Tx) error {
		removed, err := s.events.Remove(tx, id)
		if err != nil {
			return err
		}
		if !removed {
			return notFound("supply_chain_event", id, "supply chain event not found")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug("supply chain event deleted", "id", id)
	return nil
}

// GetEvent returns the supply-chain event with the given id.
func (s *Service) GetEvent(ctx context.Context, id uint64) (event model.SupplyChainEvent, err error) {
	defer s.track("get_event", time.Now(), &err)

	s.mu.RLock()
	defer s.mu.RUnlock()

	err = s.view(ctx, "get event", func(tx *store.Tx) error {
		event, err = s.events.Get(tx, id)
		if errors.Is(err, collection.ErrNotFound) {
			return notFound("supply_chain_event", id, "supply chain event not found")
		}
		return err
	})
	if err != nil {
		return model.SupplyChainEvent{}, err
	}
	return event, nil
}

// ListEvents returns every supply-chain event in id order.
// An empty collection is a NOT_FOUND error.
func (s *Service) ListEvents(ctx context.Context) (events []model.SupplyChainEvent, err error) {
	defer s.track("list_events", time.Now(), &err)

	s.mu.RLock()
	defer s.mu.RUnlock()

	err = s.view(ctx, "list events", func(tx *store.Tx) error {
		events, err = s.events.All(tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return nonEmptyList(events, "supply_chain_event", "no supply chain events found")
}

// PharmaceuticalHistory returns the events logged against a pharmaceutical,
// in id order. It works for deleted pharmaceuticals too. An empty result is a
// NOT_FOUND error.
func (s *Service) PharmaceuticalHistory(ctx context.Context, pharmaID uint64) (events []model.SupplyChainEvent, err error) {
	defer s.track("pharmaceutical_history", time.Now(), &err)

	s.mu.RLock()
	defer s.mu.RUnlock()

	err = s.view(ctx, "pharmaceutical history", func(tx *store.Tx) error {
		events, err = s.events.Filter(tx, func(e model.SupplyChainEvent) bool {
			return e.PharmaceuticalID == pharmaID
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return nonEmptyList(events, "supply_chain_event", "no events found for the provided pharmaceutical id")
}
