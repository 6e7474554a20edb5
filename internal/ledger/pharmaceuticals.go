package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/roach88/rxtrace/internal/collection"
	"github.com/roach88/rxtrace/internal/model"
	"github.com/roach88/rxtrace/internal/store"
)

// CreatePharmaceutical catalogs a batch. Name, manufacturer and batch number
// must be non-empty and the expiry date non-zero. The owner must exist and be
// an Admin at the time of the call; this is not re-checked later.
func (s *Service) CreatePharmaceutical(ctx context.Context, p model.PharmaceuticalPayload) (pharma model.Pharmaceutical, err error) {
	defer s.track("create_pharmaceutical", time.Now(), &err)

	if !validText(p.Name, p.Manufacturer, p.BatchNumber) {
		return model.Pharmaceutical{}, invalidInput("text fields must be valid UTF-8")
	}
	p = p.Normalize()
	if p.Name == "" || p.Manufacturer == "" || p.BatchNumber == "" || p.ExpiryDate == 0 {
		return model.Pharmaceutical{}, invalidInput("all fields are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.update(ctx, "create pharmaceutical", func(tx *store.Tx) error {
		owner, err := s.users.Get(tx, p.UserID)
		if errors.Is(err, collection.ErrNotFound) {
			return unauthorized("only admins can create pharmaceuticals")
		}
		if err != nil {
			return err
		}
		if owner.Role != model.RoleAdmin {
			return unauthorized("only admins can create pharmaceuticals")
		}

		id, err := s.ids.Next(tx)
		if err != nil {
			return err
		}
		pharma = model.Pharmaceutical{
			ID:           id,
			UserID:       p.UserID,
			Name:         p.Name,
			Manufacturer: p.Manufacturer,
			BatchNumber:  p.BatchNumber,
			ExpiryDate:   p.ExpiryDate,
		}
		return s.pharmas.Insert(tx, id, pharma)
	})
	if err != nil {
		return model.Pharmaceutical{}, err
	}

	s.logger.Debug("pharmaceutical created", "id", pharma.ID, "owner", pharma.UserID, "batch", pharma.BatchNumber)
	return pharma, nil
}

// DeletePharmaceutical removes a pharmaceutical. Its events are kept.
func (s *Service) DeletePharmaceutical(ctx context.Context, id uint64) (err error) {
	defer s.track("delete_pharmaceutical", time.Now(), &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.update(ctx, "delete pharmaceutical", func(tx *store.Tx) error {
		removed, err := s.pharmas.Remove(tx, id)
		if err != nil {
			return err
		}
		if !removed {
			return notFound("pharmaceutical", id, "pharmaceutical not found")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug("pharmaceutical deleted", "id", id)
	return nil
}

// GetPharmaceutical returns the pharmaceutical with the given id.
func (s *Service) GetPharmaceutical(ctx context.Context, id uint64) (pharma model.Pharmaceutical, err error) {
	defer s.track("get_pharmaceutical", time.Now(), &err)

	s.mu.RLock()
	defer s.mu.RUnlock()

	err = s.view(ctx, "get pharmaceutical", func(tx *store.Tx) error {
		pharma, err = s.pharmas.Get(tx, id)
		if errors.Is(err, collection.ErrNotFound) {
			return notFound("pharmaceutical", id, "pharmaceutical not found")
		}
		return err
	})
	if err != nil {
		return model.Pharmaceutical{}, err
	}
	return pharma, nil
}

// ListPharmaceuticals returns every pharmaceutical in id order.
// An empty collection is a NOT_FOUND error.
func (s *Service) ListPharmaceuticals(ctx context.Context) (pharmas []model.Pharmaceutical, err error) {
	defer s.track("list_pharmaceuticals", time.Now(), &err)

	s.mu.RLock()
	defer s.mu.RUnlock()

	err = s.view(ctx, "list pharmaceuticals", func(tx *store.Tx) error {
		pharmas, err = s.pharmas.All(tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return nonEmptyList(pharmas, "pharmaceutical", "no pharmaceuticals found")
}
