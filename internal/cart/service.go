package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	pkgerrors "github.com/dropshoplabs/dropshop-backend/pkg/errors"
	"github.com/dropshoplabs/dropshop-backend/pkg/logger"
)

// Service exposes session-scoped cart operations. Persistence is best
// effort: a failed snapshot write is logged and swallowed so shoppers never
// lose a mutation to a cache hiccup.
type Service interface {
	Get(ctx context.Context, sessionID string) (Cart, error)
	AddLine(ctx context.Context, sessionID string, line Line) (Cart, error)
	SetQuantity(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (Cart, error)
	RemoveLine(ctx context.Context, sessionID string, productID uuid.UUID) (Cart, error)
	Clear(ctx context.Context, sessionID string) (Cart, error)
}

type service struct {
	store SnapshotStore
	logg  *logger.Logger
}

// NewService builds a cart service over the snapshot store.
func NewService(store SnapshotStore, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("snapshot store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{store: store, logg: logg}, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (Cart, error) {
	if sessionID == "" {
		return Cart{}, pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	snapshot, _, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return Cart{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart snapshot")
	}
	return snapshot, nil
}

func (s *service) AddLine(ctx context.Context, sessionID string, line Line) (Cart, error) {
	if line.ProductID == uuid.Nil {
		return Cart{}, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if line.UnitPrice.IsNegative() {
		return Cart{}, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}
	return s.mutate(ctx, sessionID, func(c Cart) Cart {
		return c.Add(line)
	})
}

func (s *service) SetQuantity(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (Cart, error) {
	if productID == uuid.Nil {
		return Cart{}, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	return s.mutate(ctx, sessionID, func(c Cart) Cart {
		return c.SetQuantity(productID, quantity)
	})
}

func (s *service) RemoveLine(ctx context.Context, sessionID string, productID uuid.UUID) (Cart, error) {
	if productID == uuid.Nil {
		return Cart{}, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	return s.mutate(ctx, sessionID, func(c Cart) Cart {
		return c.Remove(productID)
	})
}

func (s *service) Clear(ctx context.Context, sessionID string) (Cart, error) {
	if sessionID == "" {
		return Cart{}, pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	cleared := New(sessionID)
	if err := s.store.Delete(ctx, sessionID); err != nil {
		s.logg.Warn(s.logg.WithSessionID(ctx, sessionID), "clearing cart snapshot failed")
	}
	return cleared, nil
}

func (s *service) mutate(ctx context.Context, sessionID string, apply func(Cart) Cart) (Cart, error) {
	if sessionID == "" {
		return Cart{}, pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}

	snapshot, _, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return Cart{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart snapshot")
	}

	next := apply(snapshot)
	if err := s.store.Save(ctx, next); err != nil {
		s.logg.Warn(s.logg.WithSessionID(ctx, sessionID), "saving cart snapshot failed")
	}
	return next, nil
}
