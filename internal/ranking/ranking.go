// Package ranking maintains the curated top-10 list. Positions are stored on
// the content rows; collisions are not reconciled and gaps are not filled.
package ranking

import (
	"context"
	"fmt"
	"slices"

	"github.com/glefebvre/cineflix/internal/errors"
	"github.com/glefebvre/cineflix/internal/models"
)

const (
	// MaxSize is the number of slots in the top-10
	MaxSize     = 10
	MinPosition = 1
	MaxPosition = MaxSize
)

// Ordered returns the flagged items sorted by position, missing positions last.
// Items with equal positions keep their input order.
func Ordered(items []models.Content) []models.Content {
	var ranked []models.Content
	for _, c := range items {
		if c.IsTop10 {
			ranked = append(ranked, c)
		}
	}
	slices.SortStableFunc(ranked, func(a, b models.Content) int {
		return positionKey(a) - positionKey(b)
	})
	return ranked
}

func positionKey(c models.Content) int {
	if c.Top10Position == nil {
		return MaxPosition + 1
	}
	return *c.Top10Position
}

// Count returns the number of flagged items
func Count(items []models.Content) int {
	n := 0
	for _, c := range items {
		if c.IsTop10 {
			n++
		}
	}
	return n
}

// NextPosition is the position an added item receives: count + 1
func NextPosition(items []models.Content) (int, error) {
	n := Count(items)
	if n >= MaxSize {
		return 0, errors.New(errors.CodeTop10Full, fmt.Sprintf("the top 10 already holds %d items", n))
	}
	return n + 1, nil
}

// ValidatePosition rejects positions outside [1,10]
func ValidatePosition(p int) error {
	if p < MinPosition || p > MaxPosition {
		return errors.New(errors.CodeInvalidPosition, fmt.Sprintf("position must be between %d and %d, got %d", MinPosition, MaxPosition, p))
	}
	return nil
}

// Store is the persistence the ranking service needs
type Store interface {
	ListContent(ctx context.Context) ([]models.Content, error)
	GetContent(ctx context.Context, id string) (*models.Content, error)
	SetTop10(ctx context.Context, id string, ranked bool, position *int) error
	SetTop10Position(ctx context.Context, id string, position int) error
}

// Service applies ranking changes to stored content
type Service struct {
	store Store
}

// NewService creates a ranking service
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns the current top-10 in display order
func (s *Service) List(ctx context.Context) ([]models.Content, error) {
	items, err := s.store.ListContent(ctx)
	if err != nil {
		return nil, err
	}
	return Ordered(items), nil
}

// Add flags an item and appends it at count + 1
func (s *Service) Add(ctx context.Context, id string) (int, error) {
	item, err := s.store.GetContent(ctx, id)
	if err != nil {
		return 0, err
	}
	if item.IsTop10 {
		return 0, errors.New(errors.CodeAlreadyRanked, fmt.Sprintf("%q is already in the top 10", item.Title))
	}

	items, err := s.store.ListContent(ctx)
	if err != nil {
		return 0, err
	}
	pos, err := NextPosition(items)
	if err != nil {
		return 0, err
	}
	if err := s.store.SetTop10(ctx, id, true, &pos); err != nil {
		return 0, err
	}
	return pos, nil
}

// Remove clears the flag and the stored position
func (s *Service) Remove(ctx context.Context, id string) error {
	if _, err := s.store.GetContent(ctx, id); err != nil {
		return err
	}
	return s.store.SetTop10(ctx, id, false, nil)
}

// SetPosition overwrites the stored position. Another item holding the
// same position keeps it.
func (s *Service) SetPosition(ctx context.Context, id string, position int) error {
	if err := ValidatePosition(position); err != nil {
		return err
	}
	item, err := s.store.GetContent(ctx, id)
	if err != nil {
		return err
	}
	if !item.IsTop10 {
		return errors.ValidationError(fmt.Sprintf("%q is not in the top 10", item.Title))
	}
	return s.store.SetTop10Position(ctx, id, position)
}
