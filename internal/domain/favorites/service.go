package favorites

import "context"

// Store is the persistence collaborator for the per-user favorites set.
// Add is idempotent; Remove of an absent entry is a no-op.
type Store interface {
	ListFavorites(ctx context.Context, userID string) ([]string, error)
	AddFavorite(ctx context.Context, userID, productID string) error
	RemoveFavorite(ctx context.Context, userID, productID string) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context, userID string) ([]string, error) {
	return s.store.ListFavorites(ctx, userID)
}

// Toggle flips membership of productID in the user's favorites and returns
// the resulting set.
func (s *Service) Toggle(ctx context.Context, userID, productID string) ([]string, error) {
	current, err := s.store.ListFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}

	isFavorite := false
	for _, id := range current {
		if id == productID {
			isFavorite = true
			break
		}
	}

	if isFavorite {
		err = s.store.RemoveFavorite(ctx, userID, productID)
	} else {
		err = s.store.AddFavorite(ctx, userID, productID)
	}
	if err != nil {
		return nil, err
	}

	return s.store.ListFavorites(ctx, userID)
}
