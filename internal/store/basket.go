package store

import "github.com/mrlokans/printingpress/internal/entities"

func (s *Store) GetBasket() []entities.BasketItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.BasketItem{}, s.state.Basket...)
}

// InBasket reports whether the book is waiting in the basket.
func (s *Store) InBasket(bookID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.InBasket(bookID)
}

// AddToBasket adds the item unless a book with the same ID is already there.
// It reports whether the basket changed.
func (s *Store) AddToBasket(item entities.BasketItem) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.InBasket(item.Book.ID) {
		return false, nil
	}
	if item.AddedAt.IsZero() {
		item.AddedAt = s.now()
	}
	s.state.Basket = append(s.state.Basket, item)
	return true, s.saveStateLocked()
}

// RemoveFromBasket removes the book and returns the removed item, if any.
func (s *Store) RemoveFromBasket(bookID int) (*entities.BasketItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.state.Basket {
		if item.Book.ID == bookID {
			s.state.Basket = append(s.state.Basket[:i:i], s.state.Basket[i+1:]...)
			return &item, s.saveStateLocked()
		}
	}
	return nil, nil
}

// ClearBasket empties the basket and returns what it held.
func (s *Store) ClearBasket() ([]entities.BasketItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.state.Basket
	s.state.Basket = []entities.BasketItem{}
	return items, s.saveStateLocked()
}
