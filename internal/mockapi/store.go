package mockapi

import (
	"sort"
	"sync"

	"github.com/MAOQIZHANG/orders/pkg/orders"
)

// Store is the in-memory backing state for the mock API
type Store struct {
	mu          sync.Mutex
	orders      map[int]*orders.Order
	nextOrderID int
	nextItemID  int
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		orders:      make(map[int]*orders.Order),
		nextOrderID: 1,
		nextItemID:  1,
	}
}

// CreateOrder assigns an id and stores the order
func (s *Store) CreateOrder(order orders.Order) orders.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	order.ID = s.nextOrderID
	s.nextOrderID++

	if order.Items == nil {
		order.Items = []orders.Item{}
	}
	for i := range order.Items {
		order.Items[i].ID = s.nextItemID
		order.Items[i].OrderID = order.ID
		s.nextItemID++
	}

	stored := order
	s.orders[order.ID] = &stored
	return order
}

// GetOrder returns a copy of the order with the given id
func (s *Store) GetOrder(id int) (orders.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return orders.Order{}, false
	}
	return copyOrder(order), true
}

// ListOrders returns copies of all orders matching the filter, in id order
func (s *Store) ListOrders(match func(orders.Order) bool) []orders.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]orders.Order, 0, len(s.orders))
	for _, order := range s.orders {
		copied := copyOrder(order)
		if match == nil || match(copied) {
			results = append(results, copied)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].ID < results[j].ID
	})
	return results
}

// UpdateOrder applies mutate to the stored order and returns the result
func (s *Store) UpdateOrder(id int, mutate func(*orders.Order)) (orders.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return orders.Order{}, false
	}
	mutate(order)
	return copyOrder(order), true
}

// DeleteOrder removes the order if it exists
func (s *Store) DeleteOrder(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.orders, id)
}

// AddItem assigns an id and appends the item to its order
func (s *Store) AddItem(orderID int, item orders.Item) (orders.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return orders.Item{}, false
	}

	item.ID = s.nextItemID
	item.OrderID = orderID
	s.nextItemID++

	order.Items = append(order.Items, item)
	return item, true
}

// GetItem returns a copy of one item of an order
func (s *Store) GetItem(orderID, itemID int) (orders.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return orders.Item{}, false
	}
	for _, item := range order.Items {
		if item.ID == itemID {
			return item, true
		}
	}
	return orders.Item{}, false
}

// UpdateItem applies mutate to one item of an order and returns the result
func (s *Store) UpdateItem(orderID, itemID int, mutate func(*orders.Item)) (orders.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return orders.Item{}, false
	}
	for i := range order.Items {
		if order.Items[i].ID == itemID {
			mutate(&order.Items[i])
			return order.Items[i], true
		}
	}
	return orders.Item{}, false
}

// DeleteItem removes the item if it exists on the order
func (s *Store) DeleteItem(orderID, itemID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return
	}
	for i := range order.Items {
		if order.Items[i].ID == itemID {
			order.Items = append(order.Items[:i], order.Items[i+1:]...)
			return
		}
	}
}

func copyOrder(order *orders.Order) orders.Order {
	copied := *order
	copied.Items = make([]orders.Item, len(order.Items))
	copy(copied.Items, order.Items)
	return copied
}
