// Package mockapi is an in-memory stand-in for the Order Management API.
// It backs the client's integration tests and the local development server,
// reproducing the real service's status codes and error bodies, including
// its quirks: 204 on delete even when the record is absent, 202 on item
// update, and the two endpoints that report failures under "error" instead
// of "message".
package mockapi

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/MAOQIZHANG/orders/pkg/orders"
	"github.com/go-chi/chi/v5"
)

// Server serves the mock Order Management API
type Server struct {
	store *Store
	log   *slog.Logger
}

// New creates a mock API server with an empty store
func New(log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		store: NewStore(),
		log:   log,
	}
}

// Store exposes the backing store for test seeding
func (s *Server) Store() *Store {
	return s.store
}

// Routes builds the API router
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", s.index)

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", s.listOrders)
		r.Post("/", s.createOrder)

		r.Route("/{orderID}", func(r chi.Router) {
			r.Get("/", s.getOrder)
			r.Put("/", s.updateOrder)
			r.Delete("/", s.deleteOrder)
			r.Put("/cancel", s.cancelOrder)

			r.Route("/items", func(r chi.Router) {
				r.Get("/", s.listItems)
				r.Post("/", s.createItem)
				r.Get("/{itemID}", s.getItem)
				r.Put("/{itemID}", s.updateItem)
				r.Delete("/{itemID}", s.deleteItem)
			})
		})
	})

	return r
}

// index handles GET /
func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"name":    "Order REST API Service",
		"version": "1.0",
		"paths":   "/orders",
	})
}

// createOrder handles POST /orders
func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	if !s.checkContentType(w, r) {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeMessage(w, http.StatusBadRequest, "Invalid Order: body of request contained bad or no data")
		return
	}

	order, err := decodeOrder(body)
	if err != nil {
		s.writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	created := s.store.CreateOrder(order)
	s.log.Info("order created", "order_id", created.ID)

	w.Header().Set("Location", fmt.Sprintf("/orders/%d", created.ID))
	s.writeJSON(w, http.StatusCreated, created)
}

// listOrders handles GET /orders with optional filters
func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	name := query.Get("name")
	status := query.Get("status")
	userID := query.Get("user_id")
	createTime := query.Get("create_time")

	results := s.store.ListOrders(func(order orders.Order) bool {
		if name != "" && order.Name != name {
			return false
		}
		if status != "" && order.Status != status {
			return false
		}
		if userID != "" && strconv.Itoa(order.UserID) != userID {
			return false
		}
		if createTime != "" && order.CreateTime != createTime {
			return false
		}
		return true
	})

	s.writeJSON(w, http.StatusOK, results)
}

// getOrder handles GET /orders/{orderID}
func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "orderID")
	orderID, err := strconv.Atoi(id)
	if err != nil {
		s.writeMessage(w, http.StatusNotFound, orderNotFound(id))
		return
	}

	order, ok := s.store.GetOrder(orderID)
	if !ok {
		s.writeMessage(w, http.StatusNotFound, orderNotFound(id))
		return
	}

	s.writeJSON(w, http.StatusOK, order)
}

// updateOrder handles PUT /orders/{orderID}. Only the fields present in the
// body are applied, and only those the real service updates.
func (s *Server) updateOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.Atoi(chi.URLParam(r, "orderID"))
	if err != nil {
		s.writeMessage(w, http.StatusNotFound, "Order not found")
		return
	}

	var fields map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		s.writeMessage(w, http.StatusBadRequest, "Invalid Order: body of request contained bad or no data")
		return
	}

	updated, ok := s.store.UpdateOrder(orderID, func(order *orders.Order) {
		applyString(fields, "name", &order.Name)
		applyString(fields, "address", &order.Address)
		applyString(fields, "status", &order.Status)
	})
	if !ok {
		s.writeMessage(w, http.StatusNotFound, "Order not found")
		return
	}

	s.writeJSON(w, http.StatusOK, updated)
}

// deleteOrder handles DELETE /orders/{orderID}, returning 204 whether or
// not the order existed
func (s *Server) deleteOrder(w http.ResponseWriter, r *http.Request) {
	if orderID, err := strconv.Atoi(chi.URLParam(r, "orderID")); err == nil {
		s.store.DeleteOrder(orderID)
	}
	w.WriteHeader(http.StatusNoContent)
}

// cancelOrder handles PUT /orders/{orderID}/cancel
func (s *Server) cancelOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "orderID")
	orderID, err := strconv.Atoi(id)
	if err != nil {
		s.writeMessage(w, http.StatusNotFound, orderNotFound(id))
		return
	}

	cancelled, ok := s.store.UpdateOrder(orderID, func(order *orders.Order) {
		order.Status = "CANCELED"
	})
	if !ok {
		s.writeMessage(w, http.StatusNotFound, orderNotFound(id))
		return
	}

	s.writeJSON(w, http.StatusOK, cancelled)
}

// createItem handles POST /orders/{orderID}/items
func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "orderID")
	orderID, err := strconv.Atoi(id)
	if err != nil {
		s.writeMessage(w, http.StatusNotFound, orderNotFound(id))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeMessage(w, http.StatusBadRequest, "Invalid Item: body of request contained bad or no data")
		return
	}

	item, err := decodeItem(body)
	if err != nil {
		s.writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	created, ok := s.store.AddItem(orderID, item)
	if !ok {
		s.writeMessage(w, http.StatusNotFound, orderNotFound(id))
		return
	}
	s.log.Info("item created", "order_id", orderID, "item_id", created.ID)

	w.Header().Set("Location", fmt.Sprintf("/orders/%d/items/%d", orderID, created.ID))
	s.writeJSON(w, http.StatusCreated, created)
}

// listItems handles GET /orders/{orderID}/items
func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "orderID")
	orderID, err := strconv.Atoi(id)
	if err != nil {
		s.writeMessage(w, http.StatusNotFound, orderNotFound(id))
		return
	}

	order, ok := s.store.GetOrder(orderID)
	if !ok {
		s.writeMessage(w, http.StatusNotFound, orderNotFound(id))
		return
	}

	s.writeJSON(w, http.StatusOK, order.Items)
}

// getItem handles GET /orders/{orderID}/items/{itemID}. The real service
// reports a missing item under an "error" key rather than "message".
func (s *Server) getItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "orderID")
	orderID, err := strconv.Atoi(id)
	if err != nil {
		s.writeMessage(w, http.StatusNotFound, orderNotFound(id))
		return
	}
	itemID, err := strconv.Atoi(chi.URLParam(r, "itemID"))
	if err != nil {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "Item not in Order"})
		return
	}

	item, ok := s.store.GetItem(orderID, itemID)
	if !ok {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "Item not in Order"})
		return
	}

	s.writeJSON(w, http.StatusOK, item)
}

// updateItem handles PUT /orders/{orderID}/items/{itemID}, answering 202 as
// the real service does
func (s *Server) updateItem(w http.ResponseWriter, r *http.Request) {
	if !s.checkContentType(w, r) {
		return
	}

	orderID, err := strconv.Atoi(chi.URLParam(r, "orderID"))
	if err != nil {
		s.writeMessage(w, http.StatusNotFound, "Order not found")
		return
	}
	itemID, err := strconv.Atoi(chi.URLParam(r, "itemID"))
	if err != nil {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "Item not found"})
		return
	}

	if _, ok := s.store.GetOrder(orderID); !ok {
		s.writeMessage(w, http.StatusNotFound, "Order not found")
		return
	}

	var fields map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		s.writeMessage(w, http.StatusBadRequest, "Invalid Item: body of request contained bad or no data")
		return
	}

	updated, ok := s.store.UpdateItem(orderID, itemID, func(item *orders.Item) {
		applyString(fields, "title", &item.Title)
		applyString(fields, "status", &item.Status)
		applyInt(fields, "amount", &item.Amount)
	})
	if !ok {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "Item not found"})
		return
	}

	s.writeJSON(w, http.StatusAccepted, updated)
}

// deleteItem handles DELETE /orders/{orderID}/items/{itemID}, returning 204
// whether or not the item existed
func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	orderID, errOrder := strconv.Atoi(chi.URLParam(r, "orderID"))
	itemID, errItem := strconv.Atoi(chi.URLParam(r, "itemID"))
	if errOrder == nil && errItem == nil {
		s.store.DeleteItem(orderID, itemID)
	}
	w.WriteHeader(http.StatusNoContent)
}

// checkContentType rejects non-JSON bodies with 415 as the real service does
func (s *Server) checkContentType(w http.ResponseWriter, r *http.Request) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "application/json" || strings.HasPrefix(contentType, "application/json;") {
		return true
	}
	s.log.Error("invalid content type", "content_type", contentType)
	s.writeMessage(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
	return false
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode JSON response", "error", err)
	}
}

// writeMessage writes an error response with the "message" field the real
// service uses
func (s *Server) writeMessage(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]interface{}{
		"status":  status,
		"error":   http.StatusText(status),
		"message": message,
	})
}

func orderNotFound(id string) string {
	return fmt.Sprintf("Order with id '%s' was not found.", id)
}

// decodeOrder validates an order create body the way the real service
// deserializes one: every field must be present and carry the right type
func decodeOrder(body []byte) (orders.Order, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return orders.Order{}, fmt.Errorf("Invalid Order: body of request contained bad or no data")
	}

	var order orders.Order
	fields := []struct {
		key string
		dst interface{}
	}{
		{"name", &order.Name},
		{"create_time", &order.CreateTime},
		{"address", &order.Address},
		{"cost_amount", &order.CostAmount},
		{"status", &order.Status},
		{"user_id", &order.UserID},
		{"items", &order.Items},
	}

	for _, field := range fields {
		data, ok := raw[field.key]
		if !ok {
			return orders.Order{}, fmt.Errorf("Invalid Order: missing %s", field.key)
		}
		if err := json.Unmarshal(data, field.dst); err != nil {
			return orders.Order{}, fmt.Errorf("Invalid Order: body of request contained bad or no data")
		}
	}

	return order, nil
}

// decodeItem validates an item create body. Amount is optional in the real
// deserializer and defaults to a quantity of one.
func decodeItem(body []byte) (orders.Item, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return orders.Item{}, fmt.Errorf("Invalid Item: body of request contained bad or no data")
	}

	item := orders.Item{Amount: 1}
	fields := []struct {
		key string
		dst interface{}
	}{
		{"order_id", &item.OrderID},
		{"title", &item.Title},
		{"price", &item.Price},
		{"product_id", &item.ProductID},
		{"status", &item.Status},
	}

	for _, field := range fields {
		data, ok := raw[field.key]
		if !ok {
			return orders.Item{}, fmt.Errorf("Invalid Item: missing %s", field.key)
		}
		if err := json.Unmarshal(data, field.dst); err != nil {
			return orders.Item{}, fmt.Errorf("Invalid Item: body of request contained bad or no data")
		}
	}

	if data, ok := raw["amount"]; ok {
		if err := json.Unmarshal(data, &item.Amount); err != nil {
			return orders.Item{}, fmt.Errorf("Invalid Item: body of request contained bad or no data")
		}
	}

	return item, nil
}

// applyString overwrites dst when fields carries key as a JSON string
func applyString(fields map[string]json.RawMessage, key string, dst *string) {
	if data, ok := fields[key]; ok {
		var value string
		if err := json.Unmarshal(data, &value); err == nil {
			*dst = value
		}
	}
}

// applyInt overwrites dst when fields carries key as a JSON number
func applyInt(fields map[string]json.RawMessage, key string, dst *int) {
	if data, ok := fields[key]; ok {
		var value int
		if err := json.Unmarshal(data, &value); err == nil {
			*dst = value
		}
	}
}
