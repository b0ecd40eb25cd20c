package mockapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MAOQIZHANG/orders/pkg/orders"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	api := New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	server := httptest.NewServer(api.Routes())
	t.Cleanup(server.Close)
	return api, server
}

func doJSON(t *testing.T, method, url string, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

const validOrderBody = `{"name":"Alice","create_time":"2024-01-01","address":"1 Main St","cost_amount":100,"status":"OPEN","user_id":42,"items":[]}`

func TestCreateOrder(t *testing.T) {
	_, server := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/orders", validOrderBody)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); !strings.HasPrefix(loc, "/orders/") {
		t.Errorf("Location = %q, want /orders/{id}", loc)
	}

	var order orders.Order
	decodeBody(t, resp, &order)
	if order.ID == 0 {
		t.Error("created order has no id")
	}
	if order.Name != "Alice" || order.CostAmount != 100 {
		t.Errorf("created order = %+v, want submitted fields echoed", order)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantMessage string
	}{
		{
			name:        "missing field",
			body:        `{"name":"Alice"}`,
			wantMessage: "Invalid Order: missing create_time",
		},
		{
			name:        "wrong type for cost_amount",
			body:        `{"name":"Alice","create_time":"2024-01-01","address":"1 Main St","cost_amount":"lots","status":"OPEN","user_id":42,"items":[]}`,
			wantMessage: "Invalid Order: body of request contained bad or no data",
		},
		{
			name:        "not an object",
			body:        `"nope"`,
			wantMessage: "Invalid Order: body of request contained bad or no data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, server := newTestServer(t)

			resp := doJSON(t, http.MethodPost, server.URL+"/orders", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}

			var payload struct {
				Message string `json:"message"`
			}
			decodeBody(t, resp, &payload)
			if payload.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", payload.Message, tt.wantMessage)
			}
		})
	}
}

func TestCreateOrderRejectsNonJSON(t *testing.T) {
	_, server := newTestServer(t)

	req, _ := http.NewRequest(http.MethodPost, server.URL+"/orders", bytes.NewReader([]byte(validOrderBody)))
	req.Header.Set("Content-Type", "text/plain")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want 415", resp.StatusCode)
	}
}

func TestGetOrder(t *testing.T) {
	api, server := newTestServer(t)
	created := api.Store().CreateOrder(orders.Order{Name: "Alice", Status: "OPEN", UserID: 42})

	resp := doJSON(t, http.MethodGet, server.URL+"/orders/1", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var order orders.Order
	decodeBody(t, resp, &order)
	if order.ID != created.ID || order.Name != "Alice" {
		t.Errorf("order = %+v, want the stored record", order)
	}
}

func TestGetOrderNotFound(t *testing.T) {
	_, server := newTestServer(t)

	resp := doJSON(t, http.MethodGet, server.URL+"/orders/9", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}

	var payload struct {
		Message string `json:"message"`
	}
	decodeBody(t, resp, &payload)
	if payload.Message != "Order with id '9' was not found." {
		t.Errorf("message = %q, want the not-found text", payload.Message)
	}
}

func TestListOrdersFiltering(t *testing.T) {
	api, server := newTestServer(t)
	api.Store().CreateOrder(orders.Order{Name: "Alice", Status: "OPEN", UserID: 42})
	api.Store().CreateOrder(orders.Order{Name: "Bob", Status: "SHIPPED", UserID: 42})
	api.Store().CreateOrder(orders.Order{Name: "Carol", Status: "OPEN", UserID: 7})

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"no filters returns all", "", 3},
		{"by status", "?status=OPEN", 2},
		{"by user id", "?user_id=42", 2},
		{"combined", "?status=OPEN&user_id=42", 1},
		{"no match", "?name=Dave", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodGet, server.URL+"/orders"+tt.query, "")
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, want 200", resp.StatusCode)
			}

			var results []orders.Order
			decodeBody(t, resp, &results)
			if len(results) != tt.want {
				t.Errorf("results = %d, want %d", len(results), tt.want)
			}
		})
	}
}

func TestUpdateOrderIsPartial(t *testing.T) {
	api, server := newTestServer(t)
	api.Store().CreateOrder(orders.Order{Name: "Alice", Address: "1 Main St", Status: "OPEN", CostAmount: 100, UserID: 42})

	// The real service only applies name, address and status; other fields
	// (including string-typed numbers from the form) are ignored
	resp := doJSON(t, http.MethodPut, server.URL+"/orders/1",
		`{"name":"Bob","address":"2 Side St","status":"SHIPPED","cost_amount":"999","user_id":"1"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var order orders.Order
	decodeBody(t, resp, &order)
	if order.Name != "Bob" || order.Address != "2 Side St" || order.Status != "SHIPPED" {
		t.Errorf("order = %+v, want name/address/status applied", order)
	}
	if order.CostAmount != 100 || order.UserID != 42 {
		t.Errorf("order = %+v, want cost_amount and user_id untouched", order)
	}
}

func TestDeleteOrderAlwaysNoContent(t *testing.T) {
	api, server := newTestServer(t)
	api.Store().CreateOrder(orders.Order{Name: "Alice"})

	for _, id := range []string{"1", "99"} {
		resp := doJSON(t, http.MethodDelete, server.URL+"/orders/"+id, "")
		resp.Body.Close()
		if resp.StatusCode != http.StatusNoContent {
			t.Errorf("delete %s status = %d, want 204", id, resp.StatusCode)
		}
	}

	if _, ok := api.Store().GetOrder(1); ok {
		t.Error("order 1 still present after delete")
	}
}

func TestCancelOrder(t *testing.T) {
	api, server := newTestServer(t)
	api.Store().CreateOrder(orders.Order{Name: "Alice", Status: "OPEN"})

	resp := doJSON(t, http.MethodPut, server.URL+"/orders/1/cancel", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var order orders.Order
	decodeBody(t, resp, &order)
	if order.Status != "CANCELED" {
		t.Errorf("status = %q, want CANCELED", order.Status)
	}

	// The record survives the transition
	if _, ok := api.Store().GetOrder(1); !ok {
		t.Error("order destroyed by cancel, want it kept")
	}
}

func TestItemEndpoints(t *testing.T) {
	api, server := newTestServer(t)
	api.Store().CreateOrder(orders.Order{Name: "Alice", Status: "OPEN"})

	// Create
	resp := doJSON(t, http.MethodPost, server.URL+"/orders/1/items",
		`{"order_id":1,"title":"Widget","amount":2,"price":9.99,"product_id":3,"status":"NEW"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	var item orders.Item
	decodeBody(t, resp, &item)
	if item.ID == 0 || item.OrderID != 1 || item.Amount != 2 {
		t.Errorf("created item = %+v, want assigned id and submitted fields", item)
	}

	// List
	resp = doJSON(t, http.MethodGet, server.URL+"/orders/1/items", "")
	var items []orders.Item
	decodeBody(t, resp, &items)
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}

	// Update answers 202
	resp = doJSON(t, http.MethodPut, server.URL+"/orders/1/items/1", `{"title":"Widget XL","amount":5}`)
	if resp.StatusCode != http.StatusAccepted {
		t.Errorf("update status = %d, want 202", resp.StatusCode)
	}
	decodeBody(t, resp, &item)
	if item.Title != "Widget XL" || item.Amount != 5 {
		t.Errorf("updated item = %+v, want title and amount applied", item)
	}

	// Missing item reports under "error", not "message"
	resp = doJSON(t, http.MethodGet, server.URL+"/orders/1/items/99", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get missing status = %d, want 404", resp.StatusCode)
	}
	var errPayload struct {
		ErrField string `json:"error"`
		Message  string `json:"message"`
	}
	decodeBody(t, resp, &errPayload)
	if errPayload.ErrField != "Item not in Order" || errPayload.Message != "" {
		t.Errorf("error payload = %+v, want error field only", errPayload)
	}

	// Delete is 204 even when the item is already gone
	for i := 0; i < 2; i++ {
		resp = doJSON(t, http.MethodDelete, server.URL+"/orders/1/items/1", "")
		resp.Body.Close()
		if resp.StatusCode != http.StatusNoContent {
			t.Errorf("delete status = %d, want 204", resp.StatusCode)
		}
	}
}

func TestListItemsUnknownOrder(t *testing.T) {
	_, server := newTestServer(t)

	resp := doJSON(t, http.MethodGet, server.URL+"/orders/9/items", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}

	var payload struct {
		Message string `json:"message"`
	}
	decodeBody(t, resp, &payload)
	if payload.Message != "Order with id '9' was not found." {
		t.Errorf("message = %q, want the not-found text", payload.Message)
	}
}

func TestCreateItemValidation(t *testing.T) {
	api, server := newTestServer(t)
	api.Store().CreateOrder(orders.Order{Name: "Alice"})

	resp := doJSON(t, http.MethodPost, server.URL+"/orders/1/items", `{"title":"Widget"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	var payload struct {
		Message string `json:"message"`
	}
	decodeBody(t, resp, &payload)
	if payload.Message != "Invalid Item: missing order_id" {
		t.Errorf("message = %q, want the missing-field text", payload.Message)
	}
}

func TestItemAmountDefaultsToOne(t *testing.T) {
	api, server := newTestServer(t)
	api.Store().CreateOrder(orders.Order{Name: "Alice"})

	resp := doJSON(t, http.MethodPost, server.URL+"/orders/1/items",
		`{"order_id":1,"title":"Widget","price":9.99,"product_id":3,"status":"NEW"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var item orders.Item
	decodeBody(t, resp, &item)
	if item.Amount != 1 {
		t.Errorf("amount = %d, want default of 1", item.Amount)
	}
}
