package orders

import "context"

// OrderClient performs operations on the Order resource and tracks the
// current order: the single most-recently-resolved record the form
// displays. The current slot is replaced wholesale on success and cleared,
// never partially mutated, on the failures noted per operation.
//
// An OrderClient is not safe for concurrent use. The interaction model is
// one user-triggered operation in flight at a time; if callers violate
// that, the last-resolved response wins the slot.
type OrderClient struct {
	transport *Transport
	notifier  Notifier

	// SearchKeys declares the filter keys Search composes, in order.
	SearchKeys []string

	current *Order
}

// NewOrderClient creates an order client. A nil notifier discards outcome
// messages.
func NewOrderClient(transport *Transport, notifier Notifier) *OrderClient {
	return &OrderClient{
		transport:  transport,
		notifier:   notifier,
		SearchKeys: DefaultSearchKeys,
	}
}

// Current returns the current order, or nil when the slot is clear
func (c *OrderClient) Current() *Order {
	return c.current
}

func (c *OrderClient) notify(message string) {
	if c.notifier != nil {
		c.notifier.Notify(message)
	}
}

// orderCreatePayload is the create request body. cost_amount and user_id
// are interface{} because a failed coercion forwards the raw input for the
// server to reject.
type orderCreatePayload struct {
	Name       string      `json:"name"`
	CreateTime string      `json:"create_time"`
	Address    string      `json:"address"`
	CostAmount interface{} `json:"cost_amount"`
	Status     string      `json:"status"`
	UserID     interface{} `json:"user_id"`
	Items      []Item      `json:"items"`
}

// orderUpdatePayload is the update request body. Unlike create, every field
// is sent exactly as entered; unifying the two would change what the server
// observes.
type orderUpdatePayload struct {
	Name       string `json:"name"`
	CreateTime string `json:"create_time"`
	Address    string `json:"address"`
	CostAmount string `json:"cost_amount"`
	Status     string `json:"status"`
	UserID     string `json:"user_id"`
}

// Create creates an order from the raw form fields. Items are always sent
// empty; line items are added through the item endpoints after creation.
func (c *OrderClient) Create(ctx context.Context, form OrderForm) (*Order, error) {
	payload := orderCreatePayload{
		Name:       form.Name,
		CreateTime: form.CreateTime,
		Address:    form.Address,
		CostAmount: coerceInt(form.CostAmount),
		Status:     form.Status,
		UserID:     coerceInt(form.UserID),
		Items:      []Item{},
	}

	var created Order
	if err := c.transport.Post(ctx, "/orders", payload, &created); err != nil {
		c.notify(remoteMessage(err))
		return nil, err
	}

	c.current = &created
	c.notify(MsgSuccess)
	return &created, nil
}

// Retrieve looks up an order by id. A failed lookup clears the current
// order so stale data is never displayed as if valid.
func (c *OrderClient) Retrieve(ctx context.Context, id string) (*Order, error) {
	var order Order
	if err := c.transport.Get(ctx, "/orders/"+id, &order); err != nil {
		c.current = nil
		c.notify(remoteMessage(err))
		return nil, err
	}

	c.current = &order
	c.notify(MsgSuccess)
	return &order, nil
}

// Update replaces an order's fields. On failure the current order is left
// untouched so the form keeps the attempted edits for resubmission.
func (c *OrderClient) Update(ctx context.Context, id string, form OrderForm) (*Order, error) {
	payload := orderUpdatePayload{
		Name:       form.Name,
		CreateTime: form.CreateTime,
		Address:    form.Address,
		CostAmount: form.CostAmount,
		Status:     form.Status,
		UserID:     form.UserID,
	}

	var updated Order
	if err := c.transport.Put(ctx, "/orders/"+id, payload, &updated); err != nil {
		c.notify(remoteMessage(err))
		return nil, err
	}

	c.current = &updated
	c.notify(MsgSuccess)
	return &updated, nil
}

// Delete destroys an order. Success clears the current order and emits a
// fixed confirmation; failures are reported with a generic message rather
// than the server's detail.
func (c *OrderClient) Delete(ctx context.Context, id string) error {
	if err := c.transport.Delete(ctx, "/orders/"+id); err != nil {
		c.notify(MsgServerError)
		return err
	}

	c.current = nil
	c.notify(MsgOrderDeleted)
	return nil
}

// Cancel transitions an order to its cancelled status without destroying
// it. The cancelled record is not re-fetched; the current order is simply
// cleared.
func (c *OrderClient) Cancel(ctx context.Context, id string) error {
	if err := c.transport.Put(ctx, "/orders/"+id+"/cancel", nil, nil); err != nil {
		c.notify(MsgServerError)
		return err
	}

	c.current = nil
	c.notify(MsgOrderCanceled)
	return nil
}

// Search lists orders matching the non-empty filters. When the result is
// non-empty its first record is promoted to the current order; an empty
// result leaves the current order as-is.
func (c *OrderClient) Search(ctx context.Context, filter OrderFilter) ([]Order, error) {
	path := "/orders"
	if query := buildQuery(c.SearchKeys, filter); query != "" {
		path += "?" + query
	}

	var results []Order
	if err := c.transport.Get(ctx, path, &results); err != nil {
		c.notify(remoteMessage(err))
		return nil, err
	}

	if len(results) > 0 {
		first := results[0]
		c.current = &first
	}

	c.notify(MsgSuccess)
	return results, nil
}
