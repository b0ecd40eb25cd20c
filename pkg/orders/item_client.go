package orders

import "context"

// ItemClient performs operations on the Items nested under an Order and
// tracks the current item plus the most recent list result. Every
// operation is scoped by a parent order id and rejected locally when that
// id is blank.
//
// Like OrderClient, an ItemClient is not safe for concurrent use.
type ItemClient struct {
	transport *Transport
	notifier  Notifier

	current *Item
	items   []Item
}

// NewItemClient creates an item client. A nil notifier discards outcome
// messages.
func NewItemClient(transport *Transport, notifier Notifier) *ItemClient {
	return &ItemClient{
		transport: transport,
		notifier:  notifier,
	}
}

// Current returns the current item, or nil when the slot is clear
func (c *ItemClient) Current() *Item {
	return c.current
}

// Items returns the most recent list result
func (c *ItemClient) Items() []Item {
	return c.items
}

func (c *ItemClient) notify(message string) {
	if c.notifier != nil {
		c.notifier.Notify(message)
	}
}

// reject surfaces a local validation failure without touching the network
func (c *ItemClient) reject(message string) error {
	c.notify(message)
	return &ValidationError{Message: message}
}

// itemPayload is the create/update request body. Numeric fields are
// interface{} for the same reason as order creation: failed coercions
// forward the raw input for the server to reject.
type itemPayload struct {
	OrderID   interface{} `json:"order_id"`
	Title     string      `json:"title"`
	Amount    interface{} `json:"amount"`
	Price     interface{} `json:"price"`
	ProductID interface{} `json:"product_id"`
	Status    string      `json:"status"`
}

func newItemPayload(orderID string, form ItemForm) itemPayload {
	return itemPayload{
		OrderID:   coerceInt(orderID),
		Title:     form.Title,
		Amount:    coerceInt(form.Amount),
		Price:     coerceFloat(form.Price),
		ProductID: coerceInt(form.ProductID),
		Status:    form.Status,
	}
}

// hasRequiredFields reports whether every field needed for create/update is
// non-empty
func hasRequiredFields(orderID string, form ItemForm) bool {
	return orderID != "" &&
		form.Title != "" &&
		form.ProductID != "" &&
		form.Amount != "" &&
		form.Status != "" &&
		form.Price != ""
}

// Create adds an item to the order. All required fields are validated
// before any request is sent.
func (c *ItemClient) Create(ctx context.Context, orderID string, form ItemForm) (*Item, error) {
	if !hasRequiredFields(orderID, form) {
		return nil, c.reject(MsgMissingFields)
	}

	var created Item
	if err := c.transport.Post(ctx, "/orders/"+orderID+"/items", newItemPayload(orderID, form), &created); err != nil {
		c.notify(remoteMessage(err))
		return nil, err
	}

	c.current = &created
	c.notify(MsgSuccess)
	return &created, nil
}

// List fetches the items of an order. A non-empty result promotes its
// first item to the current item; an empty result clears the current item.
// Failures clear both the current item and the list.
func (c *ItemClient) List(ctx context.Context, orderID string) ([]Item, error) {
	if orderID == "" {
		c.current = nil
		c.items = nil
		return nil, c.reject(MsgOrderIDRequiredList)
	}

	var items []Item
	if err := c.transport.Get(ctx, "/orders/"+orderID+"/items", &items); err != nil {
		c.current = nil
		c.items = nil
		c.notify(remoteMessage(err))
		return nil, err
	}

	c.items = items
	if len(items) > 0 {
		first := items[0]
		c.current = &first
	} else {
		c.current = nil
	}

	c.notify(MsgSuccess)
	return items, nil
}

// Retrieve looks up one item of an order. The order id is checked before
// the item id, each with its own message. A failed lookup clears the
// current item.
func (c *ItemClient) Retrieve(ctx context.Context, orderID, itemID string) (*Item, error) {
	if orderID == "" {
		return nil, c.reject(MsgOrderIDRequiredRetrieve)
	}
	if itemID == "" {
		return nil, c.reject(MsgItemIDRequiredRetrieve)
	}

	var item Item
	if err := c.transport.Get(ctx, "/orders/"+orderID+"/items/"+itemID, &item); err != nil {
		c.current = nil
		c.notify(remoteMessage(err))
		return nil, err
	}

	c.current = &item
	c.notify(MsgSuccess)
	return &item, nil
}

// Update replaces an item's fields. On failure the current item is left
// untouched so the form keeps the attempted edits.
func (c *ItemClient) Update(ctx context.Context, orderID, itemID string, form ItemForm) (*Item, error) {
	if orderID == "" {
		return nil, c.reject(MsgOrderIDRequiredUpdate)
	}
	if itemID == "" {
		return nil, c.reject(MsgItemIDRequiredUpdate)
	}
	if !hasRequiredFields(orderID, form) {
		return nil, c.reject(MsgMissingFields)
	}

	var updated Item
	if err := c.transport.Put(ctx, "/orders/"+orderID+"/items/"+itemID, newItemPayload(orderID, form), &updated); err != nil {
		c.notify(remoteMessage(err))
		return nil, err
	}

	c.current = &updated
	c.notify(MsgSuccess)
	return &updated, nil
}

// Delete removes an item from its order. The current item is cleared on
// success and failure alike; only the message differs.
func (c *ItemClient) Delete(ctx context.Context, orderID, itemID string) error {
	if orderID == "" {
		return c.reject(MsgOrderIDRequiredDelete)
	}
	if itemID == "" {
		return c.reject(MsgItemIDRequiredDelete)
	}

	if err := c.transport.Delete(ctx, "/orders/"+orderID+"/items/"+itemID); err != nil {
		c.current = nil
		c.notify(remoteMessage(err))
		return err
	}

	c.current = nil
	c.notify(MsgItemDeleted)
	return nil
}
