package orders

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Notification messages. Fixed strings are emitted as-is regardless of the
// server response; every other outcome surfaces the server's message.
const (
	MsgSuccess       = "Success"
	MsgOrderDeleted  = "Order has been Deleted!"
	MsgOrderCanceled = "Order has been Canceled!"
	MsgServerError   = "Server error!"
	MsgItemDeleted   = "Item has been Deleted!"

	MsgMissingFields           = "Missing required fields"
	MsgOrderIDRequiredList     = "Order ID is required for List Operation"
	MsgOrderIDRequiredRetrieve = "Order ID is required for Retrieving Item"
	MsgItemIDRequiredRetrieve  = "Item ID is required for Retrieve Operation"
	MsgOrderIDRequiredUpdate   = "Order ID is required for Updating Item"
	MsgItemIDRequiredUpdate    = "Item ID is required for Update Operation"
	MsgOrderIDRequiredDelete   = "Order ID is required for Deleting Item"
	MsgItemIDRequiredDelete    = "Item ID is required for Delete Operation"
)

// Error is a failure response from the API
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// newError builds an Error from a non-success response body.
// The API reports failures in a "message" field; a couple of endpoints use
// "error" instead, and some bodies carry neither.
func newError(statusCode int, body []byte) *Error {
	var payload struct {
		Message  string `json:"message"`
		ErrField string `json:"error"`
	}

	message := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		message = payload.Message
		if message == "" {
			message = payload.ErrField
		}
	}
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return &Error{StatusCode: statusCode, Message: message}
}

// ValidationError is a local rejection raised before any request is sent
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// remoteMessage extracts the text to surface for a failed request
func remoteMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
