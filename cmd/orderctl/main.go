// orderctl drives the orders API client from the command line. It plays
// the role the web form does in production: it feeds raw string fields to
// the client and prints each operation's outcome message and the resulting
// current record.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/MAOQIZHANG/orders/internal/config"
	"github.com/MAOQIZHANG/orders/pkg/logger"
	"github.com/MAOQIZHANG/orders/pkg/orders"
)

const usage = `Usage: orderctl <command> [flags]

Order commands:
  create                      create an order from -name/-create-time/-address/-cost/-status/-user
  get <id>                    retrieve an order
  update <id>                 update an order from the same flags as create
  delete <id>                 delete an order
  cancel <id>                 cancel an order
  search                      search orders by -name/-status/-user

Item commands (all require -order):
  item-create                 create an item from -title/-product/-price/-amount/-item-status
  item-list                   list the items of an order
  item-get <item-id>          retrieve an item
  item-update <item-id>       update an item from the same flags as item-create
  item-delete <item-id>       delete an item

The API base URL is taken from ORDERS_API_URL (default http://localhost:8080).
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	transport := orders.NewTransport(cfg.Client.BaseURL, time.Duration(cfg.Client.Timeout)*time.Second, log)

	// Outcome messages go straight to the operator, like the flash area of
	// the web form
	notifier := orders.NotifierFunc(func(message string) {
		fmt.Println(message)
	})

	orderClient := orders.NewOrderClient(transport, notifier)
	itemClient := orders.NewItemClient(transport, notifier)

	app := &app{orders: orderClient, items: itemClient}
	if err := app.run(context.Background(), os.Args[1], os.Args[2:]); err != nil {
		os.Exit(1)
	}
}

type app struct {
	orders *orders.OrderClient
	items  *orders.ItemClient
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "create", "update":
		return a.runOrderForm(ctx, command, args)
	case "get", "delete", "cancel":
		return a.runOrderByID(ctx, command, args)
	case "search":
		return a.runSearch(ctx, args)
	case "item-create", "item-list", "item-get", "item-update", "item-delete":
		return a.runItem(ctx, command, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command: %s", command)
	}
}

func orderFormFlags(fs *flag.FlagSet) *orders.OrderForm {
	form := &orders.OrderForm{}
	fs.StringVar(&form.Name, "name", "", "recipient name")
	fs.StringVar(&form.CreateTime, "create-time", "", "creation timestamp")
	fs.StringVar(&form.Address, "address", "", "delivery address")
	fs.StringVar(&form.CostAmount, "cost", "", "cost amount")
	fs.StringVar(&form.Status, "status", "", "order status")
	fs.StringVar(&form.UserID, "user", "", "owning user id")
	return form
}

func itemFormFlags(fs *flag.FlagSet) *orders.ItemForm {
	form := &orders.ItemForm{}
	fs.StringVar(&form.Title, "title", "", "item title")
	fs.StringVar(&form.ProductID, "product", "", "product id")
	fs.StringVar(&form.Price, "price", "", "unit price")
	fs.StringVar(&form.Amount, "amount", "", "quantity")
	fs.StringVar(&form.Status, "item-status", "", "item status")
	return form
}

func (a *app) runOrderForm(ctx context.Context, command string, args []string) error {
	fs := flag.NewFlagSet(command, flag.ExitOnError)
	form := orderFormFlags(fs)

	var err error
	if command == "create" {
		fs.Parse(args)
		_, err = a.orders.Create(ctx, *form)
	} else {
		if len(args) < 1 {
			return fmt.Errorf("update requires an order id")
		}
		fs.Parse(args[1:])
		_, err = a.orders.Update(ctx, args[0], *form)
	}

	if current := a.orders.Current(); current != nil {
		printRecord(current)
	}
	return err
}

func (a *app) runOrderByID(ctx context.Context, command string, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%s requires an order id", command)
	}

	var err error
	switch command {
	case "get":
		_, err = a.orders.Retrieve(ctx, args[0])
		if current := a.orders.Current(); current != nil {
			printRecord(current)
		}
	case "delete":
		err = a.orders.Delete(ctx, args[0])
	case "cancel":
		err = a.orders.Cancel(ctx, args[0])
	}
	return err
}

func (a *app) runSearch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	filter := orders.OrderFilter{}
	fs.StringVar(&filter.Name, "name", "", "filter by name")
	fs.StringVar(&filter.Status, "status", "", "filter by status")
	fs.StringVar(&filter.UserID, "user", "", "filter by user id")
	fs.Parse(args)

	results, err := a.orders.Search(ctx, filter)
	if err != nil {
		return err
	}

	printRecord(results)
	return nil
}

func (a *app) runItem(ctx context.Context, command string, args []string) error {
	fs := flag.NewFlagSet(command, flag.ExitOnError)
	var orderID string
	fs.StringVar(&orderID, "order", "", "parent order id")
	form := itemFormFlags(fs)

	// item-get/item-update/item-delete take the item id as the first
	// positional argument
	var itemID string
	switch command {
	case "item-get", "item-update", "item-delete":
		if len(args) >= 1 {
			itemID = args[0]
			args = args[1:]
		}
	}
	fs.Parse(args)

	var err error
	switch command {
	case "item-create":
		_, err = a.items.Create(ctx, orderID, *form)
	case "item-list":
		var items []orders.Item
		items, err = a.items.List(ctx, orderID)
		if err == nil {
			printRecord(items)
			return nil
		}
	case "item-get":
		_, err = a.items.Retrieve(ctx, orderID, itemID)
	case "item-update":
		_, err = a.items.Update(ctx, orderID, itemID, *form)
	case "item-delete":
		err = a.items.Delete(ctx, orderID, itemID)
	}

	if current := a.items.Current(); current != nil {
		printRecord(current)
	}
	return err
}

// printRecord pretty-prints the current record or list, skipping cleared
// slots
func printRecord(record interface{}) {
	if record == nil {
		return
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return
	}
	fmt.Println(string(data))
}
