package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/marcotuliovd/betimfc-v0/internal/domain/money"
	"github.com/marcotuliovd/betimfc-v0/internal/domain/order"
	"github.com/marcotuliovd/betimfc-v0/internal/pricing"
	"github.com/marcotuliovd/betimfc-v0/internal/storefront"
)

func registerCartCommands(r *registry) {
	r.Register(&Command{
		Name:        "cart",
		Description: "Show or change the cart",
		Usage:       "shop cart <show|add|remove|set|clear> ...",
		Examples: []string{
			"shop cart add 7 --size M --color Red --qty 2",
			"shop cart set 7 3 --size M --color Red",
			"shop cart remove 7 --size M --color Red",
			"shop cart show --shipping express",
			"shop cart clear",
		},
		Run: cartCommand,
	})
	r.Register(&Command{
		Name:        "checkout",
		Description: "Pay for the cart and place the order",
		Usage:       "shop checkout [--shipping standard|express] [--payment credit-card|pix|boleto] [address flags]",
		Examples: []string{
			"shop checkout --shipping express --payment pix --name 'Ana Souza' --zip 32600-000 --street 'Rua A' --number 10 --city Betim --state MG",
		},
		Run: checkoutCommand,
	})
}

func cartCommand(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 {
		return showCart(a, nil)
	}
	switch args[0] {
	case "show":
		return showCart(a, args[1:])
	case "add":
		return cartAdd(ctx, a, args[1:])
	case "remove":
		return cartRemove(ctx, a, args[1:])
	case "set":
		return cartSet(ctx, a, args[1:])
	case "clear":
		if err := a.cart.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Cart cleared.")
		return nil
	}
	return fmt.Errorf("unknown cart action %q", args[0])
}

func cartAdd(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: shop cart add <product-id> --size s --color c [--qty n]")
	}
	cmd := &Command{Name: "cart add"}
	fs := cmd.NewFlagSet(a.out)
	size := fs.String("size", "", "size")
	color := fs.String("color", "", "color")
	qty := fs.Int("qty", 1, "quantity, 1 to 10")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	p, err := a.api.Product(ctx, args[0])
	if err != nil {
		return err
	}
	if err := a.shop.AddToCart(ctx, p, *size, *color, *qty); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %s to the cart (%d items).\n", p.Name, a.cart.TotalItems())
	return nil
}

func cartRemove(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: shop cart remove <product-id> [--size s] [--color c]")
	}
	cmd := &Command{Name: "cart remove"}
	fs := cmd.NewFlagSet(a.out)
	size := fs.String("size", "", "size")
	color := fs.String("color", "", "color")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if err := a.shop.Remove(ctx, args[0], *size, *color); err != nil {
		return err
	}
	return showCart(a, nil)
}

func cartSet(ctx context.Context, a *app, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: shop cart set <product-id> <quantity> [--size s] [--color c]")
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("quantity %q is not a number", args[1])
	}
	cmd := &Command{Name: "cart set"}
	fs := cmd.NewFlagSet(a.out)
	size := fs.String("size", "", "size")
	color := fs.String("color", "", "color")
	if err := fs.Parse(args[2:]); err != nil {
		return err
	}
	if err := a.shop.SetQuantity(ctx, args[0], *size, *color, qty); err != nil {
		return err
	}
	return showCart(a, nil)
}

func showCart(a *app, args []string) error {
	cmd := &Command{Name: "cart show"}
	fs := cmd.NewFlagSet(a.out)
	shipping := fs.String("shipping", string(pricing.ShippingStandard), "standard or express")
	if err := fs.Parse(args); err != nil {
		return err
	}
	method, err := pricing.ParseShippingMethod(*shipping)
	if err != nil {
		return err
	}

	lines := a.cart.Lines()
	if len(lines) == 0 {
		fmt.Fprintln(a.out, "Your cart is empty.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tITEM\tSIZE\tCOLOR\tQTY\tPRICE\tTOTAL")
	for _, l := range lines {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n", l.Product.ID, l.Product.Name, l.Size, l.Color,
			l.Quantity, money.Format(l.Product.Price), money.Format(l.Total()))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	t := a.shop.Summary(method)
	fmt.Fprintf(a.out, "\nSubtotal:  %s\n", money.Format(t.Subtotal))
	if t.Discount.IsPositive() {
		fmt.Fprintf(a.out, "Discount:  -%s (%s member)\n", money.Format(t.Discount), t.Tier)
	}
	if t.ShippingSelectable {
		fmt.Fprintf(a.out, "Shipping:  %s (%s)\n", money.Format(t.ShippingCost), t.ShippingMethod)
	} else {
		fmt.Fprintln(a.out, "Shipping:  free for members")
	}
	fmt.Fprintf(a.out, "Total:     %s\n", money.Format(t.GrandTotal))
	if s := t.Savings(); s.IsPositive() {
		fmt.Fprintf(a.out, "You save %s with your membership.\n", money.Format(s))
	}
	return nil
}

func checkoutCommand(ctx context.Context, a *app, args []string) error {
	cmd := &Command{Name: "checkout"}
	fs := cmd.NewFlagSet(a.out)
	in := storefront.CheckoutInput{}
	addr := order.Address{}
	fs.StringVar(&in.ShippingMethod, "shipping", string(pricing.ShippingStandard), "standard or express")
	fs.StringVar(&in.PaymentMethod, "payment", "credit-card", "credit-card, pix or boleto")
	fs.StringVar(&in.Email, "email", "", "email for the confirmation; defaults to the account email")
	fs.StringVar(&addr.FullName, "name", "", "recipient name")
	fs.StringVar(&addr.Phone, "phone", "", "recipient phone")
	fs.StringVar(&addr.ZipCode, "zip", "", "CEP")
	fs.StringVar(&addr.Street, "street", "", "street")
	fs.StringVar(&addr.Number, "number", "", "number")
	fs.StringVar(&addr.Complement, "complement", "", "complement")
	fs.StringVar(&addr.Neighborhood, "neighborhood", "", "neighborhood")
	fs.StringVar(&addr.City, "city", "", "city")
	fs.StringVar(&addr.State, "state", "", "state")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if addr != (order.Address{}) {
		addr.Email = in.Email
		in.Address = &addr
	}

	fmt.Fprintln(a.out, "Processing payment...")
	rc, err := a.shop.Checkout(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Order #%s confirmed. Total paid: %s\n", rc.OrderNumber, money.Format(rc.Total))
	return nil
}
