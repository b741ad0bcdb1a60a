package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/marcotuliovd/betimfc-v0/internal/domain/money"
	"github.com/marcotuliovd/betimfc-v0/internal/domain/product"
)

func registerCatalogCommands(r *registry) {
	r.Register(&Command{
		Name:        "products",
		Description: "List the shop, optionally filtered",
		Usage:       "shop products [--category name] [--gender men|women|kids|unisex]",
		Examples:    []string{"shop products", "shop products --category Camisas --gender women"},
		Run:         productsCommand,
	})
	r.Register(&Command{
		Name:        "product",
		Description: "Show one product with its sizes and colors",
		Usage:       "shop product <id>",
		Run:         productCommand,
	})
	r.Register(&Command{
		Name:        "categories",
		Description: "List shop categories and genders",
		Usage:       "shop categories",
		Run:         categoriesCommand,
	})
	r.Register(&Command{
		Name:        "plans",
		Description: "List fan club plans",
		Usage:       "shop plans",
		Run:         plansCommand,
	})
}

func productsCommand(ctx context.Context, a *app, args []string) error {
	cmd := &Command{Name: "products", Usage: "shop products [--category name] [--gender g]"}
	fs := cmd.NewFlagSet(a.out)
	categoryName := fs.String("category", "", "category name; empty or Todas lists every category")
	gender := fs.String("gender", "", "men, women, kids or unisex")
	if err := fs.Parse(args); err != nil {
		return err
	}

	items := a.api.Products(ctx, *categoryName, *gender)
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No products found.")
		return nil
	}

	tier := a.session.CurrentMembership()
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	if tier.IsMember() {
		fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tMEMBER PRICE\tSTOCK")
	} else {
		fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK")
	}
	for _, p := range items {
		if tier.IsMember() {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Category,
				money.Format(p.Price), money.Format(a.shop.MemberPrice(p)), stockLabel(p))
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Category, money.Format(p.Price), stockLabel(p))
	}
	return tw.Flush()
}

func stockLabel(p product.Product) string {
	if p.InStock {
		return "in stock"
	}
	return "sold out"
}

func productCommand(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: shop product <id>")
	}
	p, err := a.api.Product(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s (#%s)\n", p.Name, p.ID)
	if p.Description != "" {
		fmt.Fprintf(a.out, "%s\n", p.Description)
	}
	fmt.Fprintf(a.out, "Price:    %s", money.Format(p.Price))
	if p.OriginalPrice != nil {
		fmt.Fprintf(a.out, " (was %s)", money.Format(*p.OriginalPrice))
	}
	fmt.Fprintln(a.out)
	if a.session.CurrentMembership().IsMember() {
		fmt.Fprintf(a.out, "Member:   %s\n", money.Format(a.shop.MemberPrice(p)))
	}
	fmt.Fprintf(a.out, "Category: %s / %s\n", p.Category, p.Gender)
	fmt.Fprintf(a.out, "Sizes:    %s\n", strings.Join(p.Sizes, ", "))
	fmt.Fprintf(a.out, "Colors:   %s\n", strings.Join(p.Colors, ", "))
	fmt.Fprintf(a.out, "Stock:    %s\n", stockLabel(p))
	return nil
}

func categoriesCommand(ctx context.Context, a *app, _ []string) error {
	f, err := a.api.Categories(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tPRODUCTS")
	for _, c := range f.Categories {
		fmt.Fprintf(tw, "%s\t%d\n", c.Name, c.Products)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	genders := make([]string, len(f.Genders))
	for i, g := range f.Genders {
		genders[i] = string(g)
	}
	fmt.Fprintf(a.out, "\nGenders: %s\n", strings.Join(genders, ", "))
	return nil
}

func plansCommand(ctx context.Context, a *app, _ []string) error {
	plans, err := a.api.Plans(ctx)
	if err != nil {
		return err
	}
	for _, p := range plans {
		title := p.Name
		if p.Popular {
			title += " (most popular)"
		}
		fmt.Fprintf(a.out, "%s [%s]\n", title, p.Tier)
		fmt.Fprintf(a.out, "  %s per %s", money.Format(p.Price), p.Period)
		if p.ListPrice != nil {
			fmt.Fprintf(a.out, " (was %s)", money.Format(*p.ListPrice))
		}
		fmt.Fprintln(a.out)
		fmt.Fprintf(a.out, "  store discount %s%%, ticket discount %s%%, free tickets %d",
			p.StoreDiscount.Shift(2).String(), p.TicketDiscount.Shift(2).String(), p.FreeTickets)
		if p.ShippingWaived {
			fmt.Fprint(a.out, ", free shipping")
		}
		fmt.Fprintln(a.out)
	}
	return nil
}
