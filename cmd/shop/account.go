package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/marcotuliovd/betimfc-v0/internal/domain/membership"
	"github.com/marcotuliovd/betimfc-v0/internal/domain/user"
	"github.com/marcotuliovd/betimfc-v0/internal/payment"
)

func registerAccountCommands(r *registry) {
	r.Register(&Command{
		Name:        "register",
		Description: "Create an account and sign in",
		Usage:       "shop register --name n --email e --password p --phone ph --cpf c --accept-terms [--birth-date YYYY-MM-DD] [--news]",
		Run:         registerCommand,
	})
	r.Register(&Command{
		Name:        "login",
		Description: "Sign in",
		Usage:       "shop login --email e --password p",
		Run:         loginCommand,
	})
	r.Register(&Command{
		Name:        "logout",
		Description: "Sign out; the cart is kept",
		Usage:       "shop logout",
		Run:         logoutCommand,
	})
	r.Register(&Command{
		Name:        "whoami",
		Description: "Show the signed-in account and membership",
		Usage:       "shop whoami",
		Run:         whoamiCommand,
	})
	r.Register(&Command{
		Name:        "forgot",
		Description: "Email password recovery instructions",
		Usage:       "shop forgot --email e",
		Run:         forgotCommand,
	})
	r.Register(&Command{
		Name:        "subscribe",
		Description: "Join the fan club or change plan",
		Usage:       "shop subscribe <monthly|quarterly|annual> [--payment credit-card|pix|boleto]",
		Examples:    []string{"shop subscribe quarterly --payment pix"},
		Run:         subscribeCommand,
	})
}

func registerCommand(ctx context.Context, a *app, args []string) error {
	cmd := &Command{Name: "register", Usage: "shop register ..."}
	fs := cmd.NewFlagSet(a.out)
	var reg user.Registration
	fs.StringVar(&reg.Name, "name", "", "full name")
	fs.StringVar(&reg.Email, "email", "", "email")
	fs.StringVar(&reg.Password, "password", "", "password")
	fs.StringVar(&reg.Phone, "phone", "", "phone")
	fs.StringVar(&reg.CPF, "cpf", "", "CPF")
	fs.StringVar(&reg.BirthDate, "birth-date", "", "birth date, YYYY-MM-DD")
	fs.BoolVar(&reg.AcceptTerms, "accept-terms", false, "accept the terms of use")
	fs.BoolVar(&reg.ReceiveNews, "news", false, "receive club news")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case reg.Name == "" || reg.Email == "" || reg.Password == "":
		return errors.New("--name, --email and --password are required")
	case reg.Phone == "" || reg.CPF == "":
		return errors.New("--phone and --cpf are required")
	case !reg.AcceptTerms:
		return errors.New("you must --accept-terms")
	}

	if !a.session.Register(ctx, reg) {
		return errors.New("registration failed")
	}
	return whoamiCommand(ctx, a, nil)
}

func loginCommand(ctx context.Context, a *app, args []string) error {
	cmd := &Command{Name: "login", Usage: "shop login --email e --password p"}
	fs := cmd.NewFlagSet(a.out)
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return errors.New("--email and --password are required")
	}

	if !a.session.Login(ctx, *email, *password) {
		return errors.New("login failed")
	}
	return whoamiCommand(ctx, a, nil)
}

func logoutCommand(ctx context.Context, a *app, _ []string) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

func whoamiCommand(_ context.Context, a *app, _ []string) error {
	id, ok := a.session.Identity()
	if !ok {
		fmt.Fprintln(a.out, "Not signed in.")
		return nil
	}
	fmt.Fprintf(a.out, "%s <%s>\n", id.Name, id.Email)
	tier := id.CurrentMembership()
	if !tier.IsMember() {
		fmt.Fprintln(a.out, "Membership: none")
		return nil
	}
	fmt.Fprintf(a.out, "Membership: %s", tier)
	if id.MembershipExpiresAt != nil {
		fmt.Fprintf(a.out, " (until %s)", id.MembershipExpiresAt.Format("2006-01-02"))
	}
	fmt.Fprintln(a.out)
	return nil
}

func forgotCommand(ctx context.Context, a *app, args []string) error {
	cmd := &Command{Name: "forgot", Usage: "shop forgot --email e"}
	fs := cmd.NewFlagSet(a.out)
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return errors.New("--email is required")
	}
	if err := a.api.ForgotPassword(ctx, *email); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "If %s has an account, recovery instructions are on their way.\n", *email)
	return nil
}

func subscribeCommand(ctx context.Context, a *app, args []string) error {
	cmd := &Command{Name: "subscribe", Usage: "shop subscribe <plan> [--payment method]"}
	fs := cmd.NewFlagSet(a.out)
	method := fs.String("payment", string(payment.MethodCreditCard), "credit-card, pix or boleto")
	if len(args) == 0 {
		return errors.New("usage: shop subscribe <monthly|quarterly|annual> [--payment method]")
	}
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	pm, err := payment.ParseMethod(*method)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Processing payment...")
	id, err := a.shop.Subscribe(ctx, membership.Parse(args[0]), pm)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome to the club! You are now a %s member.\n", id.CurrentMembership())
	return nil
}
