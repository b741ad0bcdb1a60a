package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Command is one shop subcommand.
type Command struct {
	Name        string
	Description string
	Usage       string
	Examples    []string
	Run         func(ctx context.Context, a *app, args []string) error
}

// NewFlagSet returns a flag set that reports errors instead of exiting.
func (c *Command) NewFlagSet(out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(c.Name, flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() { c.PrintUsage(out) }
	return fs
}

func (c *Command) PrintUsage(w io.Writer) {
	fmt.Fprintf(w, "%s\n\nUSAGE:\n    %s\n", c.Description, c.Usage)
	if len(c.Examples) > 0 {
		fmt.Fprintf(w, "\nEXAMPLES:\n")
		for _, ex := range c.Examples {
			fmt.Fprintf(w, "    %s\n", ex)
		}
	}
}

type registry struct {
	commands map[string]*Command
}

func newRegistry() *registry {
	return &registry{commands: map[string]*Command{}}
}

func (r *registry) Register(c *Command) {
	r.commands[c.Name] = c
}

func (r *registry) Execute(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		if len(args) > 1 {
			if c, ok := r.commands[args[1]]; ok {
				c.PrintUsage(a.out)
				return nil
			}
		}
		r.printHelp(a.out)
		return nil
	}
	c, ok := r.commands[args[0]]
	if !ok {
		r.printHelp(a.out)
		return fmt.Errorf("unknown command %q", args[0])
	}
	return c.Run(ctx, a, args[1:])
}

func (r *registry) printHelp(w io.Writer) {
	names := make([]string, 0, len(r.commands))
	width := 0
	for name := range r.commands {
		names = append(names, name)
		width = max(width, len(name))
	}
	sort.Strings(names)

	fmt.Fprintln(w, "shop - club storefront from the terminal")
	fmt.Fprintln(w, "\nUSAGE:\n    shop <command> [flags] [arguments]")
	fmt.Fprintln(w, "\nCOMMANDS:")
	for _, name := range names {
		fmt.Fprintf(w, "    %s%s  %s\n", name, strings.Repeat(" ", width-len(name)), r.commands[name].Description)
	}
	fmt.Fprintln(w, "\nRun 'shop help <command>' for details.")
}
