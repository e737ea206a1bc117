// recipebox keeps a personal recipe collection.
//
// Usage:
//
//	recipebox [-c config.yaml] [-v|-q] <command>
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/hammamikhairi/recipebox/internal/domain"
)

var version = "dev"

// CLI is the root command: global flags plus subcommands.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file path (default: user config dir)" type:"path"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	Quiet     bool             `short:"q" help:"Disable all logging"`
	Driver    string           `help:"Storage driver: memory, file, bolt, sqlite, badger, redis"`
	Path      string           `help:"Storage path (file, directory or database, by driver)"`
	LogFile   string           `name:"log-file" help:"File to write logs to (\"stderr\" logs to console)"`
	Ephemeral bool             `help:"Use an in-memory store; nothing is saved"`
	Version   kong.VersionFlag `help:"Show version and exit"`

	List   ListCmd   `cmd:"" help:"List recipes"`
	Show   ShowCmd   `cmd:"" help:"Show a recipe scaled to a serving count"`
	Add    AddCmd    `cmd:"" help:"Add a recipe"`
	Import ImportCmd `cmd:"" help:"Import recipes from a YAML or JSON file"`
	Delete DeleteCmd `cmd:"" help:"Delete a recipe"`
	Seed   SeedCmd   `cmd:"" help:"Add the sample recipes"`
	Browse BrowseCmd `cmd:"" help:"Browse recipes in the terminal"`
	Serve  ServeCmd  `cmd:"" help:"Serve the HTTP API"`
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", domain.UserMessage(err))
		os.Exit(1)
	}
}

// run parses args and executes the selected command.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("recipebox"),
		kong.Description("A personal recipe keeper."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Vars{"version": version},
	)
	if err != nil {
		return err
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		var pe *kong.ParseError
		if errors.As(err, &pe) && pe.Context != nil {
			_ = pe.Context.PrintUsage(true)
		}
		return err
	}
	return kctx.Run(&Globals{ctx: ctx, cli: &cli, out: stdout, errOut: stderr})
}
