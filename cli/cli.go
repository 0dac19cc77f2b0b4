package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/jtl/cli/cmd"
	"github.com/ardnew/jtl/lang"
	"github.com/ardnew/jtl/pkg"
)

// baseConfigJSON is the base name of the JSON configuration file, read
// before the YAML one.
const baseConfigJSON = "config.json"

// CLI is the top-level command-line interface for jtl.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"v"`

	Context     []string `help:"YAML context file(s), merged in order."                     placeholder:"FILE" short:"c" type:"existingfile"`
	SchemaFile  string   `help:"Schema file used for completion and validation."            name:"schema" placeholder:"FILE" type:"existingfile"`
	Builtins    bool     `default:"true"                                                    help:"Include the host builtins in the context." negatable:""`
	Placeholder string   `default:"${placeholder}"                                          help:"Text rendered for values that have none."`

	Render   cmd.Render   `cmd:"" default:"withargs" help:"Render templates against the context."`
	Check    cmd.Check    `cmd:""                    help:"Report syntax errors in templates."`
	Complete cmd.Complete `cmd:""                    help:"List completions at a cursor position."`
	Hover    cmd.Hover    `cmd:""                    help:"Describe the property at a cursor position."`
	Fmt      cmd.Fmt      `cmd:""                    help:"Format templates."`
	Schema   cmd.Schema   `cmd:""                    help:"Print the schema of the context."`
	Repl     cmd.Repl     `cmd:""                    help:"Render templates interactively."`
	Init     cmd.Init     `cmd:""                    help:"Initialize configuration file."`
}

// host returns the host configuration selected by the global flags.
func (c *CLI) host() cmd.Host {
	return cmd.Host{
		Contexts:    c.Context,
		SchemaFile:  c.SchemaFile,
		Builtins:    c.Builtins,
		Placeholder: c.Placeholder,
	}
}

// Run executes the jtl CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"version":            pkg.Name + " " + pkg.Version(),
		"placeholder":        lang.DefaultPlaceholder,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(baseConfigJSON)),
		kong.Configuration(resolve(ctx), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithHost(ctx, cli.host())

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	defer cli.Log.start(ctx)()

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
