package cli

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/ftmpl/cli/cmd"
	"github.com/ardnew/ftmpl/lang"
	"github.com/ardnew/ftmpl/log"
	"github.com/ardnew/ftmpl/pkg"
	"github.com/ardnew/ftmpl/registry"
)

// CLI is the top-level command-line interface for ftmpl.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Registry     string `env:"FTMPL_REGISTRY"    help:"Feature registry file (YAML or JSON); the built-in demo registry if empty." short:"r" type:"path"`
	MaxDepth     int    `default:"${maxDepth}"     help:"Maximum template nesting depth (0 disables)."`
	MaxInstances uint64 `default:"${maxInstances}" help:"Maximum composites per template (0 disables)."`

	Compile  cmd.Compile  `cmd:"" default:"withargs" help:"Compile templates to composite instances"`
	AST      cmd.AST      `cmd:"" help:"Print the syntax tree of a template" name:"ast"`
	Count    cmd.Count    `cmd:"" help:"Count composites without compiling"`
	Features cmd.Features `cmd:"" help:"List registered features"`
	Extract  cmd.Extract  `cmd:"" help:"Extract feature keys from a token sequence"`
	Repl     cmd.Repl     `cmd:"" help:"Start an interactive session"`
	Init     cmd.Init     `cmd:"" help:"Initialize configuration file"`
}

// Run executes the ftmpl CLI with the given context and arguments.
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
		"version":            pkg.Version,
		"maxDepth":           strconv.Itoa(lang.DefaultMaxDepth),
		"maxInstances":       strconv.FormatUint(lang.DefaultMaxInstances, 10),
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Configure the logger before parsing so that parse errors are reported
	// in the requested format.
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

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// No-op unless built with tag pprof and enabled
	defer cli.Pprof.start(ctx)()

	reg, err := cli.loadRegistry(ctx)
	if err != nil {
		return err
	}

	logger := log.Default()

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithEnv(ctx, cmd.Env{
		Registry: reg,
		Logger:   logger,
		Options: []lang.Option{
			lang.WithMaxDepth(cli.MaxDepth),
			lang.WithMaxInstances(cli.MaxInstances),
			lang.WithLogger(logger),
		},
	})

	return ktx.Run(ctx, &cli)
}

// loadRegistry reads the registry named by --registry, or returns the demo
// registry if none is named.
func (c *CLI) loadRegistry(ctx context.Context) (*registry.Table, error) {
	if c.Registry == "" {
		log.DebugContext(ctx, "using demo registry")

		return registry.Demo(), nil
	}

	reg, err := registry.LoadFile(ctx, c.Registry)
	if err != nil {
		return nil, err
	}

	log.DebugContext(ctx, "registry loaded",
		slog.String("path", c.Registry),
		slog.Int("features", reg.Len()),
	)

	return reg, nil
}
