package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/gompdf/boxpdf/internal/config"
	"github.com/gompdf/boxpdf/pkg/api"
)

type envKey struct{}

// env keeps the program state shared by the commands.
type env struct {
	cfg   *config.Config
	log   *config.Logger
	start time.Time
}

func envFromContext(ctx context.Context) *env {
	if e, ok := ctx.Value(envKey{}).(*env); ok {
		return e
	}
	panic("env not found in context")
}

// initializeAppContext prepares configuration and logging after the command
// line has been parsed
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.NArg() == 0 {
		return ctx, nil
	}
	e := envFromContext(ctx)

	var err error
	configFile := cmd.String("config")
	if e.cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if e.log, err = e.cfg.Logging.Prepare(); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	e.log.Debug("Program started", zap.Strings("args", os.Args), zap.String("runtime", runtime.Version()))
	if len(configFile) == 0 {
		e.log.Info("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	e := envFromContext(ctx)
	if e.log == nil {
		return nil
	}
	e.log.Debug("Program ended", zap.Duration("elapsed", time.Since(e.start)), zap.Strings("parsed args", cmd.Args().Slice()))
	if er := e.log.Close(); er != nil {
		err = multierr.Append(err, er)
	}
	return err
}

var errWasHandled bool

func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	if e := envFromContext(ctx); e.log != nil {
		e.log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(
		context.WithValue(context.Background(), envKey{}, &env{start: time.Now()}),
		os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            config.AppName,
		Usage:           "prints styled HTML box trees to paginated PDF",
		Version:         runtime.Version(),
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (YAML)"},
		},
		Commands: []*cli.Command{
			{
				Name:         "print",
				Usage:        "Prints an HTML file or URL to PDF",
				OnUsageError: usageErrorHandler,
				Action:       runPrint,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "fonts", Usage: "font manifest `LOCATION` (directory or URL holding fonts.json)"},
					&cli.StringFlag{Name: "format", Usage: "page `FORMAT` (A3, A4, A5, Letter, Legal)"},
					&cli.BoolFlag{Name: "landscape", Usage: "use landscape pages"},
					&cli.StringFlag{Name: "title", Usage: "document `TITLE`"},
					&cli.BoolFlag{Name: "outlines", Usage: "draw debug outlines around text and images"},
				},
				ArgsUsage: "SOURCE [DESTINATION]",
				CustomHelpTemplate: fmt.Sprintf(`%s
SOURCE:
    path to an HTML file or an http(s) URL

DESTINATION:
    output file name, "-" writes the PDF to STDOUT
    if absent - configured file name or a name derived from the document title
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "dumpconfig",
				Usage:        "Dumps either default or actual configuration (YAML)",
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
			},
		},
	}

	var err error
	defer func() {
		stop()
		if err != nil {
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func runPrint(ctx context.Context, cmd *cli.Command) error {
	e := envFromContext(ctx)
	log := e.log.Logger

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no source has been specified")
	}
	dst := cmd.Args().Get(1)
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	options := e.cfg.PrinterOptions(log)
	if v := cmd.String("fonts"); v != "" {
		options.FontPath = v
	}
	if v := cmd.String("format"); v != "" {
		options.Backend.Format = v
	}
	if cmd.Bool("landscape") {
		options.Backend.Orientation = api.OrientationLandscape
	}
	if v := cmd.String("title"); v != "" {
		options.Title = v
	}
	if cmd.Bool("outlines") {
		options.Debug = true
	}
	if dst != "" && dst != "-" {
		options.Filename = dst
	}

	var target api.Target
	if dst == "-" {
		if e.cfg.Logging.ConsoleLogger.Level != "none" {
			return errors.New("printing to STDOUT requires console logging level none")
		}
		target = api.WriterTarget{W: os.Stdout}
	}

	printer := api.NewWithOptions(options)
	var (
		result *api.Result
		err    error
	)
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		result, err = printer.PrintURL(ctx, src, target)
	} else {
		result, err = printer.PrintFile(ctx, src, target)
	}
	if err != nil {
		return fmt.Errorf("unable to print %s: %w", src, err)
	}
	if result == nil {
		return errors.New("nothing printed, configure a font path")
	}
	log.Info("Printed", zap.String("source", src), zap.String("destination", result.Path), zap.Int("pages", result.Pages))
	return nil
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) (err error) {
	e := envFromContext(ctx)
	if cmd.Args().Len() > 1 {
		e.log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}
	fname := cmd.Args().Get(0)

	out := os.Stdout
	if len(fname) > 0 {
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer func() {
			err = multierr.Append(err, out.Close())
		}()
	}

	var (
		data  []byte
		state string
	)
	if cmd.Bool("default") {
		state = "default"
		data = config.Prepare()
	} else {
		state = "actual"
		if data, err = config.Dump(e.cfg); err != nil {
			return fmt.Errorf("unable to get configuration: %w", err)
		}
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	e.log.Info("Writing configuration", zap.String("state", state), zap.String("file", fname))

	if _, err = out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
