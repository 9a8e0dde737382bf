// Command seedlabel renders seed packet labels and prints them
// on networked Brother QL label printers.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"janouch.name/seedlabel/config"
	"janouch.name/seedlabel/label"
	"janouch.name/seedlabel/output"
	"janouch.name/seedlabel/ql"
)

const examples = `  seedlabel "Tomato" "Cherry Red" --notes "Heirloom variety"
  seedlabel "Lettuce" "Buttercrunch" --sow-start "Mar" --sow-end "Jul"
  seedlabel "Basil" "Sweet Genovese" --month 3 --year 2024 --red
  seedlabel "Carrot" "Nantes" --printer-ip "192.168.1.100" --model "QL-720NW"`

// app carries the environment of a single run.
type app struct {
	stdout, stderr io.Writer

	// newSubmitter returns the printer driver to use outside of dry runs.
	newSubmitter func(cfg config.Config, log logrus.FieldLogger) output.Submitter
}

func networkSubmitter(cfg config.Config, log logrus.FieldLogger) output.Submitter {
	return &output.NetworkSubmitter{
		DialTimeout:   cfg.DialTimeout,
		StatusTimeout: cfg.StatusTimeout,
		Log:           log,
	}
}

type options struct {
	configPath string
	outputDir  string
	printerIP  string
	model      string
	labelSize  int
	month      int
	year       int
	dryRun     bool
	verbose    bool
}

func newRootCommand(a *app) *cobra.Command {
	var (
		req  label.Request
		opts options
	)
	cmd := &cobra.Command{
		Use:     "seedlabel NAME VARIETY",
		Short:   "Generate and print seed labels on a Brother label printer",
		Example: examples,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return &label.ValidationError{Field: "arguments",
					Reason: fmt.Sprintf(
						"expected NAME and VARIETY, got %d argument(s)", len(args))}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Name, req.Variety = args[0], args[1]

			flags := cmd.Flags()
			if flags.Changed("month") {
				req.Month = &opts.month
			}
			if flags.Changed("year") {
				req.Year = &opts.year
			}

			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if flags.Changed("printer-ip") {
				cfg.PrinterIP = opts.printerIP
			}
			if flags.Changed("model") {
				cfg.Model = opts.model
			}
			if flags.Changed("label-size") {
				cfg.LabelSizeMM = opts.labelSize
			}
			if flags.Changed("output-dir") {
				cfg.OutputDir = opts.outputDir
			}
			if opts.verbose {
				cfg.LogLevel = "debug"
			}
			return a.run(cmd.Context(), cfg, &req, opts.dryRun)
		},
	}
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &label.ValidationError{Field: "flags", Reason: err.Error()}
	})

	f := cmd.Flags()
	f.StringVar(&req.Notes, "notes", "",
		`additional notes, e.g. "Heirloom variety"`)
	f.StringVar(&req.SowStart, "sow-start", "",
		`month to start sowing, e.g. "Mar"`)
	f.StringVar(&req.SowEnd, "sow-end", "",
		`month to end sowing, e.g. "Jul"`)
	f.IntVar(&opts.month, "month", 0, "month of this seed entry, 1-12")
	f.IntVar(&opts.year, "year", 0, "year of this seed entry")
	f.StringVar(&req.QR, "qr", "", "put a QR code with this content on the label")
	f.BoolVar(&req.UseRed, "red", false, "print the variety in red ink")

	f.StringVar(&opts.printerIP, "printer-ip", config.DefaultPrinterIP,
		"IP address of the printer")
	f.StringVar(&opts.model, "model", config.DefaultModel,
		"printer model, one of "+strings.Join(ql.ModelNames(), ", "))
	f.IntVar(&opts.labelSize, "label-size", config.DefaultLabelSizeMM,
		"label size in mm")
	f.BoolVar(&opts.dryRun, "dry-run", false,
		"save the label as images instead of printing it")
	f.StringVar(&opts.outputDir, "output-dir", ".",
		"where to save images in dry-run mode")
	f.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log debugging information")
	return cmd
}

func (a *app) run(ctx context.Context,
	cfg config.Config, req *label.Request, dryRun bool) error {
	log := logrus.New()
	log.SetOutput(a.stderr)
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	req.Normalize()
	if err := req.Validate(); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"name":    req.Name,
		"variety": req.Variety,
	}).Info("generating label")
	if req.Notes != "" {
		log.WithField("notes", req.Notes).Debug("with notes")
	}
	if text := req.SowText(); text != "" {
		log.WithField("sowing", text).Debug("with sowing window")
	}
	if text := req.DateText(); text != "" {
		log.WithField("date", text).Debug("with date")
	}

	renderer, err := label.NewRenderer(cfg.Fonts)
	if err != nil {
		return err
	}
	planes, err := renderer.Render(req)
	if err != nil {
		return err
	}

	d := &output.Dispatcher{
		DryRun:    dryRun,
		OutputDir: cfg.OutputDir,
		Target:    cfg.Target(),
		Log:       log,
	}
	if !dryRun {
		d.Submitter = a.newSubmitter(cfg, log)
	}
	result, err := d.Dispatch(ctx, req, planes)
	if err != nil {
		return err
	}

	for _, path := range result.Paths {
		fmt.Fprintln(a.stdout, "Label saved as:", path)
	}
	if result.Printed {
		fmt.Fprintln(a.stdout, "Label printed successfully!")
	}
	return nil
}

// execute runs the command line and returns the process exit status.
func (a *app) execute(args []string) int {
	cmd := newRootCommand(a)
	cmd.SetArgs(args)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(a.stderr, "error:", err)

		var ve *label.ValidationError
		if errors.As(err, &ve) {
			return 2
		}
		var pe *output.PrinterError
		if errors.As(err, &pe) {
			fmt.Fprintln(a.stderr,
				"Failed to print label. Use --dry-run to save it as an image instead.")
		}
		return 1
	}
	return 0
}

func main() {
	a := &app{
		stdout:       os.Stdout,
		stderr:       os.Stderr,
		newSubmitter: networkSubmitter,
	}
	os.Exit(a.execute(os.Args[1:]))
}
