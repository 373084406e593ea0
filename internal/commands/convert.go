package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/releve-dev/releve/internal/config"
	"github.com/releve-dev/releve/internal/doc"
	"github.com/releve-dev/releve/internal/export"
	"github.com/releve-dev/releve/internal/logging"
	"github.com/releve-dev/releve/internal/pdftotext"
	"github.com/releve-dev/releve/internal/record"
	"github.com/releve-dev/releve/internal/statement"
)

type convertOptions struct {
	profile      string
	language     string
	format       string
	output       string
	templatePath string
	labelsPath   string
	layoutPath   string
	reward       float64
	extraReward  float64
	skip         []string
	strict       bool
}

func newConvertCommand(verbose *bool) *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "convert <statement>",
		Short: "Convert a statement PDF (or pdftotext bbox XML) to the chosen format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.New(cmd.ErrOrStderr(), *verbose)

			data, err := loadInput(cmd, args[0])
			if err != nil {
				return err
			}

			out, err := runConvert(data, opts, log)
			if err != nil {
				return err
			}

			if opts.output == "" || opts.output == "-" {
				_, werr := cmd.OutOrStdout().Write(out)
				return werr
			}
			return os.WriteFile(opts.output, out, 0o644)
		},
	}

	cmd.Flags().StringVar(&opts.profile, "input", "credit", "statement kind (credit, account)")
	cmd.Flags().StringVar(&opts.language, "language", "fr", "locale of the built-in label set")
	cmd.Flags().StringVar(&opts.format, "format", "ofx", "output format (ofx, csv, pretty)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.templatePath, "template", "", "geometry template YAML overriding the profile default")
	cmd.Flags().StringVar(&opts.labelsPath, "labels", "", "locale labels YAML (default built-in French)")
	cmd.Flags().StringVar(&opts.layoutPath, "layout", "", "account layout YAML overriding the built-in one")
	cmd.Flags().Float64Var(&opts.reward, "reward", 0, "base reward percentage")
	cmd.Flags().Float64Var(&opts.extraReward, "extra-reward", 0, "extra reward percentage past the volume threshold")
	cmd.Flags().StringSliceVar(&opts.skip, "skip", nil, "transaction IDs excluded from volume and reward")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail on unexplained reward residue above one cent")

	return cmd
}

// loadInput reads the statement: PDFs go through pdftotext, anything
// else is assumed to already be bbox XML.
func loadInput(cmd *cobra.Command, path string) ([]byte, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		if !pdftotext.Available() {
			return nil, fmt.Errorf("pdftotext not found on PATH; convert the PDF with `pdftotext -bbox` first")
		}
		return pdftotext.Extract(cmd.Context(), path)
	}
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading statement: %w", err)
	}
	return data, nil
}

// runConvert is the whole pipeline: parse, reconcile, render. Nothing
// is written unless every stage succeeds.
func runConvert(data []byte, opts convertOptions, log zerolog.Logger) ([]byte, error) {
	profile := statement.DefaultRegistry().Get(opts.profile)
	if profile == nil {
		return nil, fmt.Errorf("unknown profile %q (have: %s)",
			opts.profile, strings.Join(statement.DefaultRegistry().Names(), ", "))
	}

	format, ok := export.ParseFormat(opts.format)
	if !ok {
		return nil, fmt.Errorf("unknown format %q", opts.format)
	}

	pc, err := parseConfigFor(profile, opts, log)
	if err != nil {
		return nil, err
	}

	stmt, err := doc.Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("loading statement: %w", err)
	}

	res, err := profile.Parse(stmt, pc)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("profile", profile.Name()).
		Int("records", len(res.Records)).
		Msg("statement parsed")

	res.Options.Rate = decimal.NewFromFloat(opts.reward)
	res.Options.ExtraRate = decimal.NewFromFloat(opts.extraReward)
	res.Options.Strict = opts.strict
	if len(opts.skip) > 0 {
		res.Options.Skip = make(map[string]bool, len(opts.skip))
		for _, id := range opts.skip {
			res.Options.Skip[id] = true
		}
	}

	records, sum, err := record.Reconcile(res.Records, res.Options)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	exported := export.FromResult(res, records, sum)
	switch format {
	case export.FormatOFX:
		err = export.WriteOFX(&buf, exported)
	case export.FormatCSV:
		err = export.WriteCSV(&buf, exported)
	case export.FormatPretty:
		err = export.WritePretty(&buf, exported)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// parseConfigFor assembles the profile's parse configuration from the
// built-in defaults and any override files.
func parseConfigFor(profile statement.Profile, opts convertOptions, log zerolog.Logger) (statement.ParseConfig, error) {
	pc := statement.ParseConfig{
		Template:      profile.Template(),
		AccountLayout: config.DefaultAccountLayout(),
		CreditLayout:  config.DefaultCreditLayout(),
		Log:           log,
	}

	switch opts.language {
	case "", "fr":
		pc.Labels = config.French()
	default:
		if opts.labelsPath == "" {
			return pc, fmt.Errorf("no built-in labels for language %q; supply --labels", opts.language)
		}
	}

	var err error
	if opts.templatePath != "" {
		if pc.Template, err = config.Load(opts.templatePath); err != nil {
			return pc, err
		}
	}
	if opts.labelsPath != "" {
		if pc.Labels, err = config.LoadLabels(opts.labelsPath); err != nil {
			return pc, err
		}
	}
	if opts.layoutPath != "" {
		if pc.AccountLayout, err = config.LoadAccountLayout(opts.layoutPath); err != nil {
			return pc, err
		}
	}
	return pc, nil
}
