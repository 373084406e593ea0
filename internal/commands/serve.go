package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/releve-dev/releve/internal/logging"
)

func newServeCommand(verbose *bool) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an HTTP conversion service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.New(cmd.ErrOrStderr(), *verbose)
			app := newServer(log)
			log.Info().Str("addr", addr).Msg("listening")
			return app.Listen(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	return cmd
}

// newServer builds the fiber app. POST /convert takes a multipart
// upload in "statement" (pdftotext bbox XML) plus the convert flags
// as form fields and returns the converted document.
func newServer(log zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             32 << 20,
	})

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	app.Post("/convert", func(c *fiber.Ctx) error {
		reqID := uuid.NewString()
		reqLog := log.With().Str("request_id", reqID).Logger()
		c.Set("X-Request-Id", reqID)

		file, err := c.FormFile("statement")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "missing statement upload")
		}
		f, err := file.Open()
		if err != nil {
			return fmt.Errorf("opening upload: %w", err)
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return fmt.Errorf("reading upload: %w", err)
		}

		opts, err := formOptions(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		out, err := runConvert(data, opts, reqLog)
		if err != nil {
			reqLog.Warn().Err(err).Msg("conversion failed")
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}

		reqLog.Info().
			Str("profile", opts.profile).
			Str("format", opts.format).
			Int("bytes", len(out)).
			Msg("statement converted")
		c.Set(fiber.HeaderContentType, contentType(opts.format))
		return c.Send(out)
	})

	return app
}

// formOptions reads the convert knobs from form fields. The YAML
// override files (--template, --labels, --layout) stay CLI-only.
func formOptions(c *fiber.Ctx) (convertOptions, error) {
	opts := convertOptions{
		profile:  formValue(c, "input", "credit"),
		language: c.FormValue("language"),
		format:   formValue(c, "format", "ofx"),
		strict:   c.FormValue("strict") == "true",
	}
	if v := c.FormValue("skip"); v != "" {
		opts.skip = strings.Split(v, ",")
	}
	var err error
	if opts.reward, err = formFloat(c, "reward"); err != nil {
		return opts, err
	}
	if opts.extraReward, err = formFloat(c, "extra_reward"); err != nil {
		return opts, err
	}
	return opts, nil
}

func formValue(c *fiber.Ctx, key, fallback string) string {
	if v := c.FormValue(key); v != "" {
		return v
	}
	return fallback
}

func formFloat(c *fiber.Ctx, key string) (float64, error) {
	v := c.FormValue(key)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return f, nil
}

func contentType(format string) string {
	switch format {
	case "csv":
		return "text/csv"
	case "pretty":
		return fiber.MIMETextPlainCharsetUTF8
	}
	return "application/x-ofx"
}
