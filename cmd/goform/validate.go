package main

import (
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	goform "github.com/reoring/goform"
	"github.com/reoring/goform/i18n"
	"github.com/reoring/goform/load"
)

// errInvalid is returned when the input failed validation; main maps it to
// exit status 1.
var errInvalid = errors.New("input is invalid")

func newValidateCmd(cfgFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an input document against a schema",
		Long: `Validates an input document against a schema document and prints the
errors. The input is read from stdin as JSON when --input is "-".

Examples:
  goform validate --schema form.yaml --input post.json
  goform validate --schema form.yaml --format json --stop-on-error=false < post.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig(*cfgFile, cmd)
			if err != nil {
				return err
			}
			return runValidate(cmd, cfg)
		},
	}
	d := goform.DefaultOptions()
	f := cmd.Flags()
	f.String("schema", "", "schema document")
	f.String("input", "-", `input document ("-" reads JSON from stdin)`)
	f.String("defaults", "", "document with default values")
	f.String("format", "text", "output format: text or json")
	f.String("lang", "en", "message language: en or ja")
	f.Bool("use-default", d.UseDefault, "fall back to default values for missing fields")
	f.Bool("stop-on-error", d.StopOnError, "stop a field's rules at the first failure")
	f.Bool("allow-empty", d.AllowEmpty, "skip the rules of empty optional fields")
	f.Bool("ignore-extraneous", d.IgnoreExtraneous, "do not report fields without rules")
	return cmd
}

type report struct {
	RunID  string          `json:"run_id"`
	Valid  bool            `json:"valid"`
	Errors goform.ErrorTree `json:"errors"`
	Values map[string]any  `json:"values"`
}

func runValidate(cmd *cobra.Command, cfg *Config) error {
	if cfg.Schema == "" {
		return errors.New("--schema is required")
	}
	log, err := newLogger(cfg.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	runID := uuid.NewString()
	log = log.With(zap.String("run_id", runID))
	i18n.SetLanguage(cfg.Lang)

	v, err := load.SchemaFile(cfg.Schema,
		goform.WithLogger(log),
		goform.WithOptions(goform.WithAll(cfg.Options.options())))
	if err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	if cfg.Defaults != "" {
		defaults, err := load.ValuesFile(cfg.Defaults)
		if err != nil {
			return fmt.Errorf("defaults: %w", err)
		}
		v.SetValues(defaults)
	}
	input, err := readInput(cmd.InOrStdin(), cfg.Input)
	if err != nil {
		return fmt.Errorf("input: %w", err)
	}

	ok, err := v.Validate(input)
	if err != nil {
		return err
	}
	log.Debug("validated", zap.Bool("valid", ok), zap.Int("failed_fields", len(v.Errors())))

	if err := write(cmd.OutOrStdout(), cfg.Format, report{RunID: runID, Valid: ok, Errors: v.Errors(), Values: v.Values()}); err != nil {
		return err
	}
	if !ok {
		return errInvalid
	}
	return nil
}

func readInput(stdin io.Reader, path string) (map[string]any, error) {
	if path != "-" {
		return load.ValuesFile(path)
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, err
	}
	return load.Values(data, load.JSON)
}

func write(w io.Writer, format string, r report) error {
	if format == "json" {
		b, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}
	if r.Valid {
		_, err := fmt.Fprintln(w, "valid")
		return err
	}
	for _, is := range r.Errors.Issues() {
		if _, err := fmt.Fprintf(w, "%s: %s (%s)\n", is.Path, is.Message, is.Code); err != nil {
			return err
		}
	}
	return nil
}
