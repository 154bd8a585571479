package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"booking-flow/internal/configs"
	"booking-flow/internal/models"
	"booking-flow/internal/pricing"
	"booking-flow/internal/repository"
	"booking-flow/internal/service"
	"booking-flow/internal/validation"
)

type flags struct {
	kind     string
	file     string
	asJSON   bool
	validate bool
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a booking draft",
		Long: "Reads a draft JSON document and prints its price breakdown under the configured rates.\n" +
			"Kinds: " + kindNames() + ".",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.InOrStdin(), cmd.OutOrStdout(), f)
		},
	}
	cmd.Flags().StringVarP(&f.kind, "kind", "k", "", "booking kind")
	cmd.Flags().StringVarP(&f.file, "file", "f", "-", "draft JSON file, - for stdin")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "print the quote as JSON")
	cmd.Flags().BoolVar(&f.validate, "validate", false, "also report invalid fields")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

func run(in io.Reader, out io.Writer, f *flags) error {
	kind, ok := models.ParseKind(f.kind)
	if !ok {
		return fmt.Errorf("unknown kind %q, want one of %s", f.kind, kindNames())
	}
	raw, err := readDraft(in, f.file)
	if err != nil {
		return err
	}

	cfg, err := configs.LoadConfig()
	if err != nil {
		return err
	}
	// quoting needs no storage
	repo := &repository.Repository{}
	svc := service.NewService(repo, validation.NewGate(), service.WithRates(cfg.Rates()))

	q, err := svc.Quote(kind, raw)
	if err != nil {
		return err
	}
	if f.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(q); err != nil {
			return err
		}
	} else {
		printQuote(out, q)
	}

	if f.validate {
		return reportValidation(out, svc, kind, raw)
	}
	return nil
}

func readDraft(in io.Reader, file string) ([]byte, error) {
	if file == "" || file == "-" {
		return io.ReadAll(in)
	}
	return os.ReadFile(file)
}

func reportValidation(out io.Writer, svc *service.Service, kind models.Kind, raw []byte) error {
	res, err := svc.Validate(kind, raw)
	if err != nil {
		return err
	}
	if res.Valid {
		fmt.Fprintln(out, "draft is valid")
		return nil
	}
	for _, field := range res.Fields() {
		fmt.Fprintf(out, "  %s: %s\n", field, res.FieldErrors[field])
	}
	return res.Err()
}

func printQuote(out io.Writer, q pricing.Quote) {
	for _, l := range q.Lines {
		fmt.Fprintf(out, "%-24s %12s\n", l.Label, money(l.Amount))
	}
	if q.Shipping > 0 {
		fmt.Fprintf(out, "%-24s %12s\n", "shipping", money(q.Shipping))
	}
	if q.Tax > 0 {
		fmt.Fprintf(out, "%-24s %12s\n", "tax", money(q.Tax))
	}
	fmt.Fprintf(out, "%-24s %12s\n", "total", money(q.Total))
}

func money(minor int64) string {
	sign := ""
	if minor < 0 {
		sign, minor = "-", -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

func kindNames() string {
	names := make([]string, 0, len(models.Kinds))
	for _, k := range models.Kinds {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}
