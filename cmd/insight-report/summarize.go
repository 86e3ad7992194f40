package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/okian/cohortinsights/internal/adapters/http/client"
	"github.com/okian/cohortinsights/internal/adapters/mq/worker"
	service "github.com/okian/cohortinsights/internal/app"
	"github.com/okian/cohortinsights/internal/config"
	"github.com/okian/cohortinsights/internal/domain/insight"
	"github.com/okian/cohortinsights/internal/domain/model"
	"github.com/okian/cohortinsights/internal/domain/report"
	"github.com/okian/cohortinsights/pkg/logger"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

type summarizeOptions struct {
	fixture  string
	company  model.CompanyFilter
	program  string
	cohort   string
	from, to string
	asJSON   bool
	generate bool
	endpoint string
	token    string
	out      string
}

func newSummarizeCmd() *cobra.Command {
	var o summarizeOptions
	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Print the insight prompt of a cohort",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSummarize(cmd, o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.fixture, "fixture", "", "YAML dataset (required)")
	f.StringVar(&o.company.CompanyID, "company-id", "", "Company id")
	f.StringVar(&o.company.AccountName, "account-name", "", "Account name used to match rows")
	f.StringVar(&o.company.CompanyName, "company-name", "", "Company display name")
	f.StringVar(&o.program, "program", string(model.ProgramScale), "Program type (SCALE or GROW)")
	f.StringVar(&o.cohort, "cohort", "all", "Cohort display name or \"all\"")
	f.StringVar(&o.from, "from", "", "Window start (YYYY-MM-DD)")
	f.StringVar(&o.to, "to", "", "Window end, inclusive (YYYY-MM-DD)")
	f.BoolVar(&o.asJSON, "json", false, "Print the dashboard as JSON instead of the prompt")
	f.BoolVar(&o.generate, "generate", false, "Generate insights after printing the prompt")
	f.StringVar(&o.endpoint, "endpoint", "", "Insight service base URL; the local provider is used when empty")
	f.StringVar(&o.token, "token", os.Getenv("INSIGHTS_TOKEN"), "Bearer token for --endpoint")
	f.StringVar(&o.out, "out", "", "Directory to write the text export to (requires --generate)")
	_ = cmd.MarkFlagRequired("fixture")

	return cmd
}

func runSummarize(cmd *cobra.Command, o summarizeOptions) error {
	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	if o.company.IsZero() {
		return errors.New("one of --company-id, --account-name or --company-name is required")
	}
	if o.out != "" && !o.generate {
		return errors.New("--out requires --generate")
	}
	program := strings.ToUpper(strings.TrimSpace(o.program))
	if program != string(model.ProgramScale) && program != string(model.ProgramGrow) {
		return fmt.Errorf("unknown --program %q", o.program)
	}
	window, err := parseWindow(o.from, o.to)
	if err != nil {
		return err
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	cfg.DataDriver = config.DriverMemory
	cfg.FixturePath = o.fixture

	store, err := service.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	log := logger.Get()
	gen, err := generator(cfg, o, log)
	if err != nil {
		return err
	}
	svc := service.New(store, gen, service.Options(cfg, log.Named("service"))...)

	d, err := svc.Dashboard(ctx, service.Query{
		Company: o.company,
		Program: model.ParseProgramType(program),
		Cohort:  o.cohort,
		Window:  window,
	})
	if err != nil {
		return err
	}

	if o.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(d); err != nil {
			return err
		}
	} else {
		fmt.Fprint(w, d.Prompt)
	}
	if !o.generate {
		return nil
	}

	res, err := svc.GenerateInsight(ctx, insight.Request{
		CompanyName:  d.Summary.CompanyName,
		CompanyID:    o.company.CompanyID,
		InternalData: d.Prompt,
		ProgramType:  d.Summary.ProgramType,
		ProgramPhase: string(d.Summary.Phase),
	})
	if err != nil {
		return err
	}
	doc := report.Build(d.Summary.CompanyName, d.Summary.Cohort, res.Insights, res.CompanyContext, time.Now())
	if o.out == "" {
		fmt.Fprint(w, "\n"+doc.Body)
		return nil
	}
	if err := os.MkdirAll(o.out, 0o755); err != nil {
		return err
	}
	path := filepath.Join(o.out, doc.Filename)
	if err := os.WriteFile(path, []byte(doc.Body), 0o644); err != nil {
		return err
	}
	fmt.Fprintf(w, "\nwrote %s\n", path)
	return nil
}

// generator picks the remote insight service when an endpoint is given and
// the configured provider otherwise.
func generator(cfg *config.Config, o summarizeOptions, log logger.Logger) (worker.Generator, error) {
	if o.endpoint != "" {
		c, err := client.New(o.endpoint, o.token)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return service.NewOrchestrator(cfg, log.Named("insight")), nil
}

func parseWindow(from, to string) (model.Window, error) {
	var w model.Window
	var err error
	if from != "" {
		if w.From, err = time.Parse(dateLayout, from); err != nil {
			return w, fmt.Errorf("--from: %w", err)
		}
	}
	if to != "" {
		if w.To, err = time.Parse(dateLayout, to); err != nil {
			return w, fmt.Errorf("--to: %w", err)
		}
		w.To = w.To.Add(24*time.Hour - time.Nanosecond)
	}
	if !w.From.IsZero() && !w.To.IsZero() && w.To.Before(w.From) {
		return w, errors.New("--to is before --from")
	}
	return w, nil
}
