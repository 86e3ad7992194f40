package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/okian/cohortinsights/internal/adapters/mq/queue"
	"github.com/okian/cohortinsights/internal/domain/insight"
	"github.com/okian/cohortinsights/internal/domain/matcher"
	"github.com/okian/cohortinsights/internal/domain/model"
	"github.com/okian/cohortinsights/internal/domain/report"
	"github.com/okian/cohortinsights/pkg/logger"
	"github.com/okian/cohortinsights/pkg/metrics"
)

// fingerprintSpace namespaces request fingerprints.
var fingerprintSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("cohort-insights/insight-request"))

// SubmitInsight computes the dashboard of q and queues an insight job for it
// on behalf of owner. A newer submission for the same company supersedes
// any job still running; an identical submission while one is loading
// fails with insight.ErrInFlight.
func (s *Service) SubmitInsight(ctx context.Context, owner string, q Query) (insight.Job, error) {
	jobs, err := s.running()
	if err != nil {
		return insight.Job{}, err
	}

	d, err := s.Dashboard(ctx, q)
	if err != nil {
		return insight.Job{}, err
	}

	req := insight.Request{
		CompanyName:  d.Summary.CompanyName,
		CompanyID:    q.Company.CompanyID,
		InternalData: d.Prompt,
		ProgramType:  q.Program,
		ProgramPhase: string(d.Summary.Phase),
	}
	scope := Scope(q.Company)
	job, err := s.tracker.Begin(scope, fingerprint(req, d.Summary.Cohort), owner, d.Summary.Cohort, req)
	if err != nil {
		return insight.Job{}, fmt.Errorf("submit insight for %s: %w", scope, err)
	}

	if err := jobs.Enqueue(ctx, queue.Task{JobID: job.ID, Scope: scope, Request: req}); err != nil {
		metrics.RecordInsightRequest("rejected")
		if _, cerr := s.tracker.Complete(job.ID, insight.Result{}, err); cerr != nil {
			s.logger.Error(ctx, "failed to record rejected job", logger.String("job_id", job.ID), logger.Error(cerr))
		}
		return insight.Job{}, fmt.Errorf("submit insight for %s: %w", scope, err)
	}

	s.logger.Info(ctx, "insight job queued",
		logger.String("job_id", job.ID),
		logger.String("scope", scope),
		logger.Int64("generation", int64(job.Generation)),
	)
	return job, nil
}

// Job returns a snapshot of an insight job.
func (s *Service) Job(_ context.Context, id string) (insight.Job, error) {
	return s.tracker.Get(id)
}

// Latest returns the latest published insight of a company.
func (s *Service) Latest(_ context.Context, f model.CompanyFilter) (insight.Job, bool) {
	return s.tracker.Latest(Scope(f))
}

// Export renders a finished job as the downloadable text document, dated at
// the time of download.
func (s *Service) Export(ctx context.Context, id string) (report.Document, error) {
	job, err := s.Job(ctx, id)
	if err != nil {
		return report.Document{}, err
	}
	if job.State != insight.StateSuccess || job.Result == nil {
		return report.Document{}, fmt.Errorf("export job %s (%s): %w", id, job.State, insight.ErrNotReady)
	}
	return report.Build(job.Request.CompanyName, job.Cohort, job.Result.Insights, job.Result.CompanyContext, s.now()), nil
}

// GenerateInsight runs the orchestrator synchronously.
func (s *Service) GenerateInsight(ctx context.Context, req insight.Request) (insight.Result, error) {
	res, err := s.generator.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, insight.ErrRateLimited) {
			s.logger.Warn(ctx, "insight generation rate limited", logger.String("company", req.CompanyName))
		}
		return insight.Result{}, err
	}
	return res, nil
}

// Scope is the generation-guard key of a company.
func Scope(f model.CompanyFilter) string {
	if id := strings.TrimSpace(f.CompanyID); id != "" {
		return id
	}
	return matcher.Normalize(f.AccountName) + "|" + matcher.Normalize(matcher.StripQualifier(f.CompanyName))
}

func fingerprint(req insight.Request, cohort string) string {
	key := strings.Join([]string{req.CompanyID, req.CompanyName, string(req.ProgramType), req.ProgramPhase, cohort, req.InternalData}, "\x00")
	return uuid.NewSHA1(fingerprintSpace, []byte(key)).String()
}
