// Package scheduler runs the periodic freshness check over the snapshot tables.
package scheduler

import (
	"context"
	"fmt"
	"ktrend_api/internal/trends/business"
	"ktrend_api/internal/trends/models"
	"ktrend_api/internal/trends/storage"
	"ktrend_api/metrics"
	"ktrend_api/pkg/logger"
	"time"

	"github.com/robfig/cron/v3"
)

// staleAfterDays is when a platform's newest ranking is reported as stale.
const staleAfterDays = 2

// FreshnessJob records how old each platform's newest ranking date is and warms
// the category name cache.
type FreshnessJob struct {
	cron       *cron.Cron
	spec       string
	platforms  []string
	rankings   *storage.RankingRepository
	categories *storage.CategoryRepository
	resolver   business.CategoryNamer
	metrics    *metrics.JobMetrics
	log        logger.Logger
	now        func() time.Time
}

func NewFreshnessJob(spec string, platforms []string, rankings *storage.RankingRepository, categories *storage.CategoryRepository, resolver business.CategoryNamer, log logger.Logger) *FreshnessJob {
	return &FreshnessJob{
		cron:       cron.New(),
		spec:       spec,
		platforms:  platforms,
		rankings:   rankings,
		categories: categories,
		resolver:   resolver,
		metrics:    &metrics.JobMetrics{},
		log:        logger.OrNop(log).WithPrefix("[Freshness]"),
		now:        time.Now,
	}
}

// Start registers the job, starts the cron loop and runs one check immediately.
func (j *FreshnessJob) Start(ctx context.Context) error {
	if _, err := j.cron.AddFunc(j.spec, func() { j.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc(%q): %w", j.spec, err)
	}
	j.cron.Start()
	j.log.Log("cron started, spec: %s", j.spec)

	go j.RunOnce(ctx)
	return nil
}

// Stop waits for a running check to finish.
func (j *FreshnessJob) Stop() {
	<-j.cron.Stop().Done()
	j.log.Log("cron stopped")
}

func (j *FreshnessJob) Metrics() *metrics.JobMetrics { return j.metrics }

// RunOnce checks every platform; a failing platform does not stop the others.
func (j *FreshnessJob) RunOnce(ctx context.Context) {
	j.metrics.Runs.Add(1)
	for _, platform := range j.platforms {
		if err := j.check(ctx, platform); err != nil {
			j.metrics.ErroredChecks.Add(1)
			j.log.Log("check %s failed: %v", platform, err)
			continue
		}
		j.metrics.CheckedCount.Add(1)
	}
}

func (j *FreshnessJob) check(ctx context.Context, platform string) error {
	latest, err := j.rankings.LatestDate(ctx, platform)
	if err != nil {
		return err
	}
	if latest == "" {
		j.log.Log("%s has no ranking snapshots", platform)
		j.metrics.StaleCount.Add(1)
		return nil
	}

	age, err := AgeInDays(latest, j.now())
	if err != nil {
		return err
	}
	metrics.SetSnapshotAge(platform, age)
	if age >= staleAfterDays {
		j.metrics.StaleCount.Add(1)
		j.log.Log("%s latest ranking %s is %.1f days old", platform, latest, age)
	}

	entries, err := j.categories.Active(ctx, platform, 0)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := j.resolver.Resolve(ctx, platform, e.Code); err != nil {
			return err
		}
	}
	return nil
}

// AgeInDays is the time from midnight UTC of date to now, in days.
func AgeInDays(date string, now time.Time) (float64, error) {
	d, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return 0, fmt.Errorf("parse snapshot date %q: %w", date, err)
	}
	return now.UTC().Sub(d).Hours() / 24, nil
}
