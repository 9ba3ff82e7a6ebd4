package svc

import (
	"github.com/grana-sh/grana/internal/cleanup"
	"github.com/grana-sh/grana/internal/env"
	"github.com/grana-sh/grana/internal/jobs"
	"go.opentelemetry.io/otel"
)

func (r *Registry) GetJobsScheduler() *jobs.Scheduler {
	return r.jobsScheduler
}

func (r *Registry) createJobsScheduler() (*jobs.Scheduler, error) {
	scheduler, err := jobs.NewScheduler(r.GetLogger(), r.GetDbPool(), otel.GetTracerProvider())
	if err != nil {
		return nil, err
	}

	if cron := env.CleanupOtpVerificationCron(); cron != nil {
		err = scheduler.RegisterCronJob(
			*cron,
			jobs.NewJob(
				"OtpVerificationCleanup",
				cleanup.RunOtpVerificationCleanup,
				env.CleanupOtpVerificationTimeout(),
			),
		)
		if err != nil {
			return nil, err
		}
	}

	return scheduler, nil
}
