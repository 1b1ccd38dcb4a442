package jobs

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"firetrack/api/internal/config"
)

// EquipmentSweeper flips equipment past its maintenance deadline to expired.
type EquipmentSweeper interface {
	MarkOverdueExpired(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler runs the nightly maintenance sweep in-process and enqueues
// report prewarm tasks on a redis stream for out-of-process consumers.
type Scheduler struct {
	cron      *cron.Cron
	queue     *redis.Client
	equipment EquipmentSweeper
	cfg       config.JobsConfig
	log       zerolog.Logger
}

func NewScheduler(queue *redis.Client, equipment EquipmentSweeper, cfg config.JobsConfig, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		queue:     queue,
		equipment: equipment,
		cfg:       cfg,
		log:       log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.MaintenanceSweepSpec, s.runMaintenanceSweep); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.cfg.ReportPrewarmSpec, s.enqueueReportPrewarm); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits for running jobs to finish, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) runMaintenanceSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	changed, err := s.equipment.MarkOverdueExpired(ctx, time.Now())
	if err != nil {
		s.log.Error().Err(err).Msg("maintenance sweep failed")
		return
	}
	s.log.Info().Int64("expired", changed).Msg("maintenance sweep done")
}

func (s *Scheduler) enqueueReportPrewarm() {
	if s.queue == nil {
		return
	}

	_, err := s.queue.XAdd(context.Background(), &redis.XAddArgs{
		Stream: s.cfg.TaskStream,
		Values: map[string]any{"type": "report_prewarm"},
	}).Result()
	if err != nil {
		s.log.Error().Err(err).Msg("enqueue report prewarm failed")
	}
}
