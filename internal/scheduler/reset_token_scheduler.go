package scheduler

import (
	"context"
	"time"

	"github.com/ikkim/bookshelf-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

const sweepTimeout = 30 * time.Second

// ResetTokenSweeper clears password reset tokens whose expiry has passed.
type ResetTokenSweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// ResetTokenScheduler 만료된 비밀번호 재설정 토큰 정리 스케줄러
type ResetTokenScheduler struct {
	cron     *cron.Cron
	sweeper  ResetTokenSweeper
	schedule string
}

func NewResetTokenScheduler(sweeper ResetTokenSweeper, schedule string) *ResetTokenScheduler {
	return &ResetTokenScheduler{
		cron:     cron.New(),
		sweeper:  sweeper,
		schedule: schedule,
	}
}

// Start registers the sweep job and starts the cron runner.
func (s *ResetTokenScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.sweep); err != nil {
		logger.Error("Failed to add cron job for reset token sweep", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Reset token scheduler started", map[string]interface{}{
		"schedule": s.schedule,
	})
	return nil
}

// Stop waits for a running sweep to finish.
func (s *ResetTokenScheduler) Stop() {
	logger.Info("Stopping reset token scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Reset token scheduler stopped")
}

func (s *ResetTokenScheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	cleared, err := s.sweeper.SweepExpired(ctx)
	if err != nil {
		logger.Error("Failed to sweep expired reset tokens", err)
		return
	}

	if cleared > 0 {
		logger.Info("Expired reset tokens cleared", map[string]interface{}{
			"count": cleared,
		})
	}
}
