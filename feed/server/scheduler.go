package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/CPU-commits/CareerNest/models"
	"github.com/CPU-commits/CareerNest/repositories"
	"github.com/CPU-commits/CareerNest/services"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Reindexer interface {
	Reindex(ctx context.Context, repo repositories.ListingRepository) (*services.IndexStats, error)
}

type ReindexStatus struct {
	Kind     models.Kind          `json:"kind"`
	Stats    *services.IndexStats `json:"stats,omitempty"`
	Error    string               `json:"error,omitempty"`
	Finished time.Time            `json:"finished"`
}

// Scheduler rebuilds every index on a cron spec, one kind at a time.
type Scheduler struct {
	cron      *cron.Cron
	spec      string
	reindexer Reindexer
	repos     map[models.Kind]repositories.ListingRepository
	logger    *zap.Logger

	mu     sync.Mutex
	status map[models.Kind]ReindexStatus
}

func NewScheduler(
	spec string,
	reindexer Reindexer,
	repos map[models.Kind]repositories.ListingRepository,
	logger *zap.Logger,
) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		spec:      spec,
		reindexer: reindexer,
		repos:     repos,
		logger:    logger,
		status:    make(map[models.Kind]ReindexStatus),
	}
}

// Start registers the job and runs a first pass right away.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc(%q): %w", s.spec, err)
	}
	s.cron.Start()
	s.logger.Info("reindex scheduler started", zap.String("spec", s.spec))

	go s.RunOnce(ctx)
	return nil
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) RunOnce(ctx context.Context) {
	for _, spec := range models.Kinds() {
		if ctx.Err() != nil {
			return
		}
		repo, ok := s.repos[spec.Kind]
		if !ok {
			continue
		}
		stats, err := s.reindexer.Reindex(ctx, repo)
		status := ReindexStatus{
			Kind:     spec.Kind,
			Stats:    stats,
			Finished: time.Now().UTC(),
		}
		if err != nil {
			status.Error = err.Error()
			s.logger.Error("reindex", zap.String("kind", string(spec.Kind)), zap.Error(err))
		}
		s.mu.Lock()
		s.status[spec.Kind] = status
		s.mu.Unlock()
	}
}

// Status lists the last run of every kind in registry order.
func (s *Scheduler) Status() []ReindexStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]ReindexStatus, 0, len(s.status))
	for _, spec := range models.Kinds() {
		if status, ok := s.status[spec.Kind]; ok {
			list = append(list, status)
		}
	}
	return list
}
