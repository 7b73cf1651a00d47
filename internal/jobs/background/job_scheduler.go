package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"oona/internal/models"
	"oona/internal/realtime"

	"github.com/go-co-op/gocron/v2"
	"github.com/labstack/gommon/log"
)

const (
	menuWarmInterval   = 10 * time.Minute
	dailySummaryCron   = "55 23 * * *"
	jobRunTimeout      = 30 * time.Second
	defaultResyncEvery = 30 * time.Second
)

// MenuWarmer reloads the cached menu.
type MenuWarmer interface {
	WarmCache(ctx context.Context) error
}

// StatsSource reports the dashboard statistics.
type StatsSource interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

// JobScheduler runs the periodic maintenance jobs.
type JobScheduler struct {
	scheduler gocron.Scheduler
	menu      MenuWarmer
	stats     StatsSource
	publisher realtime.Publisher
	resync    time.Duration
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler creates the scheduler and registers its jobs. resyncEvery
// is how often dashboards are told to refetch even without notifications.
func NewJobScheduler(menu MenuWarmer, stats StatsSource, publisher realtime.Publisher, resyncEvery time.Duration, loc *time.Location) (*JobScheduler, error) {
	if loc == nil {
		loc = time.Local
	}
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	if resyncEvery <= 0 {
		resyncEvery = defaultResyncEvery
	}

	js := &JobScheduler{
		scheduler: scheduler,
		menu:      menu,
		stats:     stats,
		publisher: publisher,
		resync:    resyncEvery,
		jobs:      make(map[string]gocron.Job),
	}
	if err := js.registerJobs(); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	log.Infof("Starting background job scheduler")
	js.scheduler.Start()
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Infof("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) add(name string, def gocron.JobDefinition, task func()) error {
	job, err := js.scheduler.NewJob(
		def,
		gocron.NewTask(task),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s job: %w", name, err)
	}
	js.mu.Lock()
	js.jobs[name] = job
	js.mu.Unlock()
	return nil
}

// registerJobs registers all background jobs
func (js *JobScheduler) registerJobs() error {
	if js.menu != nil {
		if err := js.add("menu-cache-warm", gocron.DurationJob(menuWarmInterval), js.warmMenuCache); err != nil {
			return err
		}
	}
	if js.publisher != nil {
		if err := js.add("dashboard-resync", gocron.DurationJob(js.resync), js.requestResync); err != nil {
			return err
		}
	}
	if js.stats != nil {
		if err := js.add("daily-summary", gocron.CronJob(dailySummaryCron, false), js.logDailySummary); err != nil {
			return err
		}
	}

	log.Infof("Registered %d background jobs", len(js.jobs))
	return nil
}

// JobNames lists the registered jobs.
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()
	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	return names
}

func (js *JobScheduler) warmMenuCache() {
	ctx, cancel := context.WithTimeout(context.Background(), jobRunTimeout)
	defer cancel()
	if err := js.menu.WarmCache(ctx); err != nil {
		log.Warnf("menu cache warm failed: %v", err)
		return
	}
	log.Debugf("menu cache warmed")
}

// requestResync covers notifications lost while no listener was connected.
func (js *JobScheduler) requestResync() {
	js.publisher.Publish(realtime.ChangeEvent{Type: realtime.EventResync, ReceivedAt: time.Now()})
}

func (js *JobScheduler) logDailySummary() {
	ctx, cancel := context.WithTimeout(context.Background(), jobRunTimeout)
	defer cancel()
	stats, err := js.stats.Stats(ctx)
	if err != nil {
		log.Errorf("daily summary failed: %v", err)
		return
	}
	log.Infof("daily summary: %d orders, %d completed, %d still pending, %d in progress, earnings today %s, month %s",
		stats.TotalOrders, stats.CompletedOrders, stats.PendingOrders, stats.InProgressOrders,
		stats.TodayEarnings.StringFixed(2), stats.MonthlyEarnings.StringFixed(2))
}
