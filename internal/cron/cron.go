package cron

import (
	"context"
	"sync"
	"time"

	"github.com/caarlos0/env/v6"
	cronv3 "github.com/robfig/cron/v3"

	"github.com/burnerpost/burnerpost/config"
	"github.com/burnerpost/burnerpost/interfaces"
	cron_config "github.com/burnerpost/burnerpost/internal/cron/config"
	"github.com/burnerpost/burnerpost/internal/logger"
	"github.com/burnerpost/burnerpost/internal/tracing"
)

// CONSTANTS
const (
	// GroupForwarder serializes forwarding jobs; poll cycles never overlap
	GroupForwarder = "forwarder"
)

// LOCK MANAGEMENT
var jobLocks = struct {
	sync.Mutex
	locks map[string]*sync.Mutex
}{
	locks: map[string]*sync.Mutex{
		GroupForwarder: new(sync.Mutex),
	},
}

type CronManager struct {
	cfg       *config.Config
	log       logger.Logger
	cron      *cronv3.Cron
	stopCh    chan struct{}
	jobIDs    map[string]cronv3.EntryID
	forwarder interfaces.ForwarderService
	ledger    interfaces.DeliveryLedger
}

func NewCronManager(cfg *config.Config, log logger.Logger, forwarder interfaces.ForwarderService, ledger interfaces.DeliveryLedger) *CronManager {
	return &CronManager{
		cfg:       cfg,
		log:       log,
		stopCh:    make(chan struct{}),
		jobIDs:    make(map[string]cronv3.EntryID),
		forwarder: forwarder,
		ledger:    ledger,
	}
}

// Start initializes and starts the cron scheduler
func (cm *CronManager) Start() {
	cm.log.Info("Starting cron manager")
	// Seconds field enabled; SkipIfStillRunning keeps cycles single-flight
	cronOptions := []cronv3.Option{
		cronv3.WithSeconds(),
		cronv3.WithChain(
			cronv3.SkipIfStillRunning(cronv3.DefaultLogger),
			cronv3.Recover(cronv3.DefaultLogger),
		),
	}
	c := cronv3.New(cronOptions...)
	cm.registerJobs(c)
	c.Start()
	cm.cron = c
}

// Stop gracefully stops the cron manager, letting an in-flight cycle finish
func (cm *CronManager) Stop() {
	if cm.cron != nil {
		cm.log.Info("Stopping cron manager")
		ctx := cm.cron.Stop()
		// Wait for jobs to finish
		<-ctx.Done()
	}
	close(cm.stopCh)
}

// registerJobs adds all cron jobs to the scheduler
func (cm *CronManager) registerJobs(c *cronv3.Cron) {
	// Load cron config from environment variables
	var cronConfig cron_config.Config
	if err := env.Parse(&cronConfig); err != nil {
		cm.log.Fatalf("Failed to parse cron config from environment: %v", err)
	}

	// Register heartbeat job
	if cronConfig.CronScheduleHeartbeat != "" {
		id, err := c.AddFunc(cronConfig.CronScheduleHeartbeat, func() {
			cm.log.Info("Cron heartbeat")
		})
		if err != nil {
			cm.log.Fatalf("Could not add heartbeat cron job: %v", err)
		}
		cm.jobIDs["heartbeat"] = id
		cm.log.Infof("Registered heartbeat job with schedule: %s", cronConfig.CronScheduleHeartbeat)
	}

	// Register email forwarding job
	if cronConfig.CronScheduleForwardEmails != "" {
		id, err := c.AddFunc(cronConfig.CronScheduleForwardEmails, func() {
			jobLocks.locks[GroupForwarder].Lock()
			defer jobLocks.locks[GroupForwarder].Unlock()
			cm.forwardEmails()
		})
		if err != nil {
			cm.log.Fatalf("Could not add email forwarding cron job: %v", err)
		}
		cm.jobIDs["forward_emails"] = id
		cm.log.Infof("Registered email forwarding job with schedule: %s", cronConfig.CronScheduleForwardEmails)
	}

	// Register ledger pruning job
	if cronConfig.CronSchedulePruneLedger != "" {
		id, err := c.AddFunc(cronConfig.CronSchedulePruneLedger, func() {
			cm.pruneLedger()
		})
		if err != nil {
			cm.log.Fatalf("Could not add ledger pruning cron job: %v", err)
		}
		cm.jobIDs["prune_ledger"] = id
		cm.log.Infof("Registered ledger pruning job with schedule: %s", cronConfig.CronSchedulePruneLedger)
	}
}

func (cm *CronManager) forwardEmails() {
	ctx := context.Background()

	span, ctx := tracing.StartTracerSpan(ctx, "CronManager.forwardEmails")
	defer span.Finish()
	tracing.TagComponentCronJob(span)

	cm.forwarder.ForwardCycle(ctx)
}

func (cm *CronManager) pruneLedger() {
	cm.log.Info("Running delivery ledger retention")

	ctx := context.Background()

	span, ctx := tracing.StartTracerSpan(ctx, "CronManager.pruneLedger")
	defer span.Finish()
	tracing.TagComponentCronJob(span)

	retention := time.Duration(cm.cfg.LedgerConfig.RetentionDays) * 24 * time.Hour
	pruned, err := cm.ledger.PruneOlderThan(ctx, retention)
	if err != nil {
		tracing.TraceErr(span, err)
		cm.log.Errorf("Failed to prune delivery ledger: %v", err)
		return
	}
	cm.log.Infof("Pruned %d delivered-message records", pruned)
}
