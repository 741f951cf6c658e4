package cron_config

type Config struct {
	// Heartbeat check, every minute
	CronScheduleHeartbeat string `env:"CRON_SCHEDULE_HEARTBEAT" envDefault:"0 * * * * *"`
	// Email forwarding poll, every 12 seconds
	CronScheduleForwardEmails string `env:"CRON_SCHEDULE_FORWARD_EMAILS" envDefault:"*/12 * * * * *"`
	// Delivery ledger retention, daily at 03:00; empty disables pruning
	CronSchedulePruneLedger string `env:"CRON_SCHEDULE_PRUNE_LEDGER" envDefault:"0 0 3 * * *"`
}
