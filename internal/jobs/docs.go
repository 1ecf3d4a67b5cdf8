// Package jobs provides scheduled background tasks for the order service.
//
// Jobs are cron-based (github.com/robfig/cron/v3, with a seconds field) and
// each wraps one command handler.
//
// # Available Jobs
//
// 1. NotificationDeliveryJob - publishes due stock-wait emails; failed sends are retried by later runs
// 2. OutboxRelayJob - publishes pending order status events and marks them sent
//
// # Usage
//
//	jobManager := jobs.NewJobManager()
//	jobManager.Add("notification delivery",
//		jobs.NewNotificationDeliveryJob(deliverHandler, cfg.Jobs.NotificationSchedule, 0, m, logger))
//	jobManager.Add("outbox relay",
//		jobs.NewOutboxRelayJob(relayHandler, cfg.Jobs.OutboxSchedule, 0, m, logger))
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed run is logged and left for the next tick; a tick is skipped while
// the previous run of the same job is still in progress.
package jobs
