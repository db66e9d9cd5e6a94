// Package jobs provides scheduled background tasks for the order service.
//
// Jobs run on github.com/robfig/cron/v3 and are grouped by JobManager:
//
//	manager := jobs.NewJobManager(snapshotJob)
//	if err := manager.StartAll(); err != nil {
//		return err
//	}
//	defer manager.StopAll()
//
// CapacitySnapshotJob computes today's remaining capacity on a schedule (DefaultCapacitySchedule
// unless configured) and exposes it as the orders.capacity.milk_left_ml and orders.capacity.ordered_ml
// gauges. An overbooked day is logged as a warning.
package jobs
