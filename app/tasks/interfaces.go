package tasks

import (
	"time"

	"newsriver/app/database"
)

// TaskSchedulerInterface defines the interface for task scheduling
// operations. Used by the main application to manage background source
// syncing, and by the importer to stagger initial syncs of newly
// imported sources.
// Example usage:
//
//	scheduler := NewScheduler(sourceRepo, articleRepo, httpClient, parser, contentExtractor)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueSourceSync(source, time.Minute)
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	EnqueueSourceSync(source database.Source, delay time.Duration) error
}
