package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"newsriver/app/cfg"
	"newsriver/app/classify"
	"newsriver/app/database"
	"newsriver/app/feed"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

// syncBatchSize caps how many due sources one scheduler tick enqueues.
const syncBatchSize = 100

type Scheduler struct {
	sourceRepo       database.SourceRepository
	articleRepo      database.ArticleRepository
	httpClient       *http.Client
	parser           *feed.Parser
	contentExtractor *feed.ContentExtractor
	userAgent        string
	interval         time.Duration
	syncInterval     time.Duration
	fetchTimeout     time.Duration
	workerCount      int
	ctx              context.Context
	cancel           context.CancelFunc
	wg               sync.WaitGroup
	taskQueue        chan TaskInterface
}

func NewScheduler(sourceRepo database.SourceRepository, articleRepo database.ArticleRepository,
	httpClient *http.Client, parser *feed.Parser, contentExtractor *feed.ContentExtractor) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		sourceRepo:       sourceRepo,
		articleRepo:      articleRepo,
		httpClient:       httpClient,
		parser:           parser,
		contentExtractor: contentExtractor,
		userAgent:        cfg.UserAgent,
		interval:         time.Duration(cfg.SchedulerInterval) * time.Second,
		syncInterval:     time.Duration(cfg.SyncInterval) * time.Second,
		fetchTimeout:     time.Duration(cfg.FetchTimeout) * time.Second,
		workerCount:      cfg.WorkerCount,
		ctx:              ctx,
		cancel:           cancel,
		taskQueue:        make(chan TaskInterface, 300),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()

}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// EnqueueSourceSync schedules a source's sync after the given delay.
// The source's next sync time moves out past the delay first, so the
// periodic tick does not race the delayed enqueue.
func (s *Scheduler) EnqueueSourceSync(source database.Source, delay time.Duration) error {
	if err := s.sourceRepo.ScheduleNextSync(source.ID, time.Now().UTC().Add(delay)); err != nil {
		return fmt.Errorf("failed to schedule source sync: %w", err)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-s.ctx.Done():
			return
		case <-timer.C:
			task := NewSyncSourceTask(source, s.httpClient, s.parser, s.sourceRepo, s.articleRepo,
				s.userAgent, s.fetchTimeout, s.syncInterval)
			if err := s.EnqueueTask(task); err != nil {
				slog.Warn("Failed to enqueue delayed source sync", "source", source.URL, "error", err)
			}
		}
	}()

	return nil
}

func (s *Scheduler) enqueueTasks() {
	sources, err := s.sourceRepo.GetDueForSync(syncBatchSize)
	if err != nil {
		slog.Error("Failed to get sources due for sync", "error", err)
		return
	}

	if len(sources) == 0 {
		slog.Debug("No sources due for sync")
		return
	}

	slog.Debug("Enqueuing source sync tasks", "count", len(sources))

	for _, source := range sources {
		syncTask := NewSyncSourceTask(source, s.httpClient, s.parser, s.sourceRepo, s.articleRepo,
			s.userAgent, s.fetchTimeout, s.syncInterval)
		if err := s.EnqueueTask(syncTask); err != nil {
			slog.Warn("Failed to enqueue SyncSourceTask", "source", source.URL, "error", err)
			continue
		}

		if source.Type != classify.SourceTypeArticle {
			continue
		}

		extractTask := NewExtractContentTask(source, s.httpClient, s.contentExtractor,
			s.articleRepo, s.userAgent, s.fetchTimeout)
		if err := s.EnqueueTask(extractTask); err != nil {
			slog.Warn("Failed to enqueue ExtractContentTask", "source", source.URL, "error", err)
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "source", task.GetSourceURL(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
