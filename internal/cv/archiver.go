package cv

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Thiagomartinsvieira/document-management-employees/internal/core/events"
)

var (
	ErrQueueFull      = errors.New("cv archive queue full")
	ErrArchiverClosed = errors.New("cv archiver is shut down")
)

type ArchiveJob struct {
	EmployeeID string
	QueuedAt   time.Time
}

// ArchiveFunc renders and stores the CV of one employee.
type ArchiveFunc func(ctx context.Context, employeeID string) error

type Worker struct {
	ID         int
	WorkerPool chan chan ArchiveJob
	JobChannel chan ArchiveJob
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan ArchiveJob, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan ArchiveJob),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, processFunc func(ArchiveJob)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			select {
			case w.WorkerPool <- w.JobChannel:
			case <-ctx.Done():
				w.Logger.Debug("worker shutting down", "worker_id", w.ID)
				return
			}

			select {
			case job := <-w.JobChannel:
				w.Logger.Debug("worker processing job", "worker_id", w.ID, "employee_id", job.EmployeeID)
				processFunc(job)
			case <-ctx.Done():
				w.Logger.Debug("worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

type ArchiverConfig struct {
	Workers    int
	QueueSize  int
	JobTimeout time.Duration
}

// Archiver renders and stores CVs in the background: a dispatcher hands
// queued jobs to a fixed set of workers.
type Archiver struct {
	archive    ArchiveFunc
	logger     *slog.Logger
	jobTimeout time.Duration

	jobQueue   chan ArchiveJob
	workerPool chan chan ArchiveJob
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	pending    sync.WaitGroup
	once       sync.Once
	closeOnce  sync.Once
}

func NewArchiver(archive ArchiveFunc, config ArchiverConfig, logger *slog.Logger) *Archiver {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.Workers
	if maxWorkers <= 0 {
		maxWorkers = 2
	}

	queueSize := config.QueueSize
	if queueSize <= 0 {
		queueSize = 100
	}

	jobTimeout := config.JobTimeout
	if jobTimeout <= 0 {
		jobTimeout = 30 * time.Second
	}

	a := &Archiver{
		archive:    archive,
		logger:     logger,
		jobTimeout: jobTimeout,

		maxWorkers: maxWorkers,
		jobQueue:   make(chan ArchiveJob, queueSize),
		workerPool: make(chan chan ArchiveJob, maxWorkers),
		ctx:        ctx,
		cancel:     cancel,
	}

	a.startWorkerPool()

	return a
}

func (a *Archiver) startWorkerPool() {
	a.once.Do(func() {
		for i := 0; i < a.maxWorkers; i++ {
			worker := NewWorker(i, a.workerPool, a.logger)
			worker.Start(a.ctx, &a.wg, a.processJob)
		}

		a.wg.Add(1)
		go a.dispatch()

		a.logger.Info("cv archive worker pool started",
			"max_workers", a.maxWorkers,
			"queue_size", cap(a.jobQueue))
	})
}

func (a *Archiver) dispatch() {
	defer a.wg.Done()

	for {
		select {
		case job := <-a.jobQueue:
			select {
			case jobChannel := <-a.workerPool:
				select {
				case jobChannel <- job:
				case <-a.ctx.Done():
					a.pending.Done()
					a.logger.Info("dispatcher shutting down")
					return
				}
			case <-a.ctx.Done():
				a.pending.Done()
				a.logger.Info("dispatcher shutting down")
				return
			}
		case <-a.ctx.Done():
			a.logger.Info("dispatcher shutting down")
			return
		}
	}
}

func (a *Archiver) processJob(job ArchiveJob) {
	defer a.pending.Done()

	ctx, cancel := context.WithTimeout(a.ctx, a.jobTimeout)
	defer cancel()

	if err := a.archive(ctx, job.EmployeeID); err != nil {
		a.logger.Error("cv archive job failed",
			"employee_id", job.EmployeeID,
			"waited", time.Since(job.QueuedAt),
			"error", err)
		return
	}
	a.logger.Debug("cv archive job done", "employee_id", job.EmployeeID)
}

// Enqueue queues a job without blocking and fails with ErrQueueFull when
// the queue is at capacity.
func (a *Archiver) Enqueue(employeeID string) error {
	if a.ctx.Err() != nil {
		return ErrArchiverClosed
	}
	a.pending.Add(1)
	select {
	case a.jobQueue <- ArchiveJob{EmployeeID: employeeID, QueuedAt: time.Now()}:
		a.logger.Debug("cv archive job queued", "employee_id", employeeID, "queue_length", len(a.jobQueue))
		return nil
	default:
		a.pending.Done()
		a.logger.Warn("cv archive queue full, dropping job",
			"employee_id", employeeID,
			"queue_capacity", cap(a.jobQueue))
		return ErrQueueFull
	}
}

// EnqueueWait blocks until the job is queued, ctx is done or the archiver
// shuts down.
func (a *Archiver) EnqueueWait(ctx context.Context, employeeID string) error {
	if a.ctx.Err() != nil {
		return ErrArchiverClosed
	}
	a.pending.Add(1)
	select {
	case a.jobQueue <- ArchiveJob{EmployeeID: employeeID, QueuedAt: time.Now()}:
		return nil
	case <-ctx.Done():
		a.pending.Done()
		return ctx.Err()
	case <-a.ctx.Done():
		a.pending.Done()
		return ErrArchiverClosed
	}
}

// HandleEmployeeChanged is an event bus handler for employee.created and
// employee.updated.
func (a *Archiver) HandleEmployeeChanged(ctx context.Context, event events.Event) error {
	changed, ok := event.(*events.EmployeeChangedEvent)
	if !ok {
		return nil
	}
	return a.Enqueue(changed.EmployeeID)
}

// Wait blocks until every queued job has been processed. Call it before
// Shutdown.
func (a *Archiver) Wait() {
	a.pending.Wait()
}

func (a *Archiver) Shutdown() {
	a.closeOnce.Do(func() {
		a.logger.Info("shutting down cv archiver")
		a.cancel()
		a.wg.Wait()
		a.logger.Info("cv archiver shutdown complete")
	})
}
