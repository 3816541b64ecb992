package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Thiagomartinsvieira/document-management-employees/internal/cv"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run background jobs",
	Long:  `Run one-off background jobs such as regenerating archived CVs.`,
}

var archiveCVsCmd = &cobra.Command{
	Use:   "archive-cvs",
	Short: "Render and store the CV of every employee",
	Long:  `Render every stored employee's CV and write it to cv-files/<id>.pdf through the archiver worker pool.`,
	Run: func(cmd *cobra.Command, args []string) {
		runArchiveCVs()
	},
}

var (
	maxWorkers   int
	jobQueueSize int
	jobTimeout   time.Duration
)

func runArchiveCVs() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	defer deps.Close()
	lg := deps.Logger

	archiverConfig := cv.ArchiverConfig{
		Workers:    getIntFlag(maxWorkers, deps.Config.CV.ArchiveWorkers),
		QueueSize:  getIntFlag(jobQueueSize, deps.Config.CV.ArchiveQueueSize),
		JobTimeout: jobTimeout,
	}
	lg.Info("starting cv archive worker",
		"max_workers", archiverConfig.Workers,
		"job_queue_size", archiverConfig.QueueSize)

	archiver := cv.NewArchiver(deps.CV.ArchiveFunc(), archiverConfig, lg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	queued, err := deps.CV.ArchiveAll(ctx, archiver)
	if err != nil {
		lg.Error("failed to queue cv archive jobs", "error", err, "queued", queued)
	}

	done := make(chan struct{})
	go func() {
		archiver.Wait()
		close(done)
	}()

	select {
	case <-done:
		lg.Info("cv archive worker finished", "queued", queued)
	case <-ctx.Done():
		lg.Warn("received signal, stopping cv archive worker before the queue drained", "queued", queued)
	}
	archiver.Shutdown()
}

func getIntFlag(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return configValue
}

func init() {
	archiveCVsCmd.Flags().IntVar(&maxWorkers, "max-workers", 0, "Maximum number of workers (overrides config)")
	archiveCVsCmd.Flags().IntVar(&jobQueueSize, "job-queue-size", 0, "Job queue buffer size (overrides config)")
	archiveCVsCmd.Flags().DurationVar(&jobTimeout, "job-timeout", 0, "Timeout for rendering and storing one CV")

	workerCmd.AddCommand(archiveCVsCmd)

	rootCmd.AddCommand(workerCmd)
}
