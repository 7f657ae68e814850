package main

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"

	"logview-backend/config"
	_ "logview-backend/docs" // generated by swag
	"logview-backend/internal/controller"
	"logview-backend/internal/elasticsearch"
	"logview-backend/internal/filestate"
	"logview-backend/internal/kafka"
	"logview-backend/internal/logclient"
	"logview-backend/internal/model"
	"logview-backend/internal/postgres"
	"logview-backend/internal/repository"
	"logview-backend/internal/scheduler"
	"logview-backend/internal/service"
	"logview-backend/internal/toast"
)

// @title           Log Viewer API
// @version         1.0
// @description     Log retrieval, annotation, and notification backend for the media-library manager: filtered log queries, log file downloads, internal error summaries, task schedules, and live toast notifications.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @schemes   http https

// @tag.name         logs
// @tag.description  Log query, file download, and error summary operations

// @tag.name         schedule
// @tag.description  Scheduled task operations

func main() {
	var wg sync.WaitGroup

	app := fx.New(
		fx.Provide(
			NewConfig,
		),
		fx.Provide(
			NewGinEngine,
			NewFileStateManager,
			NewToastHub,
			NewLogQueryClient,
			NewRecentLogSource,
			NewToastSink,
			NewLogQueryService,
			NewLogFileService,
			postgres.ProvidePool,
			postgres.NewErrorRepository,
			postgres.NewTaskRepository,
			elasticsearch.NewElasticsearchLogRepository,
			elasticsearch.NewElasticLogStore,
			kafka.NewKafkaLogProducer,
			kafka.NewKafkaLogConsumer,
			scheduler.New,
			service.NewLogProducerService,
			service.NewLogConsumerService,
			service.NewScheduleService,
			service.NewNotifier,
			controller.NewLogController,
			controller.NewScheduleController,
		),
		fx.Invoke(
			RegisterAPIRoutes,
			RegisterScheduledTasks,
			func(lc fx.Lifecycle, consumerService service.LogConsumerService) {
				startLogConsumer(lc, &wg, consumerService)
			},
			startNotifier,
		),
	)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelStart()
	if err := app.Start(startCtx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}
	<-app.Done()

	stopCtx, cancelStop := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStop()
	log.Info().Msg("Shutting down application...")
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown due to error or timeout")
	}

	log.Info().Msg("Waiting for background goroutines to finish...")
	wg.Wait()
	log.Info().Msg("All background processes finished. Exiting.")
}

func NewConfig() (*config.Config, error) {
	return config.NewConfig()
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// --- Factory Functions ---

func NewFileStateManager(cfg *config.Config) filestate.Manager {
	return filestate.NewManager(cfg.Logs.StatePath)
}

func NewToastHub(cfg *config.Config) *toast.Hub {
	return toast.NewHub(cfg.Notifier.ToastLifetime)
}

func NewLogQueryClient(cfg *config.Config) *logclient.Client {
	return logclient.New(cfg.Notifier.APIBaseURL, cfg.APIToken)
}

func NewRecentLogSource(client *logclient.Client) service.RecentLogSource {
	return client
}

func NewToastSink(hub *toast.Hub) service.ToastSink {
	return hub
}

func NewLogQueryService(cfg *config.Config, logRepo repository.LogRepository) service.LogQueryService {
	return service.NewLogQueryService(logRepo, cfg.Logs.PageSize)
}

func NewLogFileService(cfg *config.Config, errorRepo repository.ErrorRepository) service.LogFileService {
	return service.NewLogFileService(cfg.Logs.Directory, errorRepo)
}

// --- Invoker Functions ---

func RegisterAPIRoutes(
	lifecycle fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	logController *controller.LogController,
	scheduleController *controller.ScheduleController,
) {
	if logController != nil {
		controller.RegisterLogRoutes(router, logController)
	} else {
		log.Warn().Msg("LogController not provided, skipping log API routes.")
	}
	if scheduleController != nil {
		controller.RegisterScheduleRoutes(router, scheduleController)
	} else {
		log.Warn().Msg("ScheduleController not provided")
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Starting HTTP server on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error().Err(err).Msg("HTTP server ListenAndServe error")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Shutting down HTTP server...")
			return server.Shutdown(ctx)
		},
	})
}

// RegisterScheduledTasks wires the ingest sweep onto the cron runner and
// restores every persisted task schedule at startup.
func RegisterScheduledTasks(
	lc fx.Lifecycle,
	cfg *config.Config,
	sched *scheduler.Scheduler,
	logProducerSvc service.LogProducerService,
	taskRepo repository.TaskRepository,
) {
	const ingestTaskID = "sync-logs"

	sched.RegisterRunner(ingestTaskID, logProducerSvc.ProcessLogs)
	if err := sched.Schedule(model.Task{
		ID:       ingestTaskID,
		Schedule: model.ScheduleDescriptor{Crontab: cfg.Logs.Schedule},
	}); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.Logs.Schedule).Msg("Failed to schedule log ingest sweep")
	}
	log.Info().Str("schedule", cfg.Logs.Schedule).Msg("Scheduled log ingest sweep")

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			tasks, err := taskRepo.List(ctx)
			if err != nil {
				log.Error().Err(err).Msg("Failed to load persisted task schedules")
				return nil
			}
			for _, task := range tasks {
				if task.ID == ingestTaskID {
					continue
				}
				if err := sched.Schedule(task); err != nil {
					log.Error().Err(err).Str("task_id", task.ID).Msg("Failed to restore task schedule")
				}
			}
			log.Info().Int("count", len(tasks)).Msg("Restored persisted task schedules")
			return nil
		},
	})
}

// startLogConsumer runs the Kafka drain loop under fx lifecycle control.
func startLogConsumer(lc fx.Lifecycle, wg *sync.WaitGroup, consumerService service.LogConsumerService) {
	wg.Add(1)
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info().Msg("Starting log consumer goroutine")
			go consumerService.Run(ctx, wg)
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			log.Info().Msg("Signaling log consumer goroutine to stop...")
			cancel()
			return nil
		},
	})
}

// startNotifier runs the live toast notifier under fx lifecycle control.
func startNotifier(lc fx.Lifecycle, notifier *service.Notifier) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go notifier.Run(ctx)
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			return nil
		},
	})
}
