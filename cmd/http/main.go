package main

import (
	"context"
	"errors"
	"fhirstarter-service/internal/app/config"
	"fhirstarter-service/internal/app/contracts"
	"fhirstarter-service/internal/app/delivery/http/controllers"
	"fhirstarter-service/internal/app/delivery/http/middlewares"
	"fhirstarter-service/internal/app/delivery/http/routers"
	"fhirstarter-service/internal/app/drivers/database"
	"fhirstarter-service/internal/app/drivers/logger"
	"fhirstarter-service/internal/app/drivers/messaging"
	"fhirstarter-service/internal/app/drivers/storage"
	"fhirstarter-service/internal/app/services/core/forms"
	"fhirstarter-service/internal/app/services/core/valuesets"
	"fhirstarter-service/internal/app/services/fhir_spark/questionnaire_answers"
	"fhirstarter-service/internal/app/services/fhir_spark/questionnaires"
	fhirValueSets "fhirstarter-service/internal/app/services/fhir_spark/valuesets"
	"fhirstarter-service/internal/app/services/shared/events"
	"fhirstarter-service/internal/app/services/shared/locker"
	redisRepository "fhirstarter-service/internal/app/services/shared/redis"
	attachmentStorage "fhirstarter-service/internal/app/services/shared/storage"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewZapLogger(driverConfig, internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatal("Error loading location", zap.Error(err))
	}
	time.Local = location

	bootstrap := &config.Bootstrap{
		Router:         chi.NewRouter(),
		Redis:          database.NewRedisClient(driverConfig),
		Logger:         log,
		RabbitMQ:       messaging.NewRabbitMQ(driverConfig),
		Minio:          storage.NewMinio(driverConfig, internalConfig),
		InternalConfig: internalConfig,
		DriverConfig:   driverConfig,
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	err = bootstrapingTheApp(workerCtx, bootstrap)
	if err != nil {
		log.Fatal("Failed to bootstrap the app", zap.Error(err))
	}

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: bootstrap.Router,
	}

	go func() {
		log.Info("Server started", zap.String("address", internalConfig.App.Port))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	log.Info("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	stopWorkers()
	err = bootstrap.Shutdown(shutdownCtx)
	if err != nil {
		log.Error("Failed to release resources", zap.Error(err))
	}

	log.Info("Server exiting")
}

func bootstrapingTheApp(ctx context.Context, bootstrap *config.Bootstrap) error {
	internalConfig := bootstrap.InternalConfig
	fhirTimeout := time.Duration(internalConfig.FHIR.RequestTimeoutInSeconds) * time.Second

	// FHIR
	questionnaireFhirClient := questionnaires.NewQuestionnaireFhirClient(internalConfig.FHIR.BaseUrl, fhirTimeout)
	questionnaireAnswerFhirClient := questionnaire_answers.NewQuestionnaireAnswerFhirClient(internalConfig.FHIR.BaseUrl, fhirTimeout)
	valueSetFhirClient := fhirValueSets.NewValueSetFhirClient(internalConfig.FHIR.BaseUrl, fhirTimeout)

	// Redis
	var redisRepo contracts.RedisRepository
	if bootstrap.Redis != nil {
		redisRepo = redisRepository.NewRedisRepository(bootstrap.Redis)
	}

	lockerService := locker.NewLocalLockService()
	if redisRepo != nil {
		lockerService = locker.NewLockService(redisRepo, bootstrap.Logger)
	}

	// Value sets
	valueSetUsecase := valuesets.NewValueSetUsecase(
		valueSetFhirClient,
		redisRepo,
		time.Duration(internalConfig.Form.ValueSetCacheTTLInMinutes)*time.Minute,
		bootstrap.Logger,
	)

	// Minio
	var storageService contracts.AttachmentStorage
	if bootstrap.Minio != nil {
		storageService = attachmentStorage.NewMinioStorage(bootstrap.Minio, internalConfig.Minio.BucketName, internalConfig.Minio.PublicBaseUrl)
	}

	// RabbitMQ
	publisher := events.NewLogPublisher(bootstrap.Logger)
	if bootstrap.RabbitMQ != nil {
		rabbitPublisher, err := events.NewRabbitMQPublisher(bootstrap.RabbitMQ, internalConfig.RabbitMQ.FormEventsQueue, bootstrap.Logger)
		if err != nil {
			return err
		}
		publisher = rabbitPublisher
	}
	asyncPublisher := events.NewAsyncPublisher(publisher, internalConfig.Form.EventQueueSize, bootstrap.Logger)
	asyncPublisher.Start()
	bootstrap.PublisherStop = asyncPublisher.Stop

	// Forms
	formUsecase := forms.NewFormUsecase(
		questionnaireFhirClient,
		questionnaireAnswerFhirClient,
		valueSetUsecase,
		storageService,
		asyncPublisher,
		lockerService,
		internalConfig,
		bootstrap.Logger,
	)
	formController := controllers.NewFormController(bootstrap.Logger, formUsecase, internalConfig)

	sweepWorker := forms.NewSweepWorker(bootstrap.Logger, formUsecase, internalConfig.Form.SessionSweepIntervalSeconds)
	sweepWorker.Start(ctx)
	bootstrap.WorkerStop = sweepWorker.Stop

	// Middlewares
	middlewares := middlewares.NewMiddlewares(bootstrap.Logger, internalConfig)

	routers.SetupRoutes(bootstrap.Router, internalConfig, middlewares, formController)
	return nil
}
