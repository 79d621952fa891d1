package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/hadirly/attendance-backend-go/internal/config"
	"github.com/hadirly/attendance-backend-go/internal/domain/dedup"
	"github.com/hadirly/attendance-backend-go/internal/domain/notification"
	appHTTP "github.com/hadirly/attendance-backend-go/internal/handler/http"
	"github.com/hadirly/attendance-backend-go/internal/pkg/awsconf"
	"github.com/hadirly/attendance-backend-go/internal/pkg/cron"
	"github.com/hadirly/attendance-backend-go/internal/pkg/database"
	"github.com/hadirly/attendance-backend-go/internal/pkg/redisdb"
	"github.com/hadirly/attendance-backend-go/internal/pkg/storage"
	"github.com/hadirly/attendance-backend-go/internal/repository/memory"
	"github.com/hadirly/attendance-backend-go/internal/repository/postgresql"
	redisRepo "github.com/hadirly/attendance-backend-go/internal/repository/redisdb"
	attendanceService "github.com/hadirly/attendance-backend-go/internal/service/attendance"
	"github.com/hadirly/attendance-backend-go/internal/service/ingest"
	"github.com/hadirly/attendance-backend-go/internal/service/notify"
	"github.com/hadirly/attendance-backend-go/internal/service/selfie"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	companyRepo := postgresql.NewCompanyRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)

	var dedupStore dedup.Store
	redisClient, err := redisdb.New(cfg.Redis.URL)
	if err != nil {
		log.Fatal("Error connecting to Redis: ", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		dedupStore = redisRepo.NewDedupStore(redisClient)
	} else {
		dedupStore = memory.NewDedupStore()
	}

	var dispatcher notification.Dispatcher
	if cfg.Queue.ReplyQueueURL != "" {
		awsCfg, err := awsconf.Load(context.Background(), cfg.Queue.Region, cfg.Queue.Endpoint)
		if err != nil {
			log.Fatal("Error loading AWS config: ", err)
		}
		dispatcher = notify.NewSQSDispatcher(sqs.NewFromConfig(awsCfg), cfg.Queue.ReplyQueueURL, cfg.Queue.AlertQueueURL)
	} else {
		dispatcher = notify.NewLogDispatcher()
	}

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			log.Fatal("Failed to initialize local storage: ", err)
		}
	default:
		log.Fatal("Unsupported storage type: ", cfg.Storage.Type)
	}

	recorder := attendanceService.NewRecorderService(attendanceRepo)
	archiver := selfie.NewService(fileStorage)
	ingestService := ingest.NewService(
		companyRepo,
		employeeRepo,
		recorder,
		dedupStore,
		dispatcher,
		archiver,
		cfg.Webhook.DedupTTL,
	)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(attendanceRepo, employeeRepo, companyRepo, dispatcher).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	webhookHandler := appHTTP.NewWebhookHandler(ingestService)
	qrHandler := appHTTP.NewQRHandler(companyRepo, cfg.QR.DeepLinkBase)
	router := appHTTP.NewRouter(webhookHandler, qrHandler)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	log.Println("Server listening on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal("Server error: ", err)
	}
}
