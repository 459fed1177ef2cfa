package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/minio/minio-go/v7"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"filesight/internal/ai"
	"filesight/internal/config"
	"filesight/internal/model"
	mysqlClient "filesight/internal/platform/mysql"
	rabbitmqClient "filesight/internal/platform/rabbitmq"
	redisClient "filesight/internal/platform/redis"
	s3Client "filesight/internal/platform/s3"
	"filesight/internal/repository"
	"filesight/internal/storage"
	"filesight/internal/worker"
)

type App struct {
	Config      *config.Config
	MySQL       *gorm.DB
	Redis       *redis.Client
	MQConn      *amqp.Connection
	S3          *minio.Client
	Objects     *storage.ObjectStore
	Provider    ai.Provider
	EventWorker *worker.EventPersistWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(&model.User{}, &model.Upload{}, &model.Insight{}, &model.ActivityEvent{}); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	minioCli, err := s3Client.New(ctx, cfg.S3.Endpoint, cfg.S3.Region, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, cfg.S3.Bucket)
	if err != nil {
		return nil, err
	}
	objects := storage.NewObjectStore(minioCli, cfg.S3.Bucket, cfg.S3.Endpoint)

	// The provider is chosen once here and fixed for the process lifetime.
	var provider ai.Provider
	if cfg.Anthropic.Live() {
		provider = ai.NewAnthropicProvider(ai.AnthropicConfig{
			BaseURL: cfg.Anthropic.BaseURL,
			APIKey:  cfg.Anthropic.APIKey,
			Model:   cfg.Anthropic.Model,
			Version: cfg.Anthropic.Version,
		})
		log.Printf("ai provider initialized with Anthropic API (model %s)", cfg.Anthropic.Model)
	} else {
		provider = ai.NewMockProvider()
		log.Printf("ai provider initialized with mock responses (no API key)")
	}

	eventRepo := repository.NewEventRepository(mysqlDB)
	eventWorker := worker.NewEventPersistWorker(mqConn, eventRepo, cfg.RabbitMQ.ActivityQueue)
	if err := eventWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start event worker failed: %w", err)
	}

	return &App{
		Config:      cfg,
		MySQL:       mysqlDB,
		Redis:       redisCli,
		MQConn:      mqConn,
		S3:          minioCli,
		Objects:     objects,
		Provider:    provider,
		EventWorker: eventWorker,
		StartedAt:   time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.EventWorker != nil {
		a.EventWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
