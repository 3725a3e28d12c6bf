package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/quangdo/shopcart-api/configs"
	"github.com/quangdo/shopcart-api/internal/adapter/cache"
	httpadapter "github.com/quangdo/shopcart-api/internal/adapter/http"
	"github.com/quangdo/shopcart-api/internal/adapter/http/middleware"
	"github.com/quangdo/shopcart-api/internal/adapter/kafka"
	"github.com/quangdo/shopcart-api/internal/adapter/mailer"
	"github.com/quangdo/shopcart-api/internal/adapter/queue"
	"github.com/quangdo/shopcart-api/internal/adapter/repo"
	domain "github.com/quangdo/shopcart-api/internal/entity"
	"github.com/quangdo/shopcart-api/internal/logging"
	"github.com/quangdo/shopcart-api/internal/usecase"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	logger := logging.Init(cfg.App.Name, cfg.App.LogFile)
	logger.Info("shop-api: starting up")

	// mongo
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, closeMongo, err := repo.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.ConnectTimeout)
	if err != nil {
		return nil, nil, err
	}
	if err := repo.EnsureIndexes(ctx, db); err != nil {
		closeMongo()
		return nil, nil, err
	}

	// redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		closeMongo()
		return nil, nil, err
	}

	// rabbitmq
	conn, err := amqp091.Dial(cfg.Rabbit.URL)
	if err != nil {
		closeMongo()
		_ = rdb.Close()
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		closeMongo()
		_ = rdb.Close()
		_ = conn.Close()
		return nil, nil, err
	}

	producer, err := queue.NewRabbitProducer(ch)
	if err != nil {
		closeMongo()
		_ = rdb.Close()
		_ = conn.Close()
		return nil, nil, err
	}

	// infra
	productRepo := repo.NewMongoProductRepo(db)
	cartRepo := repo.NewMongoCartRepo(db)
	orderRepo := repo.NewMongoOrderRepo(db)
	idem := cache.NewRedisIdempotencyStore(rdb, cfg.Idempotency.TTL)
	statusCache := cache.NewRedisStatusCache(rdb, cfg.Cache.TTL)

	// consumers
	smtp := mailer.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username,
		cfg.SMTP.Password, cfg.SMTP.From, cfg.SMTP.OpsEmail)
	setupQueue(ch, smtp)
	setupKafkaListener(cfg, orderRepo, statusCache)

	// pricing rules come from config; the tax rate is a decimal string
	taxRate, err := decimal.NewFromString(cfg.Pricing.TaxRate)
	if err != nil {
		closeMongo()
		_ = rdb.Close()
		_ = conn.Close()
		return nil, nil, err
	}
	pricing := domain.Pricing{
		Currency:                   cfg.Pricing.Currency,
		FreeShippingThresholdCents: cfg.Pricing.FreeShippingThresholdCents,
		FlatShippingCents:          cfg.Pricing.FlatShippingCents,
		TaxRate:                    taxRate,
	}

	// use cases
	cartSvc := usecase.NewCartService(cartRepo, productRepo)
	checkout := usecase.NewCheckout(cartRepo, productRepo, orderRepo, idem, producer, pricing)
	orderSvc := usecase.NewOrderService(orderRepo, productRepo, statusCache, producer)
	catalogSvc := usecase.NewCatalogService(productRepo)

	// handlers + router + middleware
	handlers := httpadapter.Handlers{
		Catalog: httpadapter.NewCatalogHandler(catalogSvc),
		Cart:    httpadapter.NewCartHandler(cartSvc),
		Orders:  httpadapter.NewOrderHandler(checkout, orderSvc),
		Admin:   httpadapter.NewAdminOrderHandler(orderSvc),
		Token:   httpadapter.NewTokenHandler(cfg),
	}
	authz := middleware.NewAuthz(cfg)
	router := httpadapter.NewRouter(handlers, authz, logging.New("http"))

	cleanup := func() {
		_ = ch.Close()
		_ = conn.Close()
		_ = rdb.Close()
		closeMongo()
	}

	return &App{Router: router}, cleanup, nil
}

func setupQueue(ch *amqp091.Channel, m queue.Mailer) {
	created := queue.NewOrderCreatedEmailHandler(m)
	status := queue.NewOrderStatusEmailHandler(m)

	router := queue.NewRouter(ch, queue.WithPrefetch(50))
	router.Register(queue.CreatedQueue, queue.JSONHandler[usecase.OrderCreatedMsg]{HandleFunc: created.HandleCreated})
	router.Register(queue.StatusQueue, queue.JSONHandler[usecase.OrderStatusMsg]{HandleFunc: status.HandleStatus})

	if err := router.Start(); err != nil {
		panic(err)
	}
}

func setupKafkaListener(cfg configs.Config, orders usecase.OrderRepo, statusCache usecase.StatusCache) {
	grp, err := kafka.NewGroup(cfg.Kafka.Brokers, cfg.Kafka.GroupID)
	if err != nil {
		panic(err)
	}

	h := kafka.NewPaymentStatusChangedHandler(orders, statusCache)
	consumer := kafka.NewConsumer(grp, []string{cfg.Kafka.PaymentTopic}, h.Handle)

	go func() {
		if err := consumer.Start(context.Background()); err != nil {
			logging.Base().Error("kafka consumer stopped", "error", err)
		}
	}()
}
