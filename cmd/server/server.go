package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"

	"coursehub/app/course/api"
	"coursehub/app/course/service"
	"coursehub/common/events"
	"coursehub/common/lock"
	"coursehub/common/log"
	"coursehub/common/middleware"
	ext "coursehub/config"
)

const ServiceName = "coursehub"

var (
	configYml string
	StartCmd  = &cobra.Command{
		Use:          "server",
		Short:        "Start API server",
		Example:      "coursehub server -c config/settings.yml",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
)

func init() {
	StartCmd.PersistentFlags().StringVarP(&configYml, "config", "c", "config/settings.yml", "Start server with provided configuration file")
}

func run() error {
	_ = log.WithTracer(startingCtx, PackageName, "load config", func(ctx context.Context) error {
		if err := ext.Setup(configYml); err != nil {
			panic(err)
		}
		return nil
	})

	var mongodbClient *mongo.Client
	_ = log.WithTracer(startingCtx, PackageName, "init mongodb", func(ctx context.Context) error {
		cfg := ext.ExtConfig.Mongodb
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		opts := options.Client().ApplyURI(cfg.DSN)
		if log.UptraceOk() {
			opts.SetMonitor(otelmongo.NewMonitor())
		}
		client, err := mongo.Connect(ctx, opts)
		if err != nil {
			panic(err)
		}
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			panic(err)
		}
		mongodbClient = client
		return nil
	})

	var rdb *redis.Client
	_ = log.WithTracer(startingCtx, PackageName, "init redis", func(ctx context.Context) error {
		cfg := ext.ExtConfig.Redis
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Dsn,
			DB:       cfg.DB,
			Password: cfg.Password,
		})
		if log.UptraceOk() {
			rdb.AddHook(redisotel.NewTracingHook())
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			panic(err)
		}
		return nil
	})

	locker := lock.New(rdb)
	if cfg := ext.ExtConfig.Lock; cfg.TTLSeconds > 0 {
		locker.TTL = time.Duration(cfg.TTLSeconds) * time.Second
		locker.RetryInterval = time.Duration(cfg.RetryIntervalMS) * time.Millisecond
		locker.RetryLimit = cfg.RetryLimit
	}

	bus := events.NewBus()
	svc := service.NewCourseService(mongodbClient, bus, locker)
	svc.RegisterHandlers()
	courseAPI := api.NewCourseAPI(svc)

	if mode := ext.ExtConfig.Application.Mode; mode != "" {
		gin.SetMode(mode)
	}
	r := gin.New()
	_ = log.WithTracer(startingCtx, PackageName, "init router", func(ctx context.Context) error {
		if log.UptraceOk() {
			r.Use(otelgin.Middleware(ServiceName))
		}
		r.Use(gin.Recovery())
		r.Use(middleware.RequestId(middleware.TrafficKey))
		api.InitRouter(r, courseAPI)
		return nil
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", ext.ExtConfig.Application.Host, ext.ExtConfig.Application.Port),
		Handler: r,
	}

	log.SafeGo(func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Logger().Fatal("listen: ", err)
		}
	}, log.WithName("http-server"), log.PanicToExit())
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	fmt.Printf("%s Shutdown Server ... \r\n", time.Now().Format("2006-01-02 15:04:05"))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Logger().Fatal("Server Shutdown:", err)
	}
	log.Logger().Println("Server exiting")

	return nil
}
