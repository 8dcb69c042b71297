// wiring the platform client, origin fetcher, processor and outcome stream; running under
// the Lambda runtime or as a local HTTP server
package appServer

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ds124wfegd/WB_L3/thumbnailer/config"
	"github.com/ds124wfegd/WB_L3/thumbnailer/internal/entity"
	"github.com/ds124wfegd/WB_L3/thumbnailer/internal/pkg/kafka"
	"github.com/ds124wfegd/WB_L3/thumbnailer/internal/pkg/origin"
	"github.com/ds124wfegd/WB_L3/thumbnailer/internal/pkg/processor"
	"github.com/ds124wfegd/WB_L3/thumbnailer/internal/pkg/publisher"
	"github.com/ds124wfegd/WB_L3/thumbnailer/internal/pkg/storage"
	"github.com/ds124wfegd/WB_L3/thumbnailer/internal/service"
	"github.com/ds124wfegd/WB_L3/thumbnailer/internal/transport"
	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// SetupLogging configures the process-wide logrus logger.
func SetupLogging(cfg *config.Config) {
	logrus.SetFormatter(&logrus.JSONFormatter{DisableTimestamp: cfg.Log.DisableTimestamp})

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logrus.WithError(err).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

// NewS3Client builds the platform client once per process.
func NewS3Client(ctx context.Context, cfg config.AWSConfig) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	}), nil
}

func newFetcher(cfg config.OriginConfig) origin.Fetcher {
	client := resty.New()
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return origin.NewHTTPFetcher(client, cfg.MaxObjectBytes)
}

func newService(cfg *config.Config, pub publisher.ResponsePublisher, producer kafka.Producer) service.ThumbnailService {
	return service.NewThumbnailService(
		newFetcher(cfg.Origin),
		processor.NewImageProcessor(entity.ThumbnailSpec{
			EdgeLength:       cfg.Thumbnail.EdgeLength,
			MaxDecodedPixels: cfg.Thumbnail.MaxDecodedPixels,
		}),
		pub,
		producer,
		service.Options{
			OutcomeTopic:         cfg.Kafka.Topic,
			PublishFailurePolicy: entity.PublishFailurePolicy(cfg.Thumbnail.PublishFailurePolicy),
		},
	)
}

func NewServer(cfg *config.Config) error {

	SetupLogging(cfg)

	producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer producer.Close()

	if cfg.Server.Mode == config.ModeLocal {
		return runLocal(cfg, newService(cfg, publisher.NewRecorder(), producer))
	}

	s3Client, err := NewS3Client(context.Background(), cfg.AWS)
	if err != nil {
		return err
	}
	svc := newService(cfg, publisher.NewS3Publisher(s3Client), producer)

	logrus.WithField("edge", cfg.Thumbnail.EdgeLength).Info("lambda handler starting")
	lambda.Start(svc.Handle)
	return nil
}

func runLocal(cfg *config.Config, svc service.ThumbnailService) error {
	gin.SetMode(cfg.Server.GinMode)

	handler := transport.NewHandler(svc, storage.NewFileStorage(cfg.Storage.BasePath))

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(handler)); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.WithField("port", cfg.Server.Port).Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
		return err
	}
	return nil
}
