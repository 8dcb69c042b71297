package service

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/ds124wfegd/WB_L3/thumbnailer/internal/entity"
	"github.com/ds124wfegd/WB_L3/thumbnailer/internal/pkg/kafka"
	"github.com/ds124wfegd/WB_L3/thumbnailer/internal/pkg/origin"
	"github.com/ds124wfegd/WB_L3/thumbnailer/internal/pkg/processor"
	"github.com/ds124wfegd/WB_L3/thumbnailer/internal/pkg/publisher"
)

const DefaultOutcomeTopic = "thumbnail-outcomes"

type ThumbnailService interface {
	Handle(ctx context.Context, event events.S3ObjectLambdaEvent) error
	// WithPublisher returns a copy of the service that submits responses through p.
	WithPublisher(p publisher.ResponsePublisher) ThumbnailService
}

type Options struct {
	OutcomeTopic         string
	PublishFailurePolicy entity.PublishFailurePolicy
}

// thumbnailService holds only process-scoped handles built once at startup; it is never
// mutated after construction and is safe for concurrent invocations.
type thumbnailService struct {
	fetcher   origin.Fetcher
	processor processor.ImageProcessor
	publisher publisher.ResponsePublisher
	producer  kafka.Producer
	opts      Options
}

func NewThumbnailService(fetcher origin.Fetcher, processor processor.ImageProcessor, publisher publisher.ResponsePublisher, producer kafka.Producer, opts Options) ThumbnailService {
	if opts.OutcomeTopic == "" {
		opts.OutcomeTopic = DefaultOutcomeTopic
	}
	if opts.PublishFailurePolicy == "" {
		opts.PublishFailurePolicy = entity.PublishFailureSucceed
	}
	return &thumbnailService{
		fetcher:   fetcher,
		processor: processor,
		publisher: publisher,
		producer:  producer,
		opts:      opts,
	}
}

func (s *thumbnailService) WithPublisher(p publisher.ResponsePublisher) ThumbnailService {
	clone := *s
	clone.publisher = p
	return &clone
}
