package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/ds124wfegd/WB_L3/thumbnailer/internal/entity"
	"github.com/ds124wfegd/WB_L3/thumbnailer/internal/pkg/publisher"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Handle runs one intercepted request through fetch, transform and publish.
// Input, retrieval and transformation errors are returned immediately; a publish failure
// is logged and mapped to the result according to the configured policy.
func (s *thumbnailService) Handle(ctx context.Context, event events.S3ObjectLambdaEvent) error {
	outcome := &entity.InvocationOutcome{
		RequestID: requestID(ctx, event),
		Stage:     entity.StageStart,
		LastStage: entity.StageStart,
	}
	log := logrus.WithField("request_id", outcome.RequestID)
	log.Info("handler starts")

	err := s.run(ctx, log, event, outcome)

	outcome.FinishedAt = time.Now().UTC()
	if err != nil {
		outcome.Stage = entity.StageFailed
		outcome.Error = err.Error()
		log.WithError(err).WithField("stage", outcome.LastStage).Error("handler failed")
	} else {
		outcome.Stage = entity.StageDone
		outcome.Succeeded = true
		log.Info("handler ends")
	}

	s.notify(log, outcome)
	return err
}

func (s *thumbnailService) run(ctx context.Context, log *logrus.Entry, event events.S3ObjectLambdaEvent, outcome *entity.InvocationOutcome) error {
	objCtx, err := ExtractObjectContext(event)
	if err != nil {
		return err
	}
	outcome.InputURL = objCtx.InputURL
	outcome.Route = objCtx.OutputRoute
	advance(log, outcome, entity.StageContextExtracted)

	data, err := s.fetcher.Fetch(ctx, objCtx.InputURL)
	if err != nil {
		return wrapIfNot(err, entity.ErrRetrievalFailed)
	}
	outcome.SourceBytes = len(data)
	advance(log, outcome, entity.StageFetched)

	thumb, err := s.processor.Thumbnail(data)
	if err != nil {
		return wrapIfNot(err, entity.ErrTransformFailed)
	}
	outcome.ThumbnailBytes = thumb.Len()
	advance(log, outcome, entity.StageTransformed)

	if err := s.publisher.Publish(ctx, objCtx.Target(), thumb); err != nil {
		classified := publisher.Classify(err)
		outcome.PublishError = classified.Label()
		log.WithFields(logrus.Fields{
			"classification": classified.Label(),
			"policy":         s.opts.PublishFailurePolicy,
		}).Warn("response not delivered")

		if s.opts.PublishFailurePolicy == entity.PublishFailureFail {
			return classified
		}
		return nil
	}
	advance(log, outcome, entity.StagePublished)

	return nil
}

// ExtractObjectContext pulls the single GetObject context out of an interception event.
func ExtractObjectContext(event events.S3ObjectLambdaEvent) (entity.ObjectContext, error) {
	if event.GetObjectContext == nil {
		return entity.ObjectContext{}, entity.ErrMissingObjectContext
	}

	objCtx := entity.ObjectContext{
		InputURL:    event.GetObjectContext.InputS3URL,
		OutputRoute: event.GetObjectContext.OutputRoute,
		OutputToken: event.GetObjectContext.OutputToken,
	}
	switch {
	case objCtx.InputURL == "":
		return objCtx, fmt.Errorf("%w: empty inputS3Url", entity.ErrInvalidObjectContext)
	case objCtx.OutputRoute == "":
		return objCtx, fmt.Errorf("%w: empty outputRoute", entity.ErrInvalidObjectContext)
	case objCtx.OutputToken == "":
		return objCtx, fmt.Errorf("%w: empty outputToken", entity.ErrInvalidObjectContext)
	}
	return objCtx, nil
}

func (s *thumbnailService) notify(log *logrus.Entry, outcome *entity.InvocationOutcome) {
	if s.producer == nil {
		return
	}
	if err := s.producer.SendMessage(s.opts.OutcomeTopic, outcome.RequestID, outcome); err != nil {
		log.WithError(err).Warn("outcome event not sent")
	}
}

func advance(log *logrus.Entry, outcome *entity.InvocationOutcome, stage entity.Stage) {
	outcome.LastStage = stage
	log.WithField("stage", stage).Info("stage reached")
}

func wrapIfNot(err, sentinel error) error {
	if errors.Is(err, sentinel) {
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}

func requestID(ctx context.Context, event events.S3ObjectLambdaEvent) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	if event.XAmzRequestID != "" {
		return event.XAmzRequestID
	}
	return uuid.New().String()
}
