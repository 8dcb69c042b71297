package publisher

import (
	"bytes"
	"context"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ds124wfegd/WB_L3/thumbnailer/internal/entity"
	"github.com/sirupsen/logrus"
)

type ResponsePublisher interface {
	Publish(ctx context.Context, target entity.ResponseTarget, thumb *entity.EncodedThumbnail) error
}

// WriteGetObjectResponseAPI is the slice of *s3.Client the publisher needs.
type WriteGetObjectResponseAPI interface {
	WriteGetObjectResponse(ctx context.Context, params *s3.WriteGetObjectResponseInput, optFns ...func(*s3.Options)) (*s3.WriteGetObjectResponseOutput, error)
}

type s3Publisher struct {
	client WriteGetObjectResponseAPI
}

func NewS3Publisher(client WriteGetObjectResponseAPI) ResponsePublisher {
	return &s3Publisher{client: client}
}

// Publish submits the thumbnail as the response to the intercepted request. The token is
// single-use, so the call is made exactly once with SDK retries disabled.
func (p *s3Publisher) Publish(ctx context.Context, target entity.ResponseTarget, thumb *entity.EncodedThumbnail) error {
	log := logrus.WithFields(logrus.Fields{
		"route":  target.Route,
		"token":  target.Token,
		"length": thumb.Len(),
	})
	log.Info("put file")

	_, err := p.client.WriteGetObjectResponse(ctx, &s3.WriteGetObjectResponseInput{
		RequestRoute:  aws.String(target.Route),
		RequestToken:  aws.String(target.Token),
		Body:          bytes.NewReader(thumb.Data),
		ContentType:   aws.String(thumb.ContentType),
		ContentLength: aws.Int64(int64(thumb.Len())),
		StatusCode:    aws.Int32(http.StatusOK),
	}, func(o *s3.Options) {
		o.RetryMaxAttempts = 1
	})
	if err != nil {
		classified := Classify(err)
		log.WithError(err).WithField("classification", classified.Label()).Error("can not put file")
		return classified
	}

	log.Info("put file done")
	return nil
}
