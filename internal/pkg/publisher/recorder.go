package publisher

import (
	"context"
	"sync"

	"github.com/ds124wfegd/WB_L3/thumbnailer/internal/entity"
	"github.com/sirupsen/logrus"
)

type RecordedResponse struct {
	Target      entity.ResponseTarget
	StatusCode  int
	ContentType string
	Body        []byte
}

// Recorder keeps published responses in memory instead of sending them to the platform.
// A non-nil Err is returned from every Publish call after the attempt is recorded.
type Recorder struct {
	Err error

	mu        sync.Mutex
	responses []RecordedResponse
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Publish(ctx context.Context, target entity.ResponseTarget, thumb *entity.EncodedThumbnail) error {
	r.mu.Lock()
	r.responses = append(r.responses, RecordedResponse{
		Target:      target,
		StatusCode:  200,
		ContentType: thumb.ContentType,
		Body:        thumb.Data,
	})
	r.mu.Unlock()

	if r.Err != nil {
		classified := Classify(r.Err)
		logrus.WithFields(logrus.Fields{
			"route":          target.Route,
			"classification": classified.Label(),
		}).Error("can not put file")
		return classified
	}
	return nil
}

func (r *Recorder) Responses() []RecordedResponse {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RecordedResponse(nil), r.responses...)
}

// Last returns the most recent response, if any.
func (r *Recorder) Last() (RecordedResponse, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.responses) == 0 {
		return RecordedResponse{}, false
	}
	return r.responses[len(r.responses)-1], true
}
