package entity

import "time"

const ContentTypePNG = "image/png"

// ObjectContext is the per-request bundle supplied by the object interception runtime.
type ObjectContext struct {
	InputURL    string `json:"inputS3Url"`
	OutputRoute string `json:"outputRoute"`
	OutputToken string `json:"outputToken"`
}

func (c ObjectContext) Target() ResponseTarget {
	return ResponseTarget{Route: c.OutputRoute, Token: c.OutputToken}
}

// ResponseTarget addresses a single response submission. The token is invalidated by the
// platform after one attempt.
type ResponseTarget struct {
	Route string `json:"route"`
	Token string `json:"token"`
}

type ThumbnailSpec struct {
	EdgeLength       int
	MaxDecodedPixels int64
}

type EncodedThumbnail struct {
	Data        []byte
	ContentType string
}

func (t *EncodedThumbnail) Len() int {
	return len(t.Data)
}

type Stage string

const (
	StageStart            Stage = "start"
	StageContextExtracted Stage = "context_extracted"
	StageFetched          Stage = "fetched"
	StageTransformed      Stage = "transformed"
	StagePublished        Stage = "published"
	StageDone             Stage = "done"
	StageFailed           Stage = "failed"
)

// PublishFailurePolicy decides what a failed response submission means for the invocation.
type PublishFailurePolicy string

const (
	PublishFailureSucceed PublishFailurePolicy = "succeed"
	PublishFailureFail    PublishFailurePolicy = "fail"
)

// InvocationOutcome is the record emitted to the outcome stream once an invocation terminates.
type InvocationOutcome struct {
	RequestID      string    `json:"request_id"`
	InputURL       string    `json:"input_url,omitempty"`
	Route          string    `json:"route,omitempty"`
	Stage          Stage     `json:"stage"`
	LastStage      Stage     `json:"last_stage"`
	Succeeded      bool      `json:"succeeded"`
	SourceBytes    int       `json:"source_bytes,omitempty"`
	ThumbnailBytes int       `json:"thumbnail_bytes,omitempty"`
	PublishError   string    `json:"publish_error,omitempty"`
	Error          string    `json:"error,omitempty"`
	FinishedAt     time.Time `json:"finished_at"`
}
