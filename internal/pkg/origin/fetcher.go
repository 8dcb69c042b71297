package origin

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/ds124wfegd/WB_L3/thumbnailer/internal/entity"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// DefaultMaxObjectBytes caps how much of an origin object is ever read into memory.
const DefaultMaxObjectBytes int64 = 10_000_000

type Fetcher interface {
	Fetch(ctx context.Context, locator string) ([]byte, error)
}

type httpFetcher struct {
	client   *resty.Client
	maxBytes int64
}

func NewHTTPFetcher(client *resty.Client, maxBytes int64) Fetcher {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxObjectBytes
	}
	return &httpFetcher{client: client, maxBytes: maxBytes}
}

func (f *httpFetcher) Fetch(ctx context.Context, locator string) ([]byte, error) {
	log := logrus.WithField("url", locator)
	log.Info("get file")

	resp, err := f.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(locator)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrRetrievalFailed, err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.IsError() {
		return nil, fmt.Errorf("%w: origin responded %s", entity.ErrRetrievalFailed, resp.Status())
	}

	header := resp.Header().Get("Content-Length")
	if header == "" {
		return nil, fmt.Errorf("%w: missing Content-Length header", entity.ErrRetrievalFailed)
	}
	declared, err := strconv.ParseInt(header, 10, 64)
	if err != nil || declared < 0 {
		return nil, fmt.Errorf("%w: invalid Content-Length %q", entity.ErrRetrievalFailed, header)
	}

	expected := min(declared, f.maxBytes)
	buf := bytes.NewBuffer(make([]byte, 0, expected))

	n, err := io.Copy(buf, io.LimitReader(body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", entity.ErrRetrievalFailed, err)
	}
	if n < expected {
		return nil, fmt.Errorf("%w: body truncated at %d of %d bytes", entity.ErrRetrievalFailed, n, expected)
	}

	if declared > f.maxBytes {
		log.WithFields(logrus.Fields{
			"declared": declared,
			"limit":    f.maxBytes,
		}).Warn("origin object exceeds read limit, truncated")
	}

	log.WithField("bytes", n).Info("got file")
	return buf.Bytes(), nil
}
