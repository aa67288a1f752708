package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
)

// HTTPSource reads documents from the published dashboard site. Every request
// carries a v=<unix millis> parameter so intermediate caches never serve a
// stale snapshot.
type HTTPSource struct {
	base   string
	client *retryablehttp.Client
	now    func() time.Time
}

func NewHTTPSource(baseURL string, retryMax int, timeout time.Duration, log logrus.FieldLogger) *HTTPSource {
	client := retryablehttp.NewClient()
	client.RetryMax = retryMax
	client.RetryWaitMin = 100 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = timeout
	client.Logger = leveledLogger{log: log}
	return &HTTPSource{
		base:   strings.TrimRight(baseURL, "/"),
		client: client,
		now:    time.Now,
	}
}

func (s *HTTPSource) Name() string { return "http:" + s.base }

func (s *HTTPSource) Fetch(ctx context.Context, file string) ([]byte, error) {
	u := fmt.Sprintf("%s/%s?v=%s", s.base, escapePath(file), strconv.FormatInt(s.now().UnixMilli(), 10))
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", file, ErrNotFound)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: %s", file, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// escapePath escapes each segment of a document path and keeps the slashes
// between them.
func escapePath(file string) string {
	segs := strings.Split(strings.TrimLeft(file, "/"), "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return strings.Join(segs, "/")
}

// leveledLogger routes retryablehttp's key/value logging into logrus.
type leveledLogger struct {
	log logrus.FieldLogger
}

func (l leveledLogger) entry(kv []interface{}) logrus.FieldLogger {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		fields[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return l.log.WithFields(fields)
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.entry(kv).Error(msg) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.entry(kv).Debug(msg) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.entry(kv).Debug(msg) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.entry(kv).Warn(msg) }
