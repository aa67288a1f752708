package sources

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/mizutanigrandee/vacancy-dashboard/internal/calendar"
)

// Files names the documents making up one pricing mode. An empty name is
// skipped and yields an empty map.
type Files struct {
	Current     string
	Previous    string
	History     string
	Events      string
	LastUpdated string
}

// Bundle is everything one render pass needs, already decoded.
type Bundle struct {
	Current     calendar.SnapshotMap
	Previous    calendar.SnapshotMap
	History     calendar.HistoryMap
	Events      calendar.EventMap
	LastUpdated string
	LoadedAt    time.Time
	// Degraded lists the documents that could not be fetched and were
	// treated as empty. A document that does not exist is not degraded.
	Degraded []string
}

type Loader struct {
	src     Source
	timeout time.Duration
	log     logrus.FieldLogger
	now     func() time.Time
}

func NewLoader(src Source, timeout time.Duration, log logrus.FieldLogger) *Loader {
	return &Loader{src: src, timeout: timeout, log: log, now: time.Now}
}

// Load fetches all documents in parallel. A failed fetch is logged, the
// document treated as empty and its name recorded in Bundle.Degraded. The
// only error returned is the caller's context being done.
func (l *Loader) Load(ctx context.Context, files Files) (Bundle, error) {
	fetchCtx := ctx
	if l.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	var (
		b                         Bundle
		cur, prev, hist, ev, last []byte
		mu                        sync.Mutex
	)
	g, gctx := errgroup.WithContext(fetchCtx)
	for _, job := range []struct {
		file string
		dst  *[]byte
	}{
		{files.Current, &cur},
		{files.Previous, &prev},
		{files.History, &hist},
		{files.Events, &ev},
		{files.LastUpdated, &last},
	} {
		job := job
		g.Go(func() error {
			data, degraded, err := l.fetch(ctx, gctx, job.file)
			*job.dst = data
			if degraded {
				mu.Lock()
				b.Degraded = append(b.Degraded, job.file)
				mu.Unlock()
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Bundle{}, err
	}

	b.Current = DecodeSnapshots(cur)
	b.Previous = DecodeSnapshots(prev)
	b.History = DecodeHistory(hist)
	b.Events = DecodeEvents(ev)
	b.LastUpdated = DecodeLastUpdated(last)
	if b.LastUpdated == "" {
		b.LastUpdated = latestKey(b.Current)
	}
	b.LoadedAt = l.now()
	sort.Strings(b.Degraded)
	return b, nil
}

func (l *Loader) fetch(parent, ctx context.Context, file string) ([]byte, bool, error) {
	if file == "" {
		return nil, false, nil
	}
	data, err := l.src.Fetch(ctx, file)
	if err != nil {
		if perr := parent.Err(); perr != nil {
			return nil, false, perr
		}
		missing := errors.Is(err, ErrNotFound)
		entry := l.log.WithFields(logrus.Fields{
			"source": l.src.Name(),
			"file":   file,
			"error":  err,
		})
		if missing {
			entry.Debug("document missing, using empty data")
		} else {
			entry.Warn("document unavailable, using empty data")
		}
		return nil, !missing, nil
	}
	return data, false, nil
}

func latestKey(m calendar.SnapshotMap) string {
	if len(m) == 0 {
		return ""
	}
	keys := make([]calendar.Date, 0, len(m))
	for d := range m {
		keys = append(keys, d)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })
	return keys[len(keys)-1].String()
}
