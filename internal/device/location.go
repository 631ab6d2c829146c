// Package device wraps the capability providers the entry flow may
// consult: geolocation and receipt image storage. Failures here are
// non-fatal; a transaction simply goes in without the attachment.
package device

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/kienmai98/Life/internal/core"
	"github.com/kienmai98/Life/internal/log"
)

// Source produces the device's current position. Implementations talk
// to whatever positioning hardware or service is available.
type Source interface {
	Current(ctx context.Context) (core.GeoPoint, error)
}

// Fix is a position with the time it was obtained.
type Fix struct {
	Point core.GeoPoint
	At    time.Time
}

// Locator wraps a Source with an explicit timeout and a max-staleness
// window: a fix younger than maxAge is reused instead of asking the
// hardware again.
type Locator struct {
	src     Source
	timeout time.Duration
	maxAge  time.Duration
	now     func() time.Time

	mu   sync.Mutex
	last *Fix
}

func NewLocator(src Source, timeout, maxAge time.Duration) *Locator {
	return &Locator{
		src:     src,
		timeout: timeout,
		maxAge:  maxAge,
		now:     time.Now,
	}
}

// Locate returns a recent position. The underlying call is bounded by
// the configured timeout; an error means "no location this time", which
// callers report and move past.
func (l *Locator) Locate(ctx context.Context) (core.GeoPoint, error) {
	l.mu.Lock()
	if l.last != nil && l.now().Sub(l.last.At) <= l.maxAge {
		pt := l.last.Point
		l.mu.Unlock()
		return pt, nil
	}
	l.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	pt, err := l.src.Current(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Location unavailable",
			log.FieldComponent, log.ComponentDevice,
			log.FieldError, err)
		return core.GeoPoint{}, err
	}

	l.mu.Lock()
	l.last = &Fix{Point: pt, At: l.now()}
	l.mu.Unlock()

	return pt, nil
}
