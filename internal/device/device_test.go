package device

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/kienmai98/Life/internal/core"
)

type fakeSource struct {
	point core.GeoPoint
	err   error
	calls int
}

func (f *fakeSource) Current(_ context.Context) (core.GeoPoint, error) {
	f.calls++
	if f.err != nil {
		return core.GeoPoint{}, f.err
	}
	return f.point, nil
}

func TestLocateCachesWithinMaxAge(t *testing.T) {
	src := &fakeSource{point: core.GeoPoint{Latitude: 45.07, Longitude: 7.69}}
	l := NewLocator(src, 15*time.Second, 10*time.Second)

	now := time.Unix(1000, 0)
	l.now = func() time.Time { return now }

	pt, err := l.Locate(context.Background())
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if pt != src.point {
		t.Fatalf("unexpected point %+v", pt)
	}

	// Second call inside the staleness window reuses the fix.
	now = now.Add(5 * time.Second)
	if _, err := l.Locate(context.Background()); err != nil {
		t.Fatalf("locate: %v", err)
	}
	if src.calls != 1 {
		t.Fatalf("expected cached fix, source called %d times", src.calls)
	}

	// Past the window the source is asked again.
	now = now.Add(10 * time.Second)
	if _, err := l.Locate(context.Background()); err != nil {
		t.Fatalf("locate: %v", err)
	}
	if src.calls != 2 {
		t.Fatalf("expected refresh, source called %d times", src.calls)
	}
}

func TestLocateFailureIsReported(t *testing.T) {
	src := &fakeSource{err: errors.New("no signal")}
	l := NewLocator(src, time.Second, time.Second)

	if _, err := l.Locate(context.Background()); err == nil {
		t.Fatal("expected error from failing source")
	}
}

func TestReceiptVaultStore(t *testing.T) {
	vault, err := NewReceiptVault(t.TempDir())
	if err != nil {
		t.Fatalf("new vault: %v", err)
	}

	uri, err := vault.Store(context.Background(), strings.NewReader("fake-image-bytes"), ".PNG")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if !strings.HasPrefix(uri, "file://") || !strings.HasSuffix(uri, ".png") {
		t.Fatalf("unexpected uri %q", uri)
	}

	data, err := os.ReadFile(strings.TrimPrefix(uri, "file://"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "fake-image-bytes" {
		t.Fatalf("unexpected contents %q", data)
	}
}
