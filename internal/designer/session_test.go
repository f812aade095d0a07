package designer

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/meridian-fc/meridian/internal/grid"
)

func TestRegistryCreateAndGet(t *testing.T) {
	reg := NewRegistry(time.Hour)
	sess := reg.Create()
	if sess.ID == "" {
		t.Fatalf("session without id")
	}

	got, err := reg.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != sess {
		t.Fatalf("Get returned a different session")
	}

	if _, err := reg.Get("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestRegistryClose(t *testing.T) {
	reg := NewRegistry(time.Hour)
	sess := reg.Create()
	reg.Close(sess.ID)
	if _, err := reg.Get(sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("closed session still resolvable")
	}
}

func TestRegistrySweepReapsIdleSessions(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	reg := NewRegistry(30 * time.Minute)
	reg.WithClock(func() time.Time { return now })

	stale := reg.Create()
	now = now.Add(45 * time.Minute)
	fresh := reg.Create()

	if reaped := reg.Sweep(); reaped != 1 {
		t.Fatalf("reaped = %d, want 1", reaped)
	}
	if _, err := reg.Get(stale.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("stale session survived sweep")
	}
	if _, err := reg.Get(fresh.ID); err != nil {
		t.Fatalf("fresh session reaped: %v", err)
	}
}

func TestRegistrySweepDisabledWithoutTTL(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	reg := NewRegistry(0)
	reg.WithClock(func() time.Time { return now })

	reg.Create()
	now = now.Add(24 * time.Hour)
	if reaped := reg.Sweep(); reaped != 0 {
		t.Fatalf("zero TTL must disable reaping, reaped %d", reaped)
	}
}

func TestSessionDoSerialisesWorkbookAccess(t *testing.T) {
	reg := NewRegistry(time.Hour)
	sess := reg.Create()

	const writers = 8
	const perWriter = 25
	var wg sync.WaitGroup
	wg.Add(writers)
	for w := 0; w < writers; w++ {
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				_ = sess.Do(func(wb *grid.Workbook) error {
					sheet := wb.Active()
					sheet.SetValue(w, i, "x")
					return nil
				})
			}
		}(w)
	}
	wg.Wait()

	err := sess.Do(func(wb *grid.Workbook) error {
		for w := 0; w < writers; w++ {
			for i := 0; i < perWriter; i++ {
				if wb.Active().Text(w, i) != "x" {
					return errors.New("lost write")
				}
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
}

func TestSessionReplaceSwapsWorkbook(t *testing.T) {
	reg := NewRegistry(time.Hour)
	sess := reg.Create()

	loaded := grid.NewWorkbook()
	loaded.Active().SetValue(0, 0, "loaded")
	sess.Replace(loaded)

	_ = sess.Do(func(wb *grid.Workbook) error {
		if wb != loaded {
			t.Fatalf("workbook not replaced")
		}
		return nil
	})
}
