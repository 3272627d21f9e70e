package runlock_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"wordmill/internal/runlock"
)

func TestAcquireAndRelease(t *testing.T) {
	dir := t.TempDir()
	lock := runlock.New(dir)

	if err := lock.Acquire(); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if _, err := os.Stat(lock.Path()); err != nil {
		t.Fatalf("expected lock file at %s: %v", lock.Path(), err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
}

func TestAcquireCreatesMissingDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	lock := runlock.New(dir)

	if err := lock.Acquire(); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer lock.Release()
}

func TestSecondAcquireFails(t *testing.T) {
	dir := t.TempDir()
	first := runlock.New(dir)
	if err := first.Acquire(); err != nil {
		t.Fatalf("first Acquire: %v", err)
	}
	defer first.Release()

	second := runlock.New(dir)
	err := second.Acquire()
	if !errors.Is(err, runlock.ErrAlreadyLocked) {
		t.Fatalf("expected ErrAlreadyLocked, got %v", err)
	}
}

func TestReleaseWithoutAcquire(t *testing.T) {
	lock := runlock.New(t.TempDir())
	if err := lock.Release(); err != nil {
		t.Fatalf("Release without Acquire should be nil, got %v", err)
	}
}
