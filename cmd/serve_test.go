package cmd

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"serve", "--detach", "--addr", ":1", "--detach=true"})
	want := []string{"serve", "--addr", ":1"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("filterDetachArg = %v, want %v", got, want)
	}
}

func TestPIDFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spendchart.pid")

	if _, err := readPID(path); !os.IsNotExist(err) {
		t.Fatalf("readPID(missing) err = %v, want not-exist", err)
	}
	if err := ensureServerNotRunning(path); err != nil {
		t.Fatalf("ensureServerNotRunning(missing) = %v", err)
	}

	if err := writePID(path, 4242); err != nil {
		t.Fatal(err)
	}
	pid, err := readPID(path)
	if err != nil || pid != 4242 {
		t.Fatalf("readPID = %d, %v; want 4242", pid, err)
	}

	if err := os.WriteFile(path, []byte("garbage\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := readPID(path); err == nil {
		t.Fatal("expected error for invalid pid")
	}
}

func TestEnsureServerNotRunning_DetectsSelf(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spendchart.pid")
	if err := writePID(path, os.Getpid()); err != nil {
		t.Fatal(err)
	}
	if err := ensureServerNotRunning(path); err == nil {
		t.Fatal("expected already-running error for own pid")
	}
}

func TestRuntimeState(t *testing.T) {
	path := statePath(filepath.Join(t.TempDir(), "spendchart.pid"))
	want := serverRuntimeState{
		PID:       7,
		Addr:      "127.0.0.1:8788",
		StartedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		FeedPath:  "/data/payments.json",
	}
	if err := writeState(path, want); err != nil {
		t.Fatal(err)
	}
	got, err := readState(path)
	if err != nil {
		t.Fatal(err)
	}
	if !got.StartedAt.Equal(want.StartedAt) || got.PID != want.PID || got.Addr != want.Addr || got.FeedPath != want.FeedPath {
		t.Fatalf("state = %+v, want %+v", got, want)
	}
}
