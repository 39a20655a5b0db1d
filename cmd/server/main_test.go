package main

import (
	"log/slog"
	"testing"
	"time"
)

func TestWatchParentExitsWhenOrphaned(t *testing.T) {
	originalGetppid := getppid
	originalSleep := sleep
	originalExit := exit
	defer func() {
		getppid = originalGetppid
		sleep = originalSleep
		exit = originalExit
	}()

	ppids := []int{42, 42, 1}
	calls := 0
	getppid = func() int {
		ppid := ppids[calls]
		if calls < len(ppids)-1 {
			calls++
		}
		return ppid
	}
	sleep = func(time.Duration) {}

	exited := make(chan int, 1)
	exit = func(code int) {
		exited <- code
		// Block the goroutine like a real exit would.
		select {}
	}

	go watchParent(slog.Default())

	select {
	case code := <-exited:
		if code != 0 {
			t.Errorf("exit code: got %d, want 0", code)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watchParent did not exit after being orphaned")
	}
}
