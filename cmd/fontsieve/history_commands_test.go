package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"fontsieve/internal/history"
	"fontsieve/internal/testsupport"
)

func TestHistoryEmpty(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "No runs recorded") {
		t.Fatalf("unexpected output: %q", out)
	}
	if _, _, err := runCLI(t, []string{"history", "show", "deadbeef"}, env.configPath); err == nil {
		t.Fatal("expected unknown run id to fail")
	}
}

func TestHistoryPrune(t *testing.T) {
	env := setupCLITestEnv(t)
	store := testsupport.MustOpenHistory(t, env.cfg)
	ctx := context.Background()
	now := time.Now()
	for id, started := range map[string]time.Time{
		"old-run": now.Add(-72 * time.Hour),
		"new-run": now.Add(-time.Minute),
	} {
		run := history.Run{ID: id, StartedAt: started, FinishedAt: started.Add(time.Second), Backend: "inprocess", Flavor: "woff2", Status: history.StatusCompleted}
		if err := store.Record(ctx, run, nil); err != nil {
			t.Fatalf("Record %s: %v", id, err)
		}
	}

	out, _, err := runCLI(t, []string{"history", "prune", "--older-than", "24h"}, env.configPath)
	if err != nil {
		t.Fatalf("history prune: %v", err)
	}
	if !strings.Contains(out, "Deleted 1 runs") {
		t.Fatalf("unexpected output: %q", out)
	}

	out, _, err = runCLI(t, []string{"history", "--limit", "0"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "new-run") || strings.Contains(out, "old-run") {
		t.Fatalf("prune kept the wrong runs: %q", out)
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0123456789abcdef"); got != "01234567" {
		t.Fatalf("shortID = %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Fatalf("shortID(short) = %q", got)
	}
}
