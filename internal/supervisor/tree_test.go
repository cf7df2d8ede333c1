// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// blockingService runs until its context is canceled.
type blockingService struct {
	started atomic.Int32
	name    string
}

func (s *blockingService) Serve(ctx context.Context) error {
	s.started.Add(1)
	<-ctx.Done()
	return ctx.Err()
}

func (s *blockingService) String() string { return s.name }

func TestDefaultTreeConfig(t *testing.T) {
	cfg := DefaultTreeConfig()
	if cfg.FailureThreshold != 5.0 {
		t.Errorf("FailureThreshold = %v, want 5", cfg.FailureThreshold)
	}
	if cfg.FailureDecay != 30.0 {
		t.Errorf("FailureDecay = %v, want 30", cfg.FailureDecay)
	}
	if cfg.FailureBackoff != 15*time.Second {
		t.Errorf("FailureBackoff = %v, want 15s", cfg.FailureBackoff)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 10s", cfg.ShutdownTimeout)
	}
}

func TestNewTreeAppliesDefaults(t *testing.T) {
	tree, err := NewTree(testLogger(), TreeConfig{})
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	if tree.config.FailureThreshold != 5.0 || tree.config.ShutdownTimeout != 10*time.Second {
		t.Errorf("zero config not defaulted: %+v", tree.config)
	}
	if tree.Root() == nil {
		t.Fatal("Root() returned nil")
	}
}

func TestTreeRunsBothLayers(t *testing.T) {
	tree, err := NewTree(testLogger(), DefaultTreeConfig())
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}

	dataSvc := &blockingService{name: "fake-refresher"}
	apiSvc := &blockingService{name: "fake-http"}
	tree.AddDataService(dataSvc)
	tree.AddAPIService(apiSvc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	deadline := time.After(2 * time.Second)
	for dataSvc.started.Load() == 0 || apiSvc.started.Load() == 0 {
		select {
		case <-deadline:
			t.Fatalf("services did not start: data=%d api=%d",
				dataSvc.started.Load(), apiSvc.started.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("tree stopped with %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not stop after cancel")
	}
}

func TestTreeRestartsCrashedService(t *testing.T) {
	tree, err := NewTree(testLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureDecay:     30,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}

	var runs atomic.Int32
	crasher := serviceFunc(func(ctx context.Context) error {
		if runs.Add(1) == 1 {
			return errors.New("synthetic crash")
		}
		<-ctx.Done()
		return ctx.Err()
	})
	tree.AddDataService(crasher)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	deadline := time.After(2 * time.Second)
	for runs.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("service restarted %d times, want >= 2", runs.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	<-errCh
}

// serviceFunc adapts a function to suture.Service for tests.
type serviceFunc func(ctx context.Context) error

func (f serviceFunc) Serve(ctx context.Context) error { return f(ctx) }
func (f serviceFunc) String() string                  { return "service-func" }
