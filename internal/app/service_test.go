package app

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stationeryhub/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

type fakeService struct {
	name     string
	startErr error
	block    bool
	stopped  atomic.Bool
}

func (s *fakeService) Name() string { return s.name }

func (s *fakeService) Start(ctx context.Context) error {
	if s.block {
		<-ctx.Done()
		return nil
	}
	return s.startErr
}

func (s *fakeService) Stop(context.Context) error {
	s.stopped.Store(true)
	return nil
}

func TestRunnerStopsAllServicesOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	api := &fakeService{name: "http", block: true}
	wk := &fakeService{name: "worker", block: true}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewRunner(api, wk).Run(ctx, time.Second, zap.NewNop().Sugar()) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop")
	}
	assert.True(t, api.stopped.Load())
	assert.True(t, wk.stopped.Load())
}

func TestRunnerReturnsFirstServiceError(t *testing.T) {
	boom := errors.New("listen failed")
	failing := &fakeService{name: "http", startErr: boom}
	blocking := &fakeService{name: "worker", block: true}

	err := NewRunner(failing, blocking).Run(context.Background(), time.Second, nil)
	require.ErrorIs(t, err, boom)
	assert.True(t, blocking.stopped.Load())
}

func TestRunnerWithoutServices(t *testing.T) {
	assert.Error(t, NewRunner().Run(context.Background(), time.Second, nil))
	assert.Error(t, RunWithOptions(nil, Options{}))
}

func TestIsValidMode(t *testing.T) {
	for _, mode := range []string{ModeAll, ModeAPI, ModeWorker} {
		assert.True(t, IsValidMode(mode), mode)
	}
	assert.False(t, IsValidMode("cron"))
	assert.Equal(t, ModeAll, normalizeOptions(Options{}).Mode)
}

func TestHTTPServiceStopsCleanly(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	svc := NewHTTPService(config.ServerConfig{Host: "127.0.0.1", Port: "0"}, http.NotFoundHandler())
	assert.Equal(t, "127.0.0.1:0", svc.Addr())
	assert.Equal(t, "http", svc.Name())

	done := make(chan error, 1)
	go func() { done <- svc.Start(context.Background()) }()
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, svc.Stop(ctx))
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("http service did not stop")
	}
}

type failingStop struct{ fakeService }

func (s *failingStop) Stop(context.Context) error { return errors.New("flush failed") }

func TestRunnerJoinsStopErrors(t *testing.T) {
	svc := &failingStop{fakeService{name: "cache", block: true}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewRunner(svc).Run(ctx, time.Second, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stop cache: flush failed")
}
