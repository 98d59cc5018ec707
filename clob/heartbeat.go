package clob

import (
	"context"
	"time"
)

// TimeSource resolves the timestamp used for L1/L2 signing. LocalTimeSource
// is the default; a caller that needs the server's clock supplies one backed
// by a REST time endpoint.
type TimeSource interface {
	Now(ctx context.Context) (int64, error)
}

// LocalTimeSource signs with this process's wall clock.
type LocalTimeSource struct{}

// Now implements TimeSource.
func (LocalTimeSource) Now(_ context.Context) (int64, error) {
	return time.Now().Unix(), nil
}

// heartbeatTask tracks one running background heartbeat goroutine so it can
// be cancelled and awaited before a new one replaces it.
type heartbeatTask struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// StartHeartbeat (re)starts the background heartbeat with interval and fn,
// replacing and awaiting the shutdown of any task already running.
func (in *Inner) StartHeartbeat(interval time.Duration, fn func(ctx context.Context) error) {
	in.heartbeatMu.Lock()
	in.heartbeatInterval = interval
	in.heartbeatFn = fn
	in.heartbeatMu.Unlock()
	in.restartHeartbeatIfConfigured()
}

// StopHeartbeat cancels and awaits the running heartbeat, if any, and clears
// the configuration so a later transition does not revive it.
func (in *Inner) StopHeartbeat() {
	in.heartbeatMu.Lock()
	in.heartbeatFn = nil
	task := in.heartbeat
	in.heartbeat = nil
	in.heartbeatMu.Unlock()
	awaitHeartbeatStop(task)
}

// stopHeartbeatTask cancels and awaits the running heartbeat without
// clearing the configured interval/fn, so restartHeartbeatIfConfigured can
// bring it back after a transition completes.
func (in *Inner) stopHeartbeatTask() {
	in.heartbeatMu.Lock()
	task := in.heartbeat
	in.heartbeat = nil
	in.heartbeatMu.Unlock()
	awaitHeartbeatStop(task)
}

func awaitHeartbeatStop(task *heartbeatTask) {
	if task == nil {
		return
	}
	task.cancel()
	<-task.done
}

// restartHeartbeatIfConfigured spawns a fresh heartbeat goroutine using the
// last interval/fn passed to StartHeartbeat, or does nothing if none was
// ever configured (or it was cleared by StopHeartbeat).
func (in *Inner) restartHeartbeatIfConfigured() {
	in.heartbeatMu.Lock()
	defer in.heartbeatMu.Unlock()
	if in.heartbeat != nil {
		in.heartbeat.cancel()
		<-in.heartbeat.done
		in.heartbeat = nil
	}
	if in.heartbeatFn == nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	fn := in.heartbeatFn
	interval := in.heartbeatInterval
	in.heartbeat = &heartbeatTask{cancel: cancel, done: done}

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := fn(ctx); err != nil {
					in.logger.Warn("clob: heartbeat tick failed", "error", err)
				}
			}
		}
	}()
}
