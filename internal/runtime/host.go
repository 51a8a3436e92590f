// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"golang.org/x/sync/errgroup"

	"github.com/walker84837/lunash/internal/clipboard"
	"github.com/walker84837/lunash/internal/httpclient"
	"github.com/walker84837/lunash/internal/modules"
)

type (
	// HostOption configures a Host.
	HostOption func(*Host)

	// Host prepares and runs sessions. Each Run gets a fresh Lua state,
	// a fresh shared HTTP client and a fresh module registry.
	Host struct {
		httpOpts  httpclient.Options
		clipboard clipboard.Backend
		registry  func(modules.Context) *modules.Registry
	}
)

// WithHTTPOptions configures the per-session HTTP client.
func WithHTTPOptions(opts httpclient.Options) HostOption {
	return func(h *Host) { h.httpOpts = opts }
}

// WithClipboard replaces the system clipboard backend.
func WithClipboard(b clipboard.Backend) HostOption {
	return func(h *Host) { h.clipboard = b }
}

// NewHost creates a Host with the default module set.
func NewHost(opts ...HostOption) *Host {
	h := &Host{registry: modules.DefaultRegistry}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes script on a dedicated worker goroutine and blocks until it
// finishes. args becomes the guest's arg table. Panics in the worker are
// reported as *RuntimeFault.
func (h *Host) Run(ctx context.Context, script *Script, args []string) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("session worker panicked", "script", script.Path, "panic", r)
				err = &RuntimeFault{
					Path:       script.Path,
					Message:    fmt.Sprintf("host panic: %v", r),
					StackTrace: string(debug.Stack()),
				}
			}
		}()
		return h.runSession(gctx, script, args)
	})

	return g.Wait()
}

func (h *Host) runSession(ctx context.Context, script *Script, args []string) error {
	client, err := httpclient.New(h.httpOpts)
	if err != nil {
		return &SetupError{Stage: "create http client", Err: err}
	}

	session := NewSession(ctx)
	defer session.Close()

	reg := h.registry(modules.Context{HTTP: client, Clipboard: h.clipboard})
	if err := session.Configure(reg, args); err != nil {
		return err
	}
	if err := session.Load(script); err != nil {
		return err
	}

	slog.Debug("running script", "path", script.Path, "args", len(args))
	return session.Run()
}
