// Copyright (c) 2024 The Launchpad developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log provides the process-wide structured logger.
//
// Loggers obtained with WithContext before the handler is installed keep
// working; they resolve the current handler on every record.
package log

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
)

var root atomic.Pointer[slog.Handler]

func init() {
	discard := slog.Handler(DiscardHandler())
	root.Store(&discard)
}

// SetHandler installs the process-wide handler.
func SetHandler(h slog.Handler) {
	root.Store(&h)
}

// Root returns a logger delegating to the installed handler.
func Root() *slog.Logger {
	return slog.New(&swapHandler{})
}

// WithContext returns a logger carrying the given key-value context.
func WithContext(kvs ...any) *slog.Logger {
	return Root().With(kvs...)
}

// swapHandler forwards records to the currently installed handler, applying
// the attrs accumulated by With calls.
type swapHandler struct {
	attrs []slog.Attr
}

func (h *swapHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return (*root.Load()).Enabled(ctx, level)
}

func (h *swapHandler) Handle(ctx context.Context, r slog.Record) error {
	target := *root.Load()
	if len(h.attrs) > 0 {
		target = target.WithAttrs(h.attrs)
	}
	return target.Handle(ctx, r)
}

func (h *swapHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &swapHandler{attrs: merged}
}

func (h *swapHandler) WithGroup(name string) slog.Handler {
	// groups are not used by this codebase
	return h
}

// DiscardHandler returns a handler that drops every record.
func DiscardHandler() slog.Handler {
	return discardHandler{}
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

// NewTextHandler returns a handler writing human-readable lines at the given
// minimum level.
func NewTextHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
}

// NewJSONHandler returns a handler writing one JSON object per record.
func NewJSONHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}
