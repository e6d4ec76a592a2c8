// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/holiman/uint256"
)

type discardHandler struct{}

// DiscardHandler returns a handler dropping every record.
func DiscardHandler() slog.Handler { return discardHandler{} }

func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (h discardHandler) WithGroup(string) slog.Handler           { return h }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }

// TerminalHandler writes records for humans, one line each:
//
//	INFO [05-16|20:58:45.123] block sealed                 number=12 txs=1
//
// Levels are colored when useColor is set.
type TerminalHandler struct {
	mu       sync.Mutex
	wr       io.Writer
	lvl      *slog.LevelVar
	useColor bool
	attrs    []slog.Attr
	// longest value seen per key, used to align columns
	fieldPadding map[string]int

	buf []byte
}

// NewTerminalHandler returns a TerminalHandler passing records of any level.
func NewTerminalHandler(wr io.Writer, useColor bool) *TerminalHandler {
	return NewTerminalHandlerWithLevel(wr, allLevels(), useColor)
}

// NewTerminalHandlerWithLevel returns a TerminalHandler passing records at lvl or above.
// lvl may be changed while the handler is in use.
func NewTerminalHandlerWithLevel(wr io.Writer, lvl *slog.LevelVar, useColor bool) *TerminalHandler {
	return &TerminalHandler{
		wr:           wr,
		lvl:          lvl,
		useColor:     useColor,
		fieldPadding: make(map[string]int),
	}
}

func (h *TerminalHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.buf = h.format(h.buf[:0], r, h.useColor)
	_, err := h.wr.Write(h.buf)
	return err
}

func (h *TerminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.lvl.Level()
}

// WithGroup is a no-op, groups are flattened.
func (h *TerminalHandler) WithGroup(string) slog.Handler {
	return h
}

func (h *TerminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TerminalHandler{
		wr:           h.wr,
		lvl:          h.lvl,
		useColor:     h.useColor,
		attrs:        append(slices.Clone(h.attrs), attrs...),
		fieldPadding: make(map[string]int),
	}
}

func allLevels() *slog.LevelVar {
	var lvl slog.LevelVar
	lvl.Set(levelMaxVerbosity)
	return &lvl
}

// JSONHandler returns a handler writing one JSON object per record.
func JSONHandler(wr io.Writer) slog.Handler {
	return JSONHandlerWithLevel(wr, allLevels())
}

// JSONHandlerWithLevel is JSONHandler passing records at level or above.
func JSONHandlerWithLevel(wr io.Writer, level *slog.LevelVar) slog.Handler {
	return slog.NewJSONHandler(wr, handlerOptions(level, false))
}

// LogfmtHandler returns a handler writing key=value lines.
func LogfmtHandler(wr io.Writer) slog.Handler {
	return LogfmtHandlerWithLevel(wr, allLevels())
}

// LogfmtHandlerWithLevel is LogfmtHandler passing records at level or above.
func LogfmtHandlerWithLevel(wr io.Writer, level *slog.LevelVar) slog.Handler {
	return slog.NewTextHandler(wr, handlerOptions(level, true))
}

func handlerOptions(level *slog.LevelVar, logfmt bool) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			return replaceAttr(attr, logfmt)
		},
	}
}

// replaceAttr shortens the builtin keys and renders numbers and stringers as text,
// so that amounts keep their full precision.
func replaceAttr(attr slog.Attr, logfmt bool) slog.Attr {
	switch attr.Key {
	case slog.TimeKey:
		if attr.Value.Kind() == slog.KindTime {
			if logfmt {
				return slog.String("t", attr.Value.Time().Format(timeFormat))
			}
			return slog.Attr{Key: "t", Value: attr.Value}
		}
	case slog.LevelKey:
		if l, ok := attr.Value.Any().(slog.Level); ok {
			return slog.String("lvl", LevelString(l))
		}
	}

	switch v := attr.Value.Any().(type) {
	case time.Time:
		if logfmt {
			attr.Value = slog.StringValue(v.Format(timeFormat))
		}
	case *big.Int:
		attr.Value = stringValue(v)
	case *uint256.Int:
		if v == nil {
			attr.Value = slog.StringValue("<nil>")
		} else {
			attr.Value = slog.StringValue(v.Dec())
		}
	case fmt.Stringer:
		attr.Value = stringValue(v)
	}
	return attr
}

func stringValue(v fmt.Stringer) slog.Value {
	if v == nil {
		return slog.StringValue("<nil>")
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return slog.StringValue("<nil>")
	}
	return slog.StringValue(v.String())
}
