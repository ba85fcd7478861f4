package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

const jsonTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// jsonHandler writes one JSON object per record. A run_id carried on the
// context is added when the logger was not already bound to one, so batch
// lines stay joinable with the ledger even through plain Info calls.
type jsonHandler struct {
	inner    slog.Handler
	hasRunID bool
}

func newJSONHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	opts := slog.HandlerOptions{
		Level:       lvl,
		AddSource:   addSource,
		ReplaceAttr: replaceJSONAttr,
	}
	return &jsonHandler{inner: slog.NewJSONHandler(w, &opts)}
}

func replaceJSONAttr(_ []string, attr slog.Attr) slog.Attr {
	switch attr.Key {
	case slog.TimeKey:
		attr.Key = "ts"
		if attr.Value.Kind() == slog.KindTime {
			attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(jsonTimeLayout))
		}
		return attr
	case slog.LevelKey:
		attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
		return attr
	case slog.SourceKey:
		if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
			attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
		}
		return attr
	case FieldPath:
		attr.Value = slog.StringValue(filepath.ToSlash(attr.Value.String()))
		return attr
	}
	if attr.Value.Kind() == slog.KindDuration {
		attr.Key += "_ms"
		attr.Value = slog.Int64Value(attr.Value.Duration().Milliseconds())
	}
	return attr
}

func (h *jsonHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *jsonHandler) Handle(ctx context.Context, record slog.Record) error {
	if !h.hasRunID && !recordHasKey(record, FieldRunID) {
		if fields := ContextFields(ctx); len(fields) > 0 {
			record = record.Clone()
			record.AddAttrs(fields...)
		}
	}
	return h.inner.Handle(ctx, record)
}

func (h *jsonHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	hasRunID := h.hasRunID
	for _, attr := range attrs {
		if attr.Key == FieldRunID {
			hasRunID = true
		}
	}
	return &jsonHandler{inner: h.inner.WithAttrs(attrs), hasRunID: hasRunID}
}

func (h *jsonHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &jsonHandler{inner: h.inner.WithGroup(name), hasRunID: h.hasRunID}
}

func recordHasKey(record slog.Record, key string) bool {
	found := false
	record.Attrs(func(attr slog.Attr) bool {
		if attr.Key == key {
			found = true
			return false
		}
		return true
	})
	return found
}
