package app

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestTripsortHandler_Handle(t *testing.T) {
	ts := time.Date(2024, 3, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		name    string
		opID    string
		level   slog.Level
		message string
		attrs   []slog.Attr
		want    string
	}{
		{
			name:    "basic info message",
			opID:    "20240315T143045Z-Apply",
			level:   slog.LevelInfo,
			message: "recorded folder mapping transaction",
			want:    "2024-03-15T14:30:45Z\tINFO\t20240315T143045Z-Apply\trecorded folder mapping transaction\n",
		},
		{
			name:    "debug level",
			opID:    "op-456",
			level:   slog.LevelDebug,
			message: "detection pass complete",
			want:    "2024-03-15T14:30:45Z\tDEBUG\top-456\tdetection pass complete\n",
		},
		{
			name:    "with record attrs",
			opID:    "op-789",
			level:   slog.LevelInfo,
			message: "renamed",
			attrs:   []slog.Attr{slog.String("from", "2024-03-16 Reykjavik"), slog.Int("day", 2)},
			want:    "2024-03-15T14:30:45Z\tINFO\top-789\trenamed\tfrom=2024-03-16 Reykjavik\tday=2\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &tripsortHandler{w: &buf, opID: tt.opID}

			r := slog.NewRecord(ts, tt.level, tt.message, 0)
			for _, a := range tt.attrs {
				r.AddAttrs(a)
			}

			if err := h.Handle(context.Background(), r); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("Handle() output =\n%q\nwant:\n%q", got, tt.want)
			}
		})
	}
}

func TestTripsortHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := &tripsortHandler{w: &buf, opID: "op-1"}

	h2 := h.WithAttrs([]slog.Attr{slog.String("project", "iceland")}).(*tripsortHandler)

	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := slog.NewRecord(ts, slog.LevelInfo, "apply", 0)
	r.AddAttrs(slog.String("id", "txn_1_abc"))

	if err := h2.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "project=iceland") {
		t.Errorf("expected pre-set attr project=iceland, got: %q", got)
	}
	if !strings.Contains(got, "id=txn_1_abc") {
		t.Errorf("expected record attr id=txn_1_abc, got: %q", got)
	}
}

func TestTripsortHandler_WithAttrs_doesNotMutateOriginal(t *testing.T) {
	var buf bytes.Buffer
	h := &tripsortHandler{w: &buf, opID: "op-1", attrs: []slog.Attr{slog.String("a", "1")}}

	h2 := h.WithAttrs([]slog.Attr{slog.String("b", "2")}).(*tripsortHandler)

	if len(h.attrs) != 1 {
		t.Errorf("original handler attrs modified: got %d, want 1", len(h.attrs))
	}
	if len(h2.attrs) != 2 {
		t.Errorf("derived handler attrs: got %d, want 2", len(h2.attrs))
	}
}

func TestSlogAdapterSatisfiesLoggerShape(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(&tripsortHandler{w: &buf, opID: "op-1"})
	a := &slogAdapter{l: l}

	a.Info("hello", "key", "value")

	got := buf.String()
	if !strings.Contains(got, "hello") || !strings.Contains(got, "key=value") {
		t.Errorf("adapter output missing message or attr: %q", got)
	}
}
