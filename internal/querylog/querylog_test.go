package querylog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
)

func TestStore_AppendGetForget(t *testing.T) {
	s := NewStore()
	s.Append("q1", Record{Message: "first"})
	s.Append("q1", Record{Message: "second"})

	got := s.Get("q1")
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Message != "first" || got[1].Message != "second" {
		t.Errorf("unexpected order: %+v", got)
	}

	s.Forget("q1")
	if got := s.Get("q1"); len(got) != 0 {
		t.Errorf("expected records forgotten, got %+v", got)
	}
}

func TestStore_GetReturnsDefensiveCopy(t *testing.T) {
	s := NewStore()
	s.Append("q1", Record{Message: "first"})

	got := s.Get("q1")
	got[0].Message = "mutated"

	if s.Get("q1")[0].Message != "first" {
		t.Error("expected Get to return a defensive copy")
	}
}

func TestHandler_CapturesRecordsByAccumulatedQueryIDAttr(t *testing.T) {
	var buf bytes.Buffer
	store := NewStore()
	base := slog.NewTextHandler(&buf, nil)
	handler := NewHandler(base, store)

	logger := slog.New(handler).With("query_id", "q1")
	logger.Info("first message")
	logger.Warn("second message")

	records := store.Get("q1")
	if len(records) != 2 {
		t.Fatalf("expected 2 captured records, got %d", len(records))
	}
	if records[0].Message != "first message" || records[0].Level != "INFO" {
		t.Errorf("unexpected first record: %+v", records[0])
	}
	if records[1].Message != "second message" || records[1].Level != "WARN" {
		t.Errorf("unexpected second record: %+v", records[1])
	}
}

func TestHandler_IgnoresRecordsWithoutQueryID(t *testing.T) {
	var buf bytes.Buffer
	store := NewStore()
	handler := NewHandler(slog.NewTextHandler(&buf, nil), store)
	logger := slog.New(handler)

	logger.Info("untagged message")

	if got := store.Get(""); len(got) != 0 {
		t.Errorf("expected no records captured for untagged logger, got %+v", got)
	}
}

func TestHandler_StillDelegatesToWrappedHandler(t *testing.T) {
	var buf bytes.Buffer
	store := NewStore()
	handler := NewHandler(slog.NewTextHandler(&buf, nil), store)
	logger := slog.New(handler).With("query_id", "q1")

	logger.Info("delegated message")

	if buf.Len() == 0 {
		t.Error("expected the wrapped handler to still receive the record")
	}
}

func TestWithQueryID_RoundTrip(t *testing.T) {
	ctx := WithQueryID(context.Background(), "q1")
	got, ok := QueryIDFromContext(ctx)
	if !ok || got != "q1" {
		t.Errorf("expected q1, got %s (ok=%v)", got, ok)
	}
}

func TestQueryIDFromContext_Absent(t *testing.T) {
	if _, ok := QueryIDFromContext(context.Background()); ok {
		t.Error("expected no query id in a bare context")
	}
}
