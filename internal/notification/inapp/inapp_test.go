package inapp

import (
	"context"
	"fmt"
	"testing"

	"lead_dashboard_backend/platform/apperr"

	"github.com/google/uuid"
)

func TestFeedIsBoundedNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewRepository(3), nil)

	for i := range 5 {
		if err := svc.Send(ctx, SendParams{Title: "t", Content: fmt.Sprintf("n%d", i)}); err != nil {
			t.Fatalf("Send: %v", err)
		}
	}

	items, total, err := svc.List(ctx, 1, 20)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
	for i, want := range []string{"n4", "n3", "n2"} {
		if items[i].Content != want {
			t.Errorf("items[%d] = %q, want %q", i, items[i].Content, want)
		}
		if items[i].Category != "info" {
			t.Errorf("items[%d].Category = %q, want default info", i, items[i].Category)
		}
	}

	page2, _, _ := svc.List(ctx, 2, 2)
	if len(page2) != 1 || page2[0].Content != "n2" {
		t.Errorf("page 2 = %+v", page2)
	}
	beyond, _, _ := svc.List(ctx, 5, 2)
	if len(beyond) != 0 {
		t.Errorf("out-of-range page = %+v", beyond)
	}
}

func TestMarkRead(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewRepository(10), nil)
	_ = svc.Send(ctx, SendParams{Title: "a", Content: "a"})
	_ = svc.Send(ctx, SendParams{Title: "b", Content: "b"})

	items, _, _ := svc.List(ctx, 1, 10)
	if err := svc.MarkRead(ctx, items[0].ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if n, _ := svc.CountUnread(ctx); n != 1 {
		t.Errorf("unread = %d, want 1", n)
	}
	if err := svc.MarkRead(ctx, uuid.New()); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("MarkRead(unknown) = %v, want not found", err)
	}
	if err := svc.MarkAllRead(ctx); err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}
	if n, _ := svc.CountUnread(ctx); n != 0 {
		t.Errorf("unread after read-all = %d", n)
	}
}

func TestSendRequiresContent(t *testing.T) {
	svc := NewService(NewRepository(10), nil)
	if err := svc.Send(context.Background(), SendParams{Title: "x"}); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("Send without content = %v, want validation error", err)
	}
}
