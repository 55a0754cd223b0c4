package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ziadkadry99/shopbot/internal/session"
)

func TestSaveAndReadTurns(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer d.Close()

	now := time.Now()
	d.SaveTurn("s1", session.Turn{Role: session.RoleUser, Content: "hello", Intent: "general_inquiry", Timestamp: now})
	d.SaveTurn("s1", session.Turn{Role: session.RoleAssistant, Content: "hi there", Timestamp: now.Add(time.Second)})
	d.SaveTurn("s2", session.Turn{Role: session.RoleUser, Content: "other session", Timestamp: now})

	turns, err := d.Turns("s1")
	if err != nil {
		t.Fatalf("read turns: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns for s1, got %d", len(turns))
	}
	if turns[0].Role != session.RoleUser || turns[0].Content != "hello" || turns[0].Intent != "general_inquiry" {
		t.Errorf("first turn mismatch: %+v", turns[0])
	}
	if turns[1].Role != session.RoleAssistant {
		t.Errorf("second turn mismatch: %+v", turns[1])
	}

	empty, err := d.Turns("unknown")
	if err != nil {
		t.Fatalf("read turns: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no turns for unknown session, got %d", len(empty))
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "chat.db")

	d, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer d.Close()

	d.SaveTurn("s1", session.Turn{Role: session.RoleUser, Content: "persisted", Timestamp: time.Now()})

	turns, err := d.Turns("s1")
	if err != nil {
		t.Fatalf("read turns: %v", err)
	}
	if len(turns) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(turns))
	}
}

func TestPruneBefore(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer d.Close()

	now := time.Now()
	d.SaveTurn("s1", session.Turn{Role: session.RoleUser, Content: "old", Timestamp: now.Add(-48 * time.Hour)})
	d.SaveTurn("s1", session.Turn{Role: session.RoleUser, Content: "recent", Timestamp: now})

	removed, err := d.PruneBefore(now.Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 pruned row, got %d", removed)
	}

	turns, err := d.Turns("s1")
	if err != nil {
		t.Fatalf("read turns: %v", err)
	}
	if len(turns) != 1 || turns[0].Content != "recent" {
		t.Fatalf("unexpected surviving turns: %+v", turns)
	}
}

func TestPersisterIntegration(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer d.Close()

	mgr := session.NewManager(time.Minute, 20, session.WithPersister(d))
	sess := mgr.Create("u1")

	mgr.AppendTurn(sess.ID, session.Turn{Role: session.RoleUser, Content: "logged"})

	turns, err := d.Turns(sess.ID)
	if err != nil {
		t.Fatalf("read turns: %v", err)
	}
	if len(turns) != 1 || turns[0].Content != "logged" {
		t.Fatalf("persister did not record the turn: %+v", turns)
	}
}
