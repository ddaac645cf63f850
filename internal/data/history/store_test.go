package history

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndLoadSnapshots(t *testing.T) {
	s := openTestStore(t)

	snap := Snapshot{
		RootPath:             "/proj/main.tex",
		FileCount:            4,
		FileErrorCount:       1,
		GlobalErrorCount:     2,
		DefaultCommands:      30,
		UserCommands:         3,
		DocumentCommands:     5,
		InferredCommands:     2,
		BuiltinEnvironments:  10,
		UserEnvironments:     1,
		DocumentEnvironments: 2,
	}
	if err := s.SaveSnapshot("thesis", snap); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := s.LoadSnapshots("thesis", time.Time{})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one snapshot, got %d", len(got))
	}
	g := got[0]
	if g.RunID == "" {
		t.Error("run id must be generated")
	}
	if g.Timestamp.IsZero() {
		t.Error("timestamp must be filled")
	}
	if g.RootPath != snap.RootPath || g.FileCount != 4 || g.FileErrorCount != 1 || g.GlobalErrorCount != 2 {
		t.Errorf("run stats mismatch: %+v", g)
	}
	if g.DocumentCommands != 5 || g.InferredCommands != 2 || g.DocumentEnvironments != 2 {
		t.Errorf("category counts mismatch: %+v", g)
	}
	if g.SchemaVersion != SchemaVersion {
		t.Errorf("schema version = %d", g.SchemaVersion)
	}
}

func TestLoadSnapshotsScoping(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveSnapshot("a", Snapshot{RootPath: "/a"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveSnapshot("b", Snapshot{RootPath: "/b"}); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadSnapshots("a", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].RootPath != "/a" {
		t.Errorf("project keys must be isolated: %+v", got)
	}

	future, err := s.LoadSnapshots("a", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(future) != 0 {
		t.Errorf("since filter must apply: %+v", future)
	}
}

func TestSaveSnapshotOrdering(t *testing.T) {
	s := openTestStore(t)

	older := Snapshot{RootPath: "/first", Timestamp: time.Now().UTC().Add(-time.Minute)}
	newer := Snapshot{RootPath: "/second", Timestamp: time.Now().UTC()}
	if err := s.SaveSnapshot("p", newer); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveSnapshot("p", older); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadSnapshots("p", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].RootPath != "/first" || got[1].RootPath != "/second" {
		t.Errorf("snapshots must come back in timestamp order: %+v", got)
	}
}

func TestOpenRejectsBadPaths(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Error("empty path must be rejected")
	}
	if _, err := Open(t.TempDir()); err == nil {
		t.Error("directory path must be rejected")
	}
}
