package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Tiliavir/learnflow/internal/storage"
)

type sample struct {
	GoalID int64  `json:"goal_id"`
	Note   string `json:"note"`
}

func TestLoadJSONNotExist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	var s sample
	found, err := storage.LoadJSON(path, &s)
	if err != nil {
		t.Fatalf("LoadJSON on missing file: %v", err)
	}
	if found {
		t.Error("LoadJSON found = true, want false")
	}
}

func TestSaveJSONAndLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	if err := storage.SaveJSON(path, sample{GoalID: 7, Note: "go"}); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind after SaveJSON")
	}

	var loaded sample
	found, err := storage.LoadJSON(path, &loaded)
	if err != nil {
		t.Fatalf("LoadJSON after save: %v", err)
	}
	if !found {
		t.Fatal("LoadJSON found = false, want true")
	}
	if loaded.GoalID != 7 || loaded.Note != "go" {
		t.Errorf("LoadJSON = %+v, want {7 go}", loaded)
	}
}

func TestLoadJSONCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{bad json"), 0o600); err != nil {
		t.Fatal(err)
	}

	var s sample
	if _, err := storage.LoadJSON(path, &s); err == nil {
		t.Fatal("expected error for corrupt JSON, got nil")
	}
	if _, err := os.Stat(path + ".corrupt"); os.IsNotExist(err) {
		t.Error("expected backup file to exist after corrupt JSON")
	}
}

func TestRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := storage.SaveJSON(path, sample{}); err != nil {
		t.Fatal(err)
	}
	if err := storage.Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := storage.Remove(path); err != nil {
		t.Errorf("Remove on missing file: %v", err)
	}
}

func TestBaseDirOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LEARNFLOW_HOME", dir)
	got, err := storage.BaseDir()
	if err != nil {
		t.Fatal(err)
	}
	if got != dir {
		t.Errorf("BaseDir = %q, want %q", got, dir)
	}
}
