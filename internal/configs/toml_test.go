package configs

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestSaveAndLoadTOML(t *testing.T) {
	tempDir := t.TempDir()
	testFile := filepath.Join(tempDir, "test.toml")

	type TestStruct struct {
		Name    string
		Port    int
		Options map[string]string
	}

	originalData := TestStruct{
		Name:    "rs-ny",
		Port:    21116,
		Options: map[string]string{"relay-server": "relay.example.com"},
	}

	if err := SaveTOML(testFile, originalData); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	loadedData := TestStruct{}
	if err := LoadTOML(testFile, &loadedData); err != nil {
		t.Fatalf("LoadTOML failed: %v", err)
	}

	if loadedData.Name != originalData.Name {
		t.Errorf("Expected Name %q, got %q", originalData.Name, loadedData.Name)
	}
	if loadedData.Port != originalData.Port {
		t.Errorf("Expected Port %d, got %d", originalData.Port, loadedData.Port)
	}
	if loadedData.Options["relay-server"] != "relay.example.com" {
		t.Errorf("Expected relay-server option to survive, got %v", loadedData.Options)
	}
}

func TestLoadTOMLNonExistent(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "nonexistent.toml")

	data := struct{ Name string }{}
	if err := LoadTOML(testFile, &data); err == nil {
		t.Fatal("Expected error for non-existent file, got nil")
	}
}

func TestSaveTOMLCreatesDirectory(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "subdir", "test.toml")

	if err := SaveTOML(testFile, struct{ Name string }{Name: "Test"}); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	if _, err := os.Stat(testFile); os.IsNotExist(err) {
		t.Fatal("File was not created")
	}
}

func TestSaveTOMLReplacesWithoutLeftovers(t *testing.T) {
	tempDir := t.TempDir()
	testFile := filepath.Join(tempDir, "DeskVault2.toml")

	for i := 0; i < 3; i++ {
		if err := SaveTOML(testFile, struct{ Serial int }{Serial: i}); err != nil {
			t.Fatalf("SaveTOML failed: %v", err)
		}
	}

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected only the target file, found %d entries", len(entries))
	}

	loaded := struct{ Serial int }{}
	if err := LoadTOML(testFile, &loaded); err != nil {
		t.Fatalf("LoadTOML failed: %v", err)
	}
	if loaded.Serial != 2 {
		t.Errorf("Expected last write to win, got serial %d", loaded.Serial)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(testFile)
		if err != nil {
			t.Fatalf("Stat failed: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("Expected permissions 0600, got %o", perm)
		}
	}
}
