package credstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.json")
	s := NewFileStore(path)

	if _, err := s.Get(KeySSID); err != ErrNotFound {
		t.Errorf("Get on empty store = %v, want ErrNotFound", err)
	}

	if err := s.Set(KeySSID, "Home"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set(KeyPass, "correct-horse"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	ssid, err := s.Get(KeySSID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ssid != "Home" {
		t.Errorf("Get(KeySSID) = %q, want %q", ssid, "Home")
	}

	// A fresh store over the same file sees the same values.
	s2 := NewFileStore(path)
	pass, err := s2.Get(KeyPass)
	if err != nil {
		t.Fatalf("Get() on reopened store error = %v", err)
	}
	if pass != "correct-horse" {
		t.Errorf("Get(KeyPass) = %q, want %q", pass, "correct-horse")
	}
}

func TestFileStorePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	s := NewFileStore(path)

	if err := s.Set(KeyPass, "secret"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file mode = %o, want 0600", perm)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	if err := os.WriteFile(path, []byte("not json"), 0600); err != nil {
		t.Fatal(err)
	}

	s := NewFileStore(path)
	if _, err := s.Get(KeySSID); err == nil {
		t.Error("Get() on corrupt file succeeded, want error")
	}
}

func TestMemStore(t *testing.T) {
	s := NewMemStore()

	if _, err := s.Get("missing"); err != ErrNotFound {
		t.Errorf("Get(missing) = %v, want ErrNotFound", err)
	}

	if err := s.Set(KeySSID, "Home"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	v, err := s.Get(KeySSID)
	if err != nil || v != "Home" {
		t.Errorf("Get() = %q, %v, want Home, nil", v, err)
	}

	s.SetErr = errors.New("disk full")
	if err := s.Set(KeyPass, "x"); err == nil {
		t.Error("Set() with injected error succeeded")
	}
}
