package filestore

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/medvault/medvault/internal/common"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(common.FileStoreConfig{
		UploadDir:    t.TempDir(),
		MaxFileBytes: 1024,
	}, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestValidate(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		name     string
		fileName string
		size     int64
		wantErr  bool
	}{
		{"pdf ok", "report.pdf", 100, false},
		{"jpeg ok", "scan.JPEG", 100, false},
		{"webp ok", "photo.webp", 1024, false},
		{"exe rejected", "malware.exe", 10, true},
		{"no extension rejected", "README", 10, true},
		{"too large", "report.pdf", 2048, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Validate(tt.fileName, tt.size)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%q, %d) err = %v, wantErr %v", tt.fileName, tt.size, err, tt.wantErr)
			}
		})
	}
}

func TestSaveReadDelete(t *testing.T) {
	s := newTestStore(t)
	data := []byte("%PDF-1.4 test content")

	storedName, relPath, err := s.Save(7, "blood test.pdf", data)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasSuffix(storedName, ".pdf") {
		t.Errorf("stored name %q should keep the extension", storedName)
	}
	if strings.Contains(storedName, " ") {
		t.Errorf("stored name %q should not carry original name characters", storedName)
	}
	if filepath.Dir(relPath) != "patient_7" {
		t.Errorf("relPath %q should live under the patient dir", relPath)
	}

	got, err := s.Read(relPath)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("Read = %q, want %q", got, data)
	}

	if err := s.Delete(relPath); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(s.FullPath(relPath)); !os.IsNotExist(err) {
		t.Errorf("file should be gone after Delete")
	}

	// Deleting again is a no-op.
	if err := s.Delete(relPath); err != nil {
		t.Errorf("second Delete should be idempotent, got %v", err)
	}
}

func TestSaveGeneratesUniqueNames(t *testing.T) {
	s := newTestStore(t)

	a, _, err := s.Save(1, "x.png", []byte{0x89})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	b, _, err := s.Save(1, "x.png", []byte{0x89})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if a == b {
		t.Errorf("two saves of the same name produced the same stored name %q", a)
	}
}

func TestNewNilLoggerDefaults(t *testing.T) {
	s, err := New(common.FileStoreConfig{
		UploadDir:    t.TempDir(),
		MaxFileBytes: 1024,
	}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, _, err := s.Save(1, "x.pdf", []byte("%PDF")); err != nil {
		t.Fatalf("Save with defaulted logger: %v", err)
	}
}

func TestReadMissingFile(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Read("patient_1/nope.pdf"); err == nil {
		t.Fatal("Read of missing file should fail")
	}
}
