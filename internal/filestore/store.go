package filestore

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/medvault/medvault/constants"
	"github.com/medvault/medvault/internal/common"
)

// Store keeps uploaded documents on local disk, one subdirectory per
// patient. Stored names are random so originals can never collide or
// leak path characters.
type Store struct {
	root     string
	maxBytes int64
	logger   *slog.Logger
}

func New(cfg common.FileStoreConfig, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{
		root:     cfg.UploadDir,
		maxBytes: cfg.MaxFileBytes,
		logger:   logger,
	}, nil
}

// Validate checks the extension and size before anything touches disk.
func (s *Store) Validate(fileName string, size int64) error {
	ext := constants.NormalizeExt(filepath.Ext(fileName))
	if _, ok := constants.AllowedExtensions[ext]; !ok {
		return common.NewAppError("INVALID_FILE_TYPE",
			fmt.Sprintf("file type %q is not allowed", ext), common.ErrInvalidInput)
	}
	if size > s.maxBytes {
		return common.NewAppError("FILE_TOO_LARGE",
			fmt.Sprintf("file exceeds the %d byte limit", s.maxBytes), common.ErrInvalidInput)
	}
	return nil
}

// Save writes data under the patient's subdirectory and returns the
// generated stored name plus the relative path.
func (s *Store) Save(patientID uint, originalName string, data []byte) (storedName, relPath string, err error) {
	ext := constants.NormalizeExt(filepath.Ext(originalName))
	storedName = randomName() + "." + ext
	relPath = filepath.Join(patientDir(patientID), storedName)

	dir := filepath.Join(s.root, patientDir(patientID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create patient dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.root, relPath), data, 0o644); err != nil {
		return "", "", fmt.Errorf("write file: %w", err)
	}

	s.logger.Info("filestore.saved",
		"patient_id", patientID,
		"stored_name", storedName,
		"bytes", len(data),
	)
	return storedName, relPath, nil
}

// Read returns the file contents for a previously saved relative path.
func (s *Store) Read(relPath string) ([]byte, error) {
	data, err := os.ReadFile(s.FullPath(relPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, common.NewAppError("NOT_FOUND", "file not found on disk", common.ErrNotFound)
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

// Delete removes a stored file. A missing file is not an error: the
// database row is the source of truth and cleanup must be idempotent.
func (s *Store) Delete(relPath string) error {
	err := os.Remove(s.FullPath(relPath))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete file: %w", err)
	}
	s.logger.Info("filestore.deleted", "path", relPath)
	return nil
}

// FullPath resolves a stored relative path against the store root.
func (s *Store) FullPath(relPath string) string {
	return filepath.Join(s.root, relPath)
}

func patientDir(patientID uint) string {
	return fmt.Sprintf("patient_%d", patientID)
}

// randomName is the first 16 hex characters of a UUID, short enough to
// read in logs and long enough to never collide in practice.
func randomName() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
}
