package fs

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"filegate/internal/config"
	"filegate/internal/core/domain"
)

const (
	metaDirName       = "meta"
	chunksDirName     = "chunks"
	tmpDirName        = "tmp"
	finalDirName      = "final"
	quarantineDirName = "quarantine"
	uploadsDirName    = "uploads"

	assembledName   = "assembled.bin"
	publishedMarker = ".published"
)

// Storage is the filesystem adapter behind the session, chunk and artifact
// ports. Everything lives under a single root so renames stay within one
// volume and are atomic.
type Storage struct {
	root   string
	logger *slog.Logger
}

// NewStorage creates the storage hierarchy under cfg.Root
func NewStorage(cfg config.StorageConfig, logger *slog.Logger) (*Storage, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}

	for _, dir := range []string{
		filepath.Join(root, metaDirName),
		filepath.Join(root, chunksDirName),
		filepath.Join(root, tmpDirName),
		filepath.Join(root, finalDirName, uploadsDirName),
		filepath.Join(root, quarantineDirName, uploadsDirName),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir %s: %w", dir, err)
		}
	}

	return &Storage{root: root, logger: logger}, nil
}

// Root returns the absolute storage root
func (s *Storage) Root() string {
	return s.root
}

func (s *Storage) metaPath(id uuid.UUID) string {
	return filepath.Join(s.root, metaDirName, id.String(), "meta.json")
}

func (s *Storage) chunkDir(id uuid.UUID) string {
	return filepath.Join(s.root, chunksDirName, id.String())
}

func (s *Storage) chunkPath(id uuid.UUID, index int) string {
	return filepath.Join(s.chunkDir(id), fmt.Sprintf("%d.part", index))
}

func (s *Storage) tempDir(id uuid.UUID) string {
	return filepath.Join(s.root, tmpDirName, id.String())
}

func (s *Storage) assembledPath(id uuid.UUID) string {
	return filepath.Join(s.tempDir(id), assembledName)
}

func (s *Storage) quarantineRoot() string {
	return filepath.Join(s.root, quarantineDirName, uploadsDirName)
}

func (s *Storage) artifactDir(id uuid.UUID, dest domain.Destination) string {
	base := finalDirName
	if dest == domain.DestinationQuarantine {
		base = quarantineDirName
	}
	return filepath.Join(s.root, base, uploadsDirName, id.String())
}

func (s *Storage) artifactPath(id uuid.UUID, filename string, dest domain.Destination) string {
	return filepath.Join(s.artifactDir(id, dest), filename)
}

// copyFile copies src to dst, creating or truncating dst.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}
