package report

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gogpu/gfxhealth"
)

// File names inside the working and report directories.
const (
	SummaryFile = "summary.yaml"
	ArchiveFile = "gfx_health_report.tar.gz"
)

// archiveRoot is the top-level directory of archive entries.
const archiveRoot = "gfx-health-report"

// ErrEmptyDir is returned when the working directory holds no files.
var ErrEmptyDir = errors.New("report: nothing to archive")

// Write saves s into dir and packs dir into reportDir/ArchiveFile.
// It returns the archive path.
func Write(s *Summary, dir, reportDir string) (string, error) {
	if err := s.WriteFile(filepath.Join(dir, SummaryFile)); err != nil {
		return "", err
	}
	if err := os.MkdirAll(reportDir, 0o755); err != nil {
		return "", fmt.Errorf("report: %w", err)
	}
	path := filepath.Join(reportDir, ArchiveFile)
	if err := Archive(dir, path); err != nil {
		return "", err
	}
	gfxhealth.Logger().Info("report: archive written", "path", path, "id", s.ID)
	return path, nil
}

// Archive packs the regular files under dir into a gzip compressed tar at
// path. Entries are stored under a single top-level directory. An existing
// archive is replaced.
func Archive(dir, path string) error {
	var files []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyDir, dir)
	}

	out, err := os.Create(path) //nolint:gosec // path is built from the configured report dir
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	zw := gzip.NewWriter(out)
	tw := tar.NewWriter(zw)

	for _, f := range files {
		if err = addFile(tw, dir, f); err != nil {
			break
		}
	}
	err = errors.Join(err, tw.Close(), zw.Close(), out.Close())
	if err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("report: %w", err)
	}
	return nil
}

func addFile(tw *tar.Writer, dir, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return err
	}
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = filepath.ToSlash(filepath.Join(archiveRoot, rel))

	f, err := os.Open(path) //nolint:gosec // path comes from walking dir
	if err != nil {
		return err
	}
	defer f.Close()

	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	// The log file may still grow while it is archived.
	_, err = io.CopyN(tw, f, hdr.Size)
	return err
}
