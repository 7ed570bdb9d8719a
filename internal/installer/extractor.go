package installer

import (
	"archive/tar"    // For reading .tar archives
	"archive/zip"    // For reading .zip archives
	"compress/bzip2" // For reading .bz2 compressed data
	"compress/gzip"  // For reading .gz compressed data
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip" // For reading .7z archives
	"github.com/xi2/xz"          // For reading .xz compressed data

	"setup-automate/internal/logger"
)

var archiveSuffixes = []string{".tar.gz", ".tgz", ".tar.bz2", ".tar.xz", ".tar", ".zip", ".7z"}

// ErrUnsafePath is returned for archive entries that would land outside the destination.
var ErrUnsafePath = errors.New("archive entry escapes destination")

// IsArchive reports whether name has an extension ExtractArchive understands.
func IsArchive(name string) bool {
	name = strings.ToLower(name)
	for _, ext := range archiveSuffixes {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// ExtractArchive unpacks src into dest, choosing the format from src's extension.
func ExtractArchive(src, dest string) error {
	lower := strings.ToLower(src)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		logger.Debug("[DEBUG] compression type is zip\n")
		return extractZip(src, dest)
	case strings.HasSuffix(lower, ".7z"):
		logger.Debug("[DEBUG] compression type is .7z\n")
		return extract7z(src, dest)
	case IsArchive(lower):
		logger.Debug("[DEBUG] compression type is .tar.*\n")
		return extractTarArchive(src, dest)
	default:
		return fmt.Errorf("unsupported archive format: %s", src)
	}
}

// extractTarArchive handles tar and compressed tar variants.
func extractTarArchive(src, dest string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	var reader io.Reader = f
	lower := strings.ToLower(src)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		gr, err := gzip.NewReader(f)
		if err != nil {
			return err
		}
		defer gr.Close()
		reader = gr
	case strings.HasSuffix(lower, ".tar.bz2"):
		reader = bzip2.NewReader(f)
	case strings.HasSuffix(lower, ".tar.xz"):
		xzr, err := xz.NewReader(f, 0)
		if err != nil {
			return err
		}
		reader = xzr
	}

	tr := tar.NewReader(reader)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		target, err := safeJoin(dest, hdr.Name)
		if err != nil {
			return err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeEntry(target, tr, hdr.FileInfo().Mode()); err != nil {
				return err
			}
		default:
			logger.Debug("[DEBUG] Skipping tar entry %s of type %c\n", hdr.Name, hdr.Typeflag)
		}
	}
}

// extractZip extracts a .zip archive.
func extractZip(src, dest string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if err := extractFile(dest, f.Name, f.FileInfo(), f.Open); err != nil {
			return err
		}
	}
	return nil
}

// extract7z handles .7z extraction using the sevenzip library.
func extract7z(src, dest string) error {
	r, err := sevenzip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("failed to open 7z archive: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if err := extractFile(dest, f.Name, f.FileInfo(), f.Open); err != nil {
			return err
		}
	}
	return nil
}

// extractFile writes one zip or 7z entry below dest.
func extractFile(dest, name string, info fs.FileInfo, open func() (io.ReadCloser, error)) error {
	target, err := safeJoin(dest, name)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return os.MkdirAll(target, 0o755)
	}
	if !info.Mode().IsRegular() {
		logger.Debug("[DEBUG] Skipping non-regular entry %s\n", name)
		return nil
	}
	rc, err := open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return writeEntry(target, rc, info.Mode())
}

func writeEntry(target string, r io.Reader, mode fs.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	perm := mode.Perm()
	if perm == 0 {
		perm = 0o644
	}
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// safeJoin joins name onto dest and rejects results outside dest.
func safeJoin(dest, name string) (string, error) {
	target := filepath.Join(dest, filepath.FromSlash(name))
	rel, err := filepath.Rel(dest, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	return target, nil
}

// installArchive extracts archive and copies the executable called name into BinDir.
func (i *Installer) installArchive(archive, name string) (string, error) {
	dir, cleanup, err := tempDir()
	if err != nil {
		return "", err
	}
	defer cleanup()

	if err := ExtractArchive(archive, dir); err != nil {
		return "", fmt.Errorf("failed to extract %s: %w", filepath.Base(archive), err)
	}

	bin, err := findExecutable(dir, executableName(name, i.GOOS))
	if err != nil {
		return "", err
	}
	target := filepath.Join(i.BinDir, filepath.Base(bin))
	if err := copyFile(bin, target, 0o755); err != nil {
		return "", fmt.Errorf("install %s: %w", name, err)
	}
	logger.Info("Installed %s\n", target)
	return target, nil
}

// findExecutable walks root for a regular file called name. An exact name match
// wins over one that merely starts with name (e.g. "tool_1.2_linux").
func findExecutable(root, name string) (string, error) {
	var exact, prefixed string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		base := filepath.Base(path)
		switch {
		case base == name && exact == "":
			exact = path
		case strings.HasPrefix(base, name) && prefixed == "" && !IsArchive(base):
			prefixed = path
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if exact != "" {
		return exact, nil
	}
	if prefixed != "" {
		return prefixed, nil
	}
	return "", fmt.Errorf("no executable named %s in archive", name)
}
