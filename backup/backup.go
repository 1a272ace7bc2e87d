// Package backup archives and restores a character's save files as a whole
// (the .d2s itself plus its .d2x/.ma* siblings) without parsing them — it
// moves bytes, it never decodes them.
//
// It supplements a feature the original tooling shipped (create_backup,
// restore_backup, get_backups) that only consumed the save files as opaque
// blobs; this package follows that shape, trading the original's bare
// incrementing counter for a collision-proof UUID token and its unverified
// restore for a digest-checked one.
package backup

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/klauspost/compress/flate"
	"golang.org/x/crypto/blake2b"
)

func init() {
	zip.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.DefaultCompression)
	})
	zip.RegisterDecompressor(zip.Deflate, func(r io.Reader) io.ReadCloser {
		return flate.NewReader(r)
	})
}

const manifestName = "MANIFEST.json"

// manifestEntry records one archived file's identity and integrity digest.
type manifestEntry struct {
	Name    string `json:"name"`
	Size    int64  `json:"size"`
	Blake2b string `json:"blake2b"` // hex-encoded blake2b-256 digest
}

// ErrNoFiles is returned by Create when no files match the character glob.
var ErrNoFiles = fmt.Errorf("backup: no files found for character")

// DigestMismatchError reports a file in an archive whose contents no longer
// match its recorded manifest digest — the archive is corrupt or was
// tampered with.
type DigestMismatchError struct{ Name string }

func (e *DigestMismatchError) Error() string {
	return fmt.Sprintf("backup: digest mismatch for %q", e.Name)
}

// ManifestMissingError reports an archive entry with no corresponding
// manifest record.
type ManifestMissingError struct{ Name string }

func (e *ManifestMissingError) Error() string {
	return fmt.Sprintf("backup: no manifest entry for %q", e.Name)
}

// Create zips every file matching "<character>.*" under saveDir into a new
// archive under backupDir, named "<character>-<uuid>.zip". It returns the
// archive's full path.
//
// Each archived file gets a manifest entry recording a blake2b-256 digest —
// a backup-integrity fingerprint distinct from the .d2s file-level checksum
// — checked by Restore before anything is overwritten.
func Create(saveDir, backupDir, character string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(saveDir, character+".*"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", ErrNoFiles
	}
	sort.Strings(matches)

	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return "", err
	}
	archivePath := filepath.Join(backupDir, fmt.Sprintf("%s-%s.zip", character, uuid.New().String()))

	f, err := os.Create(archivePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	manifest := make([]manifestEntry, 0, len(matches))
	for _, fn := range matches {
		data, err := os.ReadFile(fn)
		if err != nil {
			return "", err
		}
		sum := blake2b.Sum256(data)
		name := filepath.Base(fn)

		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
		if err != nil {
			return "", err
		}
		if _, err := w.Write(data); err != nil {
			return "", err
		}

		manifest = append(manifest, manifestEntry{
			Name:    name,
			Size:    int64(len(data)),
			Blake2b: fmt.Sprintf("%x", sum),
		})
	}

	manifestJSON, err := json.Marshal(manifest)
	if err != nil {
		return "", err
	}
	mw, err := zw.Create(manifestName)
	if err != nil {
		return "", err
	}
	if _, err := mw.Write(manifestJSON); err != nil {
		return "", err
	}

	if err := zw.Close(); err != nil {
		return "", err
	}
	return archivePath, nil
}

// List returns a character's backup archives under backupDir, sorted
// lexically by path. The UUID suffix is random, so this order says nothing
// about when each archive was created.
func List(backupDir, character string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(backupDir, character+"-*.zip"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

// Restore extracts archivePath into saveDir, overwriting any existing files
// with the same names. Every entry's contents are verified against the
// archive's manifest before any file is written to saveDir, so a corrupt or
// tampered archive fails closed rather than partially overwriting save data.
func Restore(archivePath, saveDir string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer zr.Close()

	byName := make(map[string]manifestEntry)
	var files []*zip.File
	for _, f := range zr.File {
		if f.Name == manifestName {
			rc, err := f.Open()
			if err != nil {
				return err
			}
			raw, err := io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return err
			}
			var manifest []manifestEntry
			if err := json.Unmarshal(raw, &manifest); err != nil {
				return fmt.Errorf("backup: corrupt manifest: %w", err)
			}
			for _, e := range manifest {
				byName[e.Name] = e
			}
			continue
		}
		files = append(files, f)
	}

	contents := make(map[string][]byte, len(files))
	for _, f := range files {
		entry, ok := byName[f.Name]
		if !ok {
			return &ManifestMissingError{Name: f.Name}
		}

		rc, err := f.Open()
		if err != nil {
			return err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return err
		}

		sum := blake2b.Sum256(data)
		if fmt.Sprintf("%x", sum) != entry.Blake2b || int64(len(data)) != entry.Size {
			return &DigestMismatchError{Name: f.Name}
		}
		contents[f.Name] = data
	}

	if err := os.MkdirAll(saveDir, 0o755); err != nil {
		return err
	}
	for name, data := range contents {
		if err := os.WriteFile(filepath.Join(saveDir, name), data, 0o644); err != nil {
			return err
		}
	}
	return nil
}
