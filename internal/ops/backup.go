package ops

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"taskd/internal/config"
)

// sqliteMagic is the header every SQLite database file starts with.
var sqliteMagic = []byte("SQLite format 3\x00")

// artifact is one file a storage backend persists.
type artifact struct {
	name string // entry name inside the archive
	path string // location on disk
}

func artifacts(cfg config.Storage) ([]artifact, error) {
	switch cfg.Backend {
	case "", "file":
		return []artifact{{name: "kv.json", path: filepath.Join(cfg.Dir, "kv.json")}}, nil
	case "sqlite":
		return []artifact{{name: filepath.Base(cfg.Path), path: cfg.Path}}, nil
	case "memory":
		return nil, fmt.Errorf("memory backend persists nothing to back up")
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// Backup archives the store the configured backend owns — the key-value
// document for the file backend, the database file for sqlite — so a
// task collection can be carried to another machine or kept before risky
// changes.
func Backup(cfg config.Storage, archivePath string) error {
	archivePath = filepath.Clean(strings.TrimSpace(archivePath))
	if archivePath == "" {
		return fmt.Errorf("archivePath is required")
	}
	arts, err := artifacts(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(archivePath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	archived := 0
	for _, a := range arts {
		info, err := os.Stat(a.path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = a.name
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		src, err := os.Open(a.path)
		if err != nil {
			return err
		}
		_, err = io.Copy(tw, src)
		_ = src.Close()
		if err != nil {
			return err
		}
		archived++
	}
	if archived == 0 {
		return fmt.Errorf("no task store found for backend %q", cfg.Backend)
	}

	if err := tw.Close(); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}
	return f.Close()
}

// Restore unpacks an archive produced by Backup into the place the
// configured backend reads from. Only the backend's own artifact names
// are accepted, and each entry must actually decode as a task store, so
// a foreign or tampered archive fails instead of planting files.
func Restore(cfg config.Storage, archivePath string) error {
	archivePath = filepath.Clean(strings.TrimSpace(archivePath))
	if archivePath == "" {
		return fmt.Errorf("archivePath is required")
	}
	arts, err := artifacts(cfg)
	if err != nil {
		return err
	}
	expected := map[string]artifact{}
	for _, a := range arts {
		expected[a.name] = a
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	restored := 0
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		a, ok := expected[hdr.Name]
		if !ok {
			return fmt.Errorf("archive entry %q is not a task store artifact", hdr.Name)
		}
		b, err := io.ReadAll(tr)
		if err != nil {
			return err
		}
		if err := validateArtifact(a.name, b); err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(a.path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(a.path, b, 0o644); err != nil {
			return err
		}
		restored++
	}
	if restored == 0 {
		return fmt.Errorf("archive holds no task store artifact for backend %q", cfg.Backend)
	}
	return nil
}

func validateArtifact(name string, b []byte) error {
	if strings.HasSuffix(name, ".json") {
		var doc map[string]string
		if err := json.Unmarshal(b, &doc); err != nil {
			return fmt.Errorf("entry %q is not a key-value document: %w", name, err)
		}
		return nil
	}
	if !bytes.HasPrefix(b, sqliteMagic) {
		return fmt.Errorf("entry %q is not a SQLite database", name)
	}
	return nil
}
