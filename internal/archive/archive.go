package archive

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Egxr41k/volosmeister-backend/internal/domain"
	apperrors "github.com/Egxr41k/volosmeister-backend/pkg/errors"
)

// Bundle document and directory names inside the archive.
const (
	categoriesFile    = "categories.json"
	manufacturersFile = "manufacturers.json"
	usersFile         = "users.json"
	productsFile      = "products.json"
	imagesDir         = "images"
)

// Pack writes the bundle into a zip archive and returns its path. The
// archive lays out one pretty-printed JSON document per entity kind plus a
// flat images/ directory. Entries are written in sorted path order so the
// same bundle always produces the same archive. The returned file is the
// caller's to stream and remove.
func Pack(bundle *domain.Bundle) (string, error) {
	staging, err := os.MkdirTemp("", "catalog-export-*")
	if err != nil {
		return "", fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(staging)

	docs := map[string]any{
		categoriesFile:    emptyIfNil(bundle.Categories),
		manufacturersFile: emptyIfNil(bundle.Manufacturers),
		usersFile:         emptyIfNil(bundle.Users),
		productsFile:      emptyIfNil(bundle.Products),
	}

	for name, doc := range docs {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(staging, name), data, 0o644); err != nil {
			return "", fmt.Errorf("write %s: %w", name, err)
		}
	}

	if len(bundle.Images) > 0 {
		dir := filepath.Join(staging, imagesDir)
		if err := os.Mkdir(dir, 0o755); err != nil {
			return "", fmt.Errorf("create images dir: %w", err)
		}
		for _, img := range bundle.Images {
			name := filepath.Base(img.Name)
			if err := os.WriteFile(filepath.Join(dir, name), img.Data, 0o644); err != nil {
				return "", fmt.Errorf("write image %s: %w", name, err)
			}
		}
	}

	zipFile, err := os.CreateTemp("", "catalog-export-*.zip")
	if err != nil {
		return "", fmt.Errorf("create archive file: %w", err)
	}

	if err := zipDir(zipFile, staging); err != nil {
		zipFile.Close()
		os.Remove(zipFile.Name())
		return "", err
	}

	if err := zipFile.Close(); err != nil {
		os.Remove(zipFile.Name())
		return "", fmt.Errorf("close archive file: %w", err)
	}

	return zipFile.Name(), nil
}

// Unpack reads a bundle archive back into memory. A missing JSON document
// yields an empty list for that kind; a document that fails to parse aborts
// with ErrInvalidFormat and no partial bundle. The staging directory is
// reclaimed on every exit path.
func Unpack(zipPath string) (*domain.Bundle, error) {
	staging, err := os.MkdirTemp("", "catalog-import-*")
	if err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(staging)

	if err := extractZip(zipPath, staging); err != nil {
		return nil, err
	}

	bundle := &domain.Bundle{}

	if err := readDoc(filepath.Join(staging, categoriesFile), &bundle.Categories); err != nil {
		return nil, err
	}
	if err := readDoc(filepath.Join(staging, manufacturersFile), &bundle.Manufacturers); err != nil {
		return nil, err
	}
	if err := readDoc(filepath.Join(staging, usersFile), &bundle.Users); err != nil {
		return nil, err
	}
	if err := readDoc(filepath.Join(staging, productsFile), &bundle.Products); err != nil {
		return nil, err
	}

	images, err := readImages(filepath.Join(staging, imagesDir))
	if err != nil {
		return nil, err
	}
	bundle.Images = images

	return bundle, nil
}

// zipDir writes every file under root into w as a deterministic zip: paths
// are directory-relative with forward slashes and entries sorted.
func zipDir(w io.Writer, root string) error {
	var paths []string

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk staging dir: %w", err)
	}

	sort.Strings(paths)

	zw := zip.NewWriter(w)

	for _, path := range paths {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("relativize %s: %w", path, err)
		}

		entry, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return fmt.Errorf("create zip entry %s: %w", rel, err)
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}

		_, err = io.Copy(entry, f)
		f.Close()
		if err != nil {
			return fmt.Errorf("write zip entry %s: %w", rel, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}

	return nil
}

// extractZip unpacks the archive into dest, refusing entries that would
// escape it.
func extractZip(zipPath, dest string) error {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return apperrors.InvalidFormat("archive")
	}
	defer reader.Close()

	for _, file := range reader.File {
		cleaned := filepath.Clean(file.Name)
		if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(os.PathSeparator)) || filepath.IsAbs(cleaned) {
			return apperrors.InvalidFormat(file.Name)
		}

		target := filepath.Join(dest, cleaned)

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("create dir %s: %w", cleaned, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("create parent dir for %s: %w", cleaned, err)
		}

		src, err := file.Open()
		if err != nil {
			return fmt.Errorf("open zip entry %s: %w", cleaned, err)
		}

		dst, err := os.Create(target)
		if err != nil {
			src.Close()
			return fmt.Errorf("create %s: %w", cleaned, err)
		}

		_, err = io.Copy(dst, src)
		src.Close()
		if cerr := dst.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("extract %s: %w", cleaned, err)
		}
	}

	return nil
}

// readDoc decodes a JSON array document into out. A missing file leaves out
// as its zero value; malformed JSON yields ErrInvalidFormat.
func readDoc(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.InvalidFormat(filepath.Base(path))
	}

	return nil
}

// readImages loads every file in the images directory. A missing directory
// yields no images.
func readImages(dir string) ([]domain.AssetFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read images dir: %w", err)
	}

	var images []domain.AssetFile

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read image %s: %w", entry.Name(), err)
		}

		images = append(images, domain.AssetFile{Name: entry.Name(), Data: data})
	}

	return images, nil
}

// emptyIfNil keeps empty entity lists encoding as [] instead of null.
func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
