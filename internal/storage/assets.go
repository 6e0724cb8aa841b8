package storage

import (
	"bufio"
	"bytes"
	_ "embed"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// URLPrefix is the path under which assets are served
const URLPrefix = "/uploads/"

var (
	ErrInvalidImage = errors.New("invalid image payload")
	ErrInvalidName  = errors.New("invalid asset name")
)

//go:embed default_logo.png
var defaultLogo []byte

// sniffed content types mapped to the extension used on disk
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

// AssetStore keeps item images as files under a single root directory
type AssetStore struct {
	root        string
	defaultName string
	newName     func() string
}

// NewAssetStore creates a store rooted at dir; defaultName is the reserved fallback asset
func NewAssetStore(dir, defaultName string) *AssetStore {
	return &AssetStore{
		root:        dir,
		defaultName: defaultName,
		newName:     func() string { return uuid.New().String() },
	}
}

// Root returns the directory assets are stored in
func (s *AssetStore) Root() string {
	return s.root
}

// DefaultName returns the reserved default asset file name
func (s *AssetStore) DefaultName() string {
	return s.defaultName
}

// IsDefault reports whether name is the reserved default asset
func (s *AssetStore) IsDefault(name string) bool {
	return name == s.defaultName
}

// EnsureDefault creates the root directory and writes the built-in default
// asset if no file with that name exists yet
func (s *AssetStore) EnsureDefault() error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("failed to create asset root: %w", err)
	}

	p := filepath.Join(s.root, s.defaultName)
	if _, err := os.Stat(p); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat default asset: %w", err)
	}

	if err := os.WriteFile(p, defaultLogo, 0o644); err != nil {
		return fmt.Errorf("failed to write default asset: %w", err)
	}
	return nil
}

// SaveUpload stores an uploaded file under a generated name and returns it.
// The extension comes from the original name when it looks sane, otherwise
// from the content.
func (s *AssetStore) SaveUpload(originalName string, r io.Reader) (string, error) {
	br := bufio.NewReaderSize(r, 512)
	head, _ := br.Peek(512)
	if len(head) == 0 {
		return "", fmt.Errorf("%w: empty upload", ErrInvalidImage)
	}

	ext := cleanExtension(originalName)
	if ext == "" {
		ext = sniffExtension(head)
	}

	return s.write(s.newName()+ext, br)
}

// SaveBase64 decodes a base64 payload (raw or data URL) and stores it under a
// generated name
func (s *AssetStore) SaveBase64(payload string) (string, error) {
	data, err := DecodeBase64(payload)
	if err != nil {
		return "", err
	}

	return s.write(s.newName()+sniffExtension(data), bytes.NewReader(data))
}

// Remove deletes an asset. The default asset and missing files are ignored.
func (s *AssetStore) Remove(name string) error {
	if s.IsDefault(name) {
		return nil
	}

	p, err := s.Path(name)
	if err != nil {
		return err
	}

	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove asset %s: %w", name, err)
	}
	return nil
}

// Path resolves an asset name to its location on disk
func (s *AssetStore) Path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.root, name), nil
}

// write streams r into a temp file and renames it into place
func (s *AssetStore) write(name string, r io.Reader) (string, error) {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return "", fmt.Errorf("failed to create asset root: %w", err)
	}

	tmp, err := os.CreateTemp(s.root, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp asset: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write asset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to close asset: %w", err)
	}

	if err := os.Rename(tmpName, filepath.Join(s.root, name)); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to store asset: %w", err)
	}

	return name, nil
}

// DecodeBase64 decodes raw base64 or a data URL
func DecodeBase64(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if strings.HasPrefix(payload, "data:") {
		idx := strings.Index(payload, ",")
		if idx < 0 {
			return nil, fmt.Errorf("%w: malformed data url", ErrInvalidImage)
		}
		payload = payload[idx+1:]
	}
	payload = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, payload)

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}
	return data, nil
}

// URL builds the public URL of an asset
func URL(baseURL, name string) string {
	return strings.TrimRight(baseURL, "/") + URLPrefix + url.PathEscape(name)
}

// AssetNameFromURL extracts the asset name from a URL produced by URL.
// ok is false when the URL does not point under the asset prefix.
func AssetNameFromURL(raw string) (name string, ok bool) {
	u, err := url.Parse(raw)
	if err != nil || !strings.HasPrefix(u.Path, URLPrefix) {
		return "", false
	}
	name = strings.TrimPrefix(u.Path, URLPrefix)
	if name == "" || name == "." || name == ".." || strings.Contains(name, "/") {
		return "", false
	}
	return name, true
}

func cleanExtension(name string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	if len(ext) < 2 || len(ext) > 6 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}

func sniffExtension(head []byte) string {
	if ext, ok := imageExtensions[http.DetectContentType(head)]; ok {
		return ext
	}
	return ".jpg"
}
