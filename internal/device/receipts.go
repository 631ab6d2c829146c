package device

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/kienmai98/Life/internal/log"
)

// ReceiptVault copies captured receipt images into the app data
// directory and hands back an opaque file URI. Image content is not
// inspected; the ledger stores whatever reference it is given.
type ReceiptVault struct {
	dir string
}

func NewReceiptVault(dir string) (*ReceiptVault, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create receipt directory: %w", err)
	}
	return &ReceiptVault{dir: dir}, nil
}

// Store writes the image and returns its file:// URI.
func (v *ReceiptVault) Store(ctx context.Context, r io.Reader, ext string) (string, error) {
	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	if ext == "" {
		ext = "jpg"
	}
	name := uuid.NewString() + "." + ext
	path := filepath.Join(v.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create receipt file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write receipt file: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	uri := "file://" + abs

	slog.InfoContext(ctx, "Receipt stored",
		log.FieldComponent, log.ComponentDevice,
		"uri", uri)

	return uri, nil
}
