package ingest

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/submittal-review/constants"
	"github.com/joseph-ayodele/submittal-review/internal/common"
)

// sniffLen is how many leading bytes are inspected to detect the content type.
const sniffLen = 3072

// Upload is one file saved into a Workspace.
type Upload struct {
	Field    string
	Filename string // as declared by the client
	Path     string
	Size     int64
	SHA256   string
	MimeType string
}

// Workspace is a per-request directory for uploaded files. Close removes it
// and everything inside; callers defer Close right after NewWorkspace.
type Workspace struct {
	dir    string
	logger *slog.Logger
}

func NewWorkspace(parent string, logger *slog.Logger) (*Workspace, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if parent != "" {
		if err := os.MkdirAll(parent, 0o700); err != nil {
			return nil, fmt.Errorf("create upload dir: %w", err)
		}
	}
	dir, err := os.MkdirTemp(parent, "sr-req-*")
	if err != nil {
		return nil, fmt.Errorf("create request workspace: %w", err)
	}
	return &Workspace{dir: dir, logger: logger}, nil
}

func (w *Workspace) Dir() string { return w.dir }

// Save streams r into the workspace under a random name. Content that is not
// a PDF is rejected with a ValidationError naming field.
func (w *Workspace) Save(field, filename string, r io.Reader) (Upload, error) {
	br := bufio.NewReaderSize(r, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return Upload{}, fmt.Errorf("read %s: %w", field, err)
	}
	if len(head) == 0 {
		return Upload{}, &common.ValidationError{Field: field, Message: fmt.Sprintf("Uploaded file %q is empty", field)}
	}
	mt := mimetype.Detect(head)
	if !mt.Is(constants.PDFMimeType) {
		w.logger.Warn("ingest.rejected_content", "field", field, "mime", mt.String())
		return Upload{}, &common.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("File %q must be a PDF (got %s)", field, mt.String()),
		}
	}

	path := filepath.Join(w.dir, uuid.NewString()+"-"+SanitizeFilename(filename))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return Upload{}, fmt.Errorf("create %s: %w", field, err)
	}
	h := sha256.New()
	n, copyErr := io.Copy(io.MultiWriter(f, h), br)
	closeErr := f.Close()
	if copyErr != nil {
		return Upload{}, fmt.Errorf("write %s: %w", field, copyErr)
	}
	if closeErr != nil {
		return Upload{}, fmt.Errorf("close %s: %w", field, closeErr)
	}

	up := Upload{
		Field:    field,
		Filename: filename,
		Path:     path,
		Size:     n,
		SHA256:   hex.EncodeToString(h.Sum(nil)),
		MimeType: mt.String(),
	}
	w.logger.Debug("ingest.saved", "field", field, "bytes", n, "sha256", up.SHA256)
	return up, nil
}

// Close deletes the workspace directory.
func (w *Workspace) Close() error {
	if w == nil || w.dir == "" {
		return nil
	}
	if err := os.RemoveAll(w.dir); err != nil {
		w.logger.Error("ingest.cleanup_failed", "dir", w.dir, "error", err)
		return err
	}
	return nil
}
