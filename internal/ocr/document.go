package ocr

import (
	"context"
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Document is an open PDF. Close must be called on every path.
type Document interface {
	Pages() int
	Close() error
}

// Opener opens and validates a PDF.
type Opener interface {
	Open(ctx context.Context, path string) (Document, error)
}

// PDFCPUOpener reads the cross-reference table with pdfcpu to validate the
// file and count its pages. The file stays open until Close.
type PDFCPUOpener struct {
	conf *model.Configuration
}

func NewPDFCPUOpener() *PDFCPUOpener {
	api.DisableConfigDir()
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PDFCPUOpener{conf: conf}
}

type pdfcpuDocument struct {
	f     *os.File
	pages int
}

func (d *pdfcpuDocument) Pages() int   { return d.pages }
func (d *pdfcpuDocument) Close() error { return d.f.Close() }

func (o *PDFCPUOpener) Open(ctx context.Context, path string) (doc Document, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	// pdfcpu panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			_ = f.Close()
			doc, err = nil, fmt.Errorf("parse pdf: %v", r)
		}
	}()

	n, err := api.PageCount(f, o.conf)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("parse pdf: %w", err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		_ = f.Close()
		return nil, err
	}
	return &pdfcpuDocument{f: f, pages: n}, nil
}
