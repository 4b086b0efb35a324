package api

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gompdf/boxpdf/internal/render/pdf"
)

// Target receives a finished document as an embeddable data URI.
type Target interface {
	Attach(dataURI string) error
}

// DataURI is a Target that keeps the data URI.
type DataURI struct {
	URI string
}

func (d *DataURI) Attach(dataURI string) error {
	d.URI = dataURI
	return nil
}

// WriterTarget writes the decoded PDF to W.
type WriterTarget struct {
	W io.Writer
}

func (w WriterTarget) Attach(dataURI string) error {
	data, err := DecodeDataURI(dataURI)
	if err != nil {
		return err
	}
	if _, err := w.W.Write(data); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// DecodeDataURI returns the PDF carried by a data URI produced by the
// printer.
func DecodeDataURI(dataURI string) ([]byte, error) {
	payload, ok := strings.CutPrefix(dataURI, pdf.DataURIPrefix)
	if !ok {
		return nil, errors.New("not a PDF data URI")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode data URI: %w", err)
	}
	return data, nil
}
