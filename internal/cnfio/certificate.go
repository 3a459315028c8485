package cnfio

import (
	"bufio"
	"fmt"
	"os"

	"github.com/hartert-labs/cdsat/internal/sat"
)

// DRATWriter streams a DRAT-compatible proof to a file: one line per
// clause event, "d" prefixed for deletions, signed literals, "0"
// terminated. It implements sat.CertificateWriter.
type DRATWriter struct {
	f *os.File
	w *bufio.Writer
}

// NewDRATWriter creates (or truncates) filename for a fresh proof.
func NewDRATWriter(filename string) (*DRATWriter, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("error creating file %q: %w", filename, err)
	}
	return &DRATWriter{f: f, w: bufio.NewWriter(f)}, nil
}

// Emit implements sat.CertificateWriter.
func (d *DRATWriter) Emit(kind sat.CertKind, lits []sat.Lit) {
	if kind == sat.CertDelete {
		d.w.WriteString("d ")
	}
	for _, l := range lits {
		fmt.Fprintf(d.w, "%d ", l.ToDIMACS())
	}
	d.w.WriteString("0\n")
}

// Close flushes buffered output and closes the underlying file.
func (d *DRATWriter) Close() error {
	if err := d.w.Flush(); err != nil {
		d.f.Close()
		return err
	}
	return d.f.Close()
}
