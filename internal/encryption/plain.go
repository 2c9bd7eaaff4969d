package encryption

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"nutri-go/internal/nutri"
)

// plainHeader precedes archives written by PlainSealer.
var plainHeader = []byte("NUTRIARC\x00")

// PlainSealer is a deterministic, non-cryptographic Sealer for tests.
// It writes a fixed header and the passphrase ahead of the data so that a
// wrong passphrase is still rejected on Open.
type PlainSealer struct{}

var _ nutri.Sealer = PlainSealer{}

func (PlainSealer) Seal(r io.Reader, w io.Writer, passphrase string) error {
	if _, err := w.Write(plainHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := io.WriteString(w, passphrase+"\n"); err != nil {
		return fmt.Errorf("writing passphrase: %w", err)
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}

func (PlainSealer) Open(r io.Reader, w io.Writer, passphrase string) error {
	br := bufio.NewReader(r)
	header := make([]byte, len(plainHeader))
	if _, err := io.ReadFull(br, header); err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	if !bytes.Equal(header, plainHeader) {
		return fmt.Errorf("invalid archive header")
	}
	line, err := br.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading passphrase: %w", err)
	}
	if line[:len(line)-1] != passphrase {
		return fmt.Errorf("incorrect passphrase")
	}
	if _, err := io.Copy(w, br); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}
