package nutri

import "io"

// Sealer encrypts and decrypts export archives with a passphrase.
type Sealer interface {
	// Seal encrypts data read from r and writes ciphertext to w.
	Seal(r io.Reader, w io.Writer, passphrase string) error

	// Open decrypts ciphertext read from r and writes plaintext to w.
	// Returns an error if the passphrase is wrong.
	Open(r io.Reader, w io.Writer, passphrase string) error
}
