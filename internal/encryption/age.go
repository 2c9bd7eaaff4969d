package encryption

import (
	"fmt"
	"io"

	"filippo.io/age"

	"nutri-go/internal/nutri"
)

// AgeSealer implements nutri.Sealer using filippo.io/age passphrase
// (scrypt) encryption. The output is a standard age file that the age CLI
// can also decrypt.
type AgeSealer struct {
	workFactor int
}

var _ nutri.Sealer = (*AgeSealer)(nil)

// NewAgeSealer creates an AgeSealer. A workFactor of 0 keeps age's default
// scrypt cost; tests pass a small value to stay fast.
func NewAgeSealer(workFactor int) *AgeSealer {
	return &AgeSealer{workFactor: workFactor}
}

// Seal encrypts r to w under passphrase.
func (s *AgeSealer) Seal(r io.Reader, w io.Writer, passphrase string) error {
	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return fmt.Errorf("creating scrypt recipient: %w", err)
	}
	if s.workFactor > 0 {
		recipient.SetWorkFactor(s.workFactor)
	}

	encWriter, err := age.Encrypt(w, recipient)
	if err != nil {
		return fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := io.Copy(encWriter, r); err != nil {
		return fmt.Errorf("encrypting data: %w", err)
	}
	if err := encWriter.Close(); err != nil {
		return fmt.Errorf("finalizing encryption: %w", err)
	}
	return nil
}

// Open decrypts r to w with passphrase.
func (s *AgeSealer) Open(r io.Reader, w io.Writer, passphrase string) error {
	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return fmt.Errorf("creating scrypt identity: %w", err)
	}

	decReader, err := age.Decrypt(r, identity)
	if err != nil {
		return fmt.Errorf("decrypting archive: %w", err)
	}
	if _, err := io.Copy(w, decReader); err != nil {
		return fmt.Errorf("decrypting data: %w", err)
	}
	return nil
}
