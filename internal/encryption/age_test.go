package encryption

import (
	"bytes"
	"strings"
	"testing"

	"nutri-go/internal/config"
	"nutri-go/internal/nutri"
)

// Low scrypt cost keeps the tests fast.
const testWorkFactor = 10

func roundTrip(t *testing.T, s nutri.Sealer, input []byte, opaque bool) {
	t.Helper()

	var sealed bytes.Buffer
	if err := s.Seal(bytes.NewReader(input), &sealed, "correct horse"); err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	if opaque && len(input) > 0 && bytes.Contains(sealed.Bytes(), input) {
		t.Error("sealed output contains the plaintext verbatim")
	}

	var opened bytes.Buffer
	if err := s.Open(bytes.NewReader(sealed.Bytes()), &opened, "correct horse"); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if !bytes.Equal(opened.Bytes(), input) {
		t.Errorf("Open() = %d bytes, want %d bytes", opened.Len(), len(input))
	}

	var wrong bytes.Buffer
	if err := s.Open(bytes.NewReader(sealed.Bytes()), &wrong, "wrong horse"); err == nil {
		t.Error("Open() with wrong passphrase expected error")
	}
}

func TestAgeSealer_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "json", input: []byte(`{"version":1,"meals":[]}`)},
		{name: "empty", input: []byte{}},
		{name: "binary data", input: []byte{0x00, 0xff, 0x01, 0xfe}},
		{name: "large data", input: bytes.Repeat([]byte("abcdef"), 10000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			roundTrip(t, NewAgeSealer(testWorkFactor), tt.input, true)
		})
	}
}

func TestAgeSealer_OutputIsAgeFormat(t *testing.T) {
	t.Parallel()

	var sealed bytes.Buffer
	if err := NewAgeSealer(testWorkFactor).Seal(strings.NewReader("x"), &sealed, "pw"); err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	if !strings.HasPrefix(sealed.String(), "age-encryption.org/v1\n-> scrypt ") {
		t.Errorf("sealed output does not start with an age scrypt header: %q", sealed.String()[:40])
	}
}

func TestPlainSealer_RoundTrip(t *testing.T) {
	t.Parallel()
	roundTrip(t, PlainSealer{}, []byte(`{"version":1}`), false)
}

func TestPlainSealer_RejectsForeignData(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	if err := (PlainSealer{}).Open(strings.NewReader("not an archive at all"), &out, "pw"); err == nil {
		t.Error("Open() of foreign data expected error")
	}
}

func TestNewSealerFromConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ     string
		want    string
		wantErr bool
	}{
		{"", "*encryption.AgeSealer", false},
		{"age", "*encryption.AgeSealer", false},
		{"plain", "encryption.PlainSealer", false},
		{"rot13", "", true},
	}
	for _, tt := range tests {
		s, err := NewSealerFromConfig(config.ArchiveConfig{Type: tt.typ})
		if (err != nil) != tt.wantErr {
			t.Errorf("NewSealerFromConfig(%q) error = %v, wantErr %v", tt.typ, err, tt.wantErr)
			continue
		}
		if tt.wantErr {
			continue
		}
		if got := typeName(s); got != tt.want {
			t.Errorf("NewSealerFromConfig(%q) = %s, want %s", tt.typ, got, tt.want)
		}
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *AgeSealer:
		return "*encryption.AgeSealer"
	case PlainSealer:
		return "encryption.PlainSealer"
	default:
		return "unknown"
	}
}
