package serial_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/katalvlaran/kmerannot/serial"
)

func TestNumberRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := serial.WriteNumber(&buf, 1234567890); err != nil {
		t.Fatalf("WriteNumber: %v", err)
	}
	got, err := serial.ReadNumber(&buf)
	if err != nil {
		t.Fatalf("ReadNumber: %v", err)
	}
	if got != 1234567890 {
		t.Errorf("got %d; want 1234567890", got)
	}
}

func TestStringRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := serial.WriteString(&buf, "ACGTACGT"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	got, err := serial.ReadString(&buf)
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}
	if got != "ACGTACGT" {
		t.Errorf("got %q; want %q", got, "ACGTACGT")
	}
}

func TestStringMapRoundTrip(t *testing.T) {
	keys := []string{"ACGT", "CGTA", "GTAC"}
	values := []uint64{1, 2, 3}
	var buf bytes.Buffer
	if err := serial.WriteStringMap(&buf, keys, values); err != nil {
		t.Fatalf("WriteStringMap: %v", err)
	}
	gotKeys, gotValues, err := serial.ReadStringMap(&buf)
	if err != nil {
		t.Fatalf("ReadStringMap: %v", err)
	}
	if len(gotKeys) != len(keys) {
		t.Fatalf("got %d keys; want %d", len(gotKeys), len(keys))
	}
	for i := range keys {
		if gotKeys[i] != keys[i] || gotValues[i] != values[i] {
			t.Errorf("entry %d = (%q,%d); want (%q,%d)", i, gotKeys[i], gotValues[i], keys[i], values[i])
		}
	}
}

func TestFloat64RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	want := 0.0123456789
	if err := serial.WriteFloat64(&buf, want); err != nil {
		t.Fatalf("WriteFloat64: %v", err)
	}
	got, err := serial.ReadFloat64(&buf)
	if err != nil {
		t.Fatalf("ReadFloat64: %v", err)
	}
	if got != want {
		t.Errorf("got %v; want %v", got, want)
	}
}

func TestTruncatedInputIsFormatError(t *testing.T) {
	buf := bytes.NewBuffer([]byte{1, 2, 3})
	if _, err := serial.ReadNumber(buf); !errors.Is(err, serial.ErrFormat) {
		t.Errorf("got %v; want ErrFormat", err)
	}
}

func TestOversizedLengthPrefixIsFormatError(t *testing.T) {
	var buf bytes.Buffer
	// a length prefix that is technically a valid uint64 but wildly
	// exceeds any plausible payload must fail fast, not allocate.
	_ = serial.WriteNumber(&buf, 1<<40)
	if _, err := serial.ReadString(&buf); !errors.Is(err, serial.ErrFormat) {
		t.Errorf("got %v; want ErrFormat", err)
	}
}

func TestTruncatedStringPayloadIsFormatError(t *testing.T) {
	var buf bytes.Buffer
	_ = serial.WriteNumber(&buf, 10) // claims 10 bytes follow
	buf.WriteString("abc")           // but only 3 are present
	if _, err := serial.ReadString(&buf); !errors.Is(err, serial.ErrFormat) {
		t.Errorf("got %v; want ErrFormat", err)
	}
}
