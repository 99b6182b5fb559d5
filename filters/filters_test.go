package filters

import (
	"bytes"
	"compress/flate"
	"compress/lzw"
	"context"
	"testing"
)

func TestFlateDecode(t *testing.T) {
	var buf bytes.Buffer
	w, _ := flate.NewWriter(&buf, flate.BestSpeed)
	w.Write([]byte("hello world"))
	w.Close()

	dec := NewFlateDecoder()
	out, err := dec.Decode(context.Background(), buf.Bytes(), nil)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if string(out) != "hello world" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestFlateEncodeDecodeRoundTrip(t *testing.T) {
	original := []byte("BT /F1 12 Tf 72 720 Td (Hello, world!) Tj ET")
	compressed := FlateEncode(original)
	if len(compressed) == 0 {
		t.Fatalf("FlateEncode produced no output")
	}

	dec := NewFlateDecoder()
	out, err := dec.Decode(context.Background(), compressed, nil)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !bytes.Equal(out, original) {
		t.Fatalf("round trip mismatch: got %q want %q", out, original)
	}
}

func TestLZWDecode(t *testing.T) {
	var buf bytes.Buffer
	w := lzw.NewWriter(&buf, lzw.MSB, 8)
	input := []byte("hello hello hello")
	if _, err := w.Write(input); err != nil {
		t.Fatalf("write: %v", err)
	}
	w.Close()

	dec := NewLZWDecoder()
	out, err := dec.Decode(context.Background(), buf.Bytes(), nil)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestASCII85Decode(t *testing.T) {
	dec := NewASCII85Decoder()
	out, err := dec.Decode(context.Background(), []byte("<~87cURD_*#4DfTZ)+T~>"), nil)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if string(out) != "Hello, World!" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestASCIIHexDecode(t *testing.T) {
	dec := NewASCIIHexDecoder()
	out, err := dec.Decode(context.Background(), []byte("68656c6c6f20776f726c64>"), nil)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if string(out) != "hello world" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestPipelineDecodeChain(t *testing.T) {
	var buf bytes.Buffer
	w, _ := flate.NewWriter(&buf, flate.BestSpeed)
	w.Write([]byte("chained"))
	w.Close()

	p := NewPipeline([]Decoder{NewFlateDecoder()}, Limits{})
	out, err := p.Decode(context.Background(), buf.Bytes(), []string{"FlateDecode"}, nil)
	if err != nil {
		t.Fatalf("pipeline decode error: %v", err)
	}
	if string(out) != "chained" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestPipelineUnknownFilter(t *testing.T) {
	p := NewPipeline(nil, Limits{})
	_, err := p.Decode(context.Background(), []byte("x"), []string{"JPXDecode"}, nil)
	if err == nil {
		t.Fatalf("expected an error for an unregistered filter")
	}
}
