package relay

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestFloat32ToPCM16(t *testing.T) {
	samples := []float32{0, 0.5, -0.5, 1, -1, 2, -2}
	out := Float32ToPCM16(samples)
	if len(out) != len(samples)*2 {
		t.Fatalf("expected %d bytes, got %d", len(samples)*2, len(out))
	}

	want := []int16{0, 0x3FFF, -0x4000, 0x7FFF, -0x8000, 0x7FFF, -0x8000}
	for i, w := range want {
		got := int16(binary.LittleEndian.Uint16(out[i*2:]))
		if got != w {
			t.Fatalf("sample %d: expected %d, got %d", i, w, got)
		}
	}
}

func TestPCM16ToFloat32_Roundtrip(t *testing.T) {
	in := []float32{0, 0.25, -0.25, 0.99, -0.99}
	back := PCM16ToFloat32(Float32ToPCM16(in))
	if len(back) != len(in) {
		t.Fatalf("expected %d samples, got %d", len(in), len(back))
	}
	for i := range in {
		if diff := math.Abs(float64(back[i] - in[i])); diff > 1.0/32768.0+1e-6 {
			t.Fatalf("sample %d drifted: %f -> %f", i, in[i], back[i])
		}
	}
}

func TestPCM16ToFloat32_OddTrailingByte(t *testing.T) {
	out := PCM16ToFloat32([]byte{0x00, 0x40, 0x7F})
	if len(out) != 1 {
		t.Fatalf("expected trailing byte dropped, got %d samples", len(out))
	}
}

func TestFloat32FromBytes(t *testing.T) {
	in := []float32{0.125, -0.75, 1}
	buf := make([]byte, len(in)*4)
	for i, s := range in {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(s))
	}
	out := Float32FromBytes(buf)
	if len(out) != len(in) {
		t.Fatalf("expected %d samples, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("sample %d: expected %f, got %f", i, in[i], out[i])
		}
	}
}

func TestChunkBuffer(t *testing.T) {
	var chunks [][]float32
	b := NewChunkBuffer(4, func(chunk []float32) {
		chunks = append(chunks, chunk)
	})

	b.Write([]float32{1, 2})
	if len(chunks) != 0 {
		t.Fatalf("expected no chunk yet, got %d", len(chunks))
	}

	// crosses two chunk boundaries in one write
	b.Write([]float32{3, 4, 5, 6, 7, 8, 9})
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0][0] != 1 || chunks[0][3] != 4 {
		t.Fatalf("first chunk wrong: %v", chunks[0])
	}
	if chunks[1][0] != 5 || chunks[1][3] != 8 {
		t.Fatalf("second chunk wrong: %v", chunks[1])
	}

	// the partial remainder survives
	b.Write([]float32{10, 11, 12})
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks after remainder fill, got %d", len(chunks))
	}
	if chunks[2][0] != 9 || chunks[2][3] != 12 {
		t.Fatalf("third chunk wrong: %v", chunks[2])
	}

	// reset drops the buffered partial
	b.Write([]float32{13})
	b.Reset()
	b.Write([]float32{20, 21, 22, 23})
	if len(chunks) != 4 {
		t.Fatalf("expected 4 chunks, got %d", len(chunks))
	}
	if chunks[3][0] != 20 {
		t.Fatalf("reset did not drop partial: %v", chunks[3])
	}
}
