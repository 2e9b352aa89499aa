package relay

import (
	"encoding/binary"
	"math"
)

// Audio formats are fixed by the speech endpoint: 16 kHz mono PCM16
// upstream, 24 kHz mono PCM16 downstream.
const (
	CaptureSampleRate  = 16000
	PlaybackSampleRate = 24000

	// chunkSamples matches the capture pipeline's 512-sample processor
	// buffer (~32ms at 16 kHz).
	chunkSamples = 512
)

// Float32ToPCM16 converts [-1,1] float samples to little-endian 16-bit
// signed PCM, clamping out-of-range values.
func Float32ToPCM16(samples []float32) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		var v int16
		if s < 0 {
			v = int16(s * 0x8000)
		} else {
			v = int16(s * 0x7FFF)
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(v))
	}
	return out
}

// PCM16ToFloat32 converts little-endian 16-bit signed PCM to float
// samples in [-1,1). A trailing odd byte is dropped.
func PCM16ToFloat32(data []byte) []float32 {
	n := len(data) / 2
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		v := int16(binary.LittleEndian.Uint16(data[i*2:]))
		out[i] = float32(v) / 32768.0
	}
	return out
}

// Float32FromBytes decodes a little-endian float32 sample frame as
// produced by the browser capture callback.
func Float32FromBytes(data []byte) []float32 {
	n := len(data) / 4
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return out
}

// ChunkBuffer re-slices an arbitrary sample stream into fixed-size
// chunks for realtimeInput messages. Not safe for concurrent use; the
// capture path is single-writer.
type ChunkBuffer struct {
	buf  []float32
	size int
	emit func([]float32)
}

// NewChunkBuffer returns a buffer emitting chunks of size samples.
func NewChunkBuffer(size int, emit func([]float32)) *ChunkBuffer {
	if size <= 0 {
		size = chunkSamples
	}
	return &ChunkBuffer{size: size, emit: emit}
}

// Write appends samples and emits every completed chunk.
func (b *ChunkBuffer) Write(samples []float32) {
	b.buf = append(b.buf, samples...)
	for len(b.buf) >= b.size {
		chunk := make([]float32, b.size)
		copy(chunk, b.buf[:b.size])
		b.buf = b.buf[b.size:]
		b.emit(chunk)
	}
}

// Reset drops any buffered partial chunk.
func (b *ChunkBuffer) Reset() {
	b.buf = b.buf[:0]
}
