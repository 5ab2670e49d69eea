// Package vecio reads and writes score vector fixtures.
//
// The raw format is a headerless little-endian sequence of IEEE-754 float32
// values, so a file of n bytes holds n/4 elements. Files ending in .arrow are
// Arrow IPC files with a single float32 column named "scores".
package vecio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/23skdu/longbow-softmax/internal/logger"
	"github.com/23skdu/longbow-softmax/internal/metrics"
)

const floatSize = 4

var (
	// ErrMisaligned is returned for raw files whose size is not a multiple of
	// four bytes.
	ErrMisaligned = errors.New("file size is not a multiple of 4 bytes")
	ErrFormat     = errors.New("unsupported fixture layout")
)

// FixturePath returns the conventional raw fixture path for a vector of n
// elements.
func FixturePath(dir string, n int) string {
	return filepath.Join(dir, "vector_"+strconv.Itoa(n)+".bin")
}

// ArrowPath returns the Arrow IPC fixture path for a vector of n elements.
func ArrowPath(dir string, n int) string {
	return filepath.Join(dir, "vector_"+strconv.Itoa(n)+".arrow")
}

// Load reads a raw float32 fixture.
func Load(path string) ([]float32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		metrics.RecordFixtureLoadError("open")
		return nil, fmt.Errorf("failed to read vector file: %w", err)
	}
	if len(data)%floatSize != 0 {
		metrics.RecordFixtureLoadError("misaligned")
		return nil, fmt.Errorf("%s (%d bytes): %w", path, len(data), ErrMisaligned)
	}
	out := Decode(data)
	logger.Log.Debug("loaded vector", "path", path, "n", len(out))
	return out, nil
}

// Decode converts little-endian float32 bytes to values. Trailing bytes that
// do not form a whole float are ignored.
func Decode(data []byte) []float32 {
	out := make([]float32, len(data)/floatSize)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*floatSize:]))
	}
	return out
}

// Encode converts values to little-endian float32 bytes.
func Encode(v []float32) []byte {
	buf := make([]byte, len(v)*floatSize)
	for i, x := range v {
		binary.LittleEndian.PutUint32(buf[i*floatSize:], math.Float32bits(x))
	}
	return buf
}

// Write stores v as a raw fixture, creating parent directories as needed.
func Write(path string, v []float32) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create fixture directory: %w", err)
	}
	if err := os.WriteFile(path, Encode(v), 0o644); err != nil {
		return fmt.Errorf("failed to write vector file: %w", err)
	}
	return nil
}

// LoadAuto picks the reader from the file extension.
func LoadAuto(path string) ([]float32, error) {
	if strings.EqualFold(filepath.Ext(path), ".arrow") {
		return LoadArrow(path)
	}
	return Load(path)
}

// Generate returns n values drawn uniformly from [lo, hi) by a PCG source
// seeded with seed. The same arguments always produce the same vector.
func Generate(n int, seed uint64, lo, hi float32) []float32 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]float32, n)
	span := float64(hi) - float64(lo)
	for i := range out {
		out[i] = float32(float64(lo) + rng.Float64()*span)
	}
	return out
}
