package checksum

import (
	"hash/crc32"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func writeFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.bin")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestSum_MatchesSingleShot(t *testing.T) {
	data := make([]byte, 3*1024+17)
	for i := range data {
		data[i] = byte(i * 31)
	}
	path := writeFile(t, data)

	got, err := Sum(path)
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	want := strconv.FormatUint(uint64(crc32.ChecksumIEEE(data)), 10)
	if got != want {
		t.Fatalf("Sum = %s, want %s", got, want)
	}
}

func TestSum_ChunkingIndependence(t *testing.T) {
	data := make([]byte, 1024)
	for i := range data {
		data[i] = byte(i)
	}
	path := writeFile(t, data)

	whole, err := Sum(path)
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}

	// Fold the same bytes in uneven splits; the accumulator must not
	// depend on where the boundaries fall.
	var crc uint32
	for _, split := range [][2]int{{0, 1}, {1, 7}, {7, 500}, {500, 1024}} {
		crc = crc32.Update(crc, crc32.IEEETable, data[split[0]:split[1]])
	}
	if want := strconv.FormatUint(uint64(crc), 10); whole != want {
		t.Fatalf("chunked = %s, streamed = %s", want, whole)
	}
}

func TestSum_EmptyFile(t *testing.T) {
	path := writeFile(t, nil)
	got, err := Sum(path)
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if got != "0" {
		t.Fatalf("Sum(empty) = %s, want 0", got)
	}
}

func TestSum_MissingFile(t *testing.T) {
	if _, err := Sum(filepath.Join(t.TempDir(), "nope.bin")); err == nil {
		t.Fatal("Sum on missing file: expected error")
	}
}
