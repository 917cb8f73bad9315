package checksum

import (
	"fmt"
	"hash/crc32"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// ChunkSize is the read granularity for streaming checksums.
const ChunkSize = 10 << 20 // 10 MiB

// Sum computes the CRC-32 checksum of the file at path.
func Sum(path string) (string, error) {
	return SumLogged(path, nil)
}

// SumLogged computes the CRC-32 checksum of the file at path and, when
// log is non-nil, reports throughput at completion.
func SumLogged(path string, log *slog.Logger) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("checksum: open: %w", err)
	}
	defer f.Close()

	start := time.Now()

	var crc uint32
	var total int64
	buf := make([]byte, ChunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			crc = crc32.Update(crc, crc32.IEEETable, buf[:n])
			total += int64(n)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("checksum: read %s: %w", path, err)
		}
	}

	if log != nil {
		elapsed := time.Since(start).Seconds()
		mb := float64(total) / (1 << 20)
		rate := 0.0
		if elapsed > 0 {
			rate = mb / elapsed
		}
		log.Info("checksummed",
			"path", path,
			"mb", fmt.Sprintf("%.3f", mb),
			"seconds", fmt.Sprintf("%.3f", elapsed),
			"mb_per_sec", fmt.Sprintf("%.2f", rate),
		)
	}

	return strconv.FormatUint(uint64(crc), 10), nil
}
