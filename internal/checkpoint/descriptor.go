package checkpoint

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the wall-clock format used in descriptors.
const TimestampLayout = "2006-01-02 15:04:05"

// firstSnapshot is the time_elapsed sentinel for the first snapshot of
// a run.
const firstSnapshot = "__FIRST__"

// Stat is a float64 metric value that survives JSON round-trips at
// +Inf, the initial best-stat value before any improvement.
type Stat float64

// MarshalJSON renders +Inf as the string "inf"; finite values are
// plain numbers.
func (s Stat) MarshalJSON() ([]byte, error) {
	if math.IsInf(float64(s), 1) {
		return []byte(`"inf"`), nil
	}
	return json.Marshal(float64(s))
}

// UnmarshalJSON accepts numbers and the infinity spellings other
// writers have used ("inf", "Infinity").
func (s *Stat) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*s = Stat(f)
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return fmt.Errorf("checkpoint: best_stat_last: %w", err)
	}
	switch strings.ToLower(str) {
	case "inf", "+inf", "infinity":
		*s = Stat(math.Inf(1))
		return nil
	}
	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return fmt.Errorf("checkpoint: best_stat_last %q: %w", str, err)
	}
	*s = Stat(f)
	return nil
}

// Elapsed is the seconds-since-previous-snapshot field. The first
// snapshot of a run has no predecessor and serializes as "__FIRST__".
type Elapsed struct {
	Seconds float64
	First   bool
}

// MarshalJSON implements the sentinel-or-number encoding.
func (e Elapsed) MarshalJSON() ([]byte, error) {
	if e.First {
		return json.Marshal(firstSnapshot)
	}
	return json.Marshal(e.Seconds)
}

// UnmarshalJSON implements the sentinel-or-number decoding.
func (e *Elapsed) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*e = Elapsed{Seconds: f}
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return fmt.Errorf("checkpoint: time_elapsed: %w", err)
	}
	if str != firstSnapshot {
		return fmt.Errorf("checkpoint: time_elapsed: unknown sentinel %q", str)
	}
	*e = Elapsed{First: true}
	return nil
}

// Descriptor is the metadata record accompanying a snapshot.
type Descriptor struct {
	Epoch        int     `json:"epoch"`
	SaveBestOnly bool    `json:"save_best_only"`
	SaveBestStat string  `json:"save_best_stat"`
	BestStatLast Stat    `json:"best_stat_last"`
	ModelFile    string  `json:"model_file"`
	Checksum     string  `json:"checksum"`
	Encrypted    bool    `json:"encrypted,omitempty"`
	Timestamp    string  `json:"timestamp"`
	TimeElapsed  Elapsed `json:"time_elapsed"`
	Metadata     string  `json:"metadata,omitempty"`
}

// Time parses the descriptor's wall-clock timestamp in local time,
// the zone it was written in.
func (d *Descriptor) Time() (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, d.Timestamp, time.Local)
}

// WriteDescriptor persists the descriptor into dir.
func WriteDescriptor(dir string, d *Descriptor) error {
	path := filepath.Join(dir, DescriptorFile)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("checkpoint: create descriptor: %w", err)
	}
	enc := json.NewEncoder(f)
	if err := enc.Encode(d); err != nil {
		f.Close()
		return fmt.Errorf("checkpoint: encode descriptor: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("checkpoint: sync descriptor: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("checkpoint: close descriptor: %w", err)
	}
	return nil
}

// ReadDescriptor loads the descriptor from dir.
func ReadDescriptor(dir string) (*Descriptor, error) {
	path := filepath.Join(dir, DescriptorFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("checkpoint: decode descriptor %s: %w", path, err)
	}
	return &d, nil
}
