package checkpoint

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func TestStat_InfinityRoundTrip(t *testing.T) {
	b, err := json.Marshal(Stat(math.Inf(1)))
	if err != nil {
		t.Fatalf("Marshal(+Inf): %v", err)
	}
	if string(b) != `"inf"` {
		t.Fatalf("Marshal(+Inf) = %s, want \"inf\"", b)
	}

	var s Stat
	for _, raw := range []string{`"inf"`, `"Infinity"`, `"+inf"`} {
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			t.Fatalf("Unmarshal(%s): %v", raw, err)
		}
		if !math.IsInf(float64(s), 1) {
			t.Fatalf("Unmarshal(%s) = %v, want +Inf", raw, s)
		}
	}

	if err := json.Unmarshal([]byte(`0.25`), &s); err != nil {
		t.Fatalf("Unmarshal(0.25): %v", err)
	}
	if s != 0.25 {
		t.Fatalf("Unmarshal(0.25) = %v", s)
	}
}

func TestElapsed_SentinelRoundTrip(t *testing.T) {
	b, err := json.Marshal(Elapsed{First: true})
	if err != nil {
		t.Fatalf("Marshal(first): %v", err)
	}
	if string(b) != `"__FIRST__"` {
		t.Fatalf("Marshal(first) = %s", b)
	}

	var e Elapsed
	if err := json.Unmarshal(b, &e); err != nil {
		t.Fatalf("Unmarshal(first): %v", err)
	}
	if !e.First {
		t.Fatal("First flag lost in round trip")
	}

	if err := json.Unmarshal([]byte(`12.5`), &e); err != nil {
		t.Fatalf("Unmarshal(12.5): %v", err)
	}
	if e.First || e.Seconds != 12.5 {
		t.Fatalf("Unmarshal(12.5) = %+v", e)
	}

	if err := json.Unmarshal([]byte(`"__LAST__"`), &e); err == nil {
		t.Fatal("Unmarshal of unknown sentinel: expected error")
	}
}

func TestDescriptor_WriteRead(t *testing.T) {
	dir := t.TempDir()
	want := &Descriptor{
		Epoch:        7,
		SaveBestOnly: true,
		SaveBestStat: "val_loss",
		BestStatLast: 0.42,
		ModelFile:    WeightsFile,
		Checksum:     "123456789",
		Timestamp:    "2026-08-23 10:11:12",
		TimeElapsed:  Elapsed{Seconds: 30.5},
		Metadata:     "job=bench-17",
	}
	if err := WriteDescriptor(dir, want); err != nil {
		t.Fatalf("WriteDescriptor: %v", err)
	}

	got, err := ReadDescriptor(dir)
	if err != nil {
		t.Fatalf("ReadDescriptor: %v", err)
	}
	if *got != *want {
		t.Fatalf("descriptor round trip:\n got %+v\nwant %+v", got, want)
	}

	ts, err := got.Time()
	if err != nil {
		t.Fatalf("Time: %v", err)
	}
	if ts.Hour() != 10 || ts.Second() != 12 {
		t.Fatalf("parsed time = %v", ts)
	}
}

func TestDescriptor_FieldNamesOnDisk(t *testing.T) {
	dir := t.TempDir()
	d := &Descriptor{
		ModelFile:    WeightsFile,
		Checksum:     ChecksumDisabled,
		BestStatLast: Stat(math.Inf(1)),
		TimeElapsed:  Elapsed{First: true},
		Timestamp:    "2026-08-23 00:00:00",
	}
	if err := WriteDescriptor(dir, d); err != nil {
		t.Fatalf("WriteDescriptor: %v", err)
	}

	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for _, field := range []string{
		`"epoch"`, `"save_best_only"`, `"save_best_stat"`, `"best_stat_last"`,
		`"model_file"`, `"checksum"`, `"timestamp"`, `"time_elapsed"`,
	} {
		if !strings.Contains(string(raw), field) {
			t.Errorf("descriptor JSON missing field %s: %s", field, raw)
		}
	}
	if !strings.Contains(string(raw), `"__DISABLED__"`) {
		t.Errorf("checksum sentinel missing: %s", raw)
	}
}
