package checkpoint

import (
	"encoding/gob"
	"io"
	"testing"
)

// testModel is a minimal Model with a trainer-state block, enough to
// exercise weights-only and full-state round trips.
type testModel struct {
	weights []float64
	moments []float64
}

func (m *testModel) SaveWeights(w io.Writer) error {
	return gob.NewEncoder(w).Encode(m.weights)
}

func (m *testModel) LoadWeights(r io.Reader) error {
	return gob.NewDecoder(r).Decode(&m.weights)
}

func (m *testModel) SaveFull(w io.Writer) error {
	enc := gob.NewEncoder(w)
	if err := enc.Encode(m.weights); err != nil {
		return err
	}
	return enc.Encode(m.moments)
}

func (m *testModel) LoadFull(r io.Reader) error {
	dec := gob.NewDecoder(r)
	if err := dec.Decode(&m.weights); err != nil {
		return err
	}
	return dec.Decode(&m.moments)
}

func newTestModel() *testModel {
	return &testModel{
		weights: []float64{0.5, -1.25, 3.75, 0.0625},
		moments: []float64{0.01, 0.02},
	}
}

func newTestCheckpointer(t *testing.T, cfg Config) *Checkpointer {
	t.Helper()
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func equalFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
