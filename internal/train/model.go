package train

import (
	"encoding/gob"
	"fmt"
	"io"
	"math"

	"github.com/spaolacci/murmur3"
)

// momentum coefficient for SGD velocity buffers.
const momentum = 0.9

// Classifier is a multinomial logistic-regression model over a hashed
// bag-of-words feature space. Tokens are hashed straight into a fixed
// dimension, so no vocabulary needs to be persisted with the weights.
type Classifier struct {
	classes  int
	features int

	w [][]float64 // classes x features
	b []float64

	// Optimizer state, persisted only in full-state snapshots.
	vw   [][]float64
	vb   []float64
	step int
}

// NewClassifier creates a zero-initialized classifier.
func NewClassifier(classes, features int) *Classifier {
	c := &Classifier{
		classes:  classes,
		features: features,
		w:        make([][]float64, classes),
		b:        make([]float64, classes),
		vw:       make([][]float64, classes),
		vb:       make([]float64, classes),
	}
	for k := 0; k < classes; k++ {
		c.w[k] = make([]float64, features)
		c.vw[k] = make([]float64, features)
	}
	return c
}

// Classes returns the number of output classes.
func (c *Classifier) Classes() int { return c.classes }

// Step returns the number of optimizer steps taken.
func (c *Classifier) Step() int { return c.step }

// hash maps a token into the feature space.
func (c *Classifier) hash(token string) int {
	return int(murmur3.Sum32([]byte(token)) % uint32(c.features))
}

// indices hashes a token slice into feature indices. Repeated tokens
// contribute repeated indices, giving count-weighted features.
func (c *Classifier) indices(tokens []string) []int {
	idx := make([]int, len(tokens))
	for i, tok := range tokens {
		idx[i] = c.hash(tok)
	}
	return idx
}

// scores computes unnormalized class scores for the hashed features.
func (c *Classifier) scores(idx []int) []float64 {
	s := make([]float64, c.classes)
	for k := 0; k < c.classes; k++ {
		sum := c.b[k]
		for _, j := range idx {
			sum += c.w[k][j]
		}
		s[k] = sum
	}
	return s
}

// softmax converts scores to probabilities in place.
func softmax(s []float64) {
	max := s[0]
	for _, v := range s[1:] {
		if v > max {
			max = v
		}
	}
	var z float64
	for i, v := range s {
		s[i] = math.Exp(v - max)
		z += s[i]
	}
	for i := range s {
		s[i] /= z
	}
}

// Predict returns the most likely class for a token sequence.
func (c *Classifier) Predict(tokens []string) int {
	s := c.scores(c.indices(tokens))
	best := 0
	for k := 1; k < c.classes; k++ {
		if s[k] > s[best] {
			best = k
		}
	}
	return best
}

// Loss returns the cross-entropy loss of one sample.
func (c *Classifier) Loss(sample Sample) float64 {
	s := c.scores(c.indices(sample.Tokens))
	softmax(s)
	p := s[sample.Label]
	if p < 1e-12 {
		p = 1e-12
	}
	return -math.Log(p)
}

// TrainBatch runs one SGD-with-momentum step over the batch and
// returns the mean cross-entropy loss before the update.
func (c *Classifier) TrainBatch(batch []Sample, lr float64) float64 {
	if len(batch) == 0 {
		return 0
	}

	// Accumulate gradients sparsely: only touched features appear.
	gradW := make([]map[int]float64, c.classes)
	for k := range gradW {
		gradW[k] = make(map[int]float64)
	}
	gradB := make([]float64, c.classes)

	var loss float64
	for _, sample := range batch {
		idx := c.indices(sample.Tokens)
		p := c.scores(idx)
		softmax(p)

		if q := p[sample.Label]; q > 1e-12 {
			loss += -math.Log(q)
		} else {
			loss += -math.Log(1e-12)
		}

		for k := 0; k < c.classes; k++ {
			g := p[k]
			if k == sample.Label {
				g -= 1
			}
			gradB[k] += g
			for _, j := range idx {
				gradW[k][j] += g
			}
		}
	}

	scale := 1.0 / float64(len(batch))
	for k := 0; k < c.classes; k++ {
		c.vb[k] = momentum*c.vb[k] - lr*gradB[k]*scale
		c.b[k] += c.vb[k]
		for j, g := range gradW[k] {
			c.vw[k][j] = momentum*c.vw[k][j] - lr*g*scale
			c.w[k][j] += c.vw[k][j]
		}
	}
	c.step++

	return loss * scale
}

// weightsState is the gob payload for weights-only snapshots.
type weightsState struct {
	Classes  int
	Features int
	W        [][]float64
	B        []float64
}

// fullState adds optimizer state for full snapshots.
type fullState struct {
	Weights weightsState
	VW      [][]float64
	VB      []float64
	Step    int
}

// SaveWeights serializes the model weights.
func (c *Classifier) SaveWeights(w io.Writer) error {
	return gob.NewEncoder(w).Encode(weightsState{
		Classes:  c.classes,
		Features: c.features,
		W:        c.w,
		B:        c.b,
	})
}

// LoadWeights replaces the model weights in place. The optimizer state
// is reset: resuming from a weights-only snapshot restarts momentum.
func (c *Classifier) LoadWeights(r io.Reader) error {
	var st weightsState
	if err := gob.NewDecoder(r).Decode(&st); err != nil {
		return fmt.Errorf("train: decode weights: %w", err)
	}
	if err := c.restoreWeights(st); err != nil {
		return err
	}
	c.vw = make([][]float64, c.classes)
	for k := range c.vw {
		c.vw[k] = make([]float64, c.features)
	}
	c.vb = make([]float64, c.classes)
	c.step = 0
	return nil
}

// SaveFull serializes weights plus optimizer state.
func (c *Classifier) SaveFull(w io.Writer) error {
	return gob.NewEncoder(w).Encode(fullState{
		Weights: weightsState{
			Classes:  c.classes,
			Features: c.features,
			W:        c.w,
			B:        c.b,
		},
		VW:   c.vw,
		VB:   c.vb,
		Step: c.step,
	})
}

// LoadFull restores weights plus optimizer state.
func (c *Classifier) LoadFull(r io.Reader) error {
	var st fullState
	if err := gob.NewDecoder(r).Decode(&st); err != nil {
		return fmt.Errorf("train: decode full state: %w", err)
	}
	if err := c.restoreWeights(st.Weights); err != nil {
		return err
	}
	c.vw = st.VW
	c.vb = st.VB
	c.step = st.Step
	return nil
}

func (c *Classifier) restoreWeights(st weightsState) error {
	if st.Classes != c.classes || st.Features != c.features {
		return fmt.Errorf("train: snapshot shape %dx%d does not match model %dx%d",
			st.Classes, st.Features, c.classes, c.features)
	}
	c.w = st.W
	c.b = st.B
	return nil
}
