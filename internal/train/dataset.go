package train

import (
	"fmt"
	"math/rand"
)

// Sample is one tokenized document with its label.
type Sample struct {
	Tokens []string
	Label  int
}

// Dataset is a labeled collection of samples.
type Dataset struct {
	Samples []Sample
	Classes int
}

// Shared vocabulary present in every class.
var commonTerms = []string{
	"patient", "history", "presents", "reports", "denies", "exam",
	"normal", "stable", "mild", "moderate", "severe", "chronic",
	"acute", "followup", "treatment", "dose", "daily", "noted",
}

// Per-class signature vocabularies. Class i draws most of its
// discriminative tokens from signatureTerms[i%len(signatureTerms)].
var signatureTerms = [][]string{
	{"cardiac", "arrhythmia", "palpitations", "ecg", "stent", "angina"},
	{"pulmonary", "dyspnea", "wheezing", "spirometry", "copd", "asthma"},
	{"renal", "creatinine", "dialysis", "proteinuria", "nephropathy", "gfr"},
	{"hepatic", "jaundice", "cirrhosis", "ascites", "bilirubin", "fibrosis"},
	{"neuro", "seizure", "migraine", "tremor", "neuropathy", "aura"},
	{"gastro", "reflux", "colitis", "endoscopy", "ulcer", "nausea"},
	{"derm", "lesion", "rash", "pruritus", "eczema", "biopsy"},
	{"ortho", "fracture", "arthritis", "sprain", "tendon", "mobility"},
	{"endo", "thyroid", "glucose", "insulin", "a1c", "cortisol"},
	{"oncology", "carcinoma", "metastasis", "staging", "remission", "tumor"},
}

// Synthetic generates n labeled samples over the given number of
// classes. Output is fully determined by rng, so a fixed seed yields
// the same dataset on every run.
func Synthetic(n, classes int, rng *rand.Rand) *Dataset {
	ds := &Dataset{
		Samples: make([]Sample, 0, n),
		Classes: classes,
	}
	for i := 0; i < n; i++ {
		label := i % classes
		ds.Samples = append(ds.Samples, Sample{
			Tokens: noteTokens(label, rng),
			Label:  label,
		})
	}
	return ds
}

// noteTokens builds one synthetic note: a handful of signature terms
// for the label mixed with shared filler vocabulary.
func noteTokens(label int, rng *rand.Rand) []string {
	sig := signatureTerms[label%len(signatureTerms)]
	// Classes beyond the signature table get a numeric marker token so
	// they stay separable.
	marker := fmt.Sprintf("cohort%d", label)

	length := 8 + rng.Intn(8)
	tokens := make([]string, 0, length+1)
	tokens = append(tokens, marker)
	for j := 0; j < length; j++ {
		if rng.Float64() < 0.45 {
			tokens = append(tokens, sig[rng.Intn(len(sig))])
		} else {
			tokens = append(tokens, commonTerms[rng.Intn(len(commonTerms))])
		}
	}
	return tokens
}

// Shuffle returns a permutation of sample indices for one epoch.
func (d *Dataset) Shuffle(rng *rand.Rand) []int {
	idx := make([]int, len(d.Samples))
	for i := range idx {
		idx[i] = i
	}
	rng.Shuffle(len(idx), func(i, j int) {
		idx[i], idx[j] = idx[j], idx[i]
	})
	return idx
}
