package train

// Evaluation holds per-dataset evaluation results.
type Evaluation struct {
	Loss     float64
	Accuracy float64
	F1       float64
}

// Evaluate scores the model on a dataset: mean cross-entropy loss,
// accuracy, and macro-averaged F1.
func Evaluate(model *Classifier, ds *Dataset) Evaluation {
	if len(ds.Samples) == 0 {
		return Evaluation{}
	}

	classes := model.Classes()
	confusion := make([][]int, classes)
	for i := range confusion {
		confusion[i] = make([]int, classes)
	}

	var loss float64
	var correct int
	for _, sample := range ds.Samples {
		loss += model.Loss(sample)
		pred := model.Predict(sample.Tokens)
		confusion[sample.Label][pred]++
		if pred == sample.Label {
			correct++
		}
	}

	n := float64(len(ds.Samples))
	return Evaluation{
		Loss:     loss / n,
		Accuracy: float64(correct) / n,
		F1:       macroF1(confusion),
	}
}

// macroF1 averages per-class F1 over all classes. Classes with no true
// or predicted samples contribute zero.
func macroF1(confusion [][]int) float64 {
	classes := len(confusion)
	var sum float64
	for k := 0; k < classes; k++ {
		tp := confusion[k][k]
		var fp, fn int
		for j := 0; j < classes; j++ {
			if j == k {
				continue
			}
			fp += confusion[j][k]
			fn += confusion[k][j]
		}
		denom := 2*tp + fp + fn
		if denom > 0 {
			sum += 2 * float64(tp) / float64(denom)
		}
	}
	return sum / float64(classes)
}
