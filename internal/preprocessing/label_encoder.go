package preprocessing

import (
	"sort"
	"strconv"
)

// LabelEncoder maps the distinct values of one text column to dense indices
// in sorted order. Values that all parse as numbers sort numerically.
type LabelEncoder struct {
	Classes    []string
	ClassToInt map[string]int
	IsFitted   bool
}

func NewLabelEncoder() *LabelEncoder {
	return &LabelEncoder{
		ClassToInt: make(map[string]int),
	}
}

func (le *LabelEncoder) Fit(labels []string) {
	unique := make(map[string]bool)
	for _, label := range labels {
		unique[label] = true
	}

	classes := make([]string, 0, len(unique))
	for label := range unique {
		classes = append(classes, label)
	}
	sortCategories(classes)

	le.Classes = classes
	le.ClassToInt = make(map[string]int, len(classes))
	for i, c := range classes {
		le.ClassToInt[c] = i
	}
	le.IsFitted = true
}

// Lookup returns the index of label, or -1 when it was not seen during Fit.
func (le *LabelEncoder) Lookup(label string) int {
	if idx, ok := le.ClassToInt[label]; ok {
		return idx
	}
	return -1
}

func sortCategories(values []string) {
	numeric := make([]float64, len(values))
	allNumeric := true
	for i, v := range values {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			allNumeric = false
			break
		}
		numeric[i] = f
	}

	if !allNumeric {
		sort.Strings(values)
		return
	}

	sort.Sort(byNumber{values: values, keys: numeric})
}

type byNumber struct {
	values []string
	keys   []float64
}

func (b byNumber) Len() int { return len(b.values) }

func (b byNumber) Less(i, j int) bool {
	if b.keys[i] == b.keys[j] {
		return b.values[i] < b.values[j]
	}
	return b.keys[i] < b.keys[j]
}

func (b byNumber) Swap(i, j int) {
	b.values[i], b.values[j] = b.values[j], b.values[i]
	b.keys[i], b.keys[j] = b.keys[j], b.keys[i]
}
