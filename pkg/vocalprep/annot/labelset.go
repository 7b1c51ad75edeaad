package annot

import "sort"

// LabelSet is the vocabulary of labels a recording may use to be kept in a
// dataset. A nil LabelSet means no filtering.
type LabelSet map[string]struct{}

// NewLabelSet builds a LabelSet from individual labels. With no labels it
// returns nil.
func NewLabelSet(labels ...string) LabelSet {
	if len(labels) == 0 {
		return nil
	}
	ls := make(LabelSet, len(labels))
	for _, l := range labels {
		ls[l] = struct{}{}
	}
	return ls
}

// ParseLabelSet treats every character of s as a single label, the way
// label sets of single-character syllable names are usually written
// ("iabcdefghjk"). An empty string yields nil.
func ParseLabelSet(s string) LabelSet {
	var labels []string
	for _, r := range s {
		labels = append(labels, string(r))
	}
	return NewLabelSet(labels...)
}

func (ls LabelSet) Contains(label string) bool {
	_, ok := ls[label]
	return ok
}

// Sorted returns the labels in lexicographic order.
func (ls LabelSet) Sorted() []string {
	out := make([]string, 0, len(ls))
	for l := range ls {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Admitted reports whether every distinct label of rec belongs to ls.
// The decision covers the whole recording: one unknown label rejects all
// of it. A nil ls admits everything; a record without segments is always
// admitted.
func Admitted(rec *Record, ls LabelSet) bool {
	if ls == nil {
		return true
	}
	for _, seg := range rec.Segments {
		if !ls.Contains(seg.Label) {
			return false
		}
	}
	return true
}

// OutOfVocabulary returns the distinct labels of rec missing from ls, sorted.
func OutOfVocabulary(rec *Record, ls LabelSet) []string {
	if ls == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, seg := range rec.Segments {
		if ls.Contains(seg.Label) {
			continue
		}
		if _, ok := seen[seg.Label]; ok {
			continue
		}
		seen[seg.Label] = struct{}{}
		out = append(out, seg.Label)
	}
	sort.Strings(out)
	return out
}
