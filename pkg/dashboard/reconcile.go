package dashboard

// Diff describes how a keyed collection of visual elements changes between
// two frames.
type Diff struct {
	Enter  []string `json:"enter"`
	Update []string `json:"update"`
	Exit   []string `json:"exit"`
}

// Empty reports whether nothing entered or exited.
func (d Diff) Empty() bool {
	return len(d.Enter) == 0 && len(d.Exit) == 0
}

// Reconcile compares the keys of the previous frame with the next data.
// Enter and Update follow the order of next; Exit follows the order of prev.
func Reconcile[T any](prev []string, next []T, key func(T) string) Diff {
	d := Diff{Enter: []string{}, Update: []string{}, Exit: []string{}}

	before := make(map[string]struct{}, len(prev))
	for _, k := range prev {
		before[k] = struct{}{}
	}

	after := make(map[string]struct{}, len(next))

	for _, item := range next {
		k := key(item)
		if _, dup := after[k]; dup {
			continue
		}

		after[k] = struct{}{}

		if _, ok := before[k]; ok {
			d.Update = append(d.Update, k)
		} else {
			d.Enter = append(d.Enter, k)
		}
	}

	for _, k := range prev {
		if _, ok := after[k]; !ok {
			d.Exit = append(d.Exit, k)
		}
	}

	return d
}

// Keys extracts the key of every item.
func Keys[T any](items []T, key func(T) string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = key(item)
	}

	return out
}
