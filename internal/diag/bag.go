package diag

// Bag accumulates diagnostics up to a limit.
type Bag struct {
	items []Diagnostic
	max   int
}

// NewBag creates a bag holding at most max diagnostics.
func NewBag(max int) *Bag {
	return &Bag{items: make([]Diagnostic, 0, max), max: max}
}

// Add appends a diagnostic, honoring the limit. Returns false when the
// diagnostic was dropped.
func (b *Bag) Add(d Diagnostic) bool {
	if b == nil || len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// HasErrors reports whether any diagnostic is an error.
func (b *Bag) HasErrors() bool {
	if b == nil {
		return false
	}
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// Len returns the number of collected diagnostics.
func (b *Bag) Len() int {
	if b == nil {
		return 0
	}
	return len(b.items)
}

// Items returns the collected diagnostics. The slice aliases the bag's
// internal storage; callers must not modify it.
func (b *Bag) Items() []Diagnostic {
	if b == nil {
		return nil
	}
	return b.items
}

// Merge appends all diagnostics from other, growing the limit to fit.
func (b *Bag) Merge(other *Bag) {
	if b == nil || other == nil {
		return
	}
	if total := len(b.items) + len(other.items); total > b.max {
		b.max = total
	}
	b.items = append(b.items, other.items...)
}
