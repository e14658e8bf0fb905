package store

// Filter holds the raw search text exactly as the user entered it.
// Trimming and length policy belong to the search package.
type Filter struct {
	value string
	set   bool
	rev   uint64
}

// NewFilter creates a filter with no value.
func NewFilter() *Filter {
	return &Filter{}
}

// Revision changes whenever the stored value changes.
func (f *Filter) Revision() uint64 { return f.rev }

// Value returns the raw text and whether one is set.
func (f *Filter) Value() (string, bool) {
	return f.value, f.set
}

// Set overwrites the filter.
func (f *Filter) Set(value string) {
	if f.set && f.value == value {
		return
	}
	f.value, f.set = value, true
	f.rev++
}

// Clear removes the filter.
func (f *Filter) Clear() {
	if !f.set {
		return
	}
	f.value, f.set = "", false
	f.rev++
}
