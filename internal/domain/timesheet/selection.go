package timesheet

// Facet is an independent filter dimension of a table view.
type Facet string

const (
	FacetEmployee Facet = "employee"
	FacetProject  Facet = "project"
	FacetCategory Facet = "category"
	FacetStatus   Facet = "status"
)

// Selection holds the active filter values per facet. An absent or
// empty set means "no restriction": every value of that facet passes.
// That convention is load-bearing; callers must never treat an empty
// set as "match nothing".
//
// Values are always the string form of the underlying identifier so
// that integer employee ids, string project ids and enum values all
// compare uniformly.
type Selection map[Facet][]string

func NewSelection() Selection {
	return make(Selection)
}

// Toggle adds value to the facet if absent, removes it if present.
func (s Selection) Toggle(facet Facet, value string) {
	values := s[facet]
	for i, v := range values {
		if v == value {
			s[facet] = append(values[:i], values[i+1:]...)
			return
		}
	}
	s[facet] = append(values, value)
}

// SetAll replaces the facet's selection wholesale. The dropdown search
// box uses this to auto-select every currently-matching option, which
// discards any manually curated selection; that mirrors the shipped
// behavior and must not be "fixed" here.
func (s Selection) SetAll(facet Facet, values []string) {
	s[facet] = append([]string(nil), values...)
}

// Clear resets the facet to the empty set, i.e. "select all".
func (s Selection) Clear(facet Facet) {
	delete(s, facet)
}

// Has reports whether value is selected for the facet.
func (s Selection) Has(facet Facet, value string) bool {
	for _, v := range s[facet] {
		if v == value {
			return true
		}
	}
	return false
}

// Active reports whether the facet restricts anything at all.
func (s Selection) Active(facet Facet) bool {
	return len(s[facet]) > 0
}

// Values returns a copy of the facet's selected values.
func (s Selection) Values(facet Facet) []string {
	return append([]string(nil), s[facet]...)
}

// passes applies the empty-means-all convention for one facet.
func (s Selection) passes(facet Facet, value string) bool {
	return !s.Active(facet) || s.Has(facet, value)
}
