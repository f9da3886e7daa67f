package query

// Operator tags understood by both adapters. The three-argument Where form
// accepts these (or any backend-specific string; see the adapters for how
// unrecognized operators are handled).
const (
	OpEq    = "="
	OpNe    = "!="
	OpGt    = ">"
	OpGte   = ">="
	OpLt    = "<"
	OpLte   = "<="
	OpLike  = "like"
	OpIn    = "in"
	OpNotIn = "not in"
)

// Row is the uniform result shape across backends: one relational row or one
// document, keyed by column/field name.
type Row = map[string]any

// Condition is a single field/operator/value predicate. All conditions on a
// Spec are combined with AND; duplicate fields each add a separate predicate.
type Condition struct {
	Field    string
	Operator string
	Value    any
}

// SortKey is one ORDER BY entry. Direction is "asc" or "desc"; adapters treat
// anything other than "asc" as descending.
type SortKey struct {
	Field     string
	Direction string
}

// Spec is the backend-agnostic accumulated query description. It is owned and
// mutated by a single Builder and only read by adapters during execution.
type Spec struct {
	Target     string
	Conditions []Condition
	Fields     []string
	SortKeys   []SortKey
	Limit      *int
	Skip       *int
}

func (s *Spec) SetTarget(name string) {
	s.Target = name
}

func (s *Spec) AddCondition(field, operator string, value any) {
	s.Conditions = append(s.Conditions, Condition{Field: field, Operator: operator, Value: value})
}

// SetFields replaces the projection entirely; it never appends.
func (s *Spec) SetFields(fields []string) {
	s.Fields = fields
}

// SetSort records one sort key. Setting a field that is already present
// updates it in place, so clause order stays stable across reconfiguration.
func (s *Spec) SetSort(field, direction string) {
	for i := range s.SortKeys {
		if s.SortKeys[i].Field == field {
			s.SortKeys[i].Direction = direction
			return
		}
	}
	s.SortKeys = append(s.SortKeys, SortKey{Field: field, Direction: direction})
}

func (s *Spec) SetLimit(n int) {
	s.Limit = &n
}

func (s *Spec) SetSkip(n int) {
	s.Skip = &n
}

// Clone returns a copy safe for per-execution overrides. Slices are copied so
// later Builder mutations don't leak into an in-flight execution.
func (s *Spec) Clone() *Spec {
	out := &Spec{Target: s.Target}
	out.Conditions = append(out.Conditions, s.Conditions...)
	out.Fields = append(out.Fields, s.Fields...)
	out.SortKeys = append(out.SortKeys, s.SortKeys...)
	if s.Limit != nil {
		v := *s.Limit
		out.Limit = &v
	}
	if s.Skip != nil {
		v := *s.Skip
		out.Skip = &v
	}
	return out
}

// WithLimit clones the spec with the limit forced to n. Used by First so the
// persisted limit on the Builder is never touched.
func (s *Spec) WithLimit(n int) *Spec {
	out := s.Clone()
	out.Limit = &n
	return out
}

// WithoutPaging clones the spec with limit and skip cleared. Used for totals
// that must honor conditions but ignore the current page window.
func (s *Spec) WithoutPaging() *Spec {
	out := s.Clone()
	out.Limit = nil
	out.Skip = nil
	return out
}
