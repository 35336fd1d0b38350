// Package provenance reconciles a user-declared value with an automated
// suggestion. The declared value always wins; the suggestion only labels
// where the value came from.
package provenance

// Source tags the origin of an effective value.
type Source string

const (
	// SourceUser means no suggestion was available.
	SourceUser Source = "user"
	// SourceAI means the suggestion agreed with the declared value.
	SourceAI Source = "ai"
	// SourceUserOverride means the user kept a value the suggestion disagreed with.
	SourceUserOverride Source = "user_override"
)

func (s Source) String() string {
	return string(s)
}

// Decision is the reconciled value and its provenance.
type Decision[T any] struct {
	Effective T      `json:"effective"`
	Declared  T      `json:"declared"`
	Suggested *T     `json:"suggested,omitempty"`
	Source    Source `json:"source"`
}

// Reconcile applies the provenance table:
//
//	suggested present | equal | source
//	no                | -     | user
//	yes               | yes   | ai
//	yes               | no    | user_override
//
// Effective is always declared.
func Reconcile[T any](declared T, suggested *T, equal func(a, b T) bool) Decision[T] {
	d := Decision[T]{
		Effective: declared,
		Declared:  declared,
		Source:    SourceUser,
	}
	if suggested == nil {
		return d
	}

	s := *suggested
	d.Suggested = &s
	if equal(declared, s) {
		d.Source = SourceAI
	} else {
		d.Source = SourceUserOverride
	}
	return d
}

// ReconcileComparable is Reconcile using ==.
func ReconcileComparable[T comparable](declared T, suggested *T) Decision[T] {
	return Reconcile(declared, suggested, func(a, b T) bool { return a == b })
}
