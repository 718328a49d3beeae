package ontology

import "github.com/google/uuid"

// NewID returns a fresh unique id for designer-authored entities. UUIDv7 is
// time-ordered, which keeps freshly authored entries clustered in id-sorted
// reports.
//
// Derived constraints never use NewID; their ids are content-addressed so
// re-derivation is idempotent (see DerivedConstraintID).
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
