package ontology

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity. Version suffix enables
// future algorithm migration.
const (
	DomainDerivedConstraint = "gridwright/derived-constraint/v1"
	DomainSnapshot          = "gridwright/snapshot/v1"
)

// hashWithDomain computes SHA-256 with domain separation. The null byte
// separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// DerivedConstraintID computes the id of a constraint derived from the given
// relation. The id depends only on the relation id, so re-derivation over an
// unchanged ontology reproduces identical constraint records.
func DerivedConstraintID(rel RelationID) ConstraintID {
	obj := map[string]any{"relation_id": string(rel)}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		// Only strings involved; cannot fail.
		panic(fmt.Sprintf("DerivedConstraintID: %v", err))
	}
	return ConstraintID("derived-" + hashWithDomain(DomainDerivedConstraint, canonical)[:16])
}

// SnapshotHash computes the content hash of any canonically marshalable
// snapshot, used by the session store to key saved reports.
func SnapshotHash(v any) (string, error) {
	canonical, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("snapshot hash: %w", err)
	}
	return hashWithDomain(DomainSnapshot, canonical), nil
}
