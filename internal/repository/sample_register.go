package repository

import (
	"strings"

	"github.com/abelzeko/water-samples/internal/entities"
)

// SampleRegister is the ordered, append-only list of samples accepted during one session.
// It is owned by exactly one session and is never shared; callers serialise access.
type SampleRegister struct {
	records []entities.SampleRecord
}

// NewSampleRegister creates an empty register
func NewSampleRegister() *SampleRegister {
	return &SampleRegister{}
}

// Append adds a record at the end of the register
func (r *SampleRegister) Append(rec entities.SampleRecord) {
	r.records = append(r.records, rec)
}

// Records returns a copy of the accepted records in acceptance order
func (r *SampleRegister) Records() []entities.SampleRecord {
	out := make([]entities.SampleRecord, len(r.records))
	copy(out, r.records)
	return out
}

// CountPrefix returns how many accepted codes start with prefix
func (r *SampleRegister) CountPrefix(prefix string) int {
	n := 0
	for _, rec := range r.records {
		if strings.HasPrefix(rec.Code, prefix) {
			n++
		}
	}
	return n
}

// Len returns the number of accepted records
func (r *SampleRegister) Len() int {
	return len(r.records)
}
