package usecases

import (
	"errors"
	"fmt"
	"time"

	"github.com/abelzeko/water-samples/internal/entities"
)

// ErrUnknownSampleType is returned when a code is requested for a sample type without a tag
var ErrUnknownSampleType = errors.New("unknown sample type")

// PrefixCounter counts accepted codes sharing a prefix
type PrefixCounter interface {
	CountPrefix(prefix string) int
}

// CodePrefix returns tag + two-digit year + "-" + two-digit month, taken from the sample date
func CodePrefix(sampleType entities.SampleType, date time.Time) string {
	return sampleType.Tag() + date.Format("06") + "-" + date.Format("01")
}

// GenerateCode derives the next code for a sample: the prefix followed by a sequence number
// one above the count of existing codes with that prefix, zero padded to at least three digits.
// Past 999 the sequence simply grows wider.
func GenerateCode(existing PrefixCounter, sampleType entities.SampleType, date time.Time) (string, error) {
	if !sampleType.Valid() {
		return "", ErrUnknownSampleType
	}
	if date.IsZero() {
		return "", fmt.Errorf("%w: missing date", ErrInvalidForm)
	}
	prefix := CodePrefix(sampleType, date)
	return fmt.Sprintf("%s%03d", prefix, existing.CountPrefix(prefix)+1), nil
}
