package usecases

import (
	"fmt"
	"testing"
	"time"

	"github.com/abelzeko/water-samples/internal/entities"
	"github.com/abelzeko/water-samples/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCodePrefix(t *testing.T) {
	tests := []struct {
		sampleType entities.SampleType
		date       time.Time
		want       string
	}{
		{entities.SampleInternal, date(2025, time.March, 10), "I25-03"},
		{entities.SampleNetworkPoint, date(2024, time.December, 31), "R24-12"},
		{entities.SampleExternal, date(2009, time.January, 1), "E09-01"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, CodePrefix(tt.sampleType, tt.date))
		})
	}
}

func TestGenerateCodeSequencePerPrefix(t *testing.T) {
	reg := repository.NewSampleRegister()

	accept := func(st entities.SampleType, d time.Time) string {
		code, err := GenerateCode(reg, st, d)
		require.NoError(t, err)
		reg.Append(entities.SampleRecord{Code: code, SampleType: st, Date: d})
		return code
	}

	assert.Equal(t, "I25-03001", accept(entities.SampleInternal, date(2025, time.March, 10)))
	assert.Equal(t, "E25-03001", accept(entities.SampleExternal, date(2025, time.March, 11)))
	assert.Equal(t, "I25-03002", accept(entities.SampleInternal, date(2025, time.March, 15)))
	assert.Equal(t, "I25-04001", accept(entities.SampleInternal, date(2025, time.April, 1)))
	assert.Equal(t, "I24-03001", accept(entities.SampleInternal, date(2024, time.March, 1)))
	assert.Equal(t, "I25-03003", accept(entities.SampleInternal, date(2025, time.March, 31)))
}

func TestGenerateCodeGrowsPast999(t *testing.T) {
	reg := repository.NewSampleRegister()
	for i := 1; i <= 999; i++ {
		reg.Append(entities.SampleRecord{Code: fmt.Sprintf("R25-06%03d", i)})
	}

	code, err := GenerateCode(reg, entities.SampleNetworkPoint, date(2025, time.June, 2))
	require.NoError(t, err)
	assert.Equal(t, "R25-061000", code)
}

func TestGenerateCodeRejectsUnknownType(t *testing.T) {
	_, err := GenerateCode(repository.NewSampleRegister(), entities.SampleType(9), date(2025, time.March, 1))
	assert.ErrorIs(t, err, ErrUnknownSampleType)
}
