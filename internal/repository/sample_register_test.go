package repository

import (
	"testing"

	"github.com/abelzeko/water-samples/internal/entities"
	"github.com/stretchr/testify/assert"
)

func TestSampleRegisterAppendKeepsOrder(t *testing.T) {
	reg := NewSampleRegister()
	assert.Equal(t, 0, reg.Len())

	reg.Append(entities.SampleRecord{Code: "I25-03001"})
	reg.Append(entities.SampleRecord{Code: "E25-03001"})
	reg.Append(entities.SampleRecord{Code: "I25-03002"})

	records := reg.Records()
	assert.Len(t, records, 3)
	assert.Equal(t, "I25-03001", records[0].Code)
	assert.Equal(t, "E25-03001", records[1].Code)
	assert.Equal(t, "I25-03002", records[2].Code)
}

func TestSampleRegisterRecordsIsACopy(t *testing.T) {
	reg := NewSampleRegister()
	reg.Append(entities.SampleRecord{Code: "R25-01001"})

	records := reg.Records()
	records[0].Code = "changed"

	assert.Equal(t, "R25-01001", reg.Records()[0].Code)
}

func TestSampleRegisterCountPrefix(t *testing.T) {
	reg := NewSampleRegister()
	for _, code := range []string{"I25-03001", "I25-03002", "I25-04001", "E25-03001"} {
		reg.Append(entities.SampleRecord{Code: code})
	}

	assert.Equal(t, 2, reg.CountPrefix("I25-03"))
	assert.Equal(t, 1, reg.CountPrefix("I25-04"))
	assert.Equal(t, 1, reg.CountPrefix("E25-03"))
	assert.Equal(t, 0, reg.CountPrefix("R25-03"))
}
