// Package entities contains the core domain objects for the water sample register
package entities

import (
	"fmt"
	"strings"
	"time"
)

// Column labels used by the table and the spreadsheet export, in column order
const (
	LabelCode             = "Código"
	LabelDate             = "Fecha"
	LabelTime             = "Hora"
	LabelDevice           = "Dispositivo de Muestra"
	LabelPhysicoChemical  = "Físico Químico"
	LabelMicrobiological1 = "Microbiológico 1"
	LabelMicrobiological2 = "Microbiológico 2"
	LabelWaterType        = "Tipo de Agua"
	LabelPH               = "pH"
	LabelChlorine         = "Cloro (mg/L)"
	LabelTemperature      = "Temperatura (°C)"
	LabelObservations     = "Observaciones"
	LabelSampleType       = "Tipo de Muestra"
	LabelSampler          = "Quién Muestrea"
)

// Labels lists every SampleRecord column label in export order
var Labels = []string{
	LabelCode,
	LabelDate,
	LabelTime,
	LabelDevice,
	LabelPhysicoChemical,
	LabelMicrobiological1,
	LabelMicrobiological2,
	LabelWaterType,
	LabelPH,
	LabelChlorine,
	LabelTemperature,
	LabelObservations,
	LabelSampleType,
	LabelSampler,
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Maximum allowed values drawn as reference lines on the charts
const (
	MaxPH       = 9.5
	MaxChlorine = 2.0
)

// SampleRecord represents one accepted water sample submission
type SampleRecord struct {
	Code             string
	Date             time.Time // Only year, month and day are meaningful
	Time             string    // HH:MM
	Device           Device
	PhysicoChemical  YesNo
	Microbiological1 YesNo
	Microbiological2 YesNo
	WaterType        WaterType
	PH               float64
	Chlorine         float64 // mg/L
	Temperature      float64 // °C
	Observations     string
	SampleType       SampleType
	Sampler          string
}

// Values returns the record's cells in the same order as Labels.
// Numeric fields are returned as float64, everything else as display strings.
func (r SampleRecord) Values() []interface{} {
	return []interface{}{
		r.Code,
		r.Date.Format(DateLayout),
		r.Time,
		r.Device.String(),
		r.PhysicoChemical.String(),
		r.Microbiological1.String(),
		r.Microbiological2.String(),
		r.WaterType.String(),
		r.PH,
		r.Chlorine,
		r.Temperature,
		r.Observations,
		r.SampleType.String(),
		r.Sampler,
	}
}

// Strings returns the record's cells formatted for display
func (r SampleRecord) Strings() []string {
	values := r.Values()
	out := make([]string, len(values))
	for i, v := range values {
		switch val := v.(type) {
		case float64:
			out[i] = fmt.Sprintf("%.2f", val)
		default:
			out[i] = fmt.Sprint(val)
		}
	}
	return out
}

// Device is the sampling device used to take the sample
type Device int

const (
	DeviceHose Device = iota + 1
	DeviceChannel
	DeviceTap
)

// Devices lists the selectable devices in form order
var Devices = []Device{DeviceHose, DeviceChannel, DeviceTap}

func (d Device) String() string {
	switch d {
	case DeviceHose:
		return "Manguera"
	case DeviceChannel:
		return "Canal"
	case DeviceTap:
		return "Grifo"
	}
	return ""
}

// ParseDevice accepts either the display label or the English name
func ParseDevice(s string) (Device, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "manguera", "hose":
		return DeviceHose, nil
	case "canal", "channel":
		return DeviceChannel, nil
	case "grifo", "tap":
		return DeviceTap, nil
	}
	return 0, fmt.Errorf("unknown sampling device %q", s)
}

// YesNo is an analysis flag rendered as "Sí" or "No"
type YesNo bool

func (y YesNo) String() string {
	if y {
		return "Sí"
	}
	return "No"
}

// ParseYesNo accepts "Sí"/"Si"/"yes"/"true" and "No"/"false"
func ParseYesNo(s string) (YesNo, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sí", "si", "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid yes/no value %q", s)
}

// WaterType classifies the sampled water
type WaterType int

const (
	WaterPotable WaterType = iota + 1
	WaterSurface
)

// WaterTypes lists the selectable water types in form order
var WaterTypes = []WaterType{WaterPotable, WaterSurface}

func (w WaterType) String() string {
	switch w {
	case WaterPotable:
		return "AP - Agua Potable"
	case WaterSurface:
		return "ASP - Agua Superficial"
	}
	return ""
}

// ParseWaterType accepts the display label or its short code (AP, ASP)
func ParseWaterType(s string) (WaterType, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	for _, w := range WaterTypes {
		if v == strings.ToUpper(w.String()) || v == strings.SplitN(w.String(), " ", 2)[0] {
			return w, nil
		}
	}
	return 0, fmt.Errorf("unknown water type %q", s)
}

// SampleType is the origin of the sample. Each type carries a one-letter tag used in codes.
type SampleType int

const (
	SampleInternal SampleType = iota + 1
	SampleNetworkPoint
	SampleExternal
)

// SampleTypes lists the selectable sample types in form order
var SampleTypes = []SampleType{SampleInternal, SampleNetworkPoint, SampleExternal}

// Tag returns the one-letter code tag, or "" for an unknown type
func (t SampleType) Tag() string {
	switch t {
	case SampleInternal:
		return "I"
	case SampleNetworkPoint:
		return "R"
	case SampleExternal:
		return "E"
	}
	return ""
}

// Valid reports whether t is one of the known sample types
func (t SampleType) Valid() bool {
	return t.Tag() != ""
}

func (t SampleType) String() string {
	switch t {
	case SampleInternal:
		return "I - Interna"
	case SampleNetworkPoint:
		return "R - Punto de red"
	case SampleExternal:
		return "E - Externa"
	}
	return ""
}

// ParseSampleType accepts the display label or the bare tag letter
func ParseSampleType(s string) (SampleType, error) {
	v := strings.TrimSpace(s)
	for _, t := range SampleTypes {
		if strings.EqualFold(v, t.String()) || strings.EqualFold(v, t.Tag()) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown sample type %q", s)
}
