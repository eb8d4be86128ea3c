package entities

// Breach is a measured parameter above its maximum allowed value
type Breach struct {
	Parameter string
	Value     float64
	Limit     float64
}

// Breaches returns the parameters of r that exceed MaxPH or MaxChlorine
func (r SampleRecord) Breaches() []Breach {
	var out []Breach
	if r.PH > MaxPH {
		out = append(out, Breach{Parameter: LabelPH, Value: r.PH, Limit: MaxPH})
	}
	if r.Chlorine > MaxChlorine {
		out = append(out, Breach{Parameter: LabelChlorine, Value: r.Chlorine, Limit: MaxChlorine})
	}
	return out
}
