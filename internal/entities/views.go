package entities

// ReportViews holds everything derived from a register for display:
// the table rows and the two rendered charts
type ReportViews struct {
	Headers       []string
	Rows          [][]string
	PHChart       string // SVG markup
	ChlorineChart string // SVG markup
}

// Empty reports whether there is anything to show
func (v ReportViews) Empty() bool {
	return len(v.Rows) == 0
}
