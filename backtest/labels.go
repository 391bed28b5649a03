package backtest

// Score band thresholds. A score at or above a threshold belongs to that
// band.
const (
	excellentThreshold = 85
	goodThreshold      = 70
	fairThreshold      = 55
)

// Labels names the four score bands, best first.
type Labels struct {
	Excellent string `yaml:"excellent"`
	Good      string `yaml:"good"`
	Fair      string `yaml:"fair"`
	Poor      string `yaml:"poor"`
}

var (
	// EnglishLabels is the default label set.
	EnglishLabels = Labels{Excellent: "Excellent", Good: "Good", Fair: "Fair", Poor: "Poor"}
	// IndonesianLabels is the label set used by the Indonesian dashboard.
	IndonesianLabels = Labels{Excellent: "Sangat Baik", Good: "Baik", Fair: "Cukup", Poor: "Kurang"}
)

// For returns the label of the band score falls into.
func (l Labels) For(score float64) string {
	switch {
	case score >= excellentThreshold:
		return l.Excellent
	case score >= goodThreshold:
		return l.Good
	case score >= fairThreshold:
		return l.Fair
	default:
		return l.Poor
	}
}

func (l Labels) isZero() bool {
	return l == Labels{}
}
