package stats

import "math"

// InformationCriteria holds likelihood-based model selection criteria.
type InformationCriteria struct {
	AIC    float64
	AICc   float64
	BIC    float64
	LogLik float64
}

// CalculateIC calculates all information criteria.
// logLik is the log-likelihood, nObs is the number of observations,
// nParams is the number of estimated parameters.
// AICc is +Inf when nObs-nParams-1 <= 0.
func CalculateIC(logLik float64, nObs int, nParams int) *InformationCriteria {
	k := float64(nParams)
	n := float64(nObs)

	aic := -2*logLik + 2*k
	bic := -2*logLik + k*math.Log(n)

	var aicc float64
	if n-k-1 > 0 {
		aicc = aic + 2*k*(k+1)/(n-k-1)
	} else {
		aicc = math.Inf(1)
	}

	return &InformationCriteria{
		AIC:    aic,
		AICc:   aicc,
		BIC:    bic,
		LogLik: logLik,
	}
}

// GaussianLogLik returns the concentrated Gaussian log-likelihood of n
// residuals with the given sum of squares.
func GaussianLogLik(sse float64, n int) float64 {
	if n == 0 {
		return math.Inf(-1)
	}
	nf := float64(n)
	sigma2 := sse / nf
	if sigma2 <= 0 {
		return math.Inf(1)
	}
	return -nf / 2 * (math.Log(2*math.Pi) + math.Log(sigma2) + 1)
}
