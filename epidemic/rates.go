package epidemic

import "fmt"

// Rates is the fixed rate vector of the SEIRAH model. All values are
// probabilities per unit day and must lie in [0,1].
type Rates struct {
	// Sigma is the E→{I,A} progression rate.
	Sigma float64 `yaml:"sigma" json:"sigma" validate:"gte=0,lte=1"`
	// P1 is the share of Exposed that become Asymptomatic.
	P1 float64 `yaml:"p1" json:"p1" validate:"gte=0,lte=1"`
	// P2 is the share of Asymptomatic that become Hospitalized.
	P2 float64 `yaml:"p2" json:"p2" validate:"gte=0,lte=1"`
	// LambdaAH is the A→H rate.
	LambdaAH float64 `yaml:"lambda_ah" json:"lambda_ah" validate:"gte=0,lte=1"`
	// LambdaIH is the I→H rate.
	LambdaIH float64 `yaml:"lambda_ih" json:"lambda_ih" validate:"gte=0,lte=1"`
	// GammaAR is the A→R rate.
	GammaAR float64 `yaml:"gamma_ar" json:"gamma_ar" validate:"gte=0,lte=1"`
	// GammaHR is the H→R rate.
	GammaHR float64 `yaml:"gamma_hr" json:"gamma_hr" validate:"gte=0,lte=1"`
}

// DefaultRates returns the calibrated rate vector used by the reference scenario.
func DefaultRates() Rates {
	return Rates{
		Sigma:    0.2,
		P1:       0.18,
		P2:       0.3,
		LambdaAH: 0.05,
		LambdaIH: 0.3,
		GammaAR:  0.07,
		GammaHR:  0.1,
	}
}

// Validate checks every rate is in [0,1].
func (r Rates) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"sigma", r.Sigma}, {"p1", r.P1}, {"p2", r.P2},
		{"lambda_ah", r.LambdaAH}, {"lambda_ih", r.LambdaIH},
		{"gamma_ar", r.GammaAR}, {"gamma_hr", r.GammaHR},
	} {
		if err := checkUnit(f.name, f.v); err != nil {
			return fmt.Errorf("Rates.Validate: %w", err)
		}
	}
	return nil
}

// Tau splits a day into the home phase and the commute (work) phase.
type Tau struct {
	Home    float64 `yaml:"home" json:"home" validate:"gte=0,lte=1"`
	Commute float64 `yaml:"commute" json:"commute" validate:"gte=0,lte=1"`
}

// DefaultTau returns half a day for each phase.
func DefaultTau() Tau { return Tau{Home: 0.5, Commute: 0.5} }

// Validate checks both weights are in [0,1].
func (t Tau) Validate() error {
	if err := checkUnit("tau.home", t.Home); err != nil {
		return fmt.Errorf("Tau.Validate: %w", err)
	}
	if err := checkUnit("tau.commute", t.Commute); err != nil {
		return fmt.Errorf("Tau.Validate: %w", err)
	}
	return nil
}

func checkUnit(name string, v float64) error {
	if !(v >= 0 && v <= 1) { // also rejects NaN
		return fmt.Errorf("%s=%g: %w", name, v, ErrRateOutOfRange)
	}
	return nil
}

// thresholds caches 1 - rate·τ for one pass.
type thresholds struct {
	infect float64
	toI    float64
	toA    float64
	iToH   float64
	aToR   float64
	aToH   float64
	hToR   float64
}

func (r Rates) thresholds(beta, tau float64) thresholds {
	return thresholds{
		infect: 1 - beta*tau,
		toI:    1 - (1-r.P1)*r.Sigma*tau,
		toA:    1 - r.P1*r.Sigma*tau,
		iToH:   1 - r.LambdaIH*tau,
		aToR:   1 - (1-r.P2)*r.GammaAR*tau,
		aToH:   1 - r.P2*r.LambdaAH*tau,
		hToR:   1 - r.GammaHR*tau,
	}
}
