package epidemic

// Option configures an Engine. Option constructors panic on meaningless
// values; Step never panics.
type Option func(*Engine)

// WithRates replaces DefaultRates. Panics if any rate is outside [0,1].
func WithRates(r Rates) Option {
	if err := r.Validate(); err != nil {
		panic(err.Error())
	}
	return func(e *Engine) { e.rates = r }
}

// WithTransitionHook registers fn to be called for every status change the
// engine makes, in the order they happen.
func WithTransitionHook(fn func(Transition)) Option {
	if fn == nil {
		panic("epidemic: WithTransitionHook(nil)")
	}
	return func(e *Engine) { e.hook = fn }
}
