package binding

import "github.com/rs/zerolog"

// Option configures a currency manager.
type Option func(*CurrencyManager)

// WithLogger sets the manager logger. Managers are silent by default.
func WithLogger(l zerolog.Logger) Option {
	return func(c *CurrencyManager) {
		c.log = l.With().Str("component", "currency").Logger()
	}
}

// WithBindings attaches bindings before the first push.
func WithBindings(bb ...Binding) Option {
	return func(c *CurrencyManager) {
		c.bindings = append(c.bindings, bb...)
	}
}

// WithListener registers l before the data source is bound.
func WithListener(l Listener) Option {
	return func(c *CurrencyManager) {
		c.listeners = append(c.listeners, l)
	}
}
