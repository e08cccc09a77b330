package differ

// Option is a functional option for configuring Differ.
type Option func(*differ)

// WithIgnoredFields sets fields to ignore during comparison.
func WithIgnoredFields(fields ...string) Option {
	return func(d *differ) {
		for _, field := range fields {
			d.ignoreFields[field] = true
		}
	}
}

// WithExtraComparison enables/disables comparison of uninterpreted fields.
func WithExtraComparison(enabled bool) Option {
	return func(d *differ) {
		d.compareExtra = enabled
	}
}
