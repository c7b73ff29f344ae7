package repository

// WithName filters by the "name" column.
func WithName(name string) Option {
	return WithCondition("name", name)
}

// WithCategory filters by the "category" column.
func WithCategory(category string) Option {
	return WithCondition("category", category)
}

// WithProvider filters by the "provider" column.
func WithProvider(provider string) Option {
	return WithCondition("provider", provider)
}

// WithIssuer filters by the "issuer" column.
func WithIssuer(issuer string) Option {
	return WithCondition("issuer", issuer)
}

// WithProjectID filters by the "project_id" column.
func WithProjectID(id int64) Option {
	return WithCondition("project_id", id)
}

// WithEmail filters by the "email" column.
func WithEmail(email string) Option {
	return WithCondition("email", email)
}
