package quarantine

// WithClock exposes the clock override to the external test package.
var WithClock = withClock
