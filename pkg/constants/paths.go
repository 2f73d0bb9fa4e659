package constants

// Health/ready paths shared between router and deployment probes.
const (
	PathHealth = "/health"
	PathReady  = "/ready"
)
