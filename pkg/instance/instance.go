package instance

import "github.com/bicisena/bicisena-backend/pkg/env"

// GetID identifies the running process in logs. Hosting platforms expose the
// id under different names; local runs report "local".
func GetID() string {
	return env.First("local", "BICISENA_INSTANCE_ID", "RENDER_INSTANCE_ID", "DYNO", "HOSTNAME")
}
