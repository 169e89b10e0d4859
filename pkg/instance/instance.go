// Package instance identifies the running worker replica for log correlation.
package instance

import "os"

// GetID returns the replica identifier from WORKER_ID, or a stable default so
// single-instance deployments still log a value.
func GetID() string {
	if id := os.Getenv("WORKER_ID"); id != "" {
		return id
	}
	return "worker-0"
}
