package eventservice

import "fmt"

const (
	EventSource = "api-bi"

	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"

	// Routing keys the worker consumes.
	CommandRunKey   = "etl.command.run"
	CommandPurgeKey = "etl.command.purge"
)

// RoutingKey yields keys such as "etl.run.succeeded" or "etl.purge.failed".
func RoutingKey(kind, status string) string {
	return fmt.Sprintf("etl.%s.%s", kind, status)
}
