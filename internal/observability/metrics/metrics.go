// Package metrics emits the application's StatsD metrics with consistent names and tags.
package metrics

import (
	"maps"
	"time"

	obserrors "github.com/target/lexdesk/internal/observability/errors"
	"github.com/target/lexdesk/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Credential operations tagged on auth metrics.
const (
	OpLogin          = "login"
	OpSignup         = "signup"
	OpLogout         = "logout"
	OpForgotPassword = "forgot_password"
)

// AuthMetric captures one credential operation for metric emission.
type AuthMetric struct {
	Operation string
	Duration  time.Duration
	Err       error
}

// EmitAuthOperation counts a credential operation and records its duration.
// Failures are tagged with their error class.
func EmitAuthOperation(sink statsd.Sink, in AuthMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"operation": in.Operation,
		"result":    ResultSuccess,
	}
	if in.Err != nil {
		tags["result"] = ResultError
		tags["error_class"] = obserrors.Classify(in.Err)
	}

	sink.Count("auth.operation", 1, tags)
	if in.Duration > 0 {
		sink.Timing("auth.duration", in.Duration, CloneTags(tags))
	}
}

// ReaperMetric captures one purge pass.
type ReaperMetric struct {
	Rows     int64
	Duration time.Duration
	Err      error
}

// EmitReaperRun records the rows removed by a purge pass and how long it took.
func EmitReaperRun(sink statsd.Sink, in ReaperMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{"result": ResultSuccess}
	if in.Err != nil {
		tags["result"] = ResultError
		tags["error_class"] = obserrors.Classify(in.Err)
	}

	sink.Count("reaper.run", 1, tags)
	sink.Count("reaper.purged_rows", in.Rows, nil)
	sink.Timing("reaper.duration", in.Duration, CloneTags(tags))
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	return maps.Clone(src)
}
