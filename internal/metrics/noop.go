package metrics

import "time"

// NoopMetrics is a no-operation implementation of Recorder.
// All methods are empty and do nothing, providing zero overhead when metrics
// are disabled.
type NoopMetrics struct{}

// Ensure NoopMetrics implements Recorder interface at compile time
var _ Recorder = (*NoopMetrics)(nil)

// NewNoopMetrics creates a new no-operation metrics recorder
func NewNoopMetrics() Recorder {
	return &NoopMetrics{}
}

func (n *NoopMetrics) RecordAuthorizeRedirect()                                      {}
func (n *NoopMetrics) RecordCallback(result string)                                  {}
func (n *NoopMetrics) RecordTokenRefresh(result string)                              {}
func (n *NoopMetrics) RecordTokenRevoked()                                           {}
func (n *NoopMetrics) RecordClassification(result string, duration time.Duration)    {}
func (n *NoopMetrics) RecordLabelDetection(provider string, duration time.Duration)  {}
