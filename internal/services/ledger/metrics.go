package ledger

import "time"

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordTransaction(string, int64, int64)        {}
func (n *NoopMetricsCollector) RecordRejection(string)                        {}
func (n *NoopMetricsCollector) RecordOperationDuration(string, time.Duration) {}
