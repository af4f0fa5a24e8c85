package recorder

import "HypeSentinel/internal/model"

// NoopRecorder is a no-op implementation used when metrics are disabled.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordCache(_ string, _ bool)        {}
func (n *NoopRecorder) RecordFetch(_, _ string)             {}
func (n *NoopRecorder) RecordScore(_ *model.CompositeScore) {}
func (n *NoopRecorder) RecordAttempt(_, _, _ string)        {}
func (n *NoopRecorder) RecordCascade(_ string)              {}
func (n *NoopRecorder) Close() error                        { return nil }
