package mocks

import "github.com/opsforge/ecr-janitor/pkg/types"

// PublishCall records one Publish invocation.
type PublishCall struct {
	Label string
	Rows  []types.ReportRow
}

// MockPublisher implements types.ReportPublisher, recording every call.
type MockPublisher struct {
	PublishErr error
	Calls      []PublishCall
}

// Publish records the label and rows, optionally failing.
func (m *MockPublisher) Publish(label string, rows []types.ReportRow) error {
	if m.PublishErr != nil {
		return m.PublishErr
	}

	m.Calls = append(m.Calls, PublishCall{Label: label, Rows: rows})

	return nil
}
