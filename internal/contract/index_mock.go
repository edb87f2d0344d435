package contract

import (
	"context"
	"iter"

	"github.com/stretchr/testify/mock"
)

// MockIndexClient is a mock implementation of IndexClient for testing.
// Lines replays the []string and error configured for the query.
type MockIndexClient struct {
	mock.Mock
}

var _ IndexClient = &MockIndexClient{} // Compile-time check

// Query implements the IndexClient interface.
func (m *MockIndexClient) Query(target string) string {
	ret := m.Called(target)
	return ret.String(0)
}

// Lines implements the IndexClient interface.
func (m *MockIndexClient) Lines(ctx context.Context, query string, progress ProgressFunc) iter.Seq2[string, error] {
	ret := m.Called(ctx, query)
	lines, _ := ret.Get(0).([]string)
	err := ret.Error(1)
	return func(yield func(string, error) bool) {
		for _, line := range lines {
			if !yield(line, nil) {
				return
			}
		}
		if err != nil {
			yield("", err)
			return
		}
		if progress != nil {
			progress(1.0)
		}
	}
}
