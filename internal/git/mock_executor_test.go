package git

import "context"

// MockCommandExecutor doesn't execute anything; it records calls and answers
// from OutputFn.
type MockCommandExecutor struct {
	Calls    [][]string
	OutputFn func(args []string) (string, error)
}

// Output implements the CommandExecutor interface
func (m *MockCommandExecutor) Output(ctx context.Context, dir string, name string, args ...string) (string, error) {
	m.Calls = append(m.Calls, args)
	if m.OutputFn != nil {
		return m.OutputFn(args)
	}
	return "", nil
}
