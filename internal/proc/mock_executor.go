package proc

import "context"

// MockExecutor is a test double that records commands and returns configured results.
type MockExecutor struct {
	ExecFunc    func(ctx context.Context, argv []string) (*ExecResult, error)
	ReplaceFunc func(argv []string) error
	Commands    [][]string
	Replaced    []string
}

// Exec records the command and delegates to ExecFunc.
func (m *MockExecutor) Exec(ctx context.Context, argv []string) (*ExecResult, error) {
	m.Commands = append(m.Commands, append([]string(nil), argv...))
	if m.ExecFunc != nil {
		return m.ExecFunc(ctx, argv)
	}
	return &ExecResult{ExitCode: 0}, nil
}

// Replace records the final command and delegates to ReplaceFunc.
func (m *MockExecutor) Replace(argv []string) error {
	m.Replaced = append([]string(nil), argv...)
	if m.ReplaceFunc != nil {
		return m.ReplaceFunc(argv)
	}
	return nil
}
