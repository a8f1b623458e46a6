package advisor

import (
	"context"
	"sync"

	"github.com/claims-lab/themis/pkg/domain/model"
)

// Fake is a scripted Service for tests. It returns the configured
// verdict or error and records every input it was asked to judge.
type Fake struct {
	Verdict *model.AdvisoryVerdict
	Err     error

	mu    sync.Mutex
	calls []Input
}

var _ Service = &Fake{}

func (f *Fake) Judge(ctx context.Context, input Input) (*model.AdvisoryVerdict, error) {
	f.mu.Lock()
	f.calls = append(f.calls, input)
	f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	return f.Verdict, nil
}

// Calls returns the inputs judged so far
func (f *Fake) Calls() []Input {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Input(nil), f.calls...)
}
