package analyzer

import (
	"context"
	"time"

	"github.com/mindweave/mindweave-server/internal/model"
)

// ObserveFunc receives the duration and outcome of every Analyze call.
type ObserveFunc func(d time.Duration, success bool)

type instrumented struct {
	next    model.Analyzer
	observe ObserveFunc
	now     func() time.Time
}

// Instrumented wraps a with a timing callback. A nil observe returns a unchanged.
func Instrumented(a model.Analyzer, observe ObserveFunc) model.Analyzer {
	if observe == nil {
		return a
	}
	return &instrumented{next: a, observe: observe, now: time.Now}
}

func (i *instrumented) Analyze(ctx context.Context, entryText string) (string, error) {
	start := i.now()
	text, err := i.next.Analyze(ctx, entryText)
	i.observe(i.now().Sub(start), err == nil)
	return text, err
}
