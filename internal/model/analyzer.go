package model

import "context"

// Analyzer turns journal text into a natural-language reflection.
type Analyzer interface {
	Analyze(ctx context.Context, entryText string) (string, error)
}
