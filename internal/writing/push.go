package writing

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrNotRecording is returned by Push when dictation is off.
var ErrNotRecording = errors.New("dictation is not recording")

// PushDictation is a Dictation whose transcripts come from outside the
// process, e.g. a host that runs speech recognition and forwards the
// final results.
type PushDictation struct {
	mu      sync.Mutex
	onFinal func(string)
}

// NewPushDictation creates a stopped PushDictation.
func NewPushDictation() *PushDictation {
	return &PushDictation{}
}

func (p *PushDictation) Start(_ context.Context, onFinal func(string)) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onFinal = onFinal
	return nil
}

func (p *PushDictation) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onFinal = nil
	return nil
}

// Recording reports whether transcripts are currently accepted.
func (p *PushDictation) Recording() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.onFinal != nil
}

// Push delivers a final transcript. Blank transcripts are ignored.
func (p *PushDictation) Push(transcript string) error {
	p.mu.Lock()
	cb := p.onFinal
	p.mu.Unlock()
	if cb == nil {
		return ErrNotRecording
	}
	if transcript = strings.TrimSpace(transcript); transcript != "" {
		cb(transcript)
	}
	return nil
}
