package assistant

import (
	"context"
)

// textBuffer bounds how many unread chunks a turn holds before emit
// starts blocking. Callers rendering incrementally should drain Text;
// callers that only want the final Response can skip it, short replies
// fit the buffer.
const textBuffer = 256

// Turn is one in-flight query. Conversational text streams through
// Text in emission order; the aggregated result resolves through Wait
// once the whole turn, including tool execution, has completed.
type Turn struct {
	text chan string
	done chan struct{}

	resp *Response
	err  error
}

func newTurn() *Turn {
	return &Turn{
		text: make(chan string, textBuffer),
		done: make(chan struct{}),
	}
}

// Text returns the stream of conversational text chunks. The channel
// is closed when the model finishes talking; tool results are not
// available until Wait resolves.
func (t *Turn) Text() <-chan string {
	return t.text
}

// Wait blocks until the turn completes and returns the aggregated
// response. The given ctx only bounds the wait; cancelling it abandons
// listening, the turn itself is governed by the ctx passed to Ask.
func (t *Turn) Wait(ctx context.Context) (*Response, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-t.done:
		return t.resp, t.err
	}
}

// emit forwards one text chunk. Returns false if the turn's context
// was cancelled before the chunk could be delivered.
func (t *Turn) emit(ctx context.Context, chunk string) bool {
	select {
	case t.text <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}

func (t *Turn) closeText() {
	close(t.text)
}

func (t *Turn) finish(resp *Response, err error) {
	t.resp = resp
	t.err = err
	close(t.done)
}
