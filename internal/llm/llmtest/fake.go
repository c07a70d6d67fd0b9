// Package llmtest provides a scripted llm.Client for tests.
package llmtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonathan/resume-builder/internal/llm"
)

// Call records one request made to a Client.
type Call struct {
	Prompt string
	Tier   llm.ModelTier
	JSON   bool
}

// Response is one scripted reply.
type Response struct {
	Text string
	Err  error
}

// Client replays Responses in order. It fails when the script runs out. If Block is set,
// each call waits until Block is closed or the context ends.
type Client struct {
	mu        sync.Mutex
	Responses []Response
	Calls     []Call
	Block     chan struct{}
	Started   chan struct{}
	closed    bool
}

// New returns a client that answers with texts in order.
func New(texts ...string) *Client {
	c := &Client{}
	for _, t := range texts {
		c.Responses = append(c.Responses, Response{Text: t})
	}
	return c
}

// GenerateContent implements llm.Client.
func (c *Client) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return c.next(ctx, Call{Prompt: prompt, Tier: tier})
}

// GenerateJSON implements llm.Client.
func (c *Client) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return c.next(ctx, Call{Prompt: prompt, Tier: tier, JSON: true})
}

// GetModel implements llm.Client.
func (c *Client) GetModel(tier llm.ModelTier) string {
	return "fake-" + string(tier)
}

// Close implements llm.Client.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Closed reports whether Close was called.
func (c *Client) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// CallCount returns the number of calls made so far.
func (c *Client) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Calls)
}

func (c *Client) next(ctx context.Context, call Call) (string, error) {
	c.mu.Lock()
	c.Calls = append(c.Calls, call)
	n := len(c.Calls)
	c.mu.Unlock()

	if c.Started != nil {
		select {
		case c.Started <- struct{}{}:
		default:
		}
	}
	if c.Block != nil {
		select {
		case <-c.Block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if n > len(c.Responses) {
		return "", fmt.Errorf("llmtest: unexpected call %d", n)
	}
	r := c.Responses[n-1]
	return r.Text, r.Err
}

var _ llm.Client = (*Client)(nil)
