package swarm

import (
	"context"
	"strings"
	"sync"
	"time"

	"hydra/internal/llm"
)

// mockRule maps a prompt substring to a canned response or error.
type mockRule struct {
	contains string
	response string
	err      error
	// failTimes makes the rule fail this many times before succeeding.
	failTimes int
	flaky     bool
}

// mockClient is a scripted llm.Client. The first matching rule wins; an
// unmatched prompt returns defaultResponse. Tracks concurrency so engine
// tests can assert budget enforcement.
type mockClient struct {
	mu              sync.Mutex
	class           llm.Class
	rules           []*mockRule
	defaultResponse string
	delay           time.Duration

	calls      int
	active     int
	peakActive int
	prompts    []string
}

func newMockClient(class llm.Class) *mockClient {
	return &mockClient{class: class, defaultResponse: "mock output"}
}

func (m *mockClient) on(contains, response string) *mockClient {
	m.rules = append(m.rules, &mockRule{contains: contains, response: response})
	return m
}

func (m *mockClient) onError(contains string, err error) *mockClient {
	m.rules = append(m.rules, &mockRule{contains: contains, err: err})
	return m
}

func (m *mockClient) onFlaky(contains string, err error, failTimes int, response string) *mockClient {
	m.rules = append(m.rules, &mockRule{contains: contains, err: err, failTimes: failTimes, response: response, flaky: true})
	return m
}

func (m *mockClient) Name() string     { return "mock-" + string(m.class) }
func (m *mockClient) Class() llm.Class { return m.class }

func (m *mockClient) Generate(ctx context.Context, req llm.Request) (string, error) {
	m.mu.Lock()
	m.calls++
	m.active++
	if m.active > m.peakActive {
		m.peakActive = m.active
	}
	m.prompts = append(m.prompts, req.Prompt)
	delay := m.delay
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.active--
		m.mu.Unlock()
	}()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	combined := req.SystemPrompt + "\n" + req.Prompt
	for _, rule := range m.rules {
		if !strings.Contains(combined, rule.contains) {
			continue
		}
		if rule.failTimes > 0 {
			rule.failTimes--
			return "", rule.err
		}
		if rule.err != nil && !rule.flaky {
			return "", rule.err
		}
		return rule.response, nil
	}
	return m.defaultResponse, nil
}

func (m *mockClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockClient) peak() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.peakActive
}

// mockMemory records Remember calls; failing is switchable.
type mockMemory struct {
	mu      sync.Mutex
	entries []string
	fail    bool
}

func (m *mockMemory) Remember(ctx context.Context, content, category string, tags []string, importance float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return context.DeadlineExceeded
	}
	m.entries = append(m.entries, category+": "+content)
	return nil
}

func (m *mockMemory) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
