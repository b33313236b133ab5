package analysis

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"orderdesk/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOrders struct {
	orders []store.RecentOrder
	err    error
}

func (s stubOrders) Recent(n int) ([]store.RecentOrder, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.orders) > n {
		return s.orders[:n], nil
	}
	return s.orders, nil
}

var fixtureOrders = []store.RecentOrder{
	{
		ID: 2, Date: "2025-06-02", Total: 30, Customer: "Ana",
		Items: []store.RecentItem{{Product: "Widget", Quantity: 3, UnitPrice: 10}},
	},
	{
		ID: 1, Date: "2025-06-01", Total: 5, Customer: "Bia",
		Items: []store.RecentItem{{Product: "Gadget", Quantity: 1, UnitPrice: 5}},
	},
}

func waitOutcome(t *testing.T, task *Task) Outcome {
	t.Helper()
	select {
	case out := <-task.Result:
		return out
	case <-time.After(2 * time.Second):
		t.Fatal("no outcome delivered")
		return Outcome{}
	}
}

func TestAnalysisDeliversInsight(t *testing.T) {
	var gotPrompt string
	gen := GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		gotPrompt = prompt
		return "  * Widget is the best seller\n", nil
	})
	svc := NewService(stubOrders{orders: fixtureOrders}, gen)

	task := svc.Start(context.Background())
	assert.NotEmpty(t, task.ID)

	out := waitOutcome(t, task)
	require.NoError(t, out.Err)
	assert.Equal(t, "* Widget is the best seller", out.Text) // trimmed

	// The prompt carries the raw order data for the generator.
	assert.Contains(t, gotPrompt, "Order ID: 2 (Customer: Ana, Date: 2025-06-02, Total: 30.00)")
	assert.Contains(t, gotPrompt, "- Item: Widget, Qty: 3, Unit price: 10.00")
	assert.Contains(t, gotPrompt, "Answer ONLY with the insights.")
}

func TestAnalysisGeneratorError(t *testing.T) {
	gen := GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("api key invalid")
	})
	svc := NewService(stubOrders{orders: fixtureOrders}, gen)

	out := waitOutcome(t, svc.Start(context.Background()))
	require.Error(t, out.Err)
	assert.Contains(t, out.Err.Error(), "api key invalid")
	assert.Empty(t, out.Text)
}

func TestAnalysisOrdersError(t *testing.T) {
	gen := GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		t.Fatal("generator must not be called when loading orders fails")
		return "", nil
	})
	svc := NewService(stubOrders{err: errors.New("database gone")}, gen)

	out := waitOutcome(t, svc.Start(context.Background()))
	require.Error(t, out.Err)
	assert.Contains(t, out.Err.Error(), "database gone")
}

func TestAnalysisCancel(t *testing.T) {
	gen := GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	svc := NewService(stubOrders{orders: fixtureOrders}, gen)

	task := svc.Start(context.Background())
	task.Cancel()

	out := waitOutcome(t, task)
	require.Error(t, out.Err)
	assert.ErrorIs(t, out.Err, context.Canceled)
}

func TestAnalysisCoalescesConcurrentTriggers(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	gen := GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "insight", nil
	})
	svc := NewService(stubOrders{orders: fixtureOrders}, gen)

	first := svc.Start(context.Background())
	second := svc.Start(context.Background())

	// Let both workers reach the flight before releasing it.
	time.Sleep(50 * time.Millisecond)
	close(release)

	for _, task := range []*Task{first, second} {
		out := waitOutcome(t, task)
		assert.NoError(t, out.Err)
		assert.Equal(t, "insight", out.Text)
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestPromptWithNoOrders(t *testing.T) {
	prompt := buildPrompt(nil)
	assert.Contains(t, prompt, "No orders found for analysis.")
}
