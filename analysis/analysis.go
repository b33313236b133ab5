// Package analysis runs the background sales-insight task: it snapshots the
// most recent orders, renders them into a prompt and hands the prompt to an
// external text generator. The generator itself (the model client) is supplied
// by the caller; nothing here talks to a model API.
package analysis

import (
	"context"
	"fmt"
	"strings"

	"orderdesk/store"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// recentOrderLimit is how many orders feed one analysis.
const recentOrderLimit = 5

// Generator is the external model collaborator.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Orders is the read-only accessor the task consumes. It must be free of side
// effects.
type Orders interface {
	Recent(n int) ([]store.RecentOrder, error)
}

// Outcome is the single result of a task: either the insight text or an error.
type Outcome struct {
	Text string
	Err  error
}

// Task is one in-flight analysis. Exactly one Outcome is delivered on Result;
// Cancel aborts the generator call through its context.
type Task struct {
	ID     string
	Result <-chan Outcome
	Cancel context.CancelFunc
}

// Service coordinates analysis runs. Concurrent triggers coalesce onto a
// single flight so the generator is not called twice for the same click storm.
type Service struct {
	orders Orders
	gen    Generator
	group  singleflight.Group
}

func NewService(orders Orders, gen Generator) *Service {
	return &Service{orders: orders, gen: gen}
}

// Start launches the analysis off the interactive path and returns
// immediately. The returned task's Result channel is buffered: the worker
// never blocks on a caller that stopped listening.
func (s *Service) Start(ctx context.Context) *Task {
	ctx, cancel := context.WithCancel(ctx)
	result := make(chan Outcome, 1)
	task := &Task{ID: uuid.New().String(), Result: result, Cancel: cancel}

	go func() {
		defer cancel()
		v, err, _ := s.group.Do("sales-insight", func() (any, error) {
			return s.run(ctx)
		})
		text, _ := v.(string)
		result <- Outcome{Text: text, Err: err}
	}()

	return task
}

func (s *Service) run(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	orders, err := s.orders.Recent(recentOrderLimit)
	if err != nil {
		return "", fmt.Errorf("loading orders for analysis: %w", err)
	}
	text, err := s.gen.Generate(ctx, buildPrompt(orders))
	if err != nil {
		return "", fmt.Errorf("generating insight: %w", err)
	}
	return strings.TrimSpace(text), nil
}
