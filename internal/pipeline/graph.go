// Package pipeline runs the provisioning steps as a graph of milestones.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/logging"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/messages"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/metrics"
)

// Milestone names a point in the run that a task reaches when it finishes.
type Milestone string

// Task produces one milestone once all of its requirements are reached.
type Task struct {
	Milestone Milestone
	Requires  []Milestone
	// Run may be nil for milestones that only join their requirements.
	Run func(ctx context.Context) error
}

// Graph is a set of tasks keyed by the milestone they produce.
type Graph struct {
	tasks []Task
	index map[Milestone]int

	// OnReached is called once per reached milestone. Calls are serialized.
	OnReached func(Milestone)
	Metrics   *metrics.Metrics
	Logger    *zerolog.Logger
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{index: make(map[Milestone]int)}
}

// Add registers a task. Problems are reported by Validate.
func (g *Graph) Add(task Task) {
	if g.index == nil {
		g.index = make(map[Milestone]int)
	}
	if _, ok := g.index[task.Milestone]; !ok {
		g.index[task.Milestone] = len(g.tasks)
	}
	g.tasks = append(g.tasks, task)
}

// milestones returns every registered milestone in insertion order.
func (g *Graph) milestones() []Milestone {
	out := make([]Milestone, 0, len(g.index))
	seen := make(map[Milestone]bool, len(g.index))
	for _, t := range g.tasks {
		if !seen[t.Milestone] {
			seen[t.Milestone] = true
			out = append(out, t.Milestone)
		}
	}
	return out
}

// Validate checks that every milestone has exactly one producer, that every
// requirement is produced by some task and that the graph is acyclic.
func (g *Graph) Validate() error {
	seen := make(map[Milestone]bool, len(g.tasks))
	for _, t := range g.tasks {
		if seen[t.Milestone] {
			return fmt.Errorf(messages.PipelineDuplicateMilestoneFmt, t.Milestone)
		}
		seen[t.Milestone] = true
	}
	for _, t := range g.tasks {
		for _, req := range t.Requires {
			if !seen[req] {
				return fmt.Errorf(messages.PipelineUnknownRequirementFmt, t.Milestone, req)
			}
		}
	}
	return g.detectCycles()
}

const (
	white = iota
	grey
	black
)

// detectCycles walks requirement edges depth first; meeting a grey node
// means the current path loops back on itself.
func (g *Graph) detectCycles() error {
	color := make(map[Milestone]int, len(g.tasks))
	var path []Milestone

	var visit func(m Milestone) error
	visit = func(m Milestone) error {
		switch color[m] {
		case black:
			return nil
		case grey:
			return fmt.Errorf(messages.PipelineCycleFmt, formatCycle(path, m))
		}
		color[m] = grey
		path = append(path, m)
		for _, req := range g.tasks[g.index[m]].Requires {
			if err := visit(req); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		color[m] = black
		return nil
	}

	for _, t := range g.tasks {
		if err := visit(t.Milestone); err != nil {
			return err
		}
	}
	return nil
}

// Run validates the graph and runs every task concurrently. A task starts
// once its requirements are reached. The first failure cancels the others
// and is returned wrapped with the failing milestone.
func (g *Graph) Run(ctx context.Context) error {
	if err := g.Validate(); err != nil {
		return err
	}
	logger := logging.OrGet(g.Logger, "pipeline")

	milestones := g.milestones()
	reached := make(map[Milestone]chan struct{}, len(milestones))
	for _, m := range milestones {
		reached[m] = make(chan struct{})
	}
	logger.Debug().Int("milestones", len(milestones)).Msg("running graph")
	var notifyMu sync.Mutex

	group, gctx := errgroup.WithContext(ctx)
	for _, task := range g.tasks {
		group.Go(func() error {
			for _, req := range task.Requires {
				select {
				case <-reached[req]:
				case <-gctx.Done():
					return gctx.Err()
				}
			}

			start := time.Now()
			if task.Run != nil {
				logger.Debug().Str("milestone", string(task.Milestone)).Msg("started")
				if err := task.Run(gctx); err != nil {
					return fmt.Errorf(messages.PipelineMilestoneFailedFmt, task.Milestone, err)
				}
			}
			elapsed := time.Since(start)
			g.Metrics.ObserveMilestone(string(task.Milestone), elapsed)
			logger.Info().Str("milestone", string(task.Milestone)).Dur("elapsed", elapsed).Msg("reached")

			if g.OnReached != nil {
				notifyMu.Lock()
				g.OnReached(task.Milestone)
				notifyMu.Unlock()
			}
			close(reached[task.Milestone])
			return nil
		})
	}
	return group.Wait()
}

func formatCycle(path []Milestone, back Milestone) string {
	start := 0
	for i, m := range path {
		if m == back {
			start = i
			break
		}
	}
	parts := make([]string, 0, len(path)-start+1)
	for _, m := range path[start:] {
		parts = append(parts, string(m))
	}
	parts = append(parts, string(back))
	return strings.Join(parts, " -> ")
}
