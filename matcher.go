package qdqfuse

import (
	"context"

	"github.com/nnquant/qdqfuse/graph"
	"github.com/nnquant/qdqfuse/internal/utils"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// Matcher runs matching passes over a graph: each candidate node is tested
// against the selector registered for its operator kind, and the surviving
// selections are filtered so no two claim the same node.
//
// Matching is pure-read: the graph is only observed through its View, so
// independent candidates may be evaluated concurrently. The caller applies
// or discards the returned selections in a separate rewrite phase.
type Matcher struct {
	registry    *Registry
	parallelism int
}

// NewMatcher creates a matcher over the given registry.
func NewMatcher(registry *Registry) *Matcher {
	return &Matcher{registry: registry, parallelism: 1}
}

// WithParallelism sets how many candidates may be evaluated concurrently
// during a pass. Values below 2 keep the pass serial. The returned
// selections are identical either way: results are collected in
// topological candidate order before the overlap filter runs.
func (m *Matcher) WithParallelism(n int) *Matcher {
	m.parallelism = n
	return m
}

// candidate is one node of a pass together with the selector serving it.
type candidate struct {
	id       graph.NodeID
	selector Selector
}

// Run executes one matching pass over the view.
//
// Candidates are visited in topological order, and every match is
// collected before any is accepted. Selections are then accepted in that
// same order, rejecting any that claims a node an earlier accepted
// selection already claims: the accepted set stays applicable in any order
// by the rewrite phase, with no two fusions fighting over a node.
//
// The pass aborts with an error if the graph has a cycle, if the context
// is cancelled, or if the graph is mutated while the pass runs.
func (m *Matcher) Run(ctx context.Context, view *graph.View) ([]*Selection, error) {
	order, err := view.TopoOrder()
	if err != nil {
		return nil, err
	}

	candidates := make([]candidate, 0, len(order))
	for _, id := range order {
		node := view.NodeByID(id)
		if node == nil {
			return nil, errors.Errorf("node #%d vanished while collecting candidates", id)
		}
		selector, found := m.registry.Lookup(node.OpType(), node.SinceVersion())
		if !found {
			continue
		}
		candidates = append(candidates, candidate{id: id, selector: selector})
	}

	// Evaluate all candidates first. Results land at the candidate's index,
	// so the concurrent path yields the same order as the serial one.
	results := make([]*Selection, len(candidates))
	if m.parallelism > 1 {
		group, groupCtx := errgroup.WithContext(ctx)
		group.SetLimit(m.parallelism)
		for i, c := range candidates {
			group.Go(func() error {
				if err := groupCtx.Err(); err != nil {
					return err
				}
				selection, ok, err := Select(view, c.id, c.selector)
				if err != nil {
					return err
				}
				if ok {
					results[i] = selection
				}
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, c := range candidates {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			selection, ok, err := Select(view, c.id, c.selector)
			if err != nil {
				return nil, err
			}
			if ok {
				results[i] = selection
			}
		}
	}

	claimed := utils.MakeSet[graph.NodeID]()
	selections := make([]*Selection, 0, len(results))
	for i, selection := range results {
		if selection == nil {
			continue
		}
		overlaps := false
		for _, id := range selection.Nodes() {
			if claimed.Has(id) {
				overlaps = true
				break
			}
		}
		if overlaps {
			klog.V(2).Infof("rejecting selection at node #%d: overlaps an earlier selection", candidates[i].id)
			continue
		}
		claimed.Insert(selection.Nodes()...)
		selections = append(selections, selection)
	}
	klog.V(1).Infof("matching pass over %d nodes: %d candidates, %d selections", len(order), len(candidates), len(selections))
	return selections, nil
}
