// Package graph builds the class inheritance graph and computes PageRank.
package graph

import (
	"errors"
	"fmt"
	"math"
	"sort"

	dgraph "github.com/dominikbraun/graph"

	"github.com/phobologic/apiguide/internal/model"
)

// BuildInheritance creates extends edges between classes. Parents that are
// not documented are kept as edges to external bases. An edge that would
// close a cycle is dropped and reported as a warning.
func BuildInheritance(classes []*model.Entity) ([]model.Inheritance, []model.Warning) {
	g := dgraph.New(dgraph.StringHash, dgraph.Directed(), dgraph.PreventCycles())

	byName := make(map[string]*model.Entity, len(classes))
	for _, c := range classes {
		name := model.Deref(c.Name)
		if name == "" {
			continue
		}
		byName[name] = c
		_ = g.AddVertex(name)
	}

	var edges []model.Inheritance
	var warnings []model.Warning
	for _, c := range classes {
		child := model.Deref(c.Name)
		parent := model.Deref(c.Extends)
		if child == "" || parent == "" {
			continue
		}
		if _, ok := byName[parent]; !ok {
			_ = g.AddVertex(parent)
		}

		err := g.AddEdge(child, parent)
		switch {
		case err == nil:
			edges = append(edges, model.Inheritance{Child: child, Parent: parent})
		case errors.Is(err, dgraph.ErrEdgeCreatesCycle) || child == parent:
			warnings = append(warnings, model.Warning{
				File:    c.File,
				Line:    c.Line,
				Kind:    "cyclic-extends",
				Message: fmt.Sprintf("%s extends %s, which creates an inheritance cycle", child, parent),
			})
		}
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Child != edges[j].Child {
			return edges[i].Child < edges[j].Child
		}
		return edges[i].Parent < edges[j].Parent
	})

	return edges, warnings
}

// Rank applies PageRank over the inheritance edges (child → parent), so
// widely extended base classes rank highest. Classes are sorted by rank
// descending, then by name.
func Rank(classes []*model.Entity, edges []model.Inheritance) {
	if len(classes) == 0 {
		return
	}

	if len(edges) == 0 {
		uniform := 1.0 / float64(len(classes))
		for _, c := range classes {
			c.Rank = uniform
		}
		sortByRank(classes)
		return
	}

	outEdges := make(map[string][]string)
	outDegree := make(map[string]int)
	nodes := make(map[string]struct{})

	for _, c := range classes {
		nodes[model.Deref(c.Name)] = struct{}{}
	}
	for _, e := range edges {
		nodes[e.Child] = struct{}{}
		nodes[e.Parent] = struct{}{}
		outEdges[e.Child] = append(outEdges[e.Child], e.Parent)
		outDegree[e.Child]++
	}

	ranks := pageRank(nodes, outEdges, outDegree, 0.85, 100, 1e-6)

	for _, c := range classes {
		c.Rank = ranks[model.Deref(c.Name)]
	}
	sortByRank(classes)
}

func sortByRank(classes []*model.Entity) {
	sort.SliceStable(classes, func(i, j int) bool {
		if classes[i].Rank != classes[j].Rank {
			return classes[i].Rank > classes[j].Rank
		}
		return model.Deref(classes[i].Name) < model.Deref(classes[j].Name)
	})
}

func pageRank(
	nodes map[string]struct{},
	outEdges map[string][]string,
	outDegree map[string]int,
	alpha float64,
	maxIter int,
	tol float64,
) map[string]float64 {
	n := len(nodes)
	if n == 0 {
		return nil
	}

	rank := make(map[string]float64, n)
	initial := 1.0 / float64(n)
	for node := range nodes {
		rank[node] = initial
	}

	teleport := (1.0 - alpha) / float64(n)

	for iter := 0; iter < maxIter; iter++ {
		newRank := make(map[string]float64, n)

		// Dangling node contribution (classes extending nothing)
		var danglingSum float64
		for node := range nodes {
			if outDegree[node] == 0 {
				danglingSum += rank[node]
			}
		}
		danglingContrib := alpha * danglingSum / float64(n)

		for node := range nodes {
			newRank[node] = teleport + danglingContrib
		}

		for src, targets := range outEdges {
			deg := float64(outDegree[src])
			contrib := alpha * rank[src] / deg
			for _, tgt := range targets {
				newRank[tgt] += contrib
			}
		}

		var diff float64
		for node := range nodes {
			diff += math.Abs(newRank[node] - rank[node])
		}

		rank = newRank

		if diff < tol {
			break
		}
	}

	return rank
}
