// Package stage implements the chain-of-responsibility pipeline stages
// named in spec §4: each Stage mutates a ScanContext and either hands it to
// the next stage or returns Terminal to short-circuit the remainder (spec
// §4.1 "the orchestrator accepts a ScannerType and returns a chain").
package stage

import (
	"context"
	"reflect"

	"github.com/hostvuln/scanorch"
)

// Result reports whether the chain should continue to the next stage.
type Result int

const (
	// Continue hands the context to the next stage in the chain.
	Continue Result = iota
	// Terminal stops the chain: no further stage runs (spec §4.1,
	// "a scanner that produced zero matches returns a terminal null").
	Terminal
)

// Stage is one link of the chain-of-responsibility pipeline. SetNext wires
// the fluent "setNext(stage) -> stage" construction pattern (spec §4.7):
// it both sets this stage's successor and returns it, so a factory can
// write head.SetNext(a).SetNext(b).SetNext(c) to build a 4-stage chain
// while holding only the head.
type Stage interface {
	Run(ctx context.Context, sc *scanorch.ScanContext) (Result, error)
	SetNext(next Stage) Stage
	next() Stage
}

// base is embedded by every concrete stage to provide the linked-list
// plumbing, leaving Run as the only method each stage type must supply.
type base struct {
	n Stage
}

func (b *base) SetNext(next Stage) Stage {
	b.n = next
	return next
}

func (b *base) next() Stage { return b.n }

// Types returns the concrete type name of every stage in the chain
// starting at head, in traversal order. It exists so orchestrator
// composition (spec §8 universal property 1) can be asserted on without
// each caller needing its own type switch.
func Types(head Stage) []string {
	var names []string
	for cur := head; cur != nil; cur = cur.next() {
		t := reflect.TypeOf(cur)
		if t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		names = append(names, t.Name())
	}
	return names
}

// Run drives head through the chain until a stage returns Terminal, errors,
// or the chain is exhausted.
func Run(ctx context.Context, head Stage, sc *scanorch.ScanContext) error {
	cur := head
	for cur != nil {
		res, err := cur.Run(ctx, sc)
		if err != nil {
			return err
		}
		if res == Terminal {
			return nil
		}
		cur = cur.next()
	}
	return nil
}
