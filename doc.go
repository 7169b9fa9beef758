/*
Package graft is a host adapter that lets a tree-reconciliation engine drive mutations of a
concrete, persistent host tree without knowing how that tree is represented.

The engine owns diffing and scheduling. graft owns translating abstract edit operations
(create, append, insert, remove, update, commit) into operations on host objects supplied
by a swappable ports.Backend.

# Concept

An abstract tree (domain.AbstractNode) is rendered into a root host object. The first
Render against a root opens a container session; later renders reuse it and apply only
the differences. Each commit is bracketed so observers never see a partially applied
tree, and nodes that asked for a post-mount effect (autoFocus) get it exactly once.

# Layers

  - pkg/host: the adapter contract (context propagation, instance factory,
    mutation executor, commit coordinator).
  - pkg/session: container sessions, locking and snapshot persistence.
  - pkg/adapters: backends and stores (memory, redis) and remote surfaces (http, mcp).

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/graft"
		"github.com/aretw0/graft/pkg/adapters/memory"
		"github.com/aretw0/graft/pkg/domain"
	)

	func main() {
		backend := memory.New()
		root := backend.NewRoot("body")
		r := graft.New(backend)

		tree := domain.Element("div", map[string]any{"className": "app"},
			domain.Element("span", nil, domain.Text("hello")),
		)
		if err := r.Render(context.Background(), tree, root, nil); err != nil {
			log.Fatal(err)
		}
		fmt.Println(root.HTML())
	}
*/
package graft
