package cli

import (
	"github.com/aretw0/graft/pkg/registry"
	"github.com/aretw0/graft/pkg/tree"
)

// Validate loads a tree document and checks every node type against reg.
// A nil registry validates against the default kinds.
func Validate(path string, reg *registry.Registry, strict bool) error {
	if reg == nil {
		reg = registry.Default()
	}
	var opts []tree.Option
	if strict {
		opts = append(opts, tree.Strict())
	}
	t, err := tree.NewLoader(opts...).LoadFile(path)
	if err != nil {
		return err
	}
	return reg.Validate(t)
}
