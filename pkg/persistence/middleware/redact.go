package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/ports"
)

// Mask replaces redacted values.
const Mask = "***"

type redactMiddleware struct {
	next     ports.SnapshotStore
	patterns []*regexp.Regexp
}

// outlineAttr matches name="value" pairs of an outline line.
var outlineAttr = regexp.MustCompile(`([A-Za-z_:][-A-Za-z0-9_:.]*)="((?:[^"\\]|\\.)*)"`)

// NewRedactMiddleware creates a middleware that masks the values of props whose key matches
// one of the patterns, both in the stored tree and in the outline.
func NewRedactMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.SnapshotStore) ports.SnapshotStore {
		return &redactMiddleware{next: next, patterns: patterns}
	}
}

func (m *redactMiddleware) Save(ctx context.Context, containerID string, snap *domain.Snapshot) error {
	// Work on a copy: the caller still holds the live snapshot.
	cloned := *snap
	if snap.Tree != nil {
		t := snap.Tree.Clone()
		t.Walk(func(n domain.AbstractNode) bool {
			maskMap(n.Props, m.patterns)
			return true
		})
		cloned.Tree = &t
	}
	cloned.Outline = outlineAttr.ReplaceAllStringFunc(snap.Outline, func(pair string) string {
		name := outlineAttr.FindStringSubmatch(pair)[1]
		if m.matches(name) {
			return name + `="` + Mask + `"`
		}
		return pair
	})

	return m.next.Save(ctx, containerID, &cloned)
}

func (m *redactMiddleware) Load(ctx context.Context, containerID string) (*domain.Snapshot, error) {
	return m.next.Load(ctx, containerID)
}

func (m *redactMiddleware) Delete(ctx context.Context, containerID string) error {
	return m.next.Delete(ctx, containerID)
}

func (m *redactMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *redactMiddleware) matches(key string) bool {
	for _, p := range m.patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}

// maskMap masks matching keys in place. Nested maps (style) are masked in copies.
func maskMap(props map[string]any, patterns []*regexp.Regexp) {
	for k, v := range props {
		masked := false
		for _, p := range patterns {
			if p.MatchString(k) {
				props[k] = Mask
				masked = true
				break
			}
		}
		if masked {
			continue
		}

		if sub, ok := v.(map[string]any); ok {
			cp := make(map[string]any, len(sub))
			for sk, sv := range sub {
				cp[sk] = sv
			}
			maskMap(cp, patterns)
			props[k] = cp
		}
	}
}
