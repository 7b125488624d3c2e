package object

import (
	"fmt"
	"sort"
	"strings"
)

// ReachableSet returns all object hashes reachable from roots by following
// object references. Missing roots are ignored.
func (s *Store) ReachableSet(roots []Hash) (map[Hash]struct{}, error) {
	out, _, err := s.walkReachable(roots)
	return out, err
}

// Missing returns, sorted, the hashes referenced from roots (or the roots
// themselves) that are absent from the store.
func (s *Store) Missing(roots []Hash) ([]Hash, error) {
	_, missing, err := s.walkReachable(roots)
	if err != nil {
		return nil, err
	}
	out := make([]Hash, 0, len(missing))
	for h := range missing {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (s *Store) walkReachable(roots []Hash) (map[Hash]struct{}, map[Hash]struct{}, error) {
	roots = uniqueNormalizedHashes(roots)
	out := make(map[Hash]struct{}, len(roots))
	missing := make(map[Hash]struct{})
	if len(roots) == 0 {
		return out, missing, nil
	}

	stack := make([]Hash, 0, len(roots))
	stack = append(stack, roots...)
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if h == "" {
			continue
		}
		if _, ok := out[h]; ok {
			continue
		}
		if !s.Has(h) {
			missing[h] = struct{}{}
			continue
		}
		out[h] = struct{}{}

		objType, data, err := s.Read(h)
		if err != nil {
			return nil, nil, fmt.Errorf("reachable set read %s: %w", h, err)
		}
		refs, err := referencedHashes(objType, data)
		if err != nil {
			return nil, nil, fmt.Errorf("reachable set parse %s (%s): %w", h, objType, err)
		}
		stack = append(stack, refs...)
	}

	return out, missing, nil
}

func referencedHashes(objType ObjectType, data []byte) ([]Hash, error) {
	o, err := Decode(objType, data)
	if err != nil {
		return nil, err
	}
	switch obj := o.(type) {
	case *Blob:
		return nil, nil
	case *CommitObj:
		refs := []Hash{obj.TreeHash}
		if obj.Parent != "" {
			refs = append(refs, obj.Parent)
		}
		return refs, nil
	case *TreeObj:
		refs := make([]Hash, 0, len(obj.Entries))
		for _, e := range obj.Entries {
			// Gitlinks name commits in another repository.
			if e.Mode == TreeModeGitlink {
				continue
			}
			refs = append(refs, e.Hash)
		}
		return refs, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownObjectType, objType)
	}
}

func uniqueNormalizedHashes(in []Hash) []Hash {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[Hash]struct{}, len(in))
	out := make([]Hash, 0, len(in))
	for _, h := range in {
		h = Hash(strings.ToLower(strings.TrimSpace(string(h))))
		if h == "" {
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
