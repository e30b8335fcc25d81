package modpack

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingSource serves descriptors from memory and counts loads per package.
type countingSource struct {
	descriptors map[string]*Descriptor
	loads       map[string]int
}

func newCountingSource(descs ...*Descriptor) *countingSource {
	s := &countingSource{descriptors: map[string]*Descriptor{}, loads: map[string]int{}}
	for _, d := range descs {
		s.descriptors[d.Name] = d
	}
	return s
}

func (s *countingSource) Load(name string) (*Descriptor, error) {
	s.loads[name]++
	d, ok := s.descriptors[name]
	if !ok {
		return nil, &DescriptorNotFoundError{Package: name, Path: name + Extension}
	}
	return d, nil
}

func TestResolve_BasePackage(t *testing.T) {
	t.Parallel()
	src := newCountingSource(&Descriptor{
		Name:    "base",
		Addons:  []string{"sodium", "lithium"},
		Configs: []ConfigCopy{{Source: "sodium.json", Dest: "sodium-options.json"}},
	})

	res, err := Resolve(context.Background(), src, "base")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"sodium", "lithium"}, res.Addons)
	assert.Equal(t, []ConfigCopy{{Source: "sodium.json", Dest: "sodium-options.json"}}, res.Configs)
	assert.Equal(t, []string{"base"}, res.Packages)
}

func TestResolve_Cycle(t *testing.T) {
	t.Parallel()
	src := newCountingSource(
		&Descriptor{Name: "A", Addons: []string{"a", "shared"}, Dependencies: []string{"B"}},
		&Descriptor{Name: "B", Addons: []string{"b", "shared"}, Dependencies: []string{"A"}},
	)

	res, err := Resolve(context.Background(), src, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "shared"}, res.Addons)
	assert.Equal(t, []string{"A", "B"}, res.Packages)
	assert.Equal(t, 1, src.loads["A"])
	assert.Equal(t, 1, src.loads["B"])
}

func TestResolve_SelfReference(t *testing.T) {
	t.Parallel()
	src := newCountingSource(&Descriptor{Name: "loop", Addons: []string{"x"}, Dependencies: []string{"loop", "loop"}})
	res, err := Resolve(context.Background(), src, "loop")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, res.Addons)
	assert.Equal(t, 1, src.loads["loop"])
}

func TestResolve_DiamondDedupesConfigs(t *testing.T) {
	t.Parallel()
	shared := ConfigCopy{Source: "x.json", Dest: "x.json"}
	src := newCountingSource(
		&Descriptor{Name: "A", Configs: []ConfigCopy{{Source: "a.json", Dest: "a.json"}}, Dependencies: []string{"B", "C"}},
		&Descriptor{Name: "B", Configs: []ConfigCopy{{Source: "b.json", Dest: "b.json"}}, Dependencies: []string{"X"}},
		&Descriptor{Name: "C", Configs: []ConfigCopy{{Source: "c.json", Dest: "c.json"}, shared}, Dependencies: []string{"X"}},
		&Descriptor{Name: "X", Addons: []string{"x"}, Configs: []ConfigCopy{shared}},
	)

	res, err := Resolve(context.Background(), src, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "X", "C"}, res.Packages)
	assert.Equal(t, []ConfigCopy{
		{Source: "a.json", Dest: "a.json"},
		{Source: "b.json", Dest: "b.json"},
		shared,
		{Source: "c.json", Dest: "c.json"},
	}, res.Configs)
	assert.Equal(t, 1, src.loads["X"])
}

func TestResolve_SameSourceDifferentDestKept(t *testing.T) {
	t.Parallel()
	src := newCountingSource(&Descriptor{Name: "p", Configs: []ConfigCopy{
		{Source: "a.json", Dest: "one.json"},
		{Source: "a.json", Dest: "two.json"},
		{Source: "a.json", Dest: "one.json"},
	}})
	res, err := Resolve(context.Background(), src, "p")
	require.NoError(t, err)
	assert.Len(t, res.Configs, 2)
}

func TestResolve_LargeDAGHasNoDuplicates(t *testing.T) {
	t.Parallel()
	// Layered DAG: every package depends on every package in the next layer.
	const layers, width = 5, 4
	var descs []*Descriptor
	for l := 0; l < layers; l++ {
		for w := 0; w < width; w++ {
			d := &Descriptor{
				Name:   fmt.Sprintf("p%d-%d", l, w),
				Addons: []string{fmt.Sprintf("mod-%d", w), fmt.Sprintf("layer-%d", l)},
			}
			if l+1 < layers {
				for n := 0; n < width; n++ {
					d.Dependencies = append(d.Dependencies, fmt.Sprintf("p%d-%d", l+1, n))
				}
			}
			descs = append(descs, d)
		}
	}
	descs = append(descs, &Descriptor{Name: "root", Dependencies: []string{"p0-0", "p0-1", "p0-2", "p0-3"}})
	src := newCountingSource(descs...)

	res, err := Resolve(context.Background(), src, "root")
	require.NoError(t, err)
	seen := map[string]bool{}
	for _, id := range res.Addons {
		assert.False(t, seen[id], "duplicate %s", id)
		seen[id] = true
	}
	assert.Len(t, res.Addons, width+layers)
	for name, n := range src.loads {
		assert.Equal(t, 1, n, name)
	}
}

func TestResolve_MissingDependency(t *testing.T) {
	t.Parallel()
	src := newCountingSource(&Descriptor{Name: "A", Dependencies: []string{"ghost"}})
	_, err := Resolve(context.Background(), src, "A")
	var notFound *DescriptorNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "ghost", notFound.Package)
}

func TestResolve_ParseErrorPropagates(t *testing.T) {
	t.Parallel()
	l := registry(map[string]string{
		"A.toml": "[Dependencies]\npackageRefs = \"B\"\n",
		"B.toml": "[General]\nconfigs = \"broken\"\n",
	})
	_, err := Resolve(context.Background(), l, "A")
	var parseErr *DescriptorParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "B", parseErr.Package)
}

func TestResolve_ContextCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Resolve(ctx, newCountingSource(&Descriptor{Name: "A"}), "A")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestResolve_NilSource(t *testing.T) {
	t.Parallel()
	_, err := Resolve(context.Background(), nil, "A")
	assert.Error(t, err)
}
