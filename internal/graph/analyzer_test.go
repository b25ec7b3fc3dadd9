package graph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BRBCoffeeDebuff/DocMeta/internal/docrec"
)

func TestOrphans(t *testing.T) {
	a := buildAnalyzer(t, []docrec.Record{srcRecord(map[string]docrec.Entry{
		"main.js":   {Uses: []string{"./used"}},
		"used.js":   {},
		"orphan.js": {Uses: []string{"./used"}},
	})}, []string{"**/main.*"})

	require.Equal(t, []string{"/src/orphan.js"}, a.Orphans())
}

func TestOrphansExcludesLeavesAndCalledNodes(t *testing.T) {
	records := []docrec.Record{srcRecord(map[string]docrec.Entry{
		"main.js": {Uses: []string{"./used"}},
		"used.js": {},
		// Unused but with zero internal references: a leaf, not an orphan.
		"leaf.js": {},
		// Unused locally but invoked over HTTP.
		"handler.js": {Uses: []string{"./used"}, CalledBy: []string{"/web/client.js"}},
	})}
	a := buildAnalyzer(t, records, []string{"**/main.*"})

	require.Empty(t, a.Orphans())
}

func TestEntryPoints(t *testing.T) {
	a := buildAnalyzer(t, []docrec.Record{srcRecord(map[string]docrec.Entry{
		"main.js": {Uses: []string{"./used"}},
		"used.js": {},
		// No inbound edges and no internal references: framework-invoked.
		"standalone.js": {},
	})}, []string{"**/main.*"})

	require.Equal(t, []string{"/src/main.js", "/src/standalone.js"}, a.EntryPoints())
}

func TestClustersPartitionUnreachableNodes(t *testing.T) {
	records := []docrec.Record{srcRecord(map[string]docrec.Entry{
		"main.js": {Uses: []string{"./used"}},
		"used.js": {},
		// A two-node island plus a lone dangling node.
		"island1.js": {Uses: []string{"./island2"}},
		"island2.js": {Uses: []string{"./island1"}},
		"dangling.js": {Uses: []string{"./used"}},
	})}
	a := buildAnalyzer(t, records, []string{"**/main.*"})

	clusters := a.Clusters()
	require.Len(t, clusters, 2)

	// Largest first.
	require.Equal(t, 2, clusters[0].Size)
	require.Equal(t, []string{"/src/island1.js", "/src/island2.js"}, clusters[0].Members)
	require.Equal(t, 1, clusters[1].Size)
	require.Equal(t, []string{"/src/dangling.js"}, clusters[1].Members)
}

func TestClustersEmptyWhenEverythingReachable(t *testing.T) {
	a := buildAnalyzer(t, []docrec.Record{srcRecord(map[string]docrec.Entry{
		"main.js": {Uses: []string{"./lib"}},
		"lib.js":  {Uses: []string{"./deep"}},
		"deep.js": {},
	})}, []string{"**/main.*"})

	require.Empty(t, a.Clusters())
}

func TestBlastRadiusChain(t *testing.T) {
	a := buildAnalyzer(t, []docrec.Record{srcRecord(map[string]docrec.Entry{
		"base.js":   {},
		"middle.js": {Uses: []string{"./base"}},
		"top.js":    {Uses: []string{"./middle"}},
	})}, nil)

	br := a.BlastRadius("base")
	require.True(t, br.Found)
	require.Equal(t, "/src/base.js", br.Target)
	require.Equal(t, []string{"/src/middle.js"}, br.Direct)
	require.Equal(t, []string{"/src/top.js"}, br.Transitive)
	require.Empty(t, br.HTTPCallers)
	require.Equal(t, 2, br.Total)
}

func TestBlastRadiusHTTPCallersDisjoint(t *testing.T) {
	records := []docrec.Record{srcRecord(map[string]docrec.Entry{
		// middle already depends on base; listing it as an HTTP caller
		// too must not double-count it.
		"base.js":   {CalledBy: []string{"/src/middle.js", "/web/client.js"}},
		"middle.js": {Uses: []string{"./base"}},
	})}
	a := buildAnalyzer(t, records, nil)

	br := a.BlastRadius("/src/base.js")
	require.True(t, br.Found)
	require.Equal(t, []string{"/src/middle.js"}, br.Direct)
	require.Equal(t, []string{"/web/client.js"}, br.HTTPCallers)
	require.Equal(t, 2, br.Total)
}

func TestBlastRadiusNotFound(t *testing.T) {
	a := buildAnalyzer(t, []docrec.Record{srcRecord(map[string]docrec.Entry{
		"a.js": {},
	})}, nil)

	br := a.BlastRadius("no-such-file")
	require.False(t, br.Found)
	require.NotEmpty(t, br.Note)
	require.Zero(t, br.Total)
}
