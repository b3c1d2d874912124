package snapshot_test

import (
	"bytes"
	"encoding/xml"
	"io"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oudeng/Interconnected-SEIRAH/builder"
	"github.com/oudeng/Interconnected-SEIRAH/core"
	"github.com/oudeng/Interconnected-SEIRAH/epidemic"
	"github.com/oudeng/Interconnected-SEIRAH/gate"
	"github.com/oudeng/Interconnected-SEIRAH/snapshot"
)

// evolved returns a small world that has run a few recording passes, so
// nodes carry stamps, infection counts and disabled edges.
func evolved(t *testing.T) *core.Graph {
	t.Helper()
	g, err := builder.NewPopulation(builder.PopulationSpec{
		Name: "Tokyo", N: 200, K: 4, P: 0.1,
		Initial: builder.Compartments{Exposed: 5, Infectious: 5, Hospitalized: 2},
	}, builder.WithSeed(3))
	require.NoError(t, err)

	eng := epidemic.NewEngine(rand.New(rand.NewSource(3)))
	for day := 0; day < 5; day++ {
		_, err = eng.Step(g, day, 0.8, 0.5, epidemic.Recording)
		require.NoError(t, err)
		require.NoError(t, gate.DisableIfIsolated(g))
	}
	require.NoError(t, g.SetCommuter(7, true))
	return g
}

func assertSameGraph(t *testing.T, want, got *core.Graph) {
	t.Helper()
	require.Equal(t, want.NodeCount(), got.NodeCount())
	assert.Equal(t, want.Name(), got.Name())
	assert.Equal(t, want.InternalNodes(), got.InternalNodes())
	assert.Equal(t, want.Edges(), got.Edges())
	for id := 0; id < want.NodeCount(); id++ {
		assert.Equal(t, want.Incident(id), got.Incident(id), "node %d", id)
	}
	assert.NoError(t, got.Validate())
}

func TestTakeRestore_RoundTrip(t *testing.T) {
	g := evolved(t)

	s := snapshot.Take(g, 4)
	assert.Equal(t, 4, s.Day)
	got, err := snapshot.Restore(s)
	require.NoError(t, err)
	assertSameGraph(t, g, got)
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	g := evolved(t)

	var buf bytes.Buffer
	require.NoError(t, snapshot.Encode(&buf, snapshot.Take(g, 4)))
	s, err := snapshot.Decode(&buf)
	require.NoError(t, err)

	got, err := snapshot.Restore(s)
	require.NoError(t, err)
	assertSameGraph(t, g, got)
}

func TestDecode_Corrupt(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, snapshot.Encode(&buf, snapshot.Take(evolved(t), 0)))
	frame := buf.Bytes()

	flipped := append([]byte(nil), frame...)
	flipped[len(flipped)-6] ^= 0xff
	_, err := snapshot.Decode(bytes.NewReader(flipped))
	assert.ErrorIs(t, err, snapshot.ErrCorrupt)

	badMagic := append([]byte(nil), frame...)
	badMagic[0] = 'X'
	_, err = snapshot.Decode(bytes.NewReader(badMagic))
	assert.ErrorIs(t, err, snapshot.ErrCorrupt)

	badVersion := append([]byte(nil), frame...)
	badVersion[4] = 9
	_, err = snapshot.Decode(bytes.NewReader(badVersion))
	assert.ErrorIs(t, err, snapshot.ErrVersion)

	_, err = snapshot.Decode(bytes.NewReader(frame[:len(frame)-2]))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestRestore_RejectsBadContent(t *testing.T) {
	_, err := snapshot.Restore(snapshot.Snapshot{Version: 2})
	assert.ErrorIs(t, err, snapshot.ErrVersion)

	_, err = snapshot.Restore(snapshot.Snapshot{
		Version: snapshot.Version,
		Nodes:   make([]snapshot.NodeState, 2),
		Edges:   []snapshot.EdgeState{{From: 0, To: 5, Weight: 1}},
	})
	assert.ErrorIs(t, err, core.ErrNodeNotFound)

	_, err = snapshot.Restore(snapshot.Snapshot{
		Version: snapshot.Version,
		Nodes:   make([]snapshot.NodeState, 2),
		Edges:   []snapshot.EdgeState{{From: 0, To: 1, Weight: 3}},
	})
	assert.ErrorIs(t, err, core.ErrBadWeight)
}

func TestWriteGraphML(t *testing.T) {
	g := core.NewGraph(core.WithName("CBD"))
	_, err := g.AddNodes(2)
	require.NoError(t, err)
	_, err = g.AddEdge(0, 1)
	require.NoError(t, err)
	n, err := g.Node(1)
	require.NoError(t, err)
	n.Enter(core.Exposed, 3)
	n.InfectionsCaused = 2

	var buf bytes.Buffer
	require.NoError(t, snapshot.WriteGraphML(&buf, g))
	out := buf.String()
	assert.Contains(t, out, `<graph id="CBD" edgedefault="undirected">`)
	assert.Contains(t, out, `<data key="status">expo</data>`)
	assert.Contains(t, out, `<data key="E_1stday">3</data>`)
	assert.Contains(t, out, `<edge id="e0" source="0" target="1">`)

	var doc struct {
		Nodes []struct {
			ID string `xml:"id,attr"`
		} `xml:"graph>node"`
	}
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc))
	assert.Len(t, doc.Nodes, 2)
}
