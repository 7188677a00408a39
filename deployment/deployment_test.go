package deployment_test

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wiless/empirical/deployment"
	"github.com/wiless/vlib"
)

func TestNodePositions(t *testing.T) {
	d := deployment.NewNodeSystem()
	ap := d.NewNode("AP", vlib.Location3D{X: 0, Y: 0, Z: 33}, deployment.TransmitOnly)
	sta := d.NewNode("STA", vlib.Location3D{X: 10, Y: 0, Z: 1}, deployment.ReceiveOnly)
	require.NotEqual(t, ap.ID, sta.ID)

	require.NoError(t, d.SetPosition(sta.ID, vlib.Location3D{X: 30, Y: 40, Z: 33}))
	a, err := d.Position(ap.ID)
	require.NoError(t, err)
	b, err := d.Position(sta.ID)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, d.Distance(a, b), 1e-12)

	_, err = d.Position(42)
	assert.True(t, errors.Is(err, deployment.ErrUnknownNode))
	assert.True(t, errors.Is(d.SetPosition(42, a), deployment.ErrUnknownNode))

	require.NoError(t, d.SetTxPower(ap.ID, 47))
	node, err := d.Node(ap.ID)
	require.NoError(t, err)
	assert.Equal(t, 47.0, node.TxPowerDBm)
	assert.Len(t, d.GetNodesOfType("STA"), 1)

	d.NewNode("AP", vlib.Location3D{}, deployment.Inactive)
	d.NewNode("RELAY", vlib.Location3D{}, deployment.Duplex)
	var ids []int
	for _, n := range d.Transmitters() {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []int{ap.ID, 3}, ids)
}

func TestNodeSystemSnapshot(t *testing.T) {
	d := deployment.NewNodeSystem()
	d.NewNode("AP", vlib.Location3D{X: 0, Y: 0, Z: 35}, deployment.TransmitOnly)
	d.NewNode("STA", vlib.Location3D{X: 80, Y: 0, Z: 1}, deployment.ReceiveOnly)

	data, err := json.Marshal(d)
	require.NoError(t, err)

	restored := deployment.NewNodeSystem()
	require.NoError(t, json.Unmarshal(data, restored))
	sta, err := restored.Node(1)
	require.NoError(t, err)
	assert.Equal(t, "STA", sta.Type)
	assert.Equal(t, deployment.ReceiveOnly, sta.Mode)
	assert.Equal(t, 80.0, sta.Location.X)

	next := restored.NewNode("STA", vlib.Location3D{}, deployment.ReceiveOnly)
	assert.Equal(t, 2, next.ID)
}
