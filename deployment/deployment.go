// Package deployment keeps the nodes of a simulation and their positions.
package deployment

import (
	"bytes"
	"encoding/json"
	"sort"

	ms "github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/wiless/vlib"
)

// ErrUnknownNode is returned for node IDs that were never created.
var ErrUnknownNode = errors.New("unknown node")

type TxRxMode int

const (
	TransmitOnly TxRxMode = iota
	ReceiveOnly
	Duplex
	Inactive
)

var TxRxModes = [...]string{
	"TransmitOnly",
	"ReceiveOnly",
	"Duplex",
	"Inactive",
}

func (c TxRxMode) String() string {
	if c < 0 || int(c) >= len(TxRxModes) {
		return "Unknown-TxRxMode"
	}
	return TxRxModes[c]
}

type Node struct {
	Type       string
	ID         int
	Location   vlib.Location3D
	Meta       string
	TxPowerDBm float64
	Mode       TxRxMode `json:"TxRxMode" mapstructure:"TxRxMode"`
}

// NodeSystem owns node positions. It is the geometry provider of a sweep:
// positions are read and moved through it, never through copies of Node.
type NodeSystem struct {
	Nodes  map[int]*Node
	lastID int
}

func NewNodeSystem() *NodeSystem {
	return &NodeSystem{Nodes: make(map[int]*Node)}
}

// NewNode creates a node of the given type at loc and returns a copy of it.
func (d *NodeSystem) NewNode(ntype string, loc vlib.Location3D, mode TxRxMode) Node {
	if d.Nodes == nil {
		d.Nodes = make(map[int]*Node)
	}
	node := &Node{Type: ntype, ID: d.lastID, Location: loc, Mode: mode}
	d.Nodes[node.ID] = node
	d.lastID++
	return *node
}

// Node returns a copy of the node with the given ID.
func (d *NodeSystem) Node(id int) (Node, error) {
	node, ok := d.Nodes[id]
	if !ok {
		return Node{}, errors.Wrapf(ErrUnknownNode, "node %d", id)
	}
	return *node, nil
}

func (d *NodeSystem) Position(id int) (vlib.Location3D, error) {
	node, ok := d.Nodes[id]
	if !ok {
		return vlib.Location3D{}, errors.Wrapf(ErrUnknownNode, "node %d", id)
	}
	return node.Location, nil
}

func (d *NodeSystem) SetPosition(id int, loc vlib.Location3D) error {
	node, ok := d.Nodes[id]
	if !ok {
		return errors.Wrapf(ErrUnknownNode, "node %d", id)
	}
	node.Location = loc
	return nil
}

// SetTxPower sets the transmit power of a node in dBm.
func (d *NodeSystem) SetTxPower(id int, dBm float64) error {
	node, ok := d.Nodes[id]
	if !ok {
		return errors.Wrapf(ErrUnknownNode, "node %d", id)
	}
	node.TxPowerDBm = dBm
	return nil
}

// Distance is the 3D euclidean distance in meters.
func (d *NodeSystem) Distance(a, b vlib.Location3D) float64 {
	return a.DistanceFrom(b)
}

// GetNodesOfType returns copies of all nodes of ntype ordered by ID.
func (d *NodeSystem) GetNodesOfType(ntype string) []Node {
	var result []Node
	for _, id := range d.ids() {
		if node := d.Nodes[id]; node.Type == ntype {
			result = append(result, *node)
		}
	}
	return result
}

// Transmitters returns copies of the TransmitOnly and Duplex nodes ordered by ID.
func (d *NodeSystem) Transmitters() []Node {
	var result []Node
	for _, id := range d.ids() {
		if node := d.Nodes[id]; node.Mode == TransmitOnly || node.Mode == Duplex {
			result = append(result, *node)
		}
	}
	return result
}

func (d *NodeSystem) ids() []int {
	ids := make([]int, 0, len(d.Nodes))
	for id := range d.Nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (d *NodeSystem) MarshalJSON() ([]byte, error) {
	type obj struct {
		ID      int
		NodeObj Node
	}
	nodes := make([]obj, 0, len(d.Nodes))
	for _, id := range d.ids() {
		nodes = append(nodes, obj{id, *d.Nodes[id]})
	}
	bfr := bytes.NewBuffer(nil)
	enc := json.NewEncoder(bfr)
	err := enc.Encode(struct {
		Nodes  []obj
		LastID int
	}{nodes, d.lastID})
	return bytes.TrimSpace(bfr.Bytes()), err
}

func (d *NodeSystem) UnmarshalJSON(jsondata []byte) error {
	customobject := make(map[string]interface{})
	if err := json.Unmarshal(jsondata, &customobject); err != nil {
		return err
	}
	if last, ok := customobject["LastID"].(float64); ok {
		d.lastID = int(last)
	}

	type obj struct {
		ID      int
		NodeObj Node
	}
	var nodes []obj
	if err := ms.Decode(customobject["Nodes"], &nodes); err != nil {
		return errors.Wrap(err, "decoding nodes")
	}
	d.Nodes = make(map[int]*Node, len(nodes))
	for _, val := range nodes {
		node := val.NodeObj
		node.ID = val.ID
		d.Nodes[val.ID] = &node
		if val.ID >= d.lastID {
			d.lastID = val.ID + 1
		}
	}
	return nil
}
