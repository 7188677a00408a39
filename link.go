// Package empirical evaluates radio links between the nodes of a deployment
// using the propagation models of package pathloss.
package empirical

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"github.com/wiless/empirical/deployment"
	"github.com/wiless/empirical/pathloss"
	"github.com/wiless/vlib"
)

// NoisePSDdBmPerHz is the thermal noise density at room temperature.
const NoisePSDdBmPerHz = -173.9

type LinkMetric struct {
	RxNodeID         int
	Model            string
	FreqInGHz        float64
	BandwidthMHz     float64
	N0               float64
	TxNodeIDs        vlib.VectorI
	TxNodesRSRP      vlib.VectorF
	RSSI             float64
	BestRSRP         float64
	BestRSRPNode     int
	BestSINR         float64
	BestCouplingLoss float64
}

func (l *LinkMetric) SetParams(fGHz, bwMHz float64) {
	l.N0 = NoisePSDdBmPerHz + vlib.Db(bwMHz*1e6)
	l.FreqInGHz = fGHz
	l.BandwidthMHz = bwMHz
}

// RxPowerDbm is the received power for a transmitter at txPowerDbm seen
// through lossDb of path loss.
func RxPowerDbm(txPowerDbm, lossDb float64) float64 {
	return txPowerDbm - lossDb
}

// RxPowerAt evaluates m between a and b and returns the received power.
func RxPowerAt(txPowerDbm float64, m pathloss.Model, a, b vlib.Location3D) float64 {
	return RxPowerDbm(txPowerDbm, m.LossInDb3D(a, b))
}

// WSystem holds the radio parameters shared by every evaluated link.
type WSystem struct {
	FrequencyGHz float64
	BandwidthMHz float64
	NoisePSDdBm  float64
	OtherLossFn  func(txnode, rxnode deployment.Node) float64
}

func NewWSystem() WSystem {
	var result WSystem
	result.BandwidthMHz = 10.0
	result.NoisePSDdBm = NoisePSDdBmPerHz
	return result
}

// EvaluateLinkMetric computes the RSRP of every transmitting node at rxid,
// ordered strongest first, along with the RSSI and the SINR of the best link.
// Without any transmitter the best values stay at -1000.
func (w WSystem) EvaluateLinkMetric(nodes *deployment.NodeSystem, model pathloss.Model, rxid int) (LinkMetric, error) {
	var link LinkMetric
	rxnode, err := nodes.Node(rxid)
	if err != nil {
		return link, errors.Wrap(err, "evaluating link")
	}
	link.FreqInGHz = w.FrequencyGHz
	link.BandwidthMHz = w.BandwidthMHz
	link.N0 = w.NoisePSDdBm + vlib.Db(w.BandwidthMHz*1e6)
	link.RxNodeID = rxid
	link.Model = model.Name()
	link.BestRSRP = -1000
	link.BestSINR = -1000
	link.BestRSRPNode = -1

	type candidate struct {
		id       int
		rsrp     float64
		coupling float64
	}
	var links []candidate
	for _, txnode := range nodes.Transmitters() {
		if txnode.ID == rxid {
			continue
		}
		lossDb := model.LossInDb3D(txnode.Location, rxnode.Location)
		otherLossDb := 0.0
		if w.OtherLossFn != nil {
			otherLossDb = w.OtherLossFn(txnode, rxnode)
		}
		coupling := lossDb + otherLossDb
		links = append(links, candidate{txnode.ID, RxPowerDbm(txnode.TxPowerDBm, coupling), coupling})
	}
	if len(links) == 0 {
		link.RSSI = link.N0
		return link, nil
	}

	sort.SliceStable(links, func(i, j int) bool { return links[i].rsrp > links[j].rsrp })
	total := vlib.InvDb(link.N0)
	for _, l := range links {
		link.TxNodeIDs.AppendAtEnd(l.id)
		link.TxNodesRSRP.AppendAtEnd(l.rsrp)
		total += vlib.InvDb(l.rsrp)
	}
	best := links[0]
	link.RSSI = vlib.Db(total)
	link.BestRSRP = best.rsrp
	link.BestRSRPNode = best.id
	link.BestCouplingLoss = best.coupling
	link.BestSINR = best.rsrp - vlib.Db(total-vlib.InvDb(best.rsrp))
	if math.IsInf(link.BestSINR, 0) || math.IsNaN(link.BestSINR) {
		link.BestSINR = 1000
	}
	return link, nil
}
