package network

import (
	. "github.com/BayAreaMetro/transit-fares/util"
)

//*******************************************
// snapshot io
//*******************************************

type _Snapshot struct {
	Nodes []*Node `json:"nodes"`
	Links []*Link `json:"links"`
	Modes []*Mode `json:"modes"`
	Lines []*Line `json:"lines"`
}

// Load reads a network snapshot exported by the host model.
func Load(file string) *Network {
	snapshot := ReadJSONFromFile[_Snapshot](file)
	net := New()
	for _, node := range snapshot.Nodes {
		net.AddNode(node)
	}
	for _, link := range snapshot.Links {
		net.AddLink(link)
	}
	for _, mode := range snapshot.Modes {
		net.modes[mode.ID] = mode
	}
	for _, line := range snapshot.Lines {
		net.AddLine(line)
	}
	return net
}

func Save(net *Network, file string) {
	snapshot := _Snapshot{
		Nodes: make([]*Node, 0, net.nodes.Length()),
		Links: make([]*Link, 0, net.links.Length()),
		Modes: make([]*Mode, 0, net.modes.Length()),
		Lines: net.lines,
	}
	for _, node := range net.nodes {
		snapshot.Nodes = append(snapshot.Nodes, node)
	}
	for _, link := range net.links {
		snapshot.Links = append(snapshot.Links, link)
	}
	for _, mode := range net.modes {
		snapshot.Modes = append(snapshot.Modes, mode)
	}
	WriteJSONToFile(snapshot, file)
}
