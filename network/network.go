package network

import (
	"fmt"

	. "github.com/BayAreaMetro/transit-fares/util"
	"github.com/paulmach/orb"
)

//*******************************************
// network structs
//*******************************************

type Node struct {
	ID       int32     `json:"id"`
	Loc      orb.Point `json:"loc"`
	FareZone int32     `json:"farezone"`
}

type Link struct {
	ID            int32    `json:"id"`
	NodeA         int32    `json:"node_a"`
	NodeB         int32    `json:"node_b"`
	Length        float64  `json:"length"`
	Modes         []string `json:"modes"`
	BoardCost     float64  `json:"board_cost"`
	InVehicleCost float64  `json:"invehicle_cost"`
}

func (self *Link) HasMode(mode string) bool {
	for _, m := range self.Modes {
		if m == mode {
			return true
		}
	}
	return false
}

func (self *Link) AddMode(mode string) {
	if self.HasMode(mode) {
		return
	}
	self.Modes = append(self.Modes, mode)
}

type Mode struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// Segment is one (line, stop-node) entry with the link towards the next stop.
// The last segment of a line carries no link (LinkID < 0).
type Segment struct {
	StopID         int32   `json:"stop"`
	LinkID         int32   `json:"link"`
	AllowBoarding  bool    `json:"allow_boarding"`
	AllowAlighting bool    `json:"allow_alighting"`
	BoardCost      float64 `json:"board_cost"`
	InVehicleCost  float64 `json:"invehicle_cost"`

	extra Dict[string, float64]
}

func (self *Segment) SetExtra(name string, value float64) {
	if self.extra == nil {
		self.extra = NewDict[string, float64](4)
	}
	self.extra[name] = value
}

func (self *Segment) Extra(name string) float64 {
	return self.extra[name]
}

type Line struct {
	Name       string     `json:"name"`
	Mode       string     `json:"mode"`
	FareSystem int32      `json:"faresystem"`
	Segments   []*Segment `json:"segments"`
}

//*******************************************
// network
//*******************************************

// Network is a self-contained snapshot of the host model's transit network.
// The engine is the exclusive writer of modes and extra attributes it creates.
type Network struct {
	nodes      Dict[int32, *Node]
	links      Dict[int32, *Link]
	lines      List[*Line]
	modes      Dict[string, *Mode]
	attributes Dict[string, string]
}

func New() *Network {
	return &Network{
		nodes:      NewDict[int32, *Node](1000),
		links:      NewDict[int32, *Link](1000),
		lines:      NewList[*Line](100),
		modes:      NewDict[string, *Mode](10),
		attributes: NewDict[string, string](10),
	}
}

func (self *Network) AddNode(node *Node) {
	self.nodes[node.ID] = node
}
func (self *Network) AddLink(link *Link) {
	self.links[link.ID] = link
}
func (self *Network) AddLine(line *Line) {
	self.lines.Add(line)
}

func (self *Network) Node(id int32) *Node {
	return self.nodes[id]
}
func (self *Network) Link(id int32) *Link {
	return self.links[id]
}
func (self *Network) Lines() List[*Line] {
	return self.lines
}
func (self *Network) NodeCount() int {
	return self.nodes.Length()
}
func (self *Network) LinkCount() int {
	return self.links.Length()
}

func (self *Network) CreateMode(id string, description string) error {
	if self.modes.ContainsKey(id) {
		return fmt.Errorf("mode '%s' already exists", id)
	}
	self.modes[id] = &Mode{ID: id, Description: description}
	return nil
}

func (self *Network) HasMode(id string) bool {
	return self.modes.ContainsKey(id)
}

func (self *Network) Mode(id string) *Mode {
	return self.modes[id]
}

func (self *Network) ModeIDs() []string {
	ids := make([]string, 0, self.modes.Length())
	for id := range self.modes {
		ids = append(ids, id)
	}
	return ids
}

// CreateAttribute registers a new extra attribute name for the given domain
// (e.g. "TRANSIT_SEGMENT"). Creating the same name twice is an error.
func (self *Network) CreateAttribute(domain string, name string) error {
	if self.attributes.ContainsKey(name) {
		return fmt.Errorf("attribute '%s' already exists", name)
	}
	self.attributes[name] = domain
	return nil
}

func (self *Network) HasAttribute(name string) bool {
	return self.attributes.ContainsKey(name)
}

// Adjacency returns the outgoing link ids per from-node.
func (self *Network) Adjacency() Dict[int32, List[int32]] {
	adjacency := NewDict[int32, List[int32]](self.nodes.Length())
	for id, link := range self.links {
		edges := adjacency[link.NodeA]
		edges.Add(id)
		adjacency[link.NodeA] = edges
	}
	return adjacency
}
