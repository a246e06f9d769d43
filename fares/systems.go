package fares

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/BayAreaMetro/transit-fares/network"
	. "github.com/BayAreaMetro/transit-fares/util"
	"github.com/paulmach/orb"
	"gopkg.in/yaml.v3"
)

//*******************************************
// fare structure enum
//*******************************************

type Structure byte

const (
	FREE   Structure = 0
	FLAT   Structure = 1
	FROMTO Structure = 2
)

func (self Structure) String() string {
	switch self {
	case FREE:
		return "FREE"
	case FLAT:
		return "FLAT"
	case FROMTO:
		return "FROMTO"
	default:
		panic("unknown fare structure")
	}
}
func (self Structure) MarshalJSON() ([]byte, error) {
	return json.Marshal(self.String())
}
func (self *Structure) UnmarshalJSON(data []byte) error {
	var typ string
	if err := json.Unmarshal(data, &typ); err != nil {
		return err
	}
	structure, err := StructureFromString(typ)
	*self = structure
	return err
}
func (self Structure) MarshalYAML() (any, error) {
	return self.String(), nil
}
func (self *Structure) UnmarshalYAML(value *yaml.Node) error {
	structure, err := StructureFromString(value.Value)
	if err != nil {
		return err
	}
	*self = structure
	return nil
}

func StructureFromString(s string) (Structure, error) {
	switch s {
	case "FREE":
		return FREE, nil
	case "FLAT":
		return FLAT, nil
	case "FROMTO":
		return FROMTO, nil
	default:
		return FREE, errors.New("unknown fare structure: " + s)
	}
}

//*******************************************
// transfer values
//*******************************************

type TransferKind byte

const (
	TRANSFER_FARE        TransferKind = 0
	TRANSFER_UNREACHABLE TransferKind = 1
	TRANSFER_BOARD_PLUS  TransferKind = 2
)

// TransferValue is the cost of boarding a target fare system having already
// paid into a source system: a flat fare, the unreachable sentinel, or the
// target's own boarding cost plus an increment.
type TransferValue struct {
	Kind  TransferKind
	Value float64
}

func TransferFare(value float64) TransferValue {
	return TransferValue{Kind: TRANSFER_FARE, Value: value}
}
func TransferUnreachable() TransferValue {
	return TransferValue{Kind: TRANSFER_UNREACHABLE}
}
func TransferBoardPlus(increment float64) TransferValue {
	return TransferValue{Kind: TRANSFER_BOARD_PLUS, Value: increment}
}

func (self TransferValue) String() string {
	switch self.Kind {
	case TRANSFER_FARE:
		return fmt.Sprintf("%.2f", self.Value)
	case TRANSFER_UNREACHABLE:
		return "n/a"
	case TRANSFER_BOARD_PLUS:
		return fmt.Sprintf("BOARD+%.2f", self.Value)
	default:
		panic("unknown transfer kind")
	}
}

func (self TransferValue) Equals(other TransferValue) bool {
	return self.Kind == other.Kind && self.Value == other.Value
}

// CompatibleValues reports whether two transfer values can share a journey
// level: equal, or at least one side unreachable.
func CompatibleValues(a TransferValue, b TransferValue) bool {
	if a.Kind == TRANSFER_UNREACHABLE || b.Kind == TRANSFER_UNREACHABLE {
		return true
	}
	return a.Equals(b)
}

//*******************************************
// fare system records
//*******************************************

type FareSystem struct {
	Number    int32
	Structure Structure
	Name      string

	// BoardFare is set for FLAT systems only.
	BoardFare float64
	// MatrixID references the fare matrix of a FROMTO system.
	MatrixID int32
	// FareFromFS maps a source system number to the fare for transferring
	// into this system, resolved from the positional FAREFROMFS row.
	FareFromFS Dict[int32, float64]

	Lines        List[*network.Line]
	LineCount    int
	SegmentCount int
	Modes        Dict[string, bool]
	StopNodes    Dict[int32, bool]
	Points       []orb.Point
}

func (self *FareSystem) ModeSetEquals(other *FareSystem) bool {
	if self.Modes.Length() != other.Modes.Length() {
		return false
	}
	for mode := range self.Modes {
		if !other.Modes.ContainsKey(mode) {
			return false
		}
	}
	return true
}

// FareMatrix maps system -> origin zone -> destination zone -> fare.
type FareMatrix = Dict[int32, Dict[int32, Dict[int32, float64]]]

// TransferTable maps source system -> target system -> transfer value.
type TransferTable = Dict[int32, Dict[int32, TransferValue]]

//*******************************************
// fare system groups
//*******************************************

type SystemGroup struct {
	Systems List[*FareSystem]
	Modes   Dict[string, bool]
	// TransferRow maps a target system number to the collapsed cost of
	// boarding that system from any of the group's members.
	TransferRow Dict[int32, TransferValue]
}

func (self *SystemGroup) Contains(number int32) bool {
	for _, system := range self.Systems {
		if system.Number == number {
			return true
		}
	}
	return false
}

func (self *SystemGroup) Description() string {
	desc := ""
	for i, system := range self.Systems {
		if i > 0 {
			desc += ", "
		}
		desc += system.Name
	}
	return desc
}
