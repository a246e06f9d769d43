package fares

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	. "github.com/BayAreaMetro/transit-fares/util"
)

// FormatError is a fatal fault in one of the two fare input files.
type FormatError struct {
	File   string
	Line   int
	Reason string
}

func (self *FormatError) Error() string {
	return fmt.Sprintf("%s:%d: %s", self.File, self.Line, self.Reason)
}

//*******************************************
// fare-system file
//*******************************************

const _FAREFROMFS_KEY = "FAREFROMFS"

// ParseFareSystems reads the line-oriented fare-system file. Each record is a
// comma-separated list of KEY=VALUE pairs; the FAREFROMFS value is itself a
// comma-separated row of transfer fares running to the end of the line,
// positionally aligned with the order of fare systems across the whole file.
// The row is therefore rebound to system numbers in a second pass once all
// systems have been seen.
func ParseFareSystems(r io.Reader, file string) (List[*FareSystem], error) {
	systems := NewList[*FareSystem](10)
	rows := NewList[Optional[[]float64]](10)
	source_lines := NewList[int](10)

	scanner := bufio.NewScanner(r)
	line_no := 0
	for scanner.Scan() {
		line_no++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		system, row, reason := _ParseFareSystemLine(line)
		if reason != "" {
			return nil, &FormatError{File: file, Line: line_no, Reason: reason}
		}
		systems.Add(system)
		rows.Add(row)
		source_lines.Add(line_no)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// second pass: rebind the positional rows against system numbers
	for i, system := range systems {
		row := rows.Get(i)
		if system.Structure == FREE {
			continue
		}
		if !row.HasValue() {
			return nil, &FormatError{
				File:   file,
				Line:   source_lines.Get(i),
				Reason: fmt.Sprintf("fare system %d (%s) is missing its terminating %s key", system.Number, system.Structure, _FAREFROMFS_KEY),
			}
		}
		values := row.Value()
		if len(values) != systems.Length() {
			return nil, &FormatError{
				File:   file,
				Line:   source_lines.Get(i),
				Reason: fmt.Sprintf("fare system %d has a %s row of %d entries, expected %d", system.Number, _FAREFROMFS_KEY, len(values), systems.Length()),
			}
		}
		system.FareFromFS = NewDict[int32, float64](len(values))
		for j, other := range systems {
			system.FareFromFS[other.Number] = values[j]
		}
	}
	return systems, nil
}

func _ParseFareSystemLine(line string) (*FareSystem, Optional[[]float64], string) {
	none := None[[]float64]()
	row := none

	// the transfer row runs to the end of the line
	if idx := strings.Index(line, _FAREFROMFS_KEY+"="); idx >= 0 {
		values, reason := _ParseFareRow(line[idx+len(_FAREFROMFS_KEY)+1:])
		if reason != "" {
			return nil, none, reason
		}
		row = Some(values)
		line = strings.TrimSuffix(strings.TrimSpace(line[:idx]), ",")
	}

	pairs, reason := _ParseKeyValues(line)
	if reason != "" {
		return nil, none, reason
	}

	system := &FareSystem{
		Modes:     NewDict[string, bool](4),
		StopNodes: NewDict[int32, bool](16),
	}

	number, ok := pairs["FARESYSTEM NUMBER"]
	if !ok {
		return nil, none, "missing required key FARESYSTEM NUMBER"
	}
	num, err := strconv.ParseInt(number, 10, 32)
	if err != nil {
		return nil, none, "invalid FARESYSTEM NUMBER '" + number + "'"
	}
	system.Number = int32(num)

	structure, ok := pairs["STRUCTURE"]
	if !ok {
		return nil, none, "missing required key STRUCTURE"
	}
	system.Structure, err = StructureFromString(structure)
	if err != nil {
		return nil, none, err.Error()
	}

	name, ok := pairs["NAME"]
	if !ok {
		return nil, none, "missing required key NAME"
	}
	system.Name = name

	switch system.Structure {
	case FLAT:
		fare, ok := pairs["IBOARDFARE"]
		if !ok {
			return nil, none, fmt.Sprintf("FLAT fare system %d is missing IBOARDFARE", system.Number)
		}
		system.BoardFare, err = strconv.ParseFloat(fare, 64)
		if err != nil {
			return nil, none, "invalid IBOARDFARE '" + fare + "'"
		}
	case FROMTO:
		ref, ok := pairs["FAREMATRIX"]
		if !ok {
			return nil, none, fmt.Sprintf("FROMTO fare system %d is missing FAREMATRIX", system.Number)
		}
		parts := strings.Split(ref, ".")
		if len(parts) < 3 {
			return nil, none, "invalid FAREMATRIX reference '" + ref + "'"
		}
		id, err := strconv.ParseInt(parts[len(parts)-1], 10, 32)
		if err != nil {
			return nil, none, "invalid FAREMATRIX reference '" + ref + "'"
		}
		system.MatrixID = int32(id)
	}
	return system, row, ""
}

func _ParseKeyValues(line string) (Dict[string, string], string) {
	pairs := NewDict[string, string](8)
	last := ""
	for _, field := range strings.Split(line, ",") {
		if !strings.Contains(field, "=") {
			// a quoted value containing commas continues the previous pair
			if last == "" {
				return nil, "malformed record near '" + field + "'"
			}
			pairs[last] = _Unquote(pairs[last] + "," + field)
			continue
		}
		key, value, _ := strings.Cut(field, "=")
		key = strings.ToUpper(strings.TrimSpace(key))
		pairs[key] = _Unquote(strings.TrimSpace(value))
		last = key
	}
	return pairs, ""
}

func _ParseFareRow(value string) ([]float64, string) {
	fields := strings.Split(value, ",")
	row := make([]float64, len(fields))
	for i, field := range fields {
		fare, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, "malformed " + _FAREFROMFS_KEY + " entry '" + field + "'"
		}
		row[i] = fare
	}
	return row, ""
}

func _Unquote(value string) string {
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		return value[1 : len(value)-1]
	}
	return value
}

//*******************************************
// fare-matrix file
//*******************************************

// ParseFareMatrix reads the whitespace-delimited fare matrix, one
// "system origin destination fare" quadruple per line.
func ParseFareMatrix(r io.Reader, file string) (FareMatrix, error) {
	matrix := NewDict[int32, Dict[int32, Dict[int32, float64]]](4)

	scanner := bufio.NewScanner(r)
	line_no := 0
	for scanner.Scan() {
		line_no++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 4 {
			return nil, &FormatError{
				File:   file,
				Line:   line_no,
				Reason: fmt.Sprintf("expected 4 tokens, got %d", len(fields)),
			}
		}
		system, err1 := strconv.ParseInt(fields[0], 10, 32)
		origin, err2 := strconv.ParseInt(fields[1], 10, 32)
		dest, err3 := strconv.ParseInt(fields[2], 10, 32)
		fare, err4 := strconv.ParseFloat(fields[3], 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			return nil, &FormatError{
				File:   file,
				Line:   line_no,
				Reason: "malformed fare record '" + line + "'",
			}
		}
		origins, ok := matrix[int32(system)]
		if !ok {
			origins = NewDict[int32, Dict[int32, float64]](16)
			matrix[int32(system)] = origins
		}
		dests, ok := origins[int32(origin)]
		if !ok {
			dests = NewDict[int32, float64](16)
			origins[int32(origin)] = dests
		}
		dests[int32(dest)] = fare
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return matrix, nil
}
