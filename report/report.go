package report

import (
	"time"

	. "github.com/BayAreaMetro/transit-fares/util"
	"github.com/google/uuid"
)

//*******************************************
// report entries
//*******************************************

type EntryKind byte

const (
	ENTRY_HEADER EntryKind = 0
	ENTRY_TEXT   EntryKind = 1
	ENTRY_TABLE  EntryKind = 2
	ENTRY_ERROR  EntryKind = 3
)

type Entry struct {
	Kind   EntryKind
	Text   string
	Indent int
	Title  string
	Rows   [][]string
	Header bool
	Trace  string
}

//*******************************************
// report
//*******************************************

// Report is the append-only audit trail of a single engine run. It is
// rendered at the end of the run whether the run succeeded or failed.
type Report struct {
	ID      uuid.UUID
	Name    string
	Created time.Time

	entries List[Entry]
}

func New(name string) *Report {
	return &Report{
		ID:      uuid.New(),
		Name:    name,
		Created: time.Now(),
		entries: NewList[Entry](100),
	}
}

func (self *Report) Entries() List[Entry] {
	return self.entries
}

func (self *Report) Header(text string) {
	self.entries.Add(Entry{Kind: ENTRY_HEADER, Text: text})
}

func (self *Report) Text(text string) {
	self.entries.Add(Entry{Kind: ENTRY_TEXT, Text: text})
}

// IndentedText appends a text entry at indent level 1 or 2.
func (self *Report) IndentedText(text string, indent int) {
	if indent < 1 {
		indent = 1
	} else if indent > 2 {
		indent = 2
	}
	self.entries.Add(Entry{Kind: ENTRY_TEXT, Text: text, Indent: indent})
}

func (self *Report) Table(title string, rows [][]string, header bool) {
	self.entries.Add(Entry{Kind: ENTRY_TABLE, Title: title, Rows: rows, Header: header})
}

func (self *Report) Error(err error, trace string) {
	self.entries.Add(Entry{Kind: ENTRY_ERROR, Text: err.Error(), Trace: trace})
}
