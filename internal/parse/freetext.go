package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"labinventory-backend/internal/extract"
)

// State is the position of the free-text machine within a document.
type State int

const (
	AwaitingLab State = iota
	AwaitingEquipmentType
	AwaitingDescription
	AwaitingCount
)

func (s State) String() string {
	switch s {
	case AwaitingLab:
		return "AwaitingLab"
	case AwaitingEquipmentType:
		return "AwaitingEquipmentType"
	case AwaitingDescription:
		return "AwaitingDescription"
	case AwaitingCount:
		return "AwaitingCount"
	}
	return "State(" + strconv.Itoa(int(s)) + ")"
}

// LineKind is the classification of a single line.
type LineKind int

const (
	KindNoise LineKind = iota
	KindHeader
	KindLabStart
	KindEquipmentLabel
	KindCount
	KindText
)

func (k LineKind) String() string {
	return [...]string{"Noise", "Header", "LabStart", "EquipmentLabel", "Count", "Text"}[k]
}

// countWindow bounds how far from a description line a count is looked for.
const countWindow = 10

// minInlineDescription is the length an inline or next-line description
// must exceed to be taken.
const minInlineDescription = 5

var bareIntRe = regexp.MustCompile(`^\d+$`)

// Rules are the per-layout constants of the free-text machine.
type Rules struct {
	Department string
	// TagPrefix starts every synthesized asset tag.
	TagPrefix string
	// SourceRemark is stored on every lab the layout creates.
	SourceRemark string
	// CountLabel names the count in asset remarks.
	CountLabel string

	Headers *regexp.Regexp
	// Serial matches a lab's serial number line.
	Serial *regexp.Regexp
	// LabName must match the line after a serial for it to start a lab.
	LabName *regexp.Regexp
	Noise   *regexp.Regexp
	// MinTextLen is the length a line must exceed to count as text.
	MinTextLen int
	// ItemPerLine makes every text line a separate asset.
	ItemPerLine bool
}

var DSERules = Rules{
	Department:   "DSE",
	TagPrefix:    "DSE",
	SourceRemark: "Imported from DSE register",
	CountLabel:   "Count",
	Headers:      regexp.MustCompile(`(?i)^(SN|Name of the lab|Name of major equipment|Count|Utilization|attainment)$`),
	Serial:       bareIntRe,
	LabName:      regexp.MustCompile(`(?i)Lab|Research|Development|Virtual Reality|Centre`),
	Noise:        regexp.MustCompile(`(?i)MTech|Btech|Sem|CSS|HUM`),
	MinTextLen:   10,
}

var ICTRules = Rules{
	Department:   "ICT",
	TagPrefix:    "ICT",
	SourceRemark: "Imported from ICT register",
	CountLabel:   "Batch Size",
	Headers:      regexp.MustCompile(`(?i)^(Sr\.?\s*No|Name of the Laboratory|No\.?\s*of students|Batch Size|Name of the Important equipment|Weekly utilization|BTech|MTech)`),
	Serial:       regexp.MustCompile(`^\d+\.$`),
	LabName:      regexp.MustCompile(`(?i)Lab|Computing`),
	Noise:        regexp.MustCompile(`(?i)^(DS|DISL|ISL|POSL|NIL)$`),
	MinTextLen:   20,
	ItemPerLine:  true,
}

// Classify returns the kind of lines[i]. inLab reports whether a lab
// context is open; equipment labels are only recognized inside one.
func (r *Rules) Classify(lines []string, i int, inLab bool) LineKind {
	line := lines[i]
	switch {
	case r.Headers.MatchString(line):
		return KindHeader
	case r.Serial.MatchString(line) && i+1 < len(lines) && r.LabName.MatchString(lines[i+1]):
		return KindLabStart
	case bareIntRe.MatchString(line):
		return KindCount
	case strings.Contains(line, ":"):
		if inLab {
			return KindEquipmentLabel
		}
		return KindNoise
	case len(line) > r.MinTextLen && !r.Noise.MatchString(line):
		return KindText
	}
	return KindNoise
}

// FreeTextParser runs the lab/equipment state machine over document lines.
//
// Transitions, by current state and line kind:
//
//	any          LabStart        flush, open lab from the next line  -> AwaitingEquipmentType
//	in a lab     EquipmentLabel  flush, take type and description    -> AwaitingCount or AwaitingDescription
//	Description  Text            set description                     -> AwaitingCount
//	Count        Text            append to description (per-line: flush and start a new item)
//	Count        Count           close the description               -> AwaitingEquipmentType
//	EquipType    Text            per-line layouts only: start item   -> AwaitingCount
//
// Everything else leaves the state unchanged. A pending item is flushed
// when the next item or lab starts, and at end of input.
type FreeTextParser struct {
	Rules Rules
}

func (p FreeTextParser) Parse(doc *extract.Document) Batch {
	m := newMachine(&p.Rules, doc.Lines)
	for i := 0; i < len(m.lines); i++ {
		i += m.step(i)
	}
	m.flush(len(m.lines))
	return m.batch
}

type machine struct {
	rules *Rules
	lines []string
	state State

	labCode   string
	equipType string
	desc      string
	descLine  int

	// next asset number per lab code, so a lab that reappears keeps
	// unique tags within one document
	counters map[string]int
	batch    Batch
}

func newMachine(rules *Rules, lines []string) *machine {
	return &machine{
		rules:    rules,
		lines:    lines,
		state:    AwaitingLab,
		descLine: -1,
		counters: make(map[string]int),
	}
}

// step consumes lines[i] and returns how many extra lines it consumed.
func (m *machine) step(i int) int {
	kind := m.rules.Classify(m.lines, i, m.state != AwaitingLab)
	if m.state == AwaitingLab && kind != KindLabStart {
		return 0
	}

	switch kind {
	case KindLabStart:
		m.flush(i)
		m.openLab(m.lines[i+1])
		return 1
	case KindEquipmentLabel:
		m.flush(i)
		return m.label(i)
	case KindCount:
		if m.state == AwaitingCount {
			m.state = AwaitingEquipmentType
		}
	case KindText:
		m.text(i)
	}
	return 0
}

func (m *machine) openLab(name string) {
	m.labCode = LabCode(name)
	m.equipType = ""
	m.state = AwaitingEquipmentType

	if _, seen := m.counters[m.labCode]; seen {
		return
	}
	m.counters[m.labCode] = 1
	m.batch.Labs = append(m.batch.Labs, LabCandidate{
		Code:       m.labCode,
		Name:       name,
		Department: m.rules.Department,
		Remarks:    m.rules.SourceRemark,
	})
}

func (m *machine) label(i int) int {
	line := m.lines[i]
	colon := strings.Index(line, ":")
	m.equipType = strings.TrimSpace(line[:colon])

	if inline := strings.TrimSpace(line[colon+1:]); len(inline) > minInlineDescription {
		m.describe(inline, i)
		return 0
	}
	if i+1 < len(m.lines) {
		next := m.lines[i+1]
		if !bareIntRe.MatchString(next) && len(next) > minInlineDescription {
			m.describe(next, i+1)
			return 1
		}
	}
	m.state = AwaitingDescription
	return 0
}

func (m *machine) text(i int) {
	line := m.lines[i]
	switch m.state {
	case AwaitingDescription:
		m.describe(line, i)
	case AwaitingCount:
		if m.rules.ItemPerLine {
			m.flush(i)
			m.describe(line, i)
			return
		}
		m.desc += " " + line
	case AwaitingEquipmentType:
		if m.rules.ItemPerLine {
			m.flush(i)
			m.describe(line, i)
		}
	}
}

func (m *machine) describe(desc string, at int) {
	m.desc = desc
	m.descLine = at
	m.state = AwaitingCount
}

// flush emits the pending item, if any. end is the index of the line that
// triggered the flush; the count search does not look past it.
func (m *machine) flush(end int) {
	if m.desc == "" || m.labCode == "" {
		return
	}

	n := m.counters[m.labCode]
	m.counters[m.labCode] = n + 1

	remarks := fmt.Sprintf("%s: %d", m.rules.CountLabel, m.count(end))
	if m.equipType != "" {
		remarks = m.equipType + " - " + remarks
	}

	m.batch.Assets = append(m.batch.Assets, AssetCandidate{
		AssetTag:  fmt.Sprintf("%s-%s-%d", m.rules.TagPrefix, m.labCode, n),
		LabCode:   m.labCode,
		ModelName: m.desc,
		Remarks:   remarks,
	})
	m.desc = ""
	m.descLine = -1
}

// count finds the bare integer nearest after the description line, then
// before it, within countWindow lines. It defaults to 1.
func (m *machine) count(end int) int {
	hi := min(end, m.descLine+countWindow+1, len(m.lines))
	for j := m.descLine + 1; j < hi; j++ {
		if n, ok := bareInt(m.lines[j]); ok {
			return n
		}
	}
	lo := max(0, m.descLine-countWindow)
	for j := m.descLine - 1; j >= lo; j-- {
		if n, ok := bareInt(m.lines[j]); ok {
			return n
		}
	}
	return 1
}

func bareInt(s string) (int, bool) {
	if !bareIntRe.MatchString(s) {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}
