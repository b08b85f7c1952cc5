// Package corpus parses and mutates the shared knowledge document.
//
// The corpus is a single heading-structured text resource: one top-level
// "Company Overview" block with Industry and Mission fields, one
// second-level block per department holding a bounded "Past work" list,
// and an optional second-level "Notes" block. Mutations are append-or-create
// and always leave the document parseable by the chunker.
package corpus

import (
	"strings"
)

// Structural constants of the corpus format.
const (
	OverviewHeading = "Company Overview"
	NotesHeading    = "Notes"
	PastWorkHeading = "Past work"

	// PastWorkPlaceholder appears in a department with no real entries.
	PastWorkPlaceholder = "No work completed yet"

	// PastWorkCap bounds each department's past-work list, newest first.
	PastWorkCap = 10

	// NotesCap bounds the shared notes list, newest first.
	NotesCap = 20

	// FieldNotSet is the value of an overview field before it is defined.
	FieldNotSet = "Not yet defined"
)

// Document is the parsed corpus.
type Document struct {
	Industry    string
	Mission     string
	Departments []*Department
	Notes       []string
}

// Department is one second-level corpus block.
type Department struct {
	Name string

	// Intro holds content lines that precede the past-work subsection,
	// preserved verbatim across mutations.
	Intro []string

	// PastWork holds entries newest first. The placeholder line is not
	// stored; it is materialised on serialisation when the list is empty.
	PastWork []string
}

// New creates a minimal valid corpus document.
func New(industry, mission string) *Document {
	doc := &Document{Industry: industry, Mission: mission}
	if doc.Industry == "" {
		doc.Industry = FieldNotSet
	}
	if doc.Mission == "" {
		doc.Mission = FieldNotSet
	}
	return doc
}

// Parse reads corpus text into a Document. Parsing is lenient: unknown
// lines inside a department are preserved in Intro, and a missing overview
// block yields unset fields rather than an error.
func Parse(text string) *Document {
	doc := &Document{Industry: FieldNotSet, Mission: FieldNotSet}

	const (
		inOverview = iota
		inDepartment
		inNotes
	)
	state := inOverview
	inPastWork := false
	var dept *Department

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimRight(raw, " \t")
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "# ") && !strings.HasPrefix(trimmed, "## "):
			state = inOverview
			dept = nil
			inPastWork = false

		case strings.HasPrefix(trimmed, "## ") && !strings.HasPrefix(trimmed, "### "):
			name := strings.TrimSpace(strings.TrimPrefix(trimmed, "## "))
			inPastWork = false
			if name == NotesHeading {
				state = inNotes
				dept = nil
				continue
			}
			state = inDepartment
			dept = &Department{Name: name}
			doc.Departments = append(doc.Departments, dept)

		case strings.HasPrefix(trimmed, "### "):
			sub := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(trimmed, "### ")))
			inPastWork = state == inDepartment && strings.Contains(sub, "past work")
			if state == inDepartment && !inPastWork && dept != nil {
				dept.Intro = append(dept.Intro, trimmed)
			}

		default:
			if trimmed == "" {
				continue
			}
			switch state {
			case inOverview:
				if v, ok := fieldValue(trimmed, "Industry"); ok {
					doc.Industry = v
				} else if v, ok := fieldValue(trimmed, "Mission"); ok {
					doc.Mission = v
				}
			case inNotes:
				doc.Notes = append(doc.Notes, strings.TrimSpace(strings.TrimPrefix(trimmed, "-")))
			case inDepartment:
				if dept == nil {
					continue
				}
				if inPastWork {
					entry := strings.TrimSpace(strings.TrimPrefix(trimmed, "-"))
					if entry != PastWorkPlaceholder {
						dept.PastWork = append(dept.PastWork, entry)
					}
				} else {
					dept.Intro = append(dept.Intro, trimmed)
				}
			}
		}
	}

	return doc
}

// fieldValue extracts "Name: value" overview fields.
func fieldValue(line, name string) (string, bool) {
	if !strings.HasPrefix(line, name+":") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(line, name+":")), true
}

// Department returns the department with the exact given name, or nil.
func (d *Document) Department(name string) *Department {
	for _, dept := range d.Departments {
		if dept.Name == name {
			return dept
		}
	}
	return nil
}

// EnsureDepartment returns the named department, creating a minimal block
// when absent. Creation is a no-op if the department already exists.
func (d *Document) EnsureDepartment(name string) *Department {
	if dept := d.Department(name); dept != nil {
		return dept
	}
	dept := &Department{Name: name}
	d.Departments = append(d.Departments, dept)
	return dept
}

// SetIndustry replaces the overview industry field.
func (d *Document) SetIndustry(industry string) {
	if strings.TrimSpace(industry) != "" {
		d.Industry = industry
	}
}

// SetMission replaces the overview mission field.
func (d *Document) SetMission(mission string) {
	if strings.TrimSpace(mission) != "" {
		d.Mission = mission
	}
}

// AppendPastWork prepends an entry to the department's past-work list,
// creating the department when absent and evicting entries beyond
// PastWorkCap so the newest entries are always retained.
func (d *Document) AppendPastWork(department, entry string) {
	dept := d.EnsureDepartment(department)
	dept.PastWork = append([]string{entry}, dept.PastWork...)
	if len(dept.PastWork) > PastWorkCap {
		dept.PastWork = dept.PastWork[:PastWorkCap]
	}
}

// AppendNote prepends a note, evicting beyond NotesCap.
func (d *Document) AppendNote(note string) {
	d.Notes = append([]string{note}, d.Notes...)
	if len(d.Notes) > NotesCap {
		d.Notes = d.Notes[:NotesCap]
	}
}

// String serialises the document back to canonical corpus text.
func (d *Document) String() string {
	var b strings.Builder

	b.WriteString("# " + OverviewHeading + "\n\n")
	b.WriteString("Industry: " + d.Industry + "\n")
	b.WriteString("Mission: " + d.Mission + "\n")

	for _, dept := range d.Departments {
		b.WriteString("\n## " + dept.Name + "\n")
		if len(dept.Intro) > 0 {
			b.WriteString("\n")
			for _, line := range dept.Intro {
				b.WriteString(line + "\n")
			}
		}
		b.WriteString("\n### " + PastWorkHeading + "\n")
		if len(dept.PastWork) == 0 {
			b.WriteString("- " + PastWorkPlaceholder + "\n")
		}
		for _, entry := range dept.PastWork {
			b.WriteString("- " + entry + "\n")
		}
	}

	if len(d.Notes) > 0 {
		b.WriteString("\n## " + NotesHeading + "\n")
		for _, note := range d.Notes {
			b.WriteString("- " + note + "\n")
		}
	}

	return b.String()
}
