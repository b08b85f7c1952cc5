package corpus

import (
	"fmt"
	"strings"
	"testing"
)

const sampleText = `# Company Overview

Industry: logistics
Mission: Move freight reliably.

## Operations

Coordinates carriers and warehouse schedules.

### Past work
- Negotiated the new carrier contract
- Cleared the holiday backlog

## Support

### Past work
- No work completed yet

## Notes
- Carrier rates renegotiated every January
`

func TestNew(t *testing.T) {
	t.Run("fields set", func(t *testing.T) {
		doc := New("retail", "Sell well.")
		if doc.Industry != "retail" || doc.Mission != "Sell well." {
			t.Errorf("unexpected fields: %q / %q", doc.Industry, doc.Mission)
		}
	})

	t.Run("empty fields default", func(t *testing.T) {
		doc := New("", "")
		if doc.Industry != FieldNotSet || doc.Mission != FieldNotSet {
			t.Errorf("expected %q defaults, got %q / %q", FieldNotSet, doc.Industry, doc.Mission)
		}
	})
}

func TestParse(t *testing.T) {
	doc := Parse(sampleText)

	if doc.Industry != "logistics" {
		t.Errorf("expected industry logistics, got %q", doc.Industry)
	}
	if doc.Mission != "Move freight reliably." {
		t.Errorf("unexpected mission %q", doc.Mission)
	}
	if len(doc.Departments) != 2 {
		t.Fatalf("expected 2 departments, got %d", len(doc.Departments))
	}

	ops := doc.Department("Operations")
	if ops == nil {
		t.Fatal("Operations department missing")
	}
	if len(ops.Intro) != 1 || !strings.Contains(ops.Intro[0], "carriers") {
		t.Errorf("unexpected intro: %v", ops.Intro)
	}
	if len(ops.PastWork) != 2 || ops.PastWork[0] != "Negotiated the new carrier contract" {
		t.Errorf("unexpected past work: %v", ops.PastWork)
	}

	support := doc.Department("Support")
	if support == nil {
		t.Fatal("Support department missing")
	}
	if len(support.PastWork) != 0 {
		t.Errorf("placeholder should not be stored, got %v", support.PastWork)
	}

	if len(doc.Notes) != 1 || doc.Notes[0] != "Carrier rates renegotiated every January" {
		t.Errorf("unexpected notes: %v", doc.Notes)
	}
}

func TestParse_EmptyText(t *testing.T) {
	doc := Parse("")

	if doc.Industry != FieldNotSet || doc.Mission != FieldNotSet {
		t.Errorf("expected unset fields, got %q / %q", doc.Industry, doc.Mission)
	}
	if len(doc.Departments) != 0 || len(doc.Notes) != 0 {
		t.Error("expected empty document")
	}
}

func TestRoundTrip(t *testing.T) {
	doc := Parse(sampleText)
	again := Parse(doc.String())

	if again.Industry != doc.Industry || again.Mission != doc.Mission {
		t.Error("overview fields changed across round trip")
	}
	if len(again.Departments) != len(doc.Departments) {
		t.Fatalf("department count changed: %d -> %d", len(doc.Departments), len(again.Departments))
	}
	for i, dept := range doc.Departments {
		if again.Departments[i].Name != dept.Name {
			t.Errorf("department %d name changed", i)
		}
		if fmt.Sprint(again.Departments[i].PastWork) != fmt.Sprint(dept.PastWork) {
			t.Errorf("department %q past work changed", dept.Name)
		}
	}
	if fmt.Sprint(again.Notes) != fmt.Sprint(doc.Notes) {
		t.Error("notes changed across round trip")
	}
}

func TestEnsureDepartment_Idempotent(t *testing.T) {
	doc := New("retail", "Sell well.")

	first := doc.EnsureDepartment("Sales")
	second := doc.EnsureDepartment("Sales")

	if first != second {
		t.Error("EnsureDepartment should return the existing department")
	}
	if len(doc.Departments) != 1 {
		t.Errorf("expected 1 department, got %d", len(doc.Departments))
	}
}

func TestSetOverviewFields_EmptyIgnored(t *testing.T) {
	doc := New("retail", "Sell well.")

	doc.SetIndustry("  ")
	doc.SetMission("")

	if doc.Industry != "retail" || doc.Mission != "Sell well." {
		t.Error("empty values should not replace existing fields")
	}
}

func TestAppendPastWork_NewestFirstWithCap(t *testing.T) {
	doc := New("retail", "Sell well.")

	for i := 1; i <= PastWorkCap+3; i++ {
		doc.AppendPastWork("Sales", fmt.Sprintf("entry %d", i))
	}

	dept := doc.Department("Sales")
	if len(dept.PastWork) != PastWorkCap {
		t.Fatalf("expected %d entries, got %d", PastWorkCap, len(dept.PastWork))
	}
	if dept.PastWork[0] != fmt.Sprintf("entry %d", PastWorkCap+3) {
		t.Errorf("newest entry should be first, got %q", dept.PastWork[0])
	}
	if dept.PastWork[PastWorkCap-1] != "entry 4" {
		t.Errorf("oldest surplus entries should be evicted, tail is %q", dept.PastWork[PastWorkCap-1])
	}
}

func TestAppendNote_Cap(t *testing.T) {
	doc := New("retail", "Sell well.")

	for i := 1; i <= NotesCap+1; i++ {
		doc.AppendNote(fmt.Sprintf("note %d", i))
	}

	if len(doc.Notes) != NotesCap {
		t.Fatalf("expected %d notes, got %d", NotesCap, len(doc.Notes))
	}
	if doc.Notes[0] != fmt.Sprintf("note %d", NotesCap+1) {
		t.Errorf("newest note should be first, got %q", doc.Notes[0])
	}
}

func TestString_PlaceholderForEmptyPastWork(t *testing.T) {
	doc := New("retail", "Sell well.")
	doc.EnsureDepartment("Sales")

	text := doc.String()

	if !strings.Contains(text, "- "+PastWorkPlaceholder) {
		t.Error("empty past work should serialise the placeholder")
	}

	doc.AppendPastWork("Sales", "Closed the Acme deal")
	if strings.Contains(doc.String(), PastWorkPlaceholder) {
		t.Error("placeholder should disappear after a real entry")
	}
}

func TestString_OmitsEmptyNotes(t *testing.T) {
	doc := New("retail", "Sell well.")

	if strings.Contains(doc.String(), "## "+NotesHeading) {
		t.Error("empty notes block should be omitted")
	}

	doc.AppendNote("remember the renewal")
	if !strings.Contains(doc.String(), "## "+NotesHeading) {
		t.Error("notes block should appear once a note exists")
	}
}

func TestParse_UnknownDepartmentLinesPreserved(t *testing.T) {
	text := `# Company Overview

Industry: retail
Mission: Sell well.

## Sales

Handles the full pipeline.
Owner: regional leads.

### Past work
- No work completed yet
`
	doc := Parse(text)
	out := doc.String()

	if !strings.Contains(out, "Handles the full pipeline.") || !strings.Contains(out, "Owner: regional leads.") {
		t.Error("intro lines should survive a parse/serialise cycle")
	}
}
