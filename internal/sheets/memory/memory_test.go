package memory

import (
	"context"
	"testing"

	"casa/internal/core"
	ports "casa/internal/sheets"
)

func TestExporterKeepsLatestPerProperty(t *testing.T) {
	e := New()
	ctx := context.Background()

	ref, err := e.ExportDeadlines(ctx, ports.Digest{PropertyID: "p1", Revision: 1})
	if err != nil || ref != "mem:p1:1" {
		t.Fatalf("unexpected export: ref=%q err=%v", ref, err)
	}
	_, _ = e.ExportDeadlines(ctx, ports.Digest{PropertyID: "p1", Revision: 2})
	_, _ = e.ExportDeadlines(ctx, ports.Digest{PropertyID: "p2", Revision: 3})

	d, ok := e.Latest("p1")
	if !ok || d.Revision != 2 {
		t.Errorf("Latest(p1) = %+v, %v", d, ok)
	}
	if _, ok := e.Latest("p3"); ok {
		t.Error("unexpected digest for p3")
	}
	if e.Exports() != 3 {
		t.Errorf("Exports() = %d, want 3", e.Exports())
	}

	d.Finance.InsuranceLoad = core.Cents(1)
	if again, _ := e.Latest("p1"); again.Finance.InsuranceLoad.Cents != 0 {
		t.Error("Latest must return a copy")
	}
}
