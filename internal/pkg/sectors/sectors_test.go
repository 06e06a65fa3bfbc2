package sectors

import (
	"testing"

	"github.com/ougirez/rdatlas/internal/domain"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		raw    string
		want   domain.SectorID
		wantOK bool
	}{
		{raw: "(_T)", want: domain.SectorTotal, wantOK: true},
		{raw: "_T", want: domain.SectorTotal, wantOK: true},
		{raw: "TOTAL", want: domain.SectorTotal, wantOK: true},
		{raw: "All Sectors", want: domain.SectorTotal, wantOK: true},
		{raw: "BES", want: domain.SectorBusiness, wantOK: true},
		{raw: "EMPRESAS", want: domain.SectorBusiness, wantOK: true},
		{raw: "Business enterprise sector", want: domain.SectorBusiness, wantOK: true},
		{raw: "GOV", want: domain.SectorGovernment, wantOK: true},
		{raw: "ADMINISTRACION_PUBLICA", want: domain.SectorGovernment, wantOK: true},
		{raw: "Administración Pública", want: domain.SectorGovernment, wantOK: true},
		{raw: "HES", want: domain.SectorEducation, wantOK: true},
		{raw: "ENSENIANZA_SUPERIOR", want: domain.SectorEducation, wantOK: true},
		{raw: "Enseñanza Superior", want: domain.SectorEducation, wantOK: true},
		{raw: "PNP", want: domain.SectorNonprofit, wantOK: true},
		{raw: "IPSFL", want: domain.SectorNonprofit, wantOK: true},
		{raw: "Private non-profit sector", want: domain.SectorNonprofit, wantOK: true},
		{raw: "Higher education sector (HES)", want: domain.SectorEducation, wantOK: true},
		{raw: "business", want: domain.SectorBusiness, wantOK: true},
		{raw: "Agriculture", wantOK: false},
		{raw: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := Lookup(tt.raw)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Lookup(%q) = %q/%v, want %q/%v", tt.raw, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestToSectorIDDefaultsToTotal(t *testing.T) {
	if got := ToSectorID("unknown sector"); got != domain.SectorTotal {
		t.Errorf("ToSectorID(unknown) = %q, want total", got)
	}
	if got := ToSectorID("GOV"); got != domain.SectorGovernment {
		t.Errorf("ToSectorID(GOV) = %q", got)
	}
}

func TestSourceCodeRoundTrip(t *testing.T) {
	for _, id := range Order() {
		for _, dialect := range []Dialect{Eurostat, INE, LabelEN, LabelES} {
			code, err := SourceCode(id, dialect)
			if err != nil {
				t.Fatalf("SourceCode(%s, %s): %v", id, dialect, err)
			}
			if back, ok := Lookup(code); !ok || back != id {
				t.Errorf("Lookup(SourceCode(%s, %s)=%q) = %q/%v", id, dialect, code, back, ok)
			}
		}
	}
}

func TestSourceCodeInvalid(t *testing.T) {
	if _, err := SourceCode("agriculture", INE); err == nil {
		t.Error("expected error for invalid sector id")
	}
	if _, err := SourceCode(domain.SectorTotal, "oecd"); err == nil {
		t.Error("expected error for unknown dialect")
	}

	defer func() {
		if recover() == nil {
			t.Error("MustSourceCode should panic on invalid id")
		}
	}()
	MustSourceCode("agriculture", INE)
}

func TestOrder(t *testing.T) {
	order := Order()
	if len(order) != 5 || order[0] != domain.SectorTotal {
		t.Fatalf("unexpected order %v", order)
	}
	if len(Components()) != 4 {
		t.Errorf("expected 4 components, got %v", Components())
	}
	for _, d := range Descriptors() {
		if !d.ID.Valid() || len(d.SourceCodes) != 4 {
			t.Errorf("bad descriptor %+v", d)
		}
	}
}
