package reference

import (
	"context"
	"errors"
	"testing"

	"github.com/ougirez/rdatlas/internal/domain"
)

type fakeFetcher map[string]string

func (f fakeFetcher) Fetch(_ context.Context, location string) ([]byte, error) {
	body, ok := f[location]
	if !ok {
		return nil, errors.New("not found")
	}
	return []byte(body), nil
}

func TestBuiltinTables(t *testing.T) {
	tabs := Builtin()

	if len(tabs.Communities) != 19 {
		t.Errorf("expected 19 communities, got %d", len(tabs.Communities))
	}
	if len(tabs.Provinces) != 52 {
		t.Errorf("expected 52 provinces, got %d", len(tabs.Provinces))
	}
	if tabs.Nation.ID != "ES" {
		t.Errorf("nation = %q", tabs.Nation.ID)
	}

	members := 0
	for _, c := range tabs.Countries {
		if IsEUMember(c) {
			members++
		}
	}
	if members != 27 {
		t.Errorf("expected 27 EU members, got %d", members)
	}

	communityIDs := make(map[string]bool)
	for _, c := range tabs.Communities {
		communityIDs[c.ID] = true
	}
	for _, p := range tabs.Provinces {
		if !communityIDs[p.Parent] {
			t.Errorf("province %s has unknown parent %q", p.ID, p.Parent)
		}
	}

	canarias := tabs.Children("ES70")
	if len(canarias) != 2 {
		t.Errorf("expected 2 Canary provinces, got %v", canarias)
	}
}

func TestLoadAppliesFlags(t *testing.T) {
	fetcher := fakeFetcher{
		"countries.json": `[
			{"country": "Spain", "code": "ES", "iso3": "ESP", "flag": "flags/es.svg"},
			{"country": "Greece", "code": "EL", "iso3": "GRC", "flag": "flags/gr.svg"},
			{"country": "Atlantis", "code": "", "iso3": "", "flag": "flags/at.svg"}
		]`,
		"communities.json": `[
			{"community": "Illes Balears / Islas Baleares", "code": "", "flag": "flags/ib.svg"},
			{"community": "Canarias", "code": "ES70", "flag": "flags/cn.svg"}
		]`,
	}

	tabs := Load(context.Background(), fetcher, LoadOpts{
		CountryFlags:   "countries.json",
		CommunityFlags: "communities.json",
	})

	tests := []struct {
		id   string
		flag string
	}{
		{id: "ES", flag: "flags/es.svg"},
		{id: "GR", flag: "flags/gr.svg"},
		{id: "ES53", flag: "flags/ib.svg"},
		{id: "ES70", flag: "flags/cn.svg"},
		{id: "FR", flag: ""},
	}

	for _, tt := range tests {
		e, ok := tabs.Entity(tt.id)
		if !ok {
			t.Fatalf("entity %s missing", tt.id)
		}
		if e.Flag != tt.flag {
			t.Errorf("%s flag = %q, want %q", tt.id, e.Flag, tt.flag)
		}
	}

	if tabs.Nation.Flag != "flags/es.svg" {
		t.Errorf("nation flag = %q", tabs.Nation.Flag)
	}
	if Builtin().Nation.Flag != "" {
		t.Error("Load must not modify the built-in tables")
	}
}

func TestLoadDegradesWithoutFlags(t *testing.T) {
	fetcher := fakeFetcher{"broken.json": `{"not": "a list"`}

	tabs := Load(context.Background(), fetcher, LoadOpts{
		CountryFlags:   "missing.json",
		CommunityFlags: "broken.json",
	})

	e, ok := tabs.Resolver(domain.EntityCommunity).Resolve("Canarias")
	if !ok || e.ID != "ES70" {
		t.Fatalf("resolution should work without flags, got %+v/%v", e, ok)
	}
	if e.Flag != "" {
		t.Errorf("unexpected flag %q", e.Flag)
	}
}
