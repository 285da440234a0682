package chatdomain

import (
	"testing"
)

func TestConfigForKnownDomains(t *testing.T) {
	for _, d := range All() {
		cfg := ConfigFor(d)
		if cfg.Domain != d {
			t.Errorf("ConfigFor(%s).Domain = %s, want %s", d, cfg.Domain, d)
		}
		if cfg.StorageRelation == "" {
			t.Errorf("ConfigFor(%s) has empty StorageRelation", d)
		}
		if cfg.EndpointRoute == "" {
			t.Errorf("ConfigFor(%s) has empty EndpointRoute", d)
		}
		if cfg.CacheKeyPrefix == "" || cfg.LiveChannelPrefix == "" {
			t.Errorf("ConfigFor(%s) missing cache/live prefixes", d)
		}
	}
}

func TestConfigForUnknownDomainPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("ConfigFor with unknown domain should panic")
		}
	}()
	ConfigFor(Domain("billing"))
}

func TestLegalDomainCarriesOwnership(t *testing.T) {
	cfg := ConfigFor(DomainLegal)
	if cfg.OwnershipRelation != "legal_cases" || cfg.OwnershipFilterColumn != "id" {
		t.Errorf("legal ownership = (%q, %q), want (legal_cases, id)",
			cfg.OwnershipRelation, cfg.OwnershipFilterColumn)
	}

	if own := ConfigFor(DomainNotebook).OwnershipRelation; own != "" {
		t.Errorf("notebook domain should have no ownership relation, got %q", own)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		tag     string
		want    Domain
		wantErr bool
	}{
		{"notebook", DomainNotebook, false},
		{"legal", DomainLegal, false},
		{"", "", true},
		{"LEGAL", "", true},
		{"payments", "", true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.tag)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.tag, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.tag, got, tt.want)
		}
	}
}
