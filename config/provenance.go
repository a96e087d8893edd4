package config

import "sync"

// Provenance records where each setting of a loaded configuration came from.
type Provenance struct {
	Fields []FieldProvenance
}

// FieldProvenance is the origin of one setting.
type FieldProvenance struct {
	FieldPath  string // "Retry.MaxRetries"
	KeyPath    string // "retry.max_retries"
	SourceName string // "env:FORMGUARD_*", "file:formguard.yaml" or "default"
	Secret     bool
}

// Lookup finds the entry for a Go field path. It is safe on a nil Provenance.
func (p *Provenance) Lookup(fieldPath string) (FieldProvenance, bool) {
	if p == nil {
		return FieldProvenance{}, false
	}
	for _, f := range p.Fields {
		if f.FieldPath == fieldPath {
			return f, true
		}
	}
	return FieldProvenance{}, false
}

// FromSource lists the settings supplied by the named source.
func (p *Provenance) FromSource(name string) []FieldProvenance {
	if p == nil {
		return nil
	}
	var out []FieldProvenance
	for _, f := range p.Fields {
		if f.SourceName == name {
			out = append(out, f)
		}
	}
	return out
}

// provenances maps a loaded *T to its *Provenance.
var provenances sync.Map

// GetProvenance returns the provenance recorded when cfg was loaded.
func GetProvenance[T any](cfg *T) (*Provenance, bool) {
	if cfg == nil {
		return nil, false
	}
	if v, ok := provenances.Load(cfg); ok {
		prov, ok := v.(*Provenance)
		return prov, ok
	}
	return nil, false
}

func storeProvenance[T any](cfg *T, prov *Provenance) {
	if cfg == nil || prov == nil {
		return
	}
	provenances.Store(cfg, prov)
}
