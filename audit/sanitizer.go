package audit

import (
	"sync"

	"github.com/goliatone/go-crm/pkg/types"
	"github.com/goliatone/go-masker"
)

// SanitizerConfig controls the masker used for audit snapshot sanitization.
type SanitizerConfig struct {
	Masker *masker.Masker
}

var defaultMaskerOnce sync.Once

// DefaultMasker returns a configured masker instance with the default
// denylist. Contact details are masked when feeds are exposed to roles that
// should not read them in the clear.
func DefaultMasker() *masker.Masker {
	defaultMaskerOnce.Do(func() {
		if masker.Default == nil {
			return
		}
		registerDefaultMaskFields(masker.Default)
	})
	return masker.Default
}

// SanitizeEntry masks sensitive values in the entry's snapshots. The stored
// row is untouched; sanitization applies to the copy handed to readers.
func SanitizeEntry(mask *masker.Masker, entry types.AuditEntry) types.AuditEntry {
	if mask == nil {
		mask = DefaultMasker()
	}
	entry.Prior = sanitizeSnapshot(mask, entry.Prior)
	entry.New = sanitizeSnapshot(mask, entry.New)
	return entry
}

// SanitizeEntries masks sensitive values for every entry in the slice.
func SanitizeEntries(mask *masker.Masker, entries []types.AuditEntry) []types.AuditEntry {
	if len(entries) == 0 {
		return entries
	}
	out := make([]types.AuditEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, SanitizeEntry(mask, entry))
	}
	return out
}

func sanitizeSnapshot(mask *masker.Masker, snapshot types.Snapshot) types.Snapshot {
	if len(snapshot) == 0 {
		return snapshot
	}
	if mask == nil {
		return types.Snapshot{}
	}

	cloned := map[string]any(snapshot.Clone())
	masked, err := mask.Mask(cloned)
	if err != nil {
		return types.Snapshot{}
	}
	switch masked := masked.(type) {
	case map[string]any:
		return types.Snapshot(masked)
	default:
		return types.Snapshot{}
	}
}

func registerDefaultMaskFields(mask *masker.Masker) {
	if mask == nil {
		return
	}
	mask.RegisterMaskField("email", "filled4")
	mask.RegisterMaskField("phone", "filled4")
	mask.RegisterMaskField("mobile", "filled4")
}
