package screening

import "github.com/netrialia/cv-screener/internal/candidate"

// Partition splits an incoming batch into candidates not yet present in the
// persisted result set and candidates already processed, by identity key.
// Degenerate keys are always classified new: suppressing an unidentifiable
// row risks silently dropping a real candidate. Pure set difference, no I/O.
func Partition(existing map[string]struct{}, batch []candidate.Record) (fresh, skipped []candidate.Record) {
	for _, rec := range batch {
		key := rec.IdentityKey()
		if candidate.Degenerate(key) {
			fresh = append(fresh, rec)
			continue
		}
		if _, ok := existing[key]; ok {
			skipped = append(skipped, rec)
			continue
		}
		fresh = append(fresh, rec)
	}
	return fresh, skipped
}
