package signature

import (
	"time"

	"github.com/Krish948/IronWall/internal/types"
)

// defaultEntries is the starter digest corpus a fresh store is seeded
// with. These are well-known sample digests, not live intelligence; the
// store is expected to grow through Add and feed updates.
var defaultEntries = map[string]Entry{
	"a1b2c3d4e5f678901234567890123456": {
		Name: "WannaCry_Ransomware", Family: "Ransomware",
		Severity: types.SeverityCritical, Description: "WannaCry ransomware variant",
	},
	"b2c3d4e5f67890123456789012345678": {
		Name: "Petya_Ransomware", Family: "Ransomware",
		Severity: types.SeverityCritical, Description: "Petya ransomware variant",
	},
	"c3d4e5f6789012345678901234567890": {
		Name: "Locky_Ransomware", Family: "Ransomware",
		Severity: types.SeverityCritical, Description: "Locky ransomware variant",
	},
	"d4e5f678901234567890123456789012": {
		Name: "Zeus_Trojan", Family: "Trojan",
		Severity: types.SeverityHigh, Description: "Zeus banking trojan",
	},
	"e5f67890123456789012345678901234": {
		Name: "Emotet_Trojan", Family: "Trojan",
		Severity: types.SeverityHigh, Description: "Emotet banking trojan",
	},
	"f6789012345678901234567890123456": {
		Name: "TrickBot_Trojan", Family: "Trojan",
		Severity: types.SeverityHigh, Description: "TrickBot banking trojan",
	},
	"67890123456789012345678901234567": {
		Name: "DarkComet_RAT", Family: "Spyware",
		Severity: types.SeverityHigh, Description: "DarkComet remote access trojan",
	},
	"78901234567890123456789012345678": {
		Name: "BlackShades_RAT", Family: "Spyware",
		Severity: types.SeverityHigh, Description: "BlackShades remote access trojan",
	},
	"89012345678901234567890123456789": {
		Name: "Conficker_Worm", Family: "Worm",
		Severity: types.SeverityHigh, Description: "Conficker worm variant",
	},
	"90123456789012345678901234567890": {
		Name: "Sasser_Worm", Family: "Worm",
		Severity: types.SeverityHigh, Description: "Sasser worm variant",
	},
	"01234567890123456789012345678901": {
		Name: "TDSS_Rootkit", Family: "Rootkit",
		Severity: types.SeverityCritical, Description: "TDSS/Alureon rootkit",
	},
	"12345678901234567890123456789012": {
		Name: "MebRoot_Rootkit", Family: "Rootkit",
		Severity: types.SeverityCritical, Description: "MebRoot bootkit",
	},
}

// seedDefaultsLocked adds any missing default entries. Existing entries
// are never overwritten, so user edits survive reloads. Callers hold
// the write lock.
func (s *Store) seedDefaultsLocked() {
	now := time.Now().UTC()
	for digest, e := range defaultEntries {
		if _, ok := s.hashes[digest]; ok {
			continue
		}
		e.AddedAt = now
		s.hashes[digest] = e
	}
}
