package selection

import (
	"fmt"
	"strings"
)

// ExportConfig carries the configuration fields shown in the export block.
type ExportConfig struct {
	TypeLabel string
	TypeID    string
	Name      string
	Chat      bool
}

// Export renders the selection and configuration as the plain-text block the
// widget offers as a copy-paste fallback.
func (s *Store) Export(cfg ExportConfig) string {
	typeLabel := cfg.TypeLabel
	if typeLabel == "" {
		typeLabel = "-"
	}
	typeLine := "Typ: " + typeLabel
	if cfg.TypeID != "" {
		typeLine += fmt.Sprintf(" (ID: %s)", cfg.TypeID)
	}
	name := cfg.Name
	if name == "" {
		name = "-"
	}
	chat := "Nein"
	if cfg.Chat {
		chat = "Ja"
	}

	lines := []string{
		"[Gruppen-Konfiguration]",
		typeLine,
		"Name: " + name,
		"Chat aktiv: " + chat,
	}

	var people []string
	for _, p := range s.People() {
		people = append(people, fmt.Sprintf("%s    %s %s", p.ID, p.FirstName, p.LastName))
	}

	return strings.Join(lines, "\n") + "\n\n" + strings.Join(people, "\n")
}
