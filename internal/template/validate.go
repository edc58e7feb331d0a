package template

import (
	"fmt"

	"github.com/KirkDiggler/scenario-gen/internal/errors"
)

// Validate checks the template header.
func (s *Settings) Validate() error {
	vb := errors.NewValidationBuilder()

	if s.MaxPlayers < 1 || s.MaxPlayers > 4 {
		vb.Fieldf("maxPlayers", "must be between 1 and 4, got %d", s.MaxPlayers)
	}
	if s.SizeMin < 48 || s.SizeMin > 144 {
		vb.Fieldf("minSize", "must be between 48 and 144, got %d", s.SizeMin)
	}
	if s.SizeMax < 48 || s.SizeMax > 144 {
		vb.Fieldf("maxSize", "must be between 48 and 144, got %d", s.SizeMax)
	}
	if s.SizeMin > s.SizeMax {
		vb.Fieldf("minSize", "must not exceed maxSize (%d > %d)", s.SizeMin, s.SizeMax)
	}
	if s.Roads < 0 || s.Roads > 100 {
		vb.Fieldf("roads", "must be a percentage, got %d", s.Roads)
	}
	if s.Forest < 0 || s.Forest > 100 {
		vb.Fieldf("forest", "must be a percentage, got %d", s.Forest)
	}
	if s.StartingGold < 0 || s.StartingGold > 9999 {
		vb.Fieldf("startingGold", "must be between 0 and 9999, got %d", s.StartingGold)
	}
	if s.StartingNativeMana < 0 || s.StartingNativeMana > 9999 {
		vb.Fieldf("startingNativeMana", "must be between 0 and 9999, got %d", s.StartingNativeMana)
	}

	if err := vb.Build(); err != nil {
		return errors.Wrap(err, "invalid template settings")
	}
	return nil
}

// ValidateContents checks the resolved template body against the header.
func ValidateContents(tmpl *Template) error {
	startingZones := 0
	for _, zone := range tmpl.Contents.Zones {
		if zone.Type == ZonePlayerStart || zone.Type == ZoneAiStart {
			startingZones++
		}
	}

	if startingZones > tmpl.Settings.MaxPlayers {
		return errors.TemplateInvalidf("template has %d starting zones but allows %d players",
			startingZones, tmpl.Settings.MaxPlayers)
	}

	for _, connection := range tmpl.Contents.Connections {
		if _, ok := tmpl.Contents.Zones[connection.From]; !ok {
			return errors.TemplateInvalidf("connection references unknown zone %d", connection.From)
		}
		if _, ok := tmpl.Contents.Zones[connection.To]; !ok {
			return errors.TemplateInvalidf("connection references unknown zone %d", connection.To)
		}
		if connection.From == connection.To {
			return errors.TemplateInvalidf("connection links zone %d to itself", connection.From)
		}
	}

	seen := make(map[string]bool)
	for _, relation := range tmpl.Contents.Diplomacy {
		if relation.Alliance && relation.AlwaysAtWar {
			return errors.TemplateInvalidf(
				"diplomacy between %s and %s is both alliance and always at war",
				relation.RaceA, relation.RaceB)
		}
		if relation.PermanentAlliance && !relation.Alliance {
			return errors.TemplateInvalidf(
				"permanent alliance between %s and %s requires alliance",
				relation.RaceA, relation.RaceB)
		}
		if relation.Relation < 0 || relation.Relation > 100 {
			return errors.TemplateInvalidf("relation between %s and %s out of range: %d",
				relation.RaceA, relation.RaceB, relation.Relation)
		}

		// Relations are symmetric, reject duplicates in either direction
		keyA := fmt.Sprintf("%s:%s", relation.RaceA, relation.RaceB)
		keyB := fmt.Sprintf("%s:%s", relation.RaceB, relation.RaceA)
		if seen[keyA] || seen[keyB] {
			return errors.TemplateInvalidf("duplicate diplomacy relation between %s and %s",
				relation.RaceA, relation.RaceB)
		}
		seen[keyA] = true
	}

	return nil
}
