package gamedata

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// LevelSchema builds the JSON schema of level pack files.
func LevelSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}
	schema := reflector.Reflect(new(LevelsFile))
	schema.Title = "CaveDash level pack"
	schema.Description = "Caves played in order. Map symbols: " + symbolLegend
	return schema
}

// LevelSchemaJSON returns the level schema as indented JSON.
func LevelSchemaJSON() ([]byte, error) {
	data, err := json.MarshalIndent(LevelSchema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return append(data, '\n'), nil
}

const symbolLegend = "'.' soil, 'w' brick wall, 'W' metal wall, 'm' magic wall, " +
	"'e' expanding wall, 'r' boulder, 'd' diamond, 'k' cracked boulder, 'n' mineral, " +
	"'l' balloon, '*' small diamond, 'g' energizer, 'E' entry, 'X' exit, 'f' firefly, " +
	"'b' butterfly, 'a' amoeba, 'p' portal, 'c' wood crate, 'h' metal crate, " +
	"'+' crate target, '%' key, 'L' locked door, 'D' door, 'T' triggered door, " +
	"'/' lever, ' ' or '_' empty."
