package main

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillcheck/pkg/skills"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of SKILL.md frontmatter",
	Long: `Print the JSON Schema describing the SKILL.md frontmatter, for use with
editors and YAML language servers. Unknown keys are allowed.`,
	Args: exactArgs(0),
	RunE: func(cmd *cobra.Command, _ []string) error {
		out, err := frontmatterSchema()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func frontmatterSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties:  true,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	schema := r.Reflect(&skills.Frontmatter{})
	schema.Title = "SKILL.md frontmatter"

	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode schema")
	}
	return out, nil
}
