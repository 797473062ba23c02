package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/mathadventures/internal/adaptive"
	"github.com/abhisek/mathadventures/internal/subject"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect subject and engine configuration",
}

// effectiveConfig is what `config show` prints.
type effectiveConfig struct {
	Subject     string          `yaml:"subject"`
	Description string          `yaml:"description,omitempty"`
	Source      string          `yaml:"source"`
	Engine      adaptive.Config `yaml:"engine"`
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective engine configuration for --subject",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath(cmd)
		if err != nil {
			return err
		}
		cfg, prof, err := resolveSubject(cmd)
		if err != nil {
			return err
		}

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(effectiveConfig{
			Subject:     prof.Name,
			Description: prof.Description,
			Source:      path,
			Engine:      cfg,
		})
	},
}

var configSubjectsCmd = &cobra.Command{
	Use:   "subjects",
	Short: "List available subjects",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath(cmd)
		if err != nil {
			return err
		}
		catalog, err := subject.Load(path)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SUBJECT\tDESCRIPTION")
		for _, name := range catalog.Names() {
			prof, err := catalog.Get(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%s\n", name, prof.Description)
		}
		return w.Flush()
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSubjectsCmd)
}
