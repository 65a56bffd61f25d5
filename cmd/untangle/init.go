package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/untangle/internal/config"
)

// mcpConfig represents the structure of a .mcp.json file.
type mcpConfig struct {
	MCPServers map[string]json.RawMessage `json:"mcpServers"`
}

// untangleMCPEntry is the MCP server configuration for the untangle binary.
var untangleMCPEntry = json.RawMessage(`{
  "type": "stdio",
  "command": "untangle",
  "args": ["serve-mcp"]
}`)

// defaultConfig is written by init. Commented keys show the defaults.
const defaultConfig = `# untangle project settings
scanMode: jj-cli            # or file-scan
namingConvention: jj-native # or git-friendly
excludeDirs:
  - node_modules
  - vendor
# languages: [go, typescript, python, rust]
# workers: 4
# extractTimeout: 2s
# similarityThreshold: 0.5
# nestingWeight: 1.0
# graphDB: .untangle/graph
`

func newInitCommand(flags *globalFlags) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write untangle.yml and register the MCP server in .mcp.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd.OutOrStdout(), flags.ProjectRoot, force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files and entries")
	return cmd
}

// runInit installs the config file and MCP configuration into the target
// project directory.
func runInit(out io.Writer, projectRoot string, force bool) error {
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		return fmt.Errorf("resolving project root: %w", err)
	}

	cfgPath := filepath.Join(abs, config.FileNames[0])
	if err := writeConfig(out, abs, cfgPath, force); err != nil {
		return err
	}
	if err := mergeMCPConfig(out, filepath.Join(abs, ".mcp.json"), force); err != nil {
		return err
	}

	fmt.Fprintln(out, "\nSetup complete. Run 'untangle plan' to see the suggested order.")
	return nil
}

func writeConfig(out io.Writer, base, path string, force bool) error {
	if !force {
		for _, name := range config.FileNames {
			existing := filepath.Join(base, name)
			if _, err := os.Stat(existing); err == nil {
				fmt.Fprintf(out, "  skipped %s (exists, use --force to overwrite)\n", dotRelative(base, existing))
				return nil
			}
		}
	}
	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(out, "  created %s\n", dotRelative(base, path))
	return nil
}

// mergeMCPConfig creates or merges the untangle entry into .mcp.json.
func mergeMCPConfig(out io.Writer, mcpPath string, force bool) error {
	var cfg mcpConfig

	data, err := os.ReadFile(mcpPath)
	if err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parsing %s: %w", mcpPath, err)
		}
	}

	if cfg.MCPServers == nil {
		cfg.MCPServers = make(map[string]json.RawMessage)
	}

	if _, exists := cfg.MCPServers["untangle"]; exists && !force {
		fmt.Fprintf(out, "  skipped .mcp.json untangle entry (exists, use --force to overwrite)\n")
		return nil
	}

	cfg.MCPServers["untangle"] = untangleMCPEntry

	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling .mcp.json: %w", err)
	}

	if err := os.WriteFile(mcpPath, append(raw, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", mcpPath, err)
	}

	action := "created"
	if data != nil {
		action = "updated"
	}
	fmt.Fprintf(out, "  %s .mcp.json with untangle MCP server\n", action)
	return nil
}
