package cli

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tidy/internal/adapters/driving/mcp"
)

var versionJSON bool

type versionInfo struct {
	Version    string `json:"version"`
	MCPVersion string `json:"mcpVersion"`
	Go         string `json:"go"`
	Platform   string `json:"platform"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	RunE: func(cmd *cobra.Command, _ []string) error {
		info := versionInfo{
			Version:    version,
			MCPVersion: mcp.Version,
			Go:         runtime.Version(),
			Platform:   runtime.GOOS + "/" + runtime.GOARCH,
		}
		if versionJSON {
			return printJSON(cmd, info)
		}
		cmd.Printf("tidy version %s (mcp %s, %s %s)\n", info.Version, info.MCPVersion, info.Go, info.Platform)
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(versionCmd)
}
