package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/phobologic/apiguide/internal/config"
)

const (
	sentinelStart = "# apiguide:start"
	sentinelEnd   = "# apiguide:end"
)

func newInitCmd(stdout, stderr io.Writer) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "init [repo-root]",
		Short: "Write a default .apiguide.yaml",
		Long: `Write the apiguide settings block to <repo-root>/.apiguide.yaml. The block is
wrapped in sentinel comments so it can be updated in place on subsequent runs
without touching surrounding content. Values already set inside the block are
kept; new settings are added with their defaults. Creates the file if it does
not exist.

repo-root defaults to the current directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(filepath.Join(dir, config.FileName), dryRun, stdout, stderr)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print what would be written without modifying the file")
	return cmd
}

func runInit(path string, dryRun bool, stdout, stderr io.Writer) error {
	existing, _ := os.ReadFile(path)

	cfg, err := existingSettings(string(existing))
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	section, err := generateSection(cfg)
	if err != nil {
		return err
	}
	updated := applySection(string(existing), section)

	if dryRun {
		_, _ = fmt.Fprint(stdout, updated)
		return nil
	}

	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	_, _ = fmt.Fprintf(stderr, "wrote apiguide settings to %s\n", path)
	return nil
}

// existingSettings returns the defaults overlaid with the values found inside
// an existing sentinel block.
func existingSettings(content string) (*config.Config, error) {
	cfg := config.Default()

	start := strings.Index(content, sentinelStart)
	end := strings.Index(content, sentinelEnd)
	if start < 0 || end <= start {
		return cfg, nil
	}

	block := content[start+len(sentinelStart) : end]
	if err := yaml.Unmarshal([]byte(block), cfg); err != nil {
		return nil, fmt.Errorf("parsing settings block: %w", err)
	}
	return cfg, nil
}

// generateSection returns the sentinel-wrapped settings block for cfg.
func generateSection(cfg *config.Config) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return "", fmt.Errorf("encoding settings: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding settings: %w", err)
	}

	header := `# apiguide settings. Environment variables override them,
# e.g. APIGUIDE_WORKERS=4 or APIGUIDE_KNOWN_TYPES=Mixed,jQuery.
`
	return sentinelStart + "\n" + header + buf.String() + sentinelEnd, nil
}

// applySection inserts section into content, replacing an existing sentinel
// block if present or appending if not. It is a pure function for easy testing.
func applySection(content, section string) string {
	start := strings.Index(content, sentinelStart)
	end := strings.Index(content, sentinelEnd)

	if start >= 0 && end > start {
		return content[:start] + section + content[end+len(sentinelEnd):]
	}

	// Append, ensuring a blank line separator.
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if len(content) > 0 {
		content += "\n"
	}
	return content + section + "\n"
}
