package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/nable/internal/content"
)

// readPool decodes the candidate pool named by --pool ("-" reads stdin).
func readPool(cmd *cobra.Command) ([]content.Item, error) {
	path, _ := cmd.Flags().GetString("pool")
	if path == "" {
		return nil, fmt.Errorf("--pool is required")
	}

	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open pool: %w", err)
		}
		defer f.Close()
		r = f
	}

	items, err := content.DecodePool(r)
	if err != nil {
		return nil, fmt.Errorf("read pool %s: %w", path, err)
	}
	return items, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
