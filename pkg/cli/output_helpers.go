package cli

import (
	"encoding/json"
	"io"
	"strings"
	"time"
)

const timeRounding = time.Millisecond

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func joinStrings(parts []string) string {
	return strings.Join(parts, "; ")
}
