package changeset

import (
	"strings"

	"github.com/monoship/monoship/internal/model"
)

// DefaultFilenameFormat is used when a store's configured format is empty.
const DefaultFilenameFormat = "{timestamp}-{branch}-{hash}.md"

// filename expands a configured filename format's placeholders against cs:
// {timestamp} (RFC3339-ish, colons replaced since they're invalid on some
// filesystems), {branch} (slashes replaced by hyphens), {hash} (the
// changeset's short id).
func filename(format string, cs *model.Changeset) string {
	if format == "" {
		format = DefaultFilenameFormat
	}

	branch := strings.NewReplacer("/", "-", "\\", "-").Replace(cs.Branch)
	timestamp := strings.ReplaceAll(cs.CreatedAt.UTC().Format("20060102T150405"), ":", "")

	replacer := strings.NewReplacer(
		"{timestamp}", timestamp,
		"{branch}", branch,
		"{hash}", cs.ShortID(),
	)
	return replacer.Replace(format)
}
