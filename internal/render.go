package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/template"
)

// TemplateManager handles custom output templates for video listings.
// The configured value is either an inline Go text/template or a path to
// a template file; each record is rendered on its own line.
type TemplateManager struct {
	templateFile   string
	templateString string
}

// NewTemplateManager creates a template manager from the config or flag
// value. An empty setting means the built-in listing format is used.
func NewTemplateManager(setting string) *TemplateManager {
	tm := &TemplateManager{}
	if setting != "" {
		if IsLikelyFilePath(setting) && FileExists(setting) {
			tm.templateFile = setting
		} else {
			tm.templateString = setting
		}
	}
	return tm
}

// Configured reports whether a custom template was supplied.
func (tm *TemplateManager) Configured() bool {
	return tm.templateFile != "" || tm.templateString != ""
}

// RenderRecords applies the template to each record, one line per video.
func (tm *TemplateManager) RenderRecords(videos []VideoRecord) (string, error) {
	content := tm.templateString
	if content == "" {
		data, err := os.ReadFile(tm.templateFile)
		if err != nil {
			return "", fmt.Errorf("reading output template: %w", err)
		}
		content = string(data)
	}

	tmpl, err := template.New("output").Parse(content)
	if err != nil {
		return "", fmt.Errorf("parsing output template: %w", err)
	}

	var sb strings.Builder
	for i, v := range videos {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, v); err != nil {
			return "", fmt.Errorf("executing output template: %w", err)
		}
		sb.WriteString(strings.TrimRight(buf.String(), "\n"))
		if i < len(videos)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

// FormatVideoList renders records as a numbered markdown listing.
func FormatVideoList(videos []VideoRecord) string {
	var sb strings.Builder
	for i, v := range videos {
		sb.WriteString(fmt.Sprintf("%d. **%s**\n", i+1, v.Title))
		sb.WriteString(fmt.Sprintf("   %s\n", v.URL))

		var details []string
		if d := formatUploadDate(v.UploadDate); d != "" {
			details = append(details, d)
		}
		if v.Duration > 0 {
			details = append(details, humanDuration(v.Duration))
		}
		if v.ViewCount > 0 {
			details = append(details, groupDigits(v.ViewCount)+" views")
		}
		if len(details) > 0 {
			sb.WriteString("   " + strings.Join(details, " | ") + "\n")
		}
	}
	return sb.String()
}

// FormatVideoInfo renders single-video metadata, with an optional
// transcript section.
func FormatVideoInfo(metadata *VideoMetadata, transcript string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", metadata.Title))

	if metadata.Channel != "" {
		sb.WriteString(fmt.Sprintf("- **Channel**: %s\n", metadata.Channel))
	} else if metadata.Uploader != "" {
		sb.WriteString(fmt.Sprintf("- **Uploader**: %s\n", metadata.Uploader))
	}
	if d := formatUploadDate(metadata.UploadDate); d != "" {
		sb.WriteString(fmt.Sprintf("- **Uploaded**: %s\n", d))
	}
	if metadata.Duration > 0 {
		sb.WriteString(fmt.Sprintf("- **Duration**: %s\n", humanDuration(int(metadata.Duration))))
	}
	if metadata.ViewCount > 0 {
		sb.WriteString(fmt.Sprintf("- **Views**: %s\n", groupDigits(metadata.ViewCount)))
	}
	if metadata.LikeCount > 0 {
		sb.WriteString(fmt.Sprintf("- **Likes**: %s\n", groupDigits(metadata.LikeCount)))
	}
	if len(metadata.Categories) > 0 {
		sb.WriteString(fmt.Sprintf("- **Categories**: %s\n", strings.Join(metadata.Categories, ", ")))
	}
	if len(metadata.Tags) > 0 {
		tags := metadata.Tags
		if len(tags) > 10 {
			tags = tags[:10]
		}
		sb.WriteString(fmt.Sprintf("- **Tags**: %s\n", strings.Join(tags, ", ")))
	}
	sb.WriteString(fmt.Sprintf("- **Captions available**: %v\n", metadata.HasCaptions))

	if metadata.Description != "" {
		desc := metadata.Description
		if len(desc) > 500 {
			desc = desc[:500] + "..."
		}
		sb.WriteString(fmt.Sprintf("\n## Description\n\n%s\n", desc))
	}

	if transcript != "" {
		sb.WriteString(fmt.Sprintf("\n## Transcript\n\n%s\n", transcript))
	}

	return sb.String()
}

// RecordsJSON renders records as indented JSON for machine consumers.
func RecordsJSON(videos []VideoRecord) (string, error) {
	data, err := json.MarshalIndent(videos, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding videos: %w", err)
	}
	return string(data), nil
}
