package service

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/routelens/routelens/domain"
	"github.com/routelens/routelens/internal/version"
)

// OutputFormatterImpl renders build and impact results as JSON or text.
type OutputFormatterImpl struct{}

// NewOutputFormatter creates a new output formatter.
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{}
}

// BuildResponseJSON wraps a build response with report metadata.
type BuildResponseJSON struct {
	Version     string                `json:"version"`
	GeneratedAt string                `json:"generated_at"`
	Build       *domain.BuildResponse `json:"build"`
}

// ImpactResponseJSON wraps an impact response with report metadata.
type ImpactResponseJSON struct {
	Version     string                 `json:"version"`
	GeneratedAt string                 `json:"generated_at"`
	Impact      *domain.ImpactResponse `json:"impact"`
}

func (f *OutputFormatterImpl) writeJSON(v interface{}, writer io.Writer) error {
	enc := json.NewEncoder(writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// WriteBuild writes a build response in the requested format.
func (f *OutputFormatterImpl) WriteBuild(resp *domain.BuildResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return f.writeJSON(&BuildResponseJSON{
			Version:     version.Version,
			GeneratedAt: time.Now().Format(time.RFC3339),
			Build:       resp,
		}, writer)
	case domain.OutputFormatText, "":
		return f.writeBuildText(resp, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteImpact writes an impact response in the requested format.
func (f *OutputFormatterImpl) WriteImpact(resp *domain.ImpactResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return f.writeJSON(&ImpactResponseJSON{
			Version:     version.Version,
			GeneratedAt: time.Now().Format(time.RFC3339),
			Impact:      resp,
		}, writer)
	case domain.OutputFormatText, "":
		return f.writeImpactText(resp, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteRoutes writes a route table in the requested format.
func (f *OutputFormatterImpl) WriteRoutes(routes []*domain.RouteDefinition, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return f.writeJSON(routes, writer)
	case domain.OutputFormatText, "":
		for _, route := range routes {
			component := route.ComponentFile
			if component == "" {
				component = "(unresolved)"
			}
			if _, err := fmt.Fprintf(writer, "%-30s %-16s %s -> %s\n",
				route.RoutePath, route.Style, route.DefiningFile, component); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func (f *OutputFormatterImpl) writeBuildText(resp *domain.BuildResponse, writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "Graph built: %d files, %d edges, %d routes, %d entry points\n",
		resp.Files, resp.Edges, resp.Routes, resp.EntryPoints); err != nil {
		return err
	}
	if resp.FromCache {
		if _, err := fmt.Fprintln(writer, "Loaded from snapshot (no files changed)"); err != nil {
			return err
		}
	} else if resp.Reparsed > 0 {
		if _, err := fmt.Fprintf(writer, "Reparsed %d files\n", resp.Reparsed); err != nil {
			return err
		}
	}
	if len(resp.RouteTable) > 0 {
		if _, err := fmt.Fprintln(writer); err != nil {
			return err
		}
		for _, route := range resp.RouteTable {
			component := route.ComponentFile
			if component == "" {
				component = "(unresolved)"
			}
			if _, err := fmt.Fprintf(writer, "%-30s %s -> %s\n",
				route.RoutePath, route.DefiningFile, component); err != nil {
				return err
			}
		}
	}
	return f.writeWarningsText(resp.Warnings, writer)
}

func (f *OutputFormatterImpl) writeImpactText(resp *domain.ImpactResponse, writer io.Writer) error {
	result := resp.Result
	changed := make([]string, 0, len(result.Routes))
	for file := range result.Routes {
		changed = append(changed, file)
	}
	sort.Strings(changed)

	for _, file := range changed {
		routes := result.Routes[file]
		if len(routes) == 0 {
			if _, err := fmt.Fprintf(writer, "%s: no routes affected\n", file); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(writer, "%s:\n", file); err != nil {
			return err
		}
		for _, route := range routes {
			if _, err := fmt.Fprintf(writer, "  %s\n", route); err != nil {
				return err
			}
		}
	}

	if len(result.SharedComponents) > 0 {
		shared := make([]string, 0, len(result.SharedComponents))
		for file := range result.SharedComponents {
			shared = append(shared, file)
		}
		sort.Strings(shared)
		if _, err := fmt.Fprintln(writer, "\nShared components:"); err != nil {
			return err
		}
		for _, file := range shared {
			if _, err := fmt.Fprintf(writer, "  %s (%d routes)\n", file, len(result.SharedComponents[file])); err != nil {
				return err
			}
		}
	}

	if result.Partial {
		if _, err := fmt.Fprintln(writer, "\nNote: traversal depth limit reached; results may be incomplete"); err != nil {
			return err
		}
	}

	if len(result.Unresolved) > 0 {
		if _, err := fmt.Fprintln(writer, "\nUnresolved routes:"); err != nil {
			return err
		}
		for _, entry := range result.Unresolved {
			if _, err := fmt.Fprintf(writer, "  %s\n", entry); err != nil {
				return err
			}
		}
	}

	if len(resp.Removed) > 0 {
		if _, err := fmt.Fprintln(writer, "\nRemoved files:"); err != nil {
			return err
		}
		for _, file := range resp.Removed {
			if _, err := fmt.Fprintf(writer, "  %s\n", file); err != nil {
				return err
			}
		}
	}

	return f.writeWarningsText(resp.Warnings, writer)
}

func (f *OutputFormatterImpl) writeWarningsText(warnings []string, writer io.Writer) error {
	if len(warnings) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(writer, "\nWarnings:"); err != nil {
		return err
	}
	for _, w := range warnings {
		if _, err := fmt.Fprintf(writer, "  %s\n", w); err != nil {
			return err
		}
	}
	return nil
}
