// Package report renders project results for humans: a markdown summary and a
// TSV definition listing.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"texgraph/internal/core/ports"
	"texgraph/internal/engine/store"
)

// Markdown renders the full project summary.
func Markdown(result ports.ProjectResult) string {
	var sb strings.Builder

	sb.WriteString("# Project resolution report\n\n")
	if result.RootPath == "" {
		sb.WriteString("**Root:** not found\n\n")
	} else {
		fmt.Fprintf(&sb, "**Root:** `%s`\n\n", result.RootPath)
	}
	fmt.Fprintf(&sb, "Files: %d (%d failed), commands: %d merged, environments: %d merged\n\n",
		len(result.Files), result.FileErrorCount(), len(result.Commands), len(result.Environments))

	sb.WriteString("## Files\n\n")
	sb.WriteString("| File | Status |\n|---|---|\n")
	for _, f := range result.Files {
		status := "ok"
		if f.Err != nil {
			status = f.Err.Error()
		} else if f.Tree == nil {
			status = "no tree"
		}
		fmt.Fprintf(&sb, "| `%s` | %s |\n", f.Path, status)
	}
	sb.WriteString("\n")

	sb.WriteString("## Commands\n\n")
	for _, cat := range []store.CommandCategory{store.CategoryDocument, store.CategoryInferred, store.CategoryUser, store.CategoryDefault} {
		cmds := result.CommandCategories[cat]
		fmt.Fprintf(&sb, "### %s (%d)\n\n", cat, len(cmds))
		if cat == store.CategoryDefault || len(cmds) == 0 {
			// The default table is static and long; counts suffice.
			continue
		}
		sb.WriteString("| Name | Signature |\n|---|---|\n")
		for _, c := range cmds {
			fmt.Fprintf(&sb, "| `\\%s` | `%s` |\n", c.Name, c.Signature)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Environments\n\n")
	for _, cat := range []store.EnvironmentCategory{store.EnvDocument, store.EnvUser} {
		envs := result.EnvironmentCategories[cat]
		fmt.Fprintf(&sb, "### %s (%d)\n\n", cat, len(envs))
		if len(envs) == 0 {
			continue
		}
		sb.WriteString("| Name | Signature | Declared by |\n|---|---|---|\n")
		for _, e := range envs {
			fmt.Fprintf(&sb, "| `%s` | `%s` | `\\%s` |\n", e.Name, e.Signature, e.DeclaringCommand)
		}
		sb.WriteString("\n")
	}

	if len(result.GlobalErrors) > 0 {
		sb.WriteString("## Project errors\n\n")
		for _, e := range result.GlobalErrors {
			fmt.Fprintf(&sb, "- %s\n", e)
		}
		sb.WriteString("\n")
	}
	if len(result.Warnings) > 0 {
		sb.WriteString("## Warnings\n\n")
		for _, w := range result.Warnings {
			fmt.Fprintf(&sb, "- %s\n", w)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// TSV renders one row per merged definition.
func TSV(result ports.ProjectResult) string {
	var sb strings.Builder
	sb.WriteString("kind\tname\tsignature\tcategory\n")
	for _, cat := range []store.CommandCategory{store.CategoryDocument, store.CategoryUser, store.CategoryDefault, store.CategoryInferred} {
		for _, c := range result.CommandCategories[cat] {
			fmt.Fprintf(&sb, "command\t%s\t%s\t%s\n", c.Name, c.Signature, c.Category)
		}
	}
	for _, cat := range []store.EnvironmentCategory{store.EnvDocument, store.EnvUser, store.EnvBuiltin} {
		for _, e := range result.EnvironmentCategories[cat] {
			fmt.Fprintf(&sb, "environment\t%s\t%s\t%s\n", e.Name, e.Signature, e.Category)
		}
	}
	return sb.String()
}

func WriteMarkdown(path string, result ports.ProjectResult) error {
	return writeFile(path, Markdown(result))
}

func WriteTSV(path string, result ports.ProjectResult) error {
	return writeFile(path, TSV(result))
}

func writeFile(path, content string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
