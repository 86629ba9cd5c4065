package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"nfo2tags/internal/deps"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 16
	statusIndent     = "  "
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show external tool and directory availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := isTerminal(out)

			lines := renderSectionHeader("Configuration", colorize)
			configMessage := ctx.configPath
			if !ctx.configExists {
				configMessage += " (not found, defaults in use)"
			}
			lines = append(lines,
				renderStatusLine("Config", statusInfo, configMessage, colorize),
				renderStatusLine("History", statusInfo, fmt.Sprintf("enabled=%s skip_unchanged=%s", yesNo(cfg.History.Enabled), yesNo(cfg.History.SkipUnchanged)), colorize),
				"",
			)

			lines = append(lines, renderSectionHeader("Tools", colorize)...)
			for _, status := range deps.CheckBinaries(deps.Requirements(cfg)) {
				lines = append(lines, renderStatusLine(status.Name, dependencyKind(status), dependencyMessage(status), colorize))
			}
			lines = append(lines, "")

			lines = append(lines, renderSectionHeader("Directories", colorize)...)
			for _, dir := range []struct{ name, path string }{
				{"Logs", cfg.Paths.LogDir},
				{"State", cfg.Paths.StateDir},
				{"Temp", cfg.Paths.TempDir},
			} {
				status := deps.CheckWritable(dir.name, dir.path)
				kind := statusOK
				message := status.Command
				if !status.Available {
					kind = statusError
					message = status.Detail
				}
				lines = append(lines, renderStatusLine(dir.name, kind, message, colorize))
			}

			fmt.Fprintln(out, strings.Join(lines, "\n"))
			return nil
		},
	}
}

func dependencyKind(status deps.Status) statusKind {
	switch {
	case status.Available:
		return statusOK
	case status.Optional:
		return statusWarn
	default:
		return statusError
	}
}

func dependencyMessage(status deps.Status) string {
	if status.Available {
		return fmt.Sprintf("%s (%s)", status.Command, status.Description)
	}
	if status.Optional {
		return status.Detail + " (optional: " + status.Description + ")"
	}
	return status.Detail
}

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := statusKindLabel(kind)
	if message != "" {
		statusText = fmt.Sprintf("[%s] %s", statusText, message)
	} else {
		statusText = fmt.Sprintf("[%s]", statusText)
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}
