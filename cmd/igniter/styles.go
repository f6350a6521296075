// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/charmbracelet/lipgloss"

// Color palette for CLI output, tuned for dark terminal backgrounds.
const (
	// ColorPrimary is used for titles and primary emphasis.
	ColorPrimary = lipgloss.Color("#F97316")

	// ColorMuted is used for subtitles and secondary text.
	ColorMuted = lipgloss.Color("#6B7280")

	// ColorValue is used for configuration values.
	ColorValue = lipgloss.Color("#3B82F6")
)

var (
	// TitleStyle is for primary headers.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary headers and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// LabelStyle is for configuration keys in `igniter config` output.
	LabelStyle = lipgloss.NewStyle().
			Bold(true)

	// ValueStyle is for configuration values in `igniter config` output.
	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorValue)
)
