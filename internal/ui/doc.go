// Package ui implements the interactive jobs dashboard using bubbletea's Elm architecture.
package ui
