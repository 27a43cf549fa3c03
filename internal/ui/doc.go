// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI drives a [tasks.Session] through three views:
//  1. [QueueView] : The username queue with live status, aggregate counts and a progress bar
//  2. [InputView] : A text area for pasting newline- or comma-separated usernames
//  3. [FileView] : A path prompt for importing a spreadsheet
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Store changes and run progress arrive on the session's update channel, which the model re-arms after every message.
//
// Keyboard help is rendered with charmbracelet/bubbles/help.
package ui
