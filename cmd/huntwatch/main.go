package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"huntbot/internal/tui/watch"
)

func main() {
	fs := flag.NewFlagSet("huntwatch", flag.ExitOnError)
	apiURL := fs.String("api-url", "http://127.0.0.1:8520", "Bot ops API URL")
	token := fs.String("api-token", os.Getenv("HUNTBOT_API_TOKEN"), "API Bearer Token")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: huntwatch [flags]")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Real-time bot monitor. Shows health, hunt activity,")
		fmt.Fprintln(os.Stderr, "browser sessions, and the event stream.")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C        Quit")
		fmt.Fprintln(os.Stderr, "  up/down, k/j     Navigate hunts")
	}
	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		os.Exit(1)
	}

	if *token == "" {
		fmt.Fprintln(os.Stderr, "Error: API token required. Use -api-token or HUNTBOT_API_TOKEN env var.")
		os.Exit(1)
	}

	m := watch.New(*apiURL, *token)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
		os.Exit(1)
	}
}
