// Command recall is a terminal client that plays digit-span rounds against a
// Recall server.
package main

import (
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jessevdk/go-flags"
)

var opts struct {
	Server   string `long:"server" env:"RECALL_SERVER" default:"https://recall.natwelch.com" description:"Recall API base URL"`
	Email    string `long:"email" env:"RECALL_EMAIL" required:"true" description:"Account email"`
	Password string `long:"password" env:"RECALL_PASSWORD" required:"true" description:"Account password"`
	Length   int    `long:"length" default:"4" description:"Starting sequence length"`
	Rounds   int    `long:"rounds" default:"5" description:"Rounds per session"`
}

func main() {
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}

	p := tea.NewProgram(
		initialModel(newClient(opts.Server), opts.Email, opts.Password, opts.Length, opts.Rounds),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}
