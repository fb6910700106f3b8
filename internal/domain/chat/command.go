package chat

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Comandos reconocidos (primer token normalizado).
const (
	CmdStart     = "start"
	CmdChoosePet = "choosepet"
	CmdFeed      = "feed"
	CmdPlay      = "play"
	CmdClean     = "clean"
	CmdSet       = "set"
	CmdStatus    = "status"
	CmdHelp      = "help"
	CmdCredits   = "credits"
)

// Command es un mensaje entrante ya tokenizado.
// Raw se conserva sin normalizar (lo usa la captura de nombre).
type Command struct {
	Raw  string
	Key  string
	Args []string
}

// Parse normaliza (trim + lower-case unicode) y separa por espacios.
func Parse(raw string) Command {
	// cases.Caser no es seguro entre goroutines: uno por llamada.
	norm := cases.Lower(language.Und).String(strings.TrimSpace(raw))
	words := strings.Fields(norm)

	cmd := Command{Raw: raw}
	if len(words) == 0 {
		return cmd
	}
	cmd.Key = words[0]
	cmd.Args = words[1:]
	return cmd
}

// Arg devuelve el argumento i o "" si no existe.
func (c Command) Arg(i int) string {
	if i < 0 || i >= len(c.Args) {
		return ""
	}
	return c.Args[i]
}
