package flow

import "regexp"

// Command is a top-level menu action recognised anywhere in a message.
type Command int

const (
	CmdNone Command = iota
	CmdStart
	CmdGenerateEthereum
	CmdGenerateBSC
	CmdCreate
	CmdCheckBalances
	CmdDelete
	CmdExit
)

var commandNames = map[Command]string{
	CmdNone:             "none",
	CmdStart:            "start",
	CmdGenerateEthereum: "generate_ethereum",
	CmdGenerateBSC:      "generate_bsc",
	CmdCreate:           "create",
	CmdCheckBalances:    "check_balances",
	CmdDelete:           "delete",
	CmdExit:             "exit",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}

// Button labels of the main menu. Each one matches its own command pattern.
const (
	ButtonCreate           = "Create Wallet"
	ButtonCheckBalances    = "Check Balances"
	ButtonDelete           = "Delete Wallet"
	ButtonGenerateEthereum = "Generate Ethereum Wallet"
	ButtonGenerateBSC      = "Generate BSC Wallet"
	ButtonExit             = "Exit"
)

// Patterns are checked in order; the first match wins. Matching is a
// case-insensitive substring search, so a wallet name containing a command
// phrase runs that command instead of answering a prompt.
var commandPatterns = []struct {
	cmd     Command
	pattern *regexp.Regexp
}{
	{CmdStart, regexp.MustCompile(`(?i)/start`)},
	{CmdGenerateEthereum, regexp.MustCompile(`(?i)generate ethereum wallet`)},
	{CmdGenerateBSC, regexp.MustCompile(`(?i)generate bsc wallet`)},
	{CmdCreate, regexp.MustCompile(`(?i)create wallet`)},
	{CmdCheckBalances, regexp.MustCompile(`(?i)check balances?`)},
	{CmdDelete, regexp.MustCompile(`(?i)delete wallet`)},
	{CmdExit, regexp.MustCompile(`(?i)exit`)},
}

var addressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// Classify returns the command text names, or CmdNone.
func Classify(text string) Command {
	for _, p := range commandPatterns {
		if p.pattern.MatchString(text) {
			return p.cmd
		}
	}
	return CmdNone
}

// IsAddress reports whether text is exactly a 0x-prefixed 20-byte hex address.
func IsAddress(text string) bool {
	return addressPattern.MatchString(text)
}

func mainMenu() [][]string {
	return [][]string{
		{ButtonCreate, ButtonCheckBalances, ButtonDelete},
		{ButtonGenerateEthereum, ButtonGenerateBSC},
		{ButtonExit},
	}
}

// selectionMenu lists wallet names one per row, followed by Exit.
func selectionMenu(names []string) [][]string {
	rows := make([][]string, 0, len(names)+1)
	for _, name := range names {
		rows = append(rows, []string{name})
	}
	return append(rows, []string{ButtonExit})
}
