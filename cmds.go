package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

type SystemCmd interface {
	Handle(checker *Checker, args []string, resultWriter io.Writer) error
	Name() string
	Description() string
	Usage() string
}

var (
	RegisteredSystemCmds = []SystemCmd{
		HelpCmd{},
		VerCmd{},
		RulesCmd{},
		JoinsCmd{},
		NormalizeCmd{},
	}
)

func isSystemCmd(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), ".")
}

func handleCmd(checker *Checker, line string, resultWriter io.Writer) error {
	line = strings.TrimSpace(line)
	cmdName := strings.Split(line, " ")[0]
	params := strings.Split(line, " ")[1:]
	for _, cmd := range RegisteredSystemCmds {
		if cmd.Name() == cmdName {
			return cmd.Handle(checker, params, resultWriter)
		}
	}
	fmt.Fprintf(resultWriter, "Unknown command: %s, use .help for help\n", cmdName)
	return nil
}

type HelpCmd struct{}

func (cmd HelpCmd) Name() string {
	return ".help"
}

func (cmd HelpCmd) Description() string {
	return "Display help information for all available commands"
}

func (cmd HelpCmd) Usage() string {
	return ".help"
}

func (cmd HelpCmd) Handle(_ *Checker, args []string, resultWriter io.Writer) error {
	for _, cmd := range RegisteredSystemCmds {
		fmt.Fprintf(resultWriter, "%s - %s - Usage: %s\n", cmd.Name(), cmd.Description(), cmd.Usage())
	}
	fmt.Fprintln(resultWriter, "Any other input is checked as a view definition.")
	return nil
}

type VerCmd struct{}

func (cmd VerCmd) Name() string {
	return ".ver"
}

func (cmd VerCmd) Description() string {
	return "Display the current version of joinfinder"
}

func (cmd VerCmd) Usage() string {
	return ".ver"
}

func (cmd VerCmd) Handle(_ *Checker, args []string, resultWriter io.Writer) error {
	fmt.Fprintf(resultWriter, "joinfinder version: %s\n", Version)
	return nil
}

type RulesCmd struct{}

func (cmd RulesCmd) Name() string {
	return ".rules"
}

func (cmd RulesCmd) Description() string {
	return "List the normalization rules applied before parsing"
}

func (cmd RulesCmd) Usage() string {
	return ".rules"
}

func (cmd RulesCmd) Handle(checker *Checker, args []string, resultWriter io.Writer) error {
	for i, r := range checker.normalizer.Rules() {
		fmt.Fprintf(resultWriter, "%d: %s -> %s\n", i+1, strconv.Quote(r.From), strconv.Quote(r.To))
	}
	return nil
}

type JoinsCmd struct{}

func (cmd JoinsCmd) Name() string {
	return ".joins"
}

func (cmd JoinsCmd) Description() string {
	return "List every join of a statement"
}

func (cmd JoinsCmd) Usage() string {
	return ".joins <sql>"
}

func (cmd JoinsCmd) Handle(checker *Checker, args []string, resultWriter io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: %s", cmd.Usage())
	}
	joins, err := checker.Joins(strings.Join(args, " "))
	if err != nil {
		return err
	}
	printJoins(resultWriter, joins)
	return nil
}

type NormalizeCmd struct{}

func (cmd NormalizeCmd) Name() string {
	return ".normalize"
}

func (cmd NormalizeCmd) Description() string {
	return "Show a statement as it is handed to the parser"
}

func (cmd NormalizeCmd) Usage() string {
	return ".normalize <sql>"
}

func (cmd NormalizeCmd) Handle(checker *Checker, args []string, resultWriter io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: %s", cmd.Usage())
	}
	sql, err := checker.Prepare(strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintln(resultWriter, sql)
	return nil
}
