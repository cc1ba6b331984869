package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	goRoles "github.com/MrEthical07/goRoles"
	"github.com/MrEthical07/goRoles/cmd/rolectl/internal/output"
	"github.com/MrEthical07/goRoles/jwt"
	"github.com/spf13/cobra"
)

func (a *app) jsonOutput() bool {
	return a.cfg != nil && a.cfg.Output.Format == "json"
}

func displayName(r goRoles.Role) string {
	name := strings.TrimSpace(strings.Join([]string{r.Title, r.FirstName, r.LastName}, " "))
	if name == "" {
		return r.Email
	}
	return name
}

func (a *app) printRoles(roles []goRoles.Role) error {
	if a.jsonOutput() {
		return a.printer.JSON(roles)
	}
	if len(roles) == 0 {
		a.printer.Info("No roles")
		return nil
	}

	table := output.NewTable(a.printer.Out(), []string{"ID", "NAME", "EMAIL", "ROLE", "VERIFIED", "CREATED"})
	for _, r := range roles {
		table.AddRow(r.ID, displayName(r), r.Email, r.Role, a.printer.Badge(r.IsVerified), r.Created)
	}
	return table.Render()
}

func (a *app) printRole(r goRoles.Role) error {
	if a.jsonOutput() {
		return a.printer.JSON(r)
	}

	table := output.NewTable(a.printer.Out(), []string{"FIELD", "VALUE"})
	table.AddRow("id", r.ID)
	table.AddRow("title", r.Title)
	table.AddRow("first name", r.FirstName)
	table.AddRow("last name", r.LastName)
	table.AddRow("email", r.Email)
	table.AddRow("role", r.Role)
	table.AddRow("verified", a.printer.Badge(r.IsVerified))
	table.AddRow("created", r.Created)
	table.AddRow("updated", r.Updated)
	if r.JWTToken != "" {
		if exp, err := jwt.ParseExpiry(r.JWTToken); err == nil {
			table.AddRow("token expires", exp.Local().Format(time.RFC3339))
		} else {
			table.AddRow("token expires", "unknown")
		}
	}
	return table.Render()
}

func (a *app) printMessage(msg goRoles.Message) error {
	if a.jsonOutput() {
		return a.printer.JSON(msg)
	}
	a.printer.Success("%s", msg.Message)
	return nil
}

// secret returns value, or prompts on stderr and reads one line from stdin
// when value is empty.
func (a *app) secret(cmd *cobra.Command, value, prompt string) (string, error) {
	if value != "" {
		return value, nil
	}
	if a.stdin == nil {
		a.stdin = bufio.NewReader(cmd.InOrStdin())
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s: ", prompt)
	line, err := a.stdin.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(prompt), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
