package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/mmcdole/mcc/internal/domain"
)

// isInteractive reports whether stdin is a terminal
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// promptCredentials asks for a username and password. A terminal gets a form;
// piped input is read one value per line.
func promptCredentials(title, username string) (domain.Credentials, error) {
	if isInteractive() {
		return credentialsForm(title, username)
	}
	return readCredentials(os.Stdin, username)
}

func credentialsForm(title, username string) (domain.Credentials, error) {
	creds := domain.Credentials{Username: username}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&creds.Username).
				Validate(required("username")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&creds.Password).
				Validate(required("password")),
		).Title(title),
	)
	if err := form.Run(); err != nil {
		return creds, fmt.Errorf("failed to read credentials: %w", err)
	}
	return creds, nil
}

// readCredentials reads the username (unless given) then the password
func readCredentials(r io.Reader, username string) (domain.Credentials, error) {
	reader := bufio.NewReader(r)
	creds := domain.Credentials{Username: username}

	if creds.Username == "" {
		line, err := readLine(reader)
		if err != nil {
			return creds, fmt.Errorf("failed to read username: %w", err)
		}
		creds.Username = line
	}
	password, err := readLine(reader)
	if err != nil {
		return creds, fmt.Errorf("failed to read password: %w", err)
	}
	creds.Password = password
	return creds, nil
}

// readLine returns the next line without its line ending. A final line
// without a newline is accepted.
func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// confirm asks a yes/no question. Without a terminal it refuses unless
// assumeYes is set.
func confirm(question string, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}
	if !isInteractive() {
		return false, errors.New("refusing to continue without a terminal; pass --yes")
	}
	var ok bool
	if err := huh.NewConfirm().Title(question).Value(&ok).Run(); err != nil {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	return ok, nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
