package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/itdwgmbh/odoo-xmlrpc-go/cmd/odoo-xmlrpc/cmd"
	"github.com/itdwgmbh/odoo-xmlrpc-go/pkg/odoo"
)

// Exit codes
const (
	errorNone      = 0
	errorArgs      = 1
	errorConfig    = 2
	errorAuth      = 3
	errorRemote    = 4
	errorTransport = 5
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
	os.Exit(errorNone)
}

func exitCode(err error) int {
	var (
		afe *odoo.AuthenticationFailedError
		rce *odoo.RemoteCallFailedError
		te  *odoo.TransportError
	)
	switch {
	case err == nil:
		return errorNone
	case errors.Is(err, cmd.ErrConfig):
		return errorConfig
	case errors.As(err, &afe):
		return errorAuth
	case errors.As(err, &rce):
		return errorRemote
	case errors.As(err, &te):
		return errorTransport
	}
	return errorArgs
}
