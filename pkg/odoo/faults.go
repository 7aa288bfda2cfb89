package odoo

import (
	"errors"
	"net/rpc"
	"regexp"
	"strconv"

	"github.com/kolo/xmlrpc"
)

// Fault is a structured error response returned by the server for a single call
type Fault struct {
	Code    int
	Message string
}

// net/rpc flattens codec errors into rpc.ServerError, so a fault usually arrives
// as the string produced by xmlrpc.FaultError.Error().
var faultRx = regexp.MustCompile(`(?s)^Fault\((-?\d+)\): (.*)$`)

// asFault extracts the server fault carried by err, if any.
func asFault(err error) (f Fault, ok bool) {
	var xf xmlrpc.FaultError
	if errors.As(err, &xf) {
		return Fault{Code: xf.Code, Message: xf.String}, true
	}

	var se rpc.ServerError
	if !errors.As(err, &se) {
		return Fault{}, false
	}
	m := faultRx.FindStringSubmatch(string(se))
	if m == nil {
		return Fault{}, false
	}
	code, convErr := strconv.Atoi(m[1])
	if convErr != nil {
		return Fault{}, false
	}
	return Fault{Code: code, Message: m[2]}, true
}
