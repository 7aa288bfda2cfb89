package odoo

import (
	"net/http"

	"github.com/kolo/xmlrpc"
)

var rpcCF rpcClientFactoryInterface = &rpcClientFactory{}

type rpcClientFactoryInterface interface {
	NewClient(url string, transport http.RoundTripper) (rpcClient, error)
}

type rpcClient interface {
	Call(serviceMethod string, args any, reply any) error
	Close() error
}

// rpcClientFactory implements rpcClientFactoryInterface with XML-RPC over HTTP(S)
type rpcClientFactory struct{}

func (*rpcClientFactory) NewClient(url string, transport http.RoundTripper) (rpcClient, error) {
	c, err := xmlrpc.NewClient(url, transport)
	if err != nil {
		return nil, err
	}
	return c, nil
}
