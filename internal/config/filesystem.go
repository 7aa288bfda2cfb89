package config

import "os"

var cfgFS fileSystem = &osFS{}

type fileSystem interface {
	ReadFile(name string) ([]byte, error)
	LookupEnv(key string) (string, bool)
}

// osFS implements fileSystem using the local disk and the process environment
type osFS struct{}

func (*osFS) ReadFile(n string) ([]byte, error) { return os.ReadFile(n) }
func (*osFS) LookupEnv(k string) (string, bool) { return os.LookupEnv(k) }
