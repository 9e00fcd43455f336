package commands

import "errors"

// ErrNetworkConnect marks a failure to bind or otherwise stand up the
// transport, distinguishing it (exit code 2) from a bad-usage error
// (exit code 1) in main.go.
var ErrNetworkConnect = errors.New("tangle: failed to start network transport")
