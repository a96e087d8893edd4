package classify

import (
	"errors"
	"net"
	"strings"
)

// networkMarkers are lowercase substrings that identify transport failures,
// covering browser/axios wording and Go's net package wording.
var networkMarkers = []string{
	"network error",
	"failed to fetch",
	"err_network",
	"econnrefused",
	"econnreset",
	"etimedout",
	"connection refused",
	"connection reset",
	"no such host",
	"network is unreachable",
	"timeout",
	"deadline exceeded",
	"tls handshake",
}

func isNetworkMessage(msg string) bool {
	msg = strings.ToLower(msg)
	for _, marker := range networkMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return isNetworkMessage(err.Error())
}
