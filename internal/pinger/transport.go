package pinger

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"syscall"
)

// ErrTransport matches every *TransportError.
var ErrTransport = errors.New("ping transport failure")

const (
	ReasonDNS               = "dns"
	ReasonTimeout           = "timeout"
	ReasonTLS               = "tls"
	ReasonConnectionRefused = "connection_refused"
	ReasonCanceled          = "canceled"
	ReasonTransport         = "transport"
)

// TransportError is a failure below the HTTP response level.
type TransportError struct {
	Reason string
	Err    error
}

func (e *TransportError) Error() string {
	return "ping " + e.Reason + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// Classify maps a client error onto one of the Reason values.
func Classify(err error) string {
	if errors.Is(err, context.Canceled) {
		return ReasonCanceled
	}

	var de *net.DNSError
	if errors.As(err, &de) {
		if de.IsTimeout {
			return ReasonTimeout
		}
		return ReasonDNS
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ReasonTimeout
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return ReasonConnectionRefused
	}

	var (
		rhe tls.RecordHeaderError
		cve *tls.CertificateVerificationError
		uae x509.UnknownAuthorityError
		hne x509.HostnameError
		cie x509.CertificateInvalidError
	)
	if errors.As(err, &rhe) || errors.As(err, &cve) || errors.As(err, &uae) ||
		errors.As(err, &hne) || errors.As(err, &cie) {
		return ReasonTLS
	}

	return ReasonTransport
}
