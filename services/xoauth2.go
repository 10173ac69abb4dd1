// services/xoauth2.go
package services

import (
	"fmt"
	"net/smtp"
)

// xoauth2Auth implements the SASL XOAUTH2 mechanism used by consumer webmail
// SMTP submission endpoints. Neither x/oauth2 nor gomail ships one.
type xoauth2Auth struct {
	user  string
	token string
}

func XOAUTH2(user, token string) smtp.Auth {
	return &xoauth2Auth{user: user, token: token}
}

func (a *xoauth2Auth) Start(server *smtp.ServerInfo) (string, []byte, error) {
	if !server.TLS {
		return "", nil, fmt.Errorf("xoauth2 requires a TLS connection")
	}
	resp := []byte("user=" + a.user + "\x01auth=Bearer " + a.token + "\x01\x01")
	return "XOAUTH2", resp, nil
}

func (a *xoauth2Auth) Next(fromServer []byte, more bool) ([]byte, error) {
	if more {
		// The server pushes a base64 error blob on failure; an empty
		// response makes it finish with a proper SMTP error code.
		return []byte{}, nil
	}
	return nil, nil
}
