package ntfy

import "encoding/base64"

// Login is the credential sent in the authorization header: BasicAuth or TokenAuth.
type Login interface {
	authorization() string
}

// BasicAuth authenticates with a username and password.
type BasicAuth struct {
	Username string
	Password string
}

// TokenAuth authenticates with an access token.
type TokenAuth struct {
	Token string
}

// ntfy accepts unpadded base64 for basic credentials.
func (l BasicAuth) authorization() string {
	return "Basic " + base64.RawStdEncoding.EncodeToString([]byte(l.Username+":"+l.Password))
}

func (l TokenAuth) authorization() string {
	return "Bearer " + l.Token
}
