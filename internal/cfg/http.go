package cfg

import "time"

// loginUpstreamCalls is the most sequential provider calls one login
// callback makes (token, profile, GitHub's email fallback).
const loginUpstreamCalls = 3

type HTTPServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func (l *Loader) loadHTTPServer() HTTPServerConfig {
	return HTTPServerConfig{
		Port:         l.getEnvWithDefault("HTTP_PORT", "8080"),
		ReadTimeout:  l.getEnvDurationOrDefault("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout: l.getEnvDurationOrDefault("HTTP_WRITE_TIMEOUT", 45*time.Second),
	}
}

// validateWriteTimeout keeps a worst-case login callback inside the
// server's write deadline.
func (l *Loader) validateWriteTimeout(server HTTPServerConfig, oauth OAuthConfig) {
	if server.WriteTimeout <= loginUpstreamCalls*oauth.HTTPTimeout {
		l.fail("HTTP_WRITE_TIMEOUT (%s) must exceed %d x OAUTH_HTTP_TIMEOUT (%s)",
			server.WriteTimeout, loginUpstreamCalls, oauth.HTTPTimeout)
	}
}
