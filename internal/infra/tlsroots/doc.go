// Package tlsroots loads TLS material for the portal binaries.
//
// LoadPool and ClientConfig build client trust from the system roots plus
// an optional PEM bundle; portal-cli uses them for --ca-file.
// CertReloader keeps the server key pair current: it watches the
// certificate and key files with fsnotify and swaps the pair served by
// tls.Config.GetCertificate after each change, so certificates can be
// rotated without restarting portal-server.
package tlsroots
