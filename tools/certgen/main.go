// Package main generates the development CA and a server certificate signed
// by it, writing them under the output directory:
//
//	ca.crt, ca.key          certificate authority (pass ca.crt to subway --ca)
//	server.crt, server.key  server pair (pass to the server's -tls-cert/-tls-key)
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atinyakov/subwaymap/internal/certgen"
)

func main() {
	dir := flag.String("dir", "certs", "output directory")
	hosts := flag.String("hosts", "localhost,127.0.0.1", "comma-separated server host names and IPs")
	flag.Parse()

	if err := run(*dir, strings.Split(*hosts, ",")); err != nil {
		fmt.Fprintln(os.Stderr, "certgen:", err)
		os.Exit(1)
	}
	fmt.Printf("certificates generated into %s\n", *dir)
}

func run(dir string, hosts []string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	var cleaned []string
	for _, h := range hosts {
		if h = strings.TrimSpace(h); h != "" {
			cleaned = append(cleaned, h)
		}
	}

	ca, err := certgen.GenerateCA("subway dev CA")
	if err != nil {
		return err
	}
	if err := ca.Write(filepath.Join(dir, "ca.crt"), filepath.Join(dir, "ca.key")); err != nil {
		return err
	}

	server, err := certgen.GenerateServerCertificate(cleaned, ca)
	if err != nil {
		return err
	}
	return server.Write(filepath.Join(dir, "server.crt"), filepath.Join(dir, "server.key"))
}
