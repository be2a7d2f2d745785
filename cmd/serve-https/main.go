package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/buildkite/shellwords"
	"github.com/wtnb75/xrserve"
)

func realMain() error {
	port := flag.Int("port", 8000, "listen port")
	dir := flag.String("dir", ".", "serve directory")
	certFile := flag.String("cert", "cert.pem", "certificate file")
	keyFile := flag.String("key", "key.pem", "private key file")
	opensslCmd := flag.String("openssl", "", "openssl command to generate the certificate with")
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	flag.Parse()
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetLogLoggerLevel(level)
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	provider := xrserve.OpensslProvider{}
	if *opensslCmd != "" {
		cmd, err := shellwords.Split(*opensslCmd)
		if err != nil {
			slog.Error("parse openssl command", "cmd", *opensslCmd, "error", err)
			return err
		}
		provider.Openssl = cmd
	}
	if err := provider.Ensure(*certFile, *keyFile); err != nil {
		slog.Error("certificate provisioning failed", "error", err)
		fmt.Fprintln(os.Stderr, "Make sure OpenSSL is installed on your system:")
		fmt.Fprintln(os.Stderr, "  macOS: brew install openssl")
		fmt.Fprintln(os.Stderr, "  Linux: apt-get install openssl or yum install openssl")
		return err
	}

	server := xrserve.New(xrserve.Config{
		Port: *port,
		Dir:  *dir,
		TLS:  &xrserve.TLSConfig{CertFile: *certFile, KeyFile: *keyFile},
	})
	if err := server.Listen(); err != nil {
		slog.Error("listen error", "error", err)
		return err
	}
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		<-c
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Stop(ctx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()
	xrserve.PrintBanner(os.Stdout, true, xrserve.OutboundIP(), server.Port())
	if err := server.Serve(); err != nil {
		slog.Error("server error", "error", err)
		return err
	}
	fmt.Println("\nServer stopped.")
	return nil
}

func main() {
	if err := realMain(); err != nil {
		os.Exit(1)
	}
}
