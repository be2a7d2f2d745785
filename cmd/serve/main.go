package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/wtnb75/xrserve"
)

func realMain() error {
	port := flag.Int("port", 8000, "listen port")
	dir := flag.String("dir", ".", "serve directory")
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	flag.Parse()
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetLogLoggerLevel(level)
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	server := xrserve.New(xrserve.Config{Port: *port, Dir: *dir})
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
	xrserve.PrintBanner(os.Stdout, false, xrserve.OutboundIP(), server.Port())
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
