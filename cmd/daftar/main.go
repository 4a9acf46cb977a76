package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"daftar/internal/config"
	"daftar/internal/session"
	"daftar/internal/store"
	"daftar/internal/supabase"
	"daftar/internal/ui"
)

func main() {
	cfg, err := config.LoadOrCreate(config.ResolveConfigPath())
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, closeLog, err := openLogger(cfg.LogPath)
	if err != nil {
		fmt.Printf("failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	sessions, err := session.Open(cfg.SessionDBPath)
	if err != nil {
		fmt.Printf("failed to open session store: %v\n", err)
		os.Exit(1)
	}
	defer sessions.Close()

	client := supabase.New(cfg.BackendURL, cfg.AnonKey, log)

	// Mirror every auth transition into the local session store so the next
	// launch starts signed in.
	unsubscribe := client.OnAuthStateChange(func(ev supabase.AuthEvent) {
		switch ev {
		case supabase.AuthSignedIn:
			if sess, ok := client.Session(); ok {
				if err := sessions.Save(sess); err != nil {
					log.WithError(err).Warn("session save failed")
				}
			}
		case supabase.AuthSignedOut:
			if err := sessions.Clear(); err != nil {
				log.WithError(err).Warn("session clear failed")
			}
		}
	})
	defer unsubscribe()

	if sess, ok, err := sessions.Load(); err != nil {
		log.WithError(err).Warn("session load failed")
	} else if ok {
		if err := client.RestoreSession(sess); err != nil {
			log.WithError(err).Info("stored session rejected")
			if err := sessions.Clear(); err != nil {
				log.WithError(err).Warn("session clear failed")
			}
		}
	}

	tasks := store.New(client, log)

	if err := ui.Run(tasks, client, cfg, log); err != nil {
		fmt.Printf("error running program: %v\n", err)
		os.Exit(1)
	}
}

// openLogger writes JSON logs to a file; the terminal belongs to the UI.
func openLogger(path string) (*logrus.Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	log := logrus.New()
	log.SetOutput(f)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
	return log, func() { f.Close() }, nil
}
