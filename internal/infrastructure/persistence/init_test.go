package persistence_test

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func init() {
	// Integration tests read DATABASE_URI from the repository's .env.
	paths := []string{
		"../../../.env", // From internal/infrastructure/persistence/ to the repo root
		"../../.env",
		".env",
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			if err := godotenv.Load(p); err == nil {
				logrus.Infof("📁 Loaded .env from %s for tests", p)
				return
			}
		}
	}

	logrus.Info("⚠️  No .env file found for tests - integration tests will be skipped")
}
