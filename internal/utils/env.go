package utils

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads a .env file from the working directory into the process
// environment. A missing file is not an error; deployments configure the
// environment directly.
func LoadEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load()
}
