package main

import (
	"os"

	"github.com/alantheprice/shield/cmd"
	"github.com/alantheprice/shield/pkg/utils"
)

func main() {
	logger := utils.GetLogger()
	defer func() {
		if err := logger.Close(); err != nil {
			os.Stderr.WriteString("Error closing logger: " + err.Error() + "\n")
		}
	}()

	if err := cmd.Execute(); err != nil {
		logger.Logf("Application error: %v", err)
		logger.Close()
		os.Exit(1)
	}
}
