package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/temirov/argsmith/internal/cli"
	"github.com/temirov/argsmith/internal/utils"
)

// main is the entry point for the argsmith command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger(false)
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	defer func() { _ = loggerInstance.Sync() }()
	if applicationExecutionError := cli.Execute(loggerInstance); applicationExecutionError != nil {
		if errors.Is(applicationExecutionError, cli.ErrResolutionFailed) {
			_ = loggerInstance.Sync()
			os.Exit(1)
		}
		loggerInstance.Fatal(utils.ApplicationExecutionFailedMessage + ": " + applicationExecutionError.Error())
	}
}
