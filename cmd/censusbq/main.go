package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"censusbq/internal/app"
	"censusbq/internal/platform/logger"
)

func main() {
	if err := app.Execute(context.Background()); err != nil {
		var ue *app.UsageError
		if errors.As(err, &ue) {
			fmt.Println(ue.Msg)
			os.Exit(1)
		}
		logger.Get().Error().Err(err).Msg("censusbq failed")
		os.Exit(1)
	}
}
