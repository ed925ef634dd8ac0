package main

import (
	"log"
	"os"

	"lsbacktest/cmd"
	"lsbacktest/internal/logger"
)

func main() {
	lg := logger.New()
	defer lg.Sync()

	lg.Infow("starting api", "commitHash", os.Getenv("commit_hash"))
	apiHandler, err := cmd.InitializeDependencies()
	if err != nil {
		log.Fatal(err)
	}
	defer cmd.CloseDependencies(apiHandler)

	err = apiHandler.StartApi(apiHandler.Config.ApiPort)
	if err != nil {
		log.Fatal(err)
	}
}
