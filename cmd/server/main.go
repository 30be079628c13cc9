package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/campuslink/internal/server"
	"github.com/dmitrijs2005/campuslink/internal/server/config"
)

func main() {

	cfg := config.LoadConfig()
	app, err := server.NewApp(context.Background(), cfg)

	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

	os.Exit(app.Run())

}
