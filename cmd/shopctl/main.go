package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/storefront/internal/shopctl"
)

func main() {
	app := shopctl.NewApp(os.Stdout)
	os.Exit(app.Run(context.Background(), os.Args[1:]))
}
