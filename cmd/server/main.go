package main

import (
	"github.com/jmcordova/accounts-backend/app"
)

func main() {
	app.New(nil).Run()
}
