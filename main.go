package main

import (
	"appdriver/internal/bootstrap"
)

func main() {
	bootstrap.NewApp().Run()
}
