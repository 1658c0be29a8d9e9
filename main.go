package main

import (
	_ "github.com/joho/godotenv/autoload"
	"github.com/starshine-sys/nbot/cmd"
	"github.com/starshine-sys/nbot/common/log"
)

func main() {
	err := cmd.Run()
	if err != nil {
		log.Fatal(err)
	}
}
